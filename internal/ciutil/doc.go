// Package ciutil detects CI environments and resolves the environment
// variables that test tooling reads, so integration tests behave the same on
// a laptop and in a pipeline.
package ciutil
