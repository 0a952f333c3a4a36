// Package testdb provides utilities for database integration tests.
//
// Each test runs in its own transaction, which is rolled back when the test
// completes, so tests can share one database without cleaning up after
// themselves:
//
//	func TestListingStore(t *testing.T) {
//	    db := testdb.GetTestDBWithT(t) // skips when no database is configured
//
//	    testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//	        owner := testdb.CreateTestUser(t, tx)
//	        listings := postgres.NewPostgresListingStore(tx, nil)
//	        // ...
//	    })
//	}
//
// The connection string is read from DATABASE_URL, falling back to
// CLASSIFIEDS_TEST_DB_URL. The embedded goose migrations are applied once per
// test binary.
package testdb
