// Package testdb provides database fixtures for tests.
//
// OpenSQLite returns a migrated SQLite database in a per-test temporary
// directory and needs nothing outside the module, so the behavioral suites
// for stores, services and handlers use it by default.
//
// The PostgreSQL helpers are compiled only with the integration build tag
// and skip the test when no database URL is configured:
//
//	func TestToggleConcurrency(t *testing.T) {
//	    db := testdb.GetTestDBWithT(t)
//	    testdb.ResetTables(t, db)
//	    ...
//	}
//
// # Environment Variables
//
// - DATABASE_URL: Primary PostgreSQL connection string
// - TODO_TEST_DB_URL: Alternative connection string
package testdb
