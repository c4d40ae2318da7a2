package testdb

import "os"

// databaseURLEnvVars lists the variables consulted for a PostgreSQL URL, in order.
var databaseURLEnvVars = []string{"DATABASE_URL", "TODO_TEST_DB_URL"}

// GetTestDatabaseURL returns the first non-empty PostgreSQL URL from the environment.
func GetTestDatabaseURL() string {
	for _, name := range databaseURLEnvVars {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

// IsIntegrationTestEnvironment returns true if a PostgreSQL URL is configured.
func IsIntegrationTestEnvironment() bool {
	return GetTestDatabaseURL() != ""
}

// ShouldSkipDatabaseTest returns true if PostgreSQL tests cannot run here.
func ShouldSkipDatabaseTest() bool {
	return !IsIntegrationTestEnvironment()
}
