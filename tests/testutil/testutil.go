package testutil

import (
	"fmt"
	"os"
	"testing"
)

// RequireTestEnvironment fails the test unless GO_ENV is "test". This keeps
// suites that wipe tables from ever running against a development or
// production database.
func RequireTestEnvironment(t *testing.T) {
	t.Helper()

	env := os.Getenv("GO_ENV")
	if env != "test" {
		t.Fatalf("SAFETY CHECK FAILED: tests must run with GO_ENV=test. Current GO_ENV=%q.", env)
	}
}

// RequireTestEnvironmentOrSkip skips the test instead of failing it when
// GO_ENV is not "test".
func RequireTestEnvironmentOrSkip(t *testing.T) {
	t.Helper()

	env := os.Getenv("GO_ENV")
	if env != "test" {
		t.Skipf("Skipping test: GO_ENV must be 'test' (current: %q)", env)
	}
}

// MustSetTestEnvironment forces GO_ENV=test. Use in TestMain or suite setup.
func MustSetTestEnvironment(t *testing.T) {
	t.Helper()

	if err := os.Setenv("GO_ENV", "test"); err != nil {
		t.Fatalf("Failed to set GO_ENV=test: %v", err)
	}
}

// PrintEnvironmentInfo dumps the test-relevant environment for debugging.
func PrintEnvironmentInfo() {
	fmt.Printf("Test Environment Info:\n")
	fmt.Printf("  GO_ENV: %s\n", os.Getenv("GO_ENV"))
	fmt.Printf("  DATABASE_URL set: %t\n", os.Getenv("DATABASE_URL") != "")
	fmt.Printf("  PORT: %s\n", os.Getenv("PORT"))
}
