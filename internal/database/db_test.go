package database

import (
	"testing"

	"github.com/qaops/test-manager/internal/config"
)

func TestDSN(t *testing.T) {
	cfg := config.Config{
		DBUser: "tm", DBPass: "s3cret",
		DBHost: "db.internal", DBPort: "3306", DBName: "test_manager",
	}
	want := "tm:s3cret@tcp(db.internal:3306)/test_manager?charset=utf8mb4&parseTime=true&loc=UTC"
	if got := DSN(cfg); got != want {
		t.Errorf("DSN = %q, want %q", got, want)
	}
}

func TestDSNOmitsEmptyPassword(t *testing.T) {
	cfg := config.Config{
		DBUser: "tm",
		DBHost: "localhost", DBPort: "3306", DBName: "test_manager",
	}
	want := "tm@tcp(localhost:3306)/test_manager?charset=utf8mb4&parseTime=true&loc=UTC"
	if got := DSN(cfg); got != want {
		t.Errorf("DSN = %q, want %q", got, want)
	}
}
