package connection

import (
	"context"
	"testing"

	_ "github.com/go-sql-driver/mysql"
)

func TestOpen_InvalidDSN(t *testing.T) {
	if _, err := Open(context.Background(), "not-a-dsn"); err == nil {
		t.Error("expected an error for an unparseable DSN")
	}
}
