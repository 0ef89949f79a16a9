// Checks one query against a live MySQL database. Set QUERYLINT_DSN to a
// DSN with a default schema, e.g. root:root@tcp(127.0.0.1:3306)/test.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	_ "github.com/go-sql-driver/mysql"

	"github.com/querylint/querylint/pkg/check"
	"github.com/querylint/querylint/pkg/config"
	"github.com/querylint/querylint/pkg/connection"
	"github.com/querylint/querylint/pkg/metadata"
	"github.com/querylint/querylint/pkg/render"
)

func main() {
	dsn := os.Getenv("QUERYLINT_DSN")
	if dsn == "" {
		dsn = "root:root@tcp(127.0.0.1:3306)/test?parseTime=true"
	}

	ctx := context.Background()
	mgr, err := connection.Open(ctx, dsn)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer func() { _ = mgr.Close() }()

	schema, err := mgr.DatabaseName(ctx)
	if err != nil {
		log.Fatalf("schema: %v", err)
	}

	checker, err := check.NewChecker(metadata.NewProvider(mgr, schema), config.DefaultMarkerImport, config.DefaultCacheSize)
	if err != nil {
		log.Fatalf("checker: %v", err)
	}

	result, err := checker.Check(ctx, check.Request{
		SQL:    "SELECT id, status FROM users",
		Format: render.Format{Shape: render.ShapeWrapped, Marker: config.DefaultMarker, Array: true},
	})
	if err != nil {
		log.Fatalf("check: %v", err)
	}
	if result.Skipped {
		fmt.Println("skipped:", result.SkipReason)
		return
	}
	fmt.Println(result.Rendered)
}
