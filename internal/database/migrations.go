package database

import (
	"context"
	_ "embed"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed migrations/001_init_schema.sql
var schemaSQL string

// sentinelTable marks whether the schema has been applied. The accounts
// mirror is created by the same statement batch as every other table, so
// its presence implies the full schema is in place.
const sentinelTable = "accounts"

// RunMigrations applies the embedded schema on first boot. The whole schema
// ships as a single statement batch; pgx runs it in one implicit
// transaction, so a failed bootstrap leaves the database untouched.
func RunMigrations(db *pgxpool.Pool) error {
	ctx := context.Background()

	applied, err := schemaApplied(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to inspect schema state: %w", err)
	}
	if applied {
		log.Printf("[OK] Schema present (%s table found), skipping bootstrap", sentinelTable)
		return nil
	}

	log.Println("Empty database, applying schema...")
	if _, err := db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}

	log.Println("[OK] Schema applied")
	return nil
}

func schemaApplied(ctx context.Context, db *pgxpool.Pool) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM information_schema.tables
			WHERE table_schema = current_schema() AND table_name = $1
		)
	`

	var exists bool
	if err := db.QueryRow(ctx, query, sentinelTable).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
