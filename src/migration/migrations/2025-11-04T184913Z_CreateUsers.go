package migrations

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/mediavault/mediavault/src/migration/types"
)

func init() {
	registerMigration(CreateUsers{})
}

type CreateUsers struct{}

func (m CreateUsers) Version() types.MigrationVersion {
	return types.MigrationVersion(time.Date(2025, 11, 4, 18, 49, 13, 0, time.UTC))
}

func (m CreateUsers) Name() string {
	return "CreateUsers"
}

func (m CreateUsers) Description() string {
	return "Create the users table"
}

func (m CreateUsers) Up(ctx context.Context, tx pgx.Tx) error {
	_, err := tx.Exec(ctx, `
		CREATE TABLE users (
			id SERIAL NOT NULL PRIMARY KEY,
			email VARCHAR(255) NOT NULL UNIQUE,
			password VARCHAR(250) NOT NULL,
			name VARCHAR(255) NOT NULL DEFAULT '',
			username VARCHAR(150) NOT NULL UNIQUE,
			bio TEXT NOT NULL DEFAULT '',
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
		);
	`)
	return err
}

func (m CreateUsers) Down(ctx context.Context, tx pgx.Tx) error {
	_, err := tx.Exec(ctx, `
		DROP TABLE users;
	`)
	return err
}
