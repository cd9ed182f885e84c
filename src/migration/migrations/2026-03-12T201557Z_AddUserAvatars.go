package migrations

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/mediavault/mediavault/src/migration/types"
)

func init() {
	registerMigration(AddUserAvatars{})
}

type AddUserAvatars struct{}

func (m AddUserAvatars) Version() types.MigrationVersion {
	return types.MigrationVersion(time.Date(2026, 3, 12, 20, 15, 57, 0, time.UTC))
}

func (m AddUserAvatars) Name() string {
	return "AddUserAvatars"
}

func (m AddUserAvatars) Description() string {
	return "Store an avatar image key on users"
}

func (m AddUserAvatars) Up(ctx context.Context, tx pgx.Tx) error {
	_, err := tx.Exec(ctx, `
		ALTER TABLE users ADD COLUMN avatar_s3_key VARCHAR(2000);
	`)
	return err
}

func (m AddUserAvatars) Down(ctx context.Context, tx pgx.Tx) error {
	_, err := tx.Exec(ctx, `
		ALTER TABLE users DROP COLUMN avatar_s3_key;
	`)
	return err
}
