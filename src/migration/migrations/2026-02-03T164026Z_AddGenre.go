package migrations

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/mediavault/mediavault/src/migration/types"
)

func init() {
	registerMigration(AddGenre{})
}

type AddGenre struct{}

func (m AddGenre) Version() types.MigrationVersion {
	return types.MigrationVersion(time.Date(2026, 2, 3, 16, 40, 26, 0, time.UTC))
}

func (m AddGenre) Name() string {
	return "AddGenre"
}

func (m AddGenre) Description() string {
	return "Add the genre column to video and audio metadata"
}

func (m AddGenre) Up(ctx context.Context, tx pgx.Tx) error {
	_, err := tx.Exec(ctx, `
		ALTER TABLE video_metadata ADD COLUMN genero VARCHAR(100);
		ALTER TABLE audio_metadata ADD COLUMN genero VARCHAR(100);
	`)
	return err
}

func (m AddGenre) Down(ctx context.Context, tx pgx.Tx) error {
	_, err := tx.Exec(ctx, `
		ALTER TABLE video_metadata DROP COLUMN genero;
		ALTER TABLE audio_metadata DROP COLUMN genero;
	`)
	return err
}
