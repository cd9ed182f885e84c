package migrations

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/mediavault/mediavault/src/migration/types"
)

func init() {
	registerMigration(CreateMedia{})
}

type CreateMedia struct{}

func (m CreateMedia) Version() types.MigrationVersion {
	return types.MigrationVersion(time.Date(2025, 11, 6, 3, 2, 12, 0, time.UTC))
}

func (m CreateMedia) Name() string {
	return "CreateMedia"
}

func (m CreateMedia) Description() string {
	return "Create the media and thumbnails tables"
}

func (m CreateMedia) Up(ctx context.Context, tx pgx.Tx) error {
	_, err := tx.Exec(ctx, `
		CREATE TABLE media (
			id SERIAL NOT NULL PRIMARY KEY,
			owner_id INT REFERENCES users (id) ON DELETE SET NULL,
			kind INT NOT NULL,
			filename VARCHAR(255) NOT NULL,
			s3_key VARCHAR(2000) NOT NULL UNIQUE,
			mime_type VARCHAR(100) NOT NULL,
			size BIGINT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			is_public BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
			uploaded_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
		);
		CREATE INDEX media_owner_id ON media (owner_id);
		CREATE INDEX media_kind ON media (kind);

		CREATE TABLE thumbnails (
			id SERIAL NOT NULL PRIMARY KEY,
			media_id INT NOT NULL REFERENCES media (id) ON DELETE CASCADE,
			s3_key VARCHAR(2000) NOT NULL,
			width INT NOT NULL DEFAULT 0,
			height INT NOT NULL DEFAULT 0,
			size BIGINT NOT NULL DEFAULT 0,
			purpose VARCHAR(50) NOT NULL DEFAULT '',
			created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
		);
		CREATE INDEX thumbnails_media_id ON thumbnails (media_id);
	`)
	return err
}

func (m CreateMedia) Down(ctx context.Context, tx pgx.Tx) error {
	_, err := tx.Exec(ctx, `
		DROP TABLE thumbnails;
		DROP TABLE media;
	`)
	return err
}
