package migrations

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/mediavault/mediavault/src/migration/types"
)

func init() {
	registerMigration(AddVideoRenditions{})
}

type AddVideoRenditions struct{}

func (m AddVideoRenditions) Version() types.MigrationVersion {
	return types.MigrationVersion(time.Date(2025, 11, 21, 22, 31, 4, 0, time.UTC))
}

func (m AddVideoRenditions) Name() string {
	return "AddVideoRenditions"
}

func (m AddVideoRenditions) Description() string {
	return "Track transcoded video renditions, with per-resolution keys on video_metadata"
}

func (m AddVideoRenditions) Up(ctx context.Context, tx pgx.Tx) error {
	_, err := tx.Exec(ctx, `
		CREATE TABLE video_renditions (
			id SERIAL NOT NULL PRIMARY KEY,
			media_id INT NOT NULL REFERENCES media (id) ON DELETE CASCADE,
			resolution VARCHAR(20) NOT NULL,
			width INT NOT NULL DEFAULT 0,
			height INT NOT NULL DEFAULT 0,
			bitrate BIGINT NOT NULL DEFAULT 0,
			s3_key VARCHAR(2000) NOT NULL,
			is_default BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
		);
		CREATE INDEX video_renditions_media_id ON video_renditions (media_id);

		ALTER TABLE video_metadata
			ADD COLUMN url_1080 VARCHAR(2000),
			ADD COLUMN url_720 VARCHAR(2000),
			ADD COLUMN url_480 VARCHAR(2000);
	`)
	return err
}

func (m AddVideoRenditions) Down(ctx context.Context, tx pgx.Tx) error {
	_, err := tx.Exec(ctx, `
		ALTER TABLE video_metadata
			DROP COLUMN url_1080,
			DROP COLUMN url_720,
			DROP COLUMN url_480;
		DROP TABLE video_renditions;
	`)
	return err
}
