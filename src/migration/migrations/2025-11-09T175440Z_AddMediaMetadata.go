package migrations

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/mediavault/mediavault/src/migration/types"
)

func init() {
	registerMigration(AddMediaMetadata{})
}

type AddMediaMetadata struct{}

func (m AddMediaMetadata) Version() types.MigrationVersion {
	return types.MigrationVersion(time.Date(2025, 11, 9, 17, 54, 40, 0, time.UTC))
}

func (m AddMediaMetadata) Name() string {
	return "AddMediaMetadata"
}

func (m AddMediaMetadata) Description() string {
	return "Add per-kind metadata tables for images, videos and audio"
}

func (m AddMediaMetadata) Up(ctx context.Context, tx pgx.Tx) error {
	_, err := tx.Exec(ctx, `
		CREATE TABLE image_metadata (
			media_id INT NOT NULL PRIMARY KEY REFERENCES media (id) ON DELETE CASCADE,
			width INT NOT NULL DEFAULT 0,
			height INT NOT NULL DEFAULT 0,
			color_depth INT NOT NULL DEFAULT 0,
			dpi_x INT NOT NULL DEFAULT 0,
			dpi_y INT NOT NULL DEFAULT 0,
			exif JSONB,
			main_thumbnail_id INT REFERENCES thumbnails (id) ON DELETE SET NULL
		);

		CREATE TABLE video_metadata (
			media_id INT NOT NULL PRIMARY KEY REFERENCES media (id) ON DELETE CASCADE,
			duration_seconds DOUBLE PRECISION NOT NULL DEFAULT 0,
			width INT NOT NULL DEFAULT 0,
			height INT NOT NULL DEFAULT 0,
			frame_rate DOUBLE PRECISION NOT NULL DEFAULT 0,
			video_codec VARCHAR(50) NOT NULL DEFAULT '',
			audio_codec VARCHAR(50) NOT NULL DEFAULT '',
			bitrate BIGINT NOT NULL DEFAULT 0,
			main_thumbnail_id INT REFERENCES thumbnails (id) ON DELETE SET NULL
		);

		CREATE TABLE audio_metadata (
			media_id INT NOT NULL PRIMARY KEY REFERENCES media (id) ON DELETE CASCADE,
			duration_seconds DOUBLE PRECISION NOT NULL DEFAULT 0,
			bitrate BIGINT NOT NULL DEFAULT 0,
			sample_rate INT NOT NULL DEFAULT 0,
			channels INT NOT NULL DEFAULT 0
		);
	`)
	return err
}

func (m AddMediaMetadata) Down(ctx context.Context, tx pgx.Tx) error {
	_, err := tx.Exec(ctx, `
		DROP TABLE audio_metadata;
		DROP TABLE video_metadata;
		DROP TABLE image_metadata;
	`)
	return err
}
