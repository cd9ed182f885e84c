package migrations

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/mediavault/mediavault/src/migration/types"
)

func init() {
	registerMigration(AddTags{})
}

type AddTags struct{}

func (m AddTags) Version() types.MigrationVersion {
	return types.MigrationVersion(time.Date(2025, 12, 15, 19, 3, 58, 0, time.UTC))
}

func (m AddTags) Name() string {
	return "AddTags"
}

func (m AddTags) Description() string {
	return "Add tags and the media-tag join table"
}

func (m AddTags) Up(ctx context.Context, tx pgx.Tx) error {
	_, err := tx.Exec(ctx, `
		CREATE TABLE tags (
			id SERIAL NOT NULL PRIMARY KEY,
			name VARCHAR(30) NOT NULL UNIQUE
		);

		CREATE TABLE media_tags (
			media_id INT NOT NULL REFERENCES media (id) ON DELETE CASCADE,
			tag_id INT NOT NULL REFERENCES tags (id) ON DELETE CASCADE,
			PRIMARY KEY (media_id, tag_id)
		);
	`)
	return err
}

func (m AddTags) Down(ctx context.Context, tx pgx.Tx) error {
	_, err := tx.Exec(ctx, `
		DROP TABLE media_tags;
		DROP TABLE tags;
	`)
	return err
}
