package media

import (
	"context"

	"github.com/mediavault/mediavault/src/db"
	"github.com/mediavault/mediavault/src/logging"
	"github.com/mediavault/mediavault/src/models"
	"github.com/mediavault/mediavault/src/oops"
	"github.com/mediavault/mediavault/src/storage"
)

// GetMedia fetches one media row by id. Returns db.NotFound if it does not
// exist.
func GetMedia(ctx context.Context, conn db.ConnOrTx, mediaID int) (*models.Media, error) {
	return db.QueryOne[models.Media](ctx, conn,
		`
		---- Fetch media by id
		SELECT $columns
		FROM media
		WHERE id = $1
		`,
		mediaID,
	)
}

type ListMediaQuery struct {
	// Restricts results to media visible to this user: their own uploads
	// plus anything public. Zero means anonymous, public only.
	ViewerID int

	// Case-insensitive substring match on filename and description.
	Search string

	// Filter by kind. Nil means all kinds.
	Kinds []models.MediaKind

	Limit  int
	Offset int
}

// ListMedia returns media matching the query, newest first.
func ListMedia(ctx context.Context, conn db.ConnOrTx, q ListMediaQuery) ([]*models.Media, error) {
	var qb db.QueryBuilder
	qb.Add(
		`
		---- List media
		SELECT $columns
		FROM media
		WHERE (is_public OR owner_id = $?)
		`,
		q.ViewerID,
	)
	if q.Search != "" {
		qb.Add(`AND (filename ILIKE $? OR description ILIKE $?)`, "%"+q.Search+"%", "%"+q.Search+"%")
	}
	if len(q.Kinds) > 0 {
		kindInts := make([]int, len(q.Kinds))
		for i, k := range q.Kinds {
			kindInts[i] = int(k)
		}
		qb.Add(`AND kind = ANY ($?)`, kindInts)
	}
	qb.Add(`ORDER BY created_at DESC`)
	if q.Limit > 0 {
		qb.Add(`LIMIT $? OFFSET $?`, q.Limit, q.Offset)
	}

	return db.Query[models.Media](ctx, conn, qb.String(), qb.Args()...)
}

// ListThumbnails returns all thumbnails of one media item, newest first.
func ListThumbnails(ctx context.Context, conn db.ConnOrTx, mediaID int) ([]*models.Thumbnail, error) {
	return db.Query[models.Thumbnail](ctx, conn,
		`
		---- List thumbnails
		SELECT $columns
		FROM thumbnails
		WHERE media_id = $1
		ORDER BY created_at DESC
		`,
		mediaID,
	)
}

// MainThumbnail picks the thumbnail to show in listings: the "listing"
// purpose one if present, otherwise the most recent of any purpose. Returns
// nil when the media has no thumbnails at all.
func MainThumbnail(ctx context.Context, conn db.ConnOrTx, mediaID int) (*models.Thumbnail, error) {
	thumbnails, err := ListThumbnails(ctx, conn, mediaID)
	if err != nil {
		return nil, err
	}
	if len(thumbnails) == 0 {
		return nil, nil
	}
	for _, t := range thumbnails {
		if t.Purpose == "listing" {
			return t, nil
		}
	}
	return thumbnails[0], nil
}

// GetImageMetadata returns the image metadata row, or db.NotFound.
func GetImageMetadata(ctx context.Context, conn db.ConnOrTx, mediaID int) (*models.ImageMetadata, error) {
	return db.QueryOne[models.ImageMetadata](ctx, conn,
		`SELECT $columns FROM image_metadata WHERE media_id = $1`,
		mediaID,
	)
}

// GetVideoMetadata returns the video metadata row, or db.NotFound.
func GetVideoMetadata(ctx context.Context, conn db.ConnOrTx, mediaID int) (*models.VideoMetadata, error) {
	return db.QueryOne[models.VideoMetadata](ctx, conn,
		`SELECT $columns FROM video_metadata WHERE media_id = $1`,
		mediaID,
	)
}

// GetAudioMetadata returns the audio metadata row, or db.NotFound.
func GetAudioMetadata(ctx context.Context, conn db.ConnOrTx, mediaID int) (*models.AudioMetadata, error) {
	return db.QueryOne[models.AudioMetadata](ctx, conn,
		`SELECT $columns FROM audio_metadata WHERE media_id = $1`,
		mediaID,
	)
}

// ListTags returns the tag names on one media item.
func ListTags(ctx context.Context, conn db.ConnOrTx, mediaID int) ([]string, error) {
	return db.QueryScalar[string](ctx, conn,
		`
		---- List tags for media
		SELECT tags.name
		FROM tags
		JOIN media_tags ON media_tags.tag_id = tags.id
		WHERE media_tags.media_id = $1
		ORDER BY tags.name
		`,
		mediaID,
	)
}

// DeleteMedia removes the media row (metadata and thumbnails cascade with it)
// and then clears the object store. Object deletions are best-effort: a
// leftover object is an accepted cost, a dangling database row is not, so the
// row goes only after we have collected every key to delete.
func DeleteMedia(ctx context.Context, conn db.ConnOrTx, store storage.Store, mediaID int) error {
	media, err := GetMedia(ctx, conn, mediaID)
	if err != nil {
		return err
	}

	keys := []string{media.S3Key}

	thumbnails, err := ListThumbnails(ctx, conn, mediaID)
	if err != nil {
		return err
	}
	for _, t := range thumbnails {
		keys = append(keys, t.S3Key)
	}

	renditionKeys, err := db.QueryScalar[string](ctx, conn,
		`SELECT s3_key FROM video_renditions WHERE media_id = $1`,
		mediaID,
	)
	if err != nil {
		return err
	}
	keys = append(keys, renditionKeys...)

	_, err = conn.Exec(ctx, `DELETE FROM media WHERE id = $1`, mediaID)
	if err != nil {
		return oops.New(err, "failed to delete media record")
	}

	for _, key := range keys {
		err := store.Delete(ctx, key)
		if err != nil {
			logging.Warn().Err(err).Str("key", key).Msg("failed to delete object for removed media")
		}
	}

	return nil
}
