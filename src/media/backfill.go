package media

import (
	"bytes"
	"image"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mediavault/mediavault/src/db"
	"github.com/mediavault/mediavault/src/jobs"
	"github.com/mediavault/mediavault/src/models"
	"github.com/mediavault/mediavault/src/oops"
	"github.com/mediavault/mediavault/src/storage"
	"github.com/mediavault/mediavault/src/utils"
)

// BackgroundThumbnailBackfill finds image and video media that have no
// thumbnail yet and generates one for each. Runs once at startup; items that
// fail are retried on the next run.
func BackgroundThumbnailBackfill(conn *pgxpool.Pool, store storage.Store) *jobs.Job {
	job := jobs.New("thumbnail backfill")

	go func() {
		defer job.Finish()
		err := func() (err error) {
			defer utils.RecoverPanicAsError(&err)
			return backfillThumbnails(job, conn, store)
		}()
		if err != nil {
			job.Logger.Error().Err(err).Msg("Thumbnail backfill job failed")
		}
	}()

	return job
}

func backfillThumbnails(job *jobs.Job, conn *pgxpool.Pool, store storage.Store) error {
	ctx := job.Ctx

	items, err := db.Query[models.Media](ctx, conn,
		`
		---- Media missing thumbnails
		SELECT $columns{media}
		FROM media
		LEFT JOIN thumbnails ON thumbnails.media_id = media.id
		WHERE
			media.kind = ANY ($1)
			AND thumbnails.id IS NULL
		`,
		[]int{int(models.MediaKindImage), int(models.MediaKindVideo)},
	)
	if err != nil {
		return oops.New(err, "failed to fetch media missing thumbnails")
	}

	job.Logger.Debug().Int("num media", len(items)).Msg("Backfilling thumbnails")

	for _, item := range items {
		select {
		case <-job.Canceled():
			return nil
		default:
		}

		content, err := store.Get(ctx, item.S3Key)
		if err != nil {
			job.Logger.Error().Err(err).Int("media", item.ID).Msg("Failed to fetch original for thumbnail backfill")
			continue
		}

		var thumbBytes []byte
		var thumbWidth, thumbHeight int
		var thumbContentType, purpose, ext string
		switch item.Kind {
		case models.MediaKindImage:
			thumbBytes, thumbWidth, thumbHeight, thumbContentType, err = GenerateImageThumbnail(content)
			if err != nil {
				job.Logger.Error().Err(err).Int("media", item.ID).Msg("Failed to generate thumbnail")
				continue
			}
			purpose = "listing"
			ext = "jpg"
			if thumbContentType == "image/png" {
				ext = "png"
			}
		case models.MediaKindVideo:
			thumbBytes = GenerateVideoThumbnail(ctx, content, 1.0)
			if thumbBytes == nil {
				continue
			}
			if cfg, _, err := image.DecodeConfig(bytes.NewReader(thumbBytes)); err == nil {
				thumbWidth, thumbHeight = cfg.Width, cfg.Height
			}
			thumbContentType = "image/jpeg"
			purpose = "video-frame"
			ext = "jpg"
		default:
			continue
		}

		key := derivativeKey(item.S3Key, "thumbnails", "", ext)
		thumbID, err := saveThumbnail(ctx, conn, store, item.ID, key, thumbContentType, thumbBytes, thumbWidth, thumbHeight, purpose)
		if err != nil {
			job.Logger.Error().Err(err).Int("media", item.ID).Msg("Failed to save backfilled thumbnail")
			continue
		}

		metadataTable := "image_metadata"
		if item.Kind == models.MediaKindVideo {
			metadataTable = "video_metadata"
		}
		_, err = conn.Exec(ctx,
			`UPDATE `+metadataTable+` SET main_thumbnail_id = $1 WHERE media_id = $2 AND main_thumbnail_id IS NULL`,
			thumbID, item.ID,
		)
		if err != nil {
			job.Logger.Error().Err(err).Int("media", item.ID).Msg("Failed to link backfilled thumbnail")
		}

		job.Logger.Debug().Int("media", item.ID).Msg("Backfilled thumbnail")
	}

	return nil
}
