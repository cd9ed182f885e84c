package media

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"image"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/mediavault/mediavault/src/config"
	"github.com/mediavault/mediavault/src/db"
	"github.com/mediavault/mediavault/src/logging"
	"github.com/mediavault/mediavault/src/models"
	"github.com/mediavault/mediavault/src/oops"
	"github.com/mediavault/mediavault/src/storage"
)

type IngestInput struct {
	OwnerID  int
	Filename string
	Content  []byte

	// Declared MIME type. When empty, the type is sniffed from the content.
	ContentType string

	// Optional params
	Description string
	IsPublic    bool
	Tags        []string
	Genre       string
}

// InvalidMediaError indicates the upload itself was unacceptable, as opposed
// to an infrastructure failure.
type InvalidMediaError struct {
	msg string
}

func (e InvalidMediaError) Error() string {
	return e.msg
}

// IngestImage runs the full ingestion pipeline for an image upload.
func IngestImage(ctx context.Context, conn db.ConnOrTx, store storage.Store, in IngestInput) (*models.Media, error) {
	media, err := ingestOriginal(ctx, conn, store, in, models.MediaKindImage)
	if err != nil {
		return nil, err
	}

	// Everything from here on is best-effort enrichment. The original is
	// durable and the media row exists; missing derivatives just leave
	// fields unset.
	probe := ProbeImage(in.Content)

	var mainThumbnailID *int
	thumbBytes, thumbWidth, thumbHeight, thumbContentType, err := GenerateImageThumbnail(in.Content)
	if err != nil {
		logging.Warn().Err(err).Int("media", media.ID).Msg("failed to generate image thumbnail")
	} else {
		thumbExt := "jpg"
		if thumbContentType == "image/png" {
			thumbExt = "png"
		}
		thumbKey := derivativeKey(media.S3Key, "thumbnails", "", thumbExt)
		id, err := saveThumbnail(ctx, conn, store, media.ID, thumbKey, thumbContentType, thumbBytes, thumbWidth, thumbHeight, "listing")
		if err != nil {
			logging.Warn().Err(err).Int("media", media.ID).Msg("failed to save image thumbnail")
		} else {
			mainThumbnailID = &id
		}
	}

	var exifJson []byte
	if probe.Exif != nil {
		exifJson, _ = json.Marshal(probe.Exif)
	}

	_, err = conn.Exec(ctx,
		`
		INSERT INTO image_metadata (media_id, width, height, color_depth, dpi_x, dpi_y, exif, main_thumbnail_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`,
		media.ID,
		probe.Width, probe.Height,
		probe.ColorDepth,
		probe.DpiX, probe.DpiY,
		exifJson,
		mainThumbnailID,
	)
	if err != nil {
		return nil, oops.New(err, "failed to save image metadata")
	}

	return media, nil
}

// IngestVideo runs the full ingestion pipeline for a video upload: probe,
// thumbnail, then the renditions, each independently best-effort.
func IngestVideo(ctx context.Context, conn db.ConnOrTx, store storage.Store, in IngestInput) (*models.Media, error) {
	media, err := ingestOriginal(ctx, conn, store, in, models.MediaKindVideo)
	if err != nil {
		return nil, err
	}

	probe := ProbeVideo(ctx, in.Content)

	var mainThumbnailID *int
	thumbBytes := GenerateVideoThumbnail(ctx, in.Content, 1.0)
	if thumbBytes != nil {
		thumbWidth, thumbHeight := 0, 0
		if cfg, _, err := image.DecodeConfig(bytes.NewReader(thumbBytes)); err == nil {
			thumbWidth, thumbHeight = cfg.Width, cfg.Height
		}
		thumbKey := derivativeKey(media.S3Key, "thumbnails", "", "jpg")
		id, err := saveThumbnail(ctx, conn, store, media.ID, thumbKey, "image/jpeg", thumbBytes, thumbWidth, thumbHeight, "video-frame")
		if err != nil {
			logging.Warn().Err(err).Int("media", media.ID).Msg("failed to save video thumbnail")
		} else {
			mainThumbnailID = &id
		}
	}

	renditionKeys := make(map[int]*string)
	for _, height := range config.Config.Media.RenditionHeights {
		renditionBytes := GenerateRendition(ctx, in.Content, height, "")
		if renditionBytes == nil {
			continue
		}

		key := derivativeKey(media.S3Key, "renditions", fmt.Sprintf("_%dp", height), "mp4")
		err := store.Put(ctx, key, "video/mp4", renditionBytes)
		if err != nil {
			logging.Warn().Err(err).Int("media", media.ID).Int("height", height).Msg("failed to upload rendition")
			continue
		}

		_, err = conn.Exec(ctx,
			`
			INSERT INTO video_renditions (media_id, resolution, height, bitrate, s3_key, is_default, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			`,
			media.ID,
			fmt.Sprintf("%dp", height),
			height,
			parseBitrate(renditionBitrates[height]),
			key,
			height == 720,
			time.Now(),
		)
		if err != nil {
			logging.Warn().Err(err).Int("media", media.ID).Int("height", height).Msg("failed to save rendition record")
		}

		keyCopy := key
		renditionKeys[height] = &keyCopy
	}

	var genre *string
	if in.Genre != "" {
		genre = &in.Genre
	}

	_, err = conn.Exec(ctx,
		`
		INSERT INTO video_metadata (media_id, duration_seconds, width, height, frame_rate, video_codec, audio_codec, bitrate, main_thumbnail_id, url_1080, url_720, url_480, genero)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		`,
		media.ID,
		probe.DurationSeconds,
		probe.Width, probe.Height,
		probe.FrameRate,
		probe.VideoCodec,
		probe.AudioCodec,
		probe.Bitrate,
		mainThumbnailID,
		renditionKeys[1080],
		renditionKeys[720],
		renditionKeys[480],
		genre,
	)
	if err != nil {
		return nil, oops.New(err, "failed to save video metadata")
	}

	return media, nil
}

// IngestAudio runs the full ingestion pipeline for an audio upload.
func IngestAudio(ctx context.Context, conn db.ConnOrTx, store storage.Store, in IngestInput) (*models.Media, error) {
	media, err := ingestOriginal(ctx, conn, store, in, models.MediaKindAudio)
	if err != nil {
		return nil, err
	}

	probe := ProbeAudio(ctx, in.Content)

	var genre *string
	if in.Genre != "" {
		genre = &in.Genre
	}

	_, err = conn.Exec(ctx,
		`
		INSERT INTO audio_metadata (media_id, duration_seconds, bitrate, sample_rate, channels, genero)
		VALUES ($1, $2, $3, $4, $5, $6)
		`,
		media.ID,
		probe.DurationSeconds,
		probe.Bitrate,
		probe.SampleRate,
		probe.Channels,
		genre,
	)
	if err != nil {
		return nil, oops.New(err, "failed to save audio metadata")
	}

	return media, nil
}

// ingestOriginal performs the steps shared by every kind of upload:
// validation, key derivation, uploading the original, and creating the media
// row plus any tags. The original must be durable in object storage before
// any database row referencing it exists.
func ingestOriginal(ctx context.Context, conn db.ConnOrTx, store storage.Store, in IngestInput, kind models.MediaKind) (*models.Media, error) {
	if len(in.Content) == 0 {
		return nil, InvalidMediaError{fmt.Sprintf("could not upload '%s': no bytes of data were provided", in.Filename)}
	}

	contentType := in.ContentType
	if contentType == "" {
		contentType = mimetype.Detect(in.Content).String()
	}
	if models.MediaKindFromMimeType(contentType) != kind {
		return nil, InvalidMediaError{fmt.Sprintf("could not upload '%s': content type %s is not %s", in.Filename, contentType, kind)}
	}

	filename := SanitizeFilename(in.Filename)
	key := originalKey(in.OwnerID, kind, filename)

	err := store.Put(ctx, key, contentType, in.Content)
	if err != nil {
		return nil, oops.New(err, "failed to upload original media")
	}

	now := time.Now()
	media, err := db.QueryOne[models.Media](ctx, conn,
		`
		INSERT INTO media (owner_id, kind, filename, s3_key, mime_type, size, description, is_public, created_at, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING $columns
		`,
		in.OwnerID,
		kind,
		filename,
		key,
		contentType,
		len(in.Content),
		in.Description,
		in.IsPublic,
		now,
		now,
	)
	if err != nil {
		// The original is already in object storage with no row pointing at
		// it. We accept the orphan; see the deletion path for the converse.
		return nil, oops.New(err, "failed to create media record")
	}

	err = associateTags(ctx, conn, media.ID, in.Tags)
	if err != nil {
		logging.Warn().Err(err).Int("media", media.ID).Msg("failed to associate tags")
	}

	return media, nil
}

func associateTags(ctx context.Context, conn db.ConnOrTx, mediaID int, tags []string) error {
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}

		tagID, err := db.QueryOneScalar[int](ctx, conn,
			`
			INSERT INTO tags (name) VALUES ($1)
			ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
			RETURNING id
			`,
			tag,
		)
		if err != nil {
			return oops.New(err, "failed to upsert tag")
		}

		_, err = conn.Exec(ctx,
			`
			INSERT INTO media_tags (media_id, tag_id) VALUES ($1, $2)
			ON CONFLICT DO NOTHING
			`,
			mediaID, tagID,
		)
		if err != nil {
			return oops.New(err, "failed to tag media")
		}
	}
	return nil
}

func saveThumbnail(
	ctx context.Context,
	conn db.ConnOrTx,
	store storage.Store,
	mediaID int,
	key string,
	contentType string,
	data []byte,
	width, height int,
	purpose string,
) (int, error) {
	err := store.Put(ctx, key, contentType, data)
	if err != nil {
		return 0, oops.New(err, "failed to upload thumbnail")
	}

	id, err := db.QueryOneScalar[int](ctx, conn,
		`
		INSERT INTO thumbnails (media_id, s3_key, width, height, size, purpose, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
		`,
		mediaID, key, width, height, len(data), purpose, time.Now(),
	)
	if err != nil {
		return 0, oops.New(err, "failed to save thumbnail record")
	}
	return id, nil
}

// originalKey derives the storage key for an original upload. The timestamp
// plus random disambiguator make collisions practically impossible without
// an existence pre-check.
func originalKey(ownerID int, kind models.MediaKind, sanitizedFilename string) string {
	return fmt.Sprintf("%d/%s/%d_%s_%s",
		ownerID,
		kindFolder(kind),
		time.Now().Unix(),
		randomDisambiguator(),
		sanitizedFilename,
	)
}

// derivativeKey places a derivative next to its original, in a subfolder,
// with a new extension. For example, the listing thumbnail for
// "3/videos/1700000000_d1b2c3d4_clip.mp4" becomes
// "3/videos/thumbnails/1700000000_d1b2c3d4_clip.jpg".
func derivativeKey(originalKey string, folder string, suffix string, ext string) string {
	dir := ""
	base := originalKey
	if slashIdx := strings.LastIndexByte(originalKey, '/'); slashIdx >= 0 {
		dir = originalKey[:slashIdx+1]
		base = originalKey[slashIdx+1:]
	}
	if dotIdx := strings.LastIndexByte(base, '.'); dotIdx >= 0 {
		base = base[:dotIdx]
	}
	return fmt.Sprintf("%s%s/%s%s.%s", dir, folder, base, suffix, ext)
}

func kindFolder(kind models.MediaKind) string {
	switch kind {
	case models.MediaKindImage:
		return "images"
	case models.MediaKindVideo:
		return "videos"
	case models.MediaKindAudio:
		return "audio"
	default:
		return "other"
	}
}

func randomDisambiguator() string {
	u := uuid.New()
	return hex.EncodeToString(u[:])
}

// parseBitrate converts ffmpeg bitrate notation like "2.5M" or "128k" to bps.
func parseBitrate(s string) int64 {
	if s == "" {
		return 0
	}

	mult := int64(1)
	switch s[len(s)-1] {
	case 'k', 'K':
		mult = 1000
		s = s[:len(s)-1]
	case 'm', 'M':
		mult = 1000000
		s = s[:len(s)-1]
	}

	var value float64
	_, err := fmt.Sscanf(s, "%g", &value)
	if err != nil {
		return 0
	}
	return int64(value * float64(mult))
}
