package website

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mediavault/mediavault/src/config"
	"github.com/mediavault/mediavault/src/db"
	"github.com/mediavault/mediavault/src/media"
	"github.com/mediavault/mediavault/src/models"
	"github.com/mediavault/mediavault/src/oops"
	"github.com/mediavault/mediavault/src/storage"
)

const maxUploadBytes = 1024 * 1024 * 1024

const defaultListLimit = 50
const maxListLimit = 200

type mediaJson struct {
	ID           int       `json:"id"`
	OwnerID      *int      `json:"owner_id"`
	Kind         string    `json:"kind"`
	Filename     string    `json:"filename"`
	MimeType     string    `json:"mime_type"`
	Size         int64     `json:"size"`
	Description  string    `json:"description"`
	IsPublic     bool      `json:"is_public"`
	CreatedAt    time.Time `json:"created_at"`
	ThumbnailUrl *string   `json:"thumbnail_url,omitempty"`
	Tags         []string  `json:"tags,omitempty"`

	Image *imageMetadataJson `json:"image,omitempty"`
	Video *videoMetadataJson `json:"video,omitempty"`
	Audio *audioMetadataJson `json:"audio,omitempty"`
}

type imageMetadataJson struct {
	Width      int `json:"width"`
	Height     int `json:"height"`
	ColorDepth int `json:"color_depth"`
	DpiX       int `json:"dpi_x"`
	DpiY       int `json:"dpi_y"`
}

type videoMetadataJson struct {
	DurationSeconds float64 `json:"duration_seconds"`
	Width           int     `json:"width"`
	Height          int     `json:"height"`
	FrameRate       float64 `json:"frame_rate"`
	VideoCodec      string  `json:"video_codec"`
	AudioCodec      string  `json:"audio_codec"`
	Bitrate         int64   `json:"bitrate"`
	Url1080         *string `json:"url_1080"`
	Url720          *string `json:"url_720"`
	Url480          *string `json:"url_480"`
	Genre           *string `json:"genre"`
}

type audioMetadataJson struct {
	DurationSeconds float64 `json:"duration_seconds"`
	Bitrate         int64   `json:"bitrate"`
	SampleRate      int     `json:"sample_rate"`
	Channels        int     `json:"channels"`
	Genre           *string `json:"genre"`
}

func mediaToJson(c *RequestContext, m *models.Media) mediaJson {
	result := mediaJson{
		ID:          m.ID,
		OwnerID:     m.OwnerID,
		Kind:        m.Kind.String(),
		Filename:    m.Filename,
		MimeType:    m.MimeType,
		Size:        m.Size,
		Description: m.Description,
		IsPublic:    m.IsPublic,
		CreatedAt:   m.CreatedAt,
	}

	thumb, err := media.MainThumbnail(c, c.Conn, m.ID)
	if err != nil {
		c.Logger.Warn().Err(err).Int("media", m.ID).Msg("failed to fetch main thumbnail")
	} else if thumb != nil {
		url := c.Store.PublicURL(thumb.S3Key)
		result.ThumbnailUrl = &url
	}

	tags, err := media.ListTags(c, c.Conn, m.ID)
	if err != nil {
		c.Logger.Warn().Err(err).Int("media", m.ID).Msg("failed to fetch tags")
	} else {
		result.Tags = tags
	}

	return result
}

// mediaToDetailJson includes the per-kind metadata, with rendition keys
// resolved to URLs the client can actually fetch.
func mediaToDetailJson(c *RequestContext, m *models.Media) mediaJson {
	result := mediaToJson(c, m)

	switch m.Kind {
	case models.MediaKindImage:
		meta, err := media.GetImageMetadata(c, c.Conn, m.ID)
		if err == nil {
			result.Image = &imageMetadataJson{
				Width:      meta.Width,
				Height:     meta.Height,
				ColorDepth: meta.ColorDepth,
				DpiX:       meta.DpiX,
				DpiY:       meta.DpiY,
			}
		}
	case models.MediaKindVideo:
		meta, err := media.GetVideoMetadata(c, c.Conn, m.ID)
		if err == nil {
			result.Video = &videoMetadataJson{
				DurationSeconds: meta.DurationSeconds,
				Width:           meta.Width,
				Height:          meta.Height,
				FrameRate:       meta.FrameRate,
				VideoCodec:      meta.VideoCodec,
				AudioCodec:      meta.AudioCodec,
				Bitrate:         meta.Bitrate,
				Url1080:         keyToUrl(c, meta.Url1080),
				Url720:          keyToUrl(c, meta.Url720),
				Url480:          keyToUrl(c, meta.Url480),
				Genre:           meta.Genre,
			}
		}
	case models.MediaKindAudio:
		meta, err := media.GetAudioMetadata(c, c.Conn, m.ID)
		if err == nil {
			result.Audio = &audioMetadataJson{
				DurationSeconds: meta.DurationSeconds,
				Bitrate:         meta.Bitrate,
				SampleRate:      meta.SampleRate,
				Channels:        meta.Channels,
				Genre:           meta.Genre,
			}
		}
	}

	return result
}

func keyToUrl(c *RequestContext, key *string) *string {
	if key == nil {
		return nil
	}
	url := c.Store.PublicURL(*key)
	return &url
}

func UploadImage(c *RequestContext) ResponseData {
	return uploadMedia(c, models.MediaKindImage, media.IngestImage)
}

func UploadVideo(c *RequestContext) ResponseData {
	return uploadMedia(c, models.MediaKindVideo, media.IngestVideo)
}

func UploadAudio(c *RequestContext) ResponseData {
	return uploadMedia(c, models.MediaKindAudio, media.IngestAudio)
}

type ingestFunc func(ctx context.Context, conn db.ConnOrTx, store storage.Store, in media.IngestInput) (*models.Media, error)

// parseTags splits a comma-separated tag list into trimmed, non-empty tag
// names. Names are case-sensitive and passed through as entered; anything
// that would not fit the tags table is dropped, never rejected.
func parseTags(raw string) []string {
	if raw == "" {
		return nil
	}
	var tags []string
	for _, tag := range strings.Split(raw, ",") {
		tag = strings.TrimSpace(tag)
		if !models.ValidateTagName(tag) {
			continue
		}
		tags = append(tags, tag)
	}
	return tags
}

func uploadMedia(c *RequestContext, kind models.MediaKind, ingest ingestFunc) ResponseData {
	c.Req.Body = http.MaxBytesReader(c.Res, c.Req.Body, maxUploadBytes)
	err := c.Req.ParseMultipartForm(32 * 1024 * 1024)
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return c.RejectRequest(http.StatusRequestEntityTooLarge, "uploaded file is too large")
		}
		return c.RejectRequest(http.StatusBadRequest, "the request must be a multipart form")
	}

	file, header, err := c.Req.FormFile("file")
	if err != nil {
		return c.RejectRequest(http.StatusBadRequest, "a file named 'file' is required")
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to read uploaded file"))
	}

	tags := parseTags(c.Req.FormValue("tags"))

	m, err := ingest(c, c.Conn, c.Store, media.IngestInput{
		OwnerID:     c.CurrentUser.ID,
		Filename:    header.Filename,
		Content:     content,
		ContentType: header.Header.Get("Content-Type"),
		Description: c.Req.FormValue("description"),
		IsPublic:    c.Req.FormValue("is_public") == "true",
		Tags:        tags,
		Genre:       c.Req.FormValue("genre"),
	})
	if err != nil {
		var invalid media.InvalidMediaError
		if errors.As(err, &invalid) {
			return c.RejectRequest(http.StatusUnsupportedMediaType, invalid.Error())
		}
		return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to ingest %s", kind))
	}

	res := ResponseData{StatusCode: http.StatusCreated}
	res.WriteJson(mediaToDetailJson(c, m))
	return res
}

func ListMedia(c *RequestContext) ResponseData {
	query := media.ListMediaQuery{
		Search: c.URL().Query().Get("q"),
		Limit:  defaultListLimit,
	}
	if c.CurrentUser != nil {
		query.ViewerID = c.CurrentUser.ID
	}
	if kindStr := c.URL().Query().Get("kind"); kindStr != "" {
		kind, ok := parseMediaKind(kindStr)
		if !ok {
			return c.RejectRequest(http.StatusBadRequest, "unknown media kind")
		}
		query.Kinds = []models.MediaKind{kind}
	}
	if limitStr := c.URL().Query().Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil || limit < 1 || limit > maxListLimit {
			return c.RejectRequest(http.StatusBadRequest, "limit must be between 1 and 200")
		}
		query.Limit = limit
	}
	if offsetStr := c.URL().Query().Get("offset"); offsetStr != "" {
		offset, err := strconv.Atoi(offsetStr)
		if err != nil || offset < 0 {
			return c.RejectRequest(http.StatusBadRequest, "offset must be a non-negative integer")
		}
		query.Offset = offset
	}

	items, err := media.ListMedia(c, c.Conn, query)
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to list media"))
	}

	results := make([]mediaJson, 0, len(items))
	for _, item := range items {
		results = append(results, mediaToJson(c, item))
	}

	var res ResponseData
	res.WriteJson(map[string]any{"media": results})
	return res
}

func GetMediaItem(c *RequestContext) ResponseData {
	m, res, ok := fetchVisibleMedia(c)
	if !ok {
		return res
	}

	var out ResponseData
	out.WriteJson(mediaToDetailJson(c, m))
	return out
}

func GetMediaUrl(c *RequestContext) ResponseData {
	m, res, ok := fetchVisibleMedia(c)
	if !ok {
		return res
	}

	lifetime := config.Config.Storage.SignedUrlLifetime
	url, err := c.Store.SignedURL(c, m.S3Key, lifetime)
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to sign media url"))
	}

	var out ResponseData
	out.WriteJson(map[string]any{
		"url":        url,
		"expires_in": int(lifetime.Seconds()),
	})
	return out
}

func DeleteMediaItem(c *RequestContext) ResponseData {
	id, ok := c.PathParamInt("id")
	if !ok {
		return c.RejectRequest(http.StatusBadRequest, "invalid media id")
	}

	m, err := media.GetMedia(c, c.Conn, id)
	if err != nil {
		if errors.Is(err, db.NotFound) {
			return c.RejectRequest(http.StatusNotFound, "no such media")
		}
		return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to fetch media"))
	}

	if m.OwnerID == nil || *m.OwnerID != c.CurrentUser.ID {
		return c.RejectRequest(http.StatusForbidden, "you do not own this media")
	}

	err = media.DeleteMedia(c, c.Conn, c.Store, m.ID)
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to delete media"))
	}

	return ResponseData{StatusCode: http.StatusNoContent}
}

// fetchVisibleMedia resolves the id path param to a media row the current
// user is allowed to see.
func fetchVisibleMedia(c *RequestContext) (*models.Media, ResponseData, bool) {
	id, ok := c.PathParamInt("id")
	if !ok {
		return nil, c.RejectRequest(http.StatusBadRequest, "invalid media id"), false
	}

	m, err := media.GetMedia(c, c.Conn, id)
	if err != nil {
		if errors.Is(err, db.NotFound) {
			return nil, c.RejectRequest(http.StatusNotFound, "no such media"), false
		}
		return nil, c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to fetch media")), false
	}

	if !m.IsPublic {
		if c.CurrentUser == nil || m.OwnerID == nil || *m.OwnerID != c.CurrentUser.ID {
			// Hide the existence of private media from other users.
			return nil, c.RejectRequest(http.StatusNotFound, "no such media"), false
		}
	}

	return m, ResponseData{}, true
}

func parseMediaKind(s string) (models.MediaKind, bool) {
	switch s {
	case "image":
		return models.MediaKindImage, true
	case "video":
		return models.MediaKindVideo, true
	case "audio":
		return models.MediaKindAudio, true
	case "other":
		return models.MediaKindOther, true
	default:
		return 0, false
	}
}
