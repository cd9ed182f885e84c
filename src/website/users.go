package website

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mediavault/mediavault/src/db"
	"github.com/mediavault/mediavault/src/media"
	"github.com/mediavault/mediavault/src/models"
	"github.com/mediavault/mediavault/src/oops"
)

type userJson struct {
	ID        int       `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Username  string    `json:"username"`
	Bio       string    `json:"bio"`
	AvatarUrl *string   `json:"avatar_url"`
	CreatedAt time.Time `json:"created_at"`
}

func userToJson(c *RequestContext, user *models.User) userJson {
	result := userJson{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Username:  user.Username,
		Bio:       user.Bio,
		CreatedAt: user.CreatedAt,
	}
	if user.AvatarS3Key != nil {
		url := c.Store.PublicURL(*user.AvatarS3Key)
		result.AvatarUrl = &url
	}
	return result
}

func GetCurrentUser(c *RequestContext) ResponseData {
	var res ResponseData
	res.WriteJson(userToJson(c, c.CurrentUser))
	return res
}

type updateUserInput struct {
	Name *string `json:"name"`
	Bio  *string `json:"bio"`
}

func UpdateCurrentUser(c *RequestContext) ResponseData {
	var input updateUserInput
	err := json.NewDecoder(c.Req.Body).Decode(&input)
	if err != nil {
		return c.RejectRequest(http.StatusBadRequest, "request body must be valid JSON")
	}

	name := c.CurrentUser.Name
	if input.Name != nil {
		name = strings.TrimSpace(*input.Name)
	}
	bio := c.CurrentUser.Bio
	if input.Bio != nil {
		bio = *input.Bio
	}

	user, err := db.QueryOne[models.User](c, c.Conn,
		`
		---- Update user profile
		UPDATE users
		SET name = $2, bio = $3
		WHERE id = $1
		RETURNING $columns
		`,
		c.CurrentUser.ID, name, bio,
	)
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to update user"))
	}

	var res ResponseData
	res.WriteJson(userToJson(c, user))
	return res
}

// UploadAvatar runs the avatar image through the normal ingestion pipeline,
// then points the user at the listing thumbnail (or the original, if
// thumbnailing failed).
func UploadAvatar(c *RequestContext) ResponseData {
	file, header, err := c.Req.FormFile("file")
	if err != nil {
		return c.RejectRequest(http.StatusBadRequest, "an image file named 'file' is required")
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to read uploaded avatar"))
	}

	m, err := media.IngestImage(c, c.Conn, c.Store, media.IngestInput{
		OwnerID:     c.CurrentUser.ID,
		Filename:    header.Filename,
		Content:     content,
		ContentType: header.Header.Get("Content-Type"),
		Description: "avatar",
		IsPublic:    true,
	})
	if err != nil {
		var invalid media.InvalidMediaError
		if errors.As(err, &invalid) {
			return c.RejectRequest(http.StatusUnsupportedMediaType, "avatars must be images")
		}
		return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to ingest avatar"))
	}

	key := m.S3Key
	thumb, err := media.MainThumbnail(c, c.Conn, m.ID)
	if err == nil && thumb != nil {
		key = thumb.S3Key
	}

	user, err := db.QueryOne[models.User](c, c.Conn,
		`
		---- Update avatar
		UPDATE users
		SET avatar_s3_key = $2
		WHERE id = $1
		RETURNING $columns
		`,
		c.CurrentUser.ID, key,
	)
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to save avatar key"))
	}

	var res ResponseData
	res.WriteJson(userToJson(c, user))
	return res
}
