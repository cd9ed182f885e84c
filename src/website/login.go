package website

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mediavault/mediavault/src/auth"
	"github.com/mediavault/mediavault/src/db"
	"github.com/mediavault/mediavault/src/models"
	"github.com/mediavault/mediavault/src/oops"
)

const minPasswordLength = 8

type registerInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

func Register(c *RequestContext) ResponseData {
	var input registerInput
	err := json.NewDecoder(c.Req.Body).Decode(&input)
	if err != nil {
		return c.RejectRequest(http.StatusBadRequest, "request body must be valid JSON")
	}

	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
	input.Username = strings.TrimSpace(input.Username)

	if input.Email == "" || !strings.Contains(input.Email, "@") {
		return c.RejectRequest(http.StatusBadRequest, "a valid email address is required")
	}
	if input.Username == "" {
		return c.RejectRequest(http.StatusBadRequest, "a username is required")
	}
	if len(input.Password) < minPasswordLength {
		return c.RejectRequest(http.StatusBadRequest, "password must be at least 8 characters")
	}

	hashed := auth.HashPassword(input.Password)

	user, err := db.QueryOne[models.User](c, c.Conn,
		`
		---- Create user
		INSERT INTO users (email, password, name, username)
		VALUES ($1, $2, $3, $4)
		RETURNING $columns
		`,
		input.Email, hashed.String(), input.Name, input.Username,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.SQLState() == "23505" {
			return c.RejectRequest(http.StatusConflict, "a user with that email or username already exists")
		}
		return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to create user"))
	}

	token, err := auth.CreateAccessToken(user.Email, 0)
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to create access token"))
	}

	res := ResponseData{StatusCode: http.StatusCreated}
	res.WriteJson(map[string]any{
		"token": token,
		"user":  userToJson(c, user),
	})
	return res
}

type loginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func Login(c *RequestContext) ResponseData {
	var input loginInput
	err := json.NewDecoder(c.Req.Body).Decode(&input)
	if err != nil {
		return c.RejectRequest(http.StatusBadRequest, "request body must be valid JSON")
	}

	input.Email = strings.TrimSpace(strings.ToLower(input.Email))

	user, err := db.QueryOne[models.User](c, c.Conn,
		`
		---- Fetch user for login
		SELECT $columns
		FROM users
		WHERE email = $1 AND is_active
		`,
		input.Email,
	)
	if err != nil {
		if errors.Is(err, db.NotFound) {
			return c.RejectRequest(http.StatusUnauthorized, "incorrect email or password")
		}
		return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to fetch user"))
	}

	hashed, err := auth.ParsePasswordString(user.Password)
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "user has a corrupt password hash"))
	}
	ok, err := auth.CheckPassword(input.Password, hashed)
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to check password"))
	}
	if !ok {
		return c.RejectRequest(http.StatusUnauthorized, "incorrect email or password")
	}

	token, err := auth.CreateAccessToken(user.Email, 0)
	if err != nil {
		return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to create access token"))
	}

	var res ResponseData
	res.WriteJson(map[string]any{
		"token": token,
		"user":  userToJson(c, user),
	})
	return res
}
