package website

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mediavault/mediavault/src/auth"
	"github.com/mediavault/mediavault/src/db"
	"github.com/mediavault/mediavault/src/models"
	"github.com/mediavault/mediavault/src/oops"
	"github.com/mediavault/mediavault/src/storage"
)

func panicCatcherMiddleware(h Handler) Handler {
	return func(c *RequestContext) (res ResponseData) {
		defer func() {
			if recovered := recover(); recovered != nil {
				maybeError, ok := recovered.(*error)
				var err error
				if ok {
					err = *maybeError
				} else {
					err = oops.New(nil, fmt.Sprintf("Recovered from panic with value: %v", recovered))
				}
				res = c.ErrorResponse(http.StatusInternalServerError, err)
			}
		}()

		return h(c)
	}
}

func requestLoggerMiddleware(h Handler) Handler {
	return func(c *RequestContext) ResponseData {
		start := time.Now()
		res := h(c)
		c.Logger.Info().
			Str("method", c.Req.Method).
			Str("path", c.Req.URL.Path).
			Int("status", res.StatusCode).
			Dur("duration", time.Since(start)).
			Msg("served request")
		return res
	}
}

func logContextErrors(c *RequestContext, errs ...error) {
	for _, err := range errs {
		c.Logger.Error().Timestamp().Stack().Str("Requested", c.FullUrl()).Err(err).Msg("error occurred during request")
	}
}

func logContextErrorsMiddleware(h Handler) Handler {
	return func(c *RequestContext) ResponseData {
		res := h(c)
		logContextErrors(c, res.Errors...)
		return res
	}
}

// withCommonState hangs the database pool and object store off the request
// context for all handlers.
func withCommonState(conn *pgxpool.Pool, store storage.Store) Middleware {
	return func(h Handler) Handler {
		return func(c *RequestContext) ResponseData {
			c.Conn = conn
			c.Store = store
			return h(c)
		}
	}
}

// identifyUser resolves the bearer token, if any, to the current user. A
// missing or bad token just leaves CurrentUser nil; handlers that require a
// user wrap themselves in needsAuth.
func identifyUser(h Handler) Handler {
	return func(c *RequestContext) ResponseData {
		header := c.Req.Header.Get("Authorization")
		token, hasToken := strings.CutPrefix(header, "Bearer ")
		if !hasToken {
			return h(c)
		}

		email, err := auth.ValidateAccessToken(token)
		if err != nil {
			return c.RejectRequest(http.StatusUnauthorized, "invalid or expired token")
		}

		user, err := db.QueryOne[models.User](c, c.Conn,
			`
			---- Fetch user for token
			SELECT $columns
			FROM users
			WHERE email = $1 AND is_active
			`,
			email,
		)
		if err != nil {
			if errors.Is(err, db.NotFound) {
				return c.RejectRequest(http.StatusUnauthorized, "invalid or expired token")
			}
			return c.ErrorResponse(http.StatusInternalServerError, oops.New(err, "failed to fetch user for token"))
		}

		c.CurrentUser = user
		return h(c)
	}
}

func needsAuth(h Handler) Handler {
	return func(c *RequestContext) ResponseData {
		if c.CurrentUser == nil {
			return c.RejectRequest(http.StatusUnauthorized, "authentication required")
		}

		return h(c)
	}
}
