package website

import (
	"net/http"
	"regexp"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mediavault/mediavault/src/storage"
)

func NewApiRoutes(conn *pgxpool.Pool, store storage.Store) http.Handler {
	router := &Router{}
	routes := RouteBuilder{
		Router: router,
		Middlewares: []Middleware{
			withCommonState(conn, store),
			panicCatcherMiddleware,
			requestLoggerMiddleware,
			logContextErrorsMiddleware,
			identifyUser,
		},
	}

	routes.POST(regexp.MustCompile(`^/auth/register$`), Register)
	routes.POST(regexp.MustCompile(`^/auth/login$`), Login)

	authed := routes.WithMiddleware(needsAuth)
	authed.GET(regexp.MustCompile(`^/users/me$`), GetCurrentUser)
	authed.PUT(regexp.MustCompile(`^/users/me$`), UpdateCurrentUser)
	authed.POST(regexp.MustCompile(`^/users/me/avatar$`), UploadAvatar)

	authed.POST(regexp.MustCompile(`^/media/images$`), UploadImage)
	authed.POST(regexp.MustCompile(`^/media/videos$`), UploadVideo)
	authed.POST(regexp.MustCompile(`^/media/audio$`), UploadAudio)

	routes.GET(regexp.MustCompile(`^/media$`), ListMedia)
	routes.GET(regexp.MustCompile(`^/media/(?P<id>\d+)$`), GetMediaItem)
	routes.GET(regexp.MustCompile(`^/media/(?P<id>\d+)/url$`), GetMediaUrl)
	authed.DELETE(regexp.MustCompile(`^/media/(?P<id>\d+)$`), DeleteMediaItem)

	routes.AnyMethod(regexp.MustCompile(`^`), FourOhFour)

	return router
}

func FourOhFour(c *RequestContext) ResponseData {
	return c.RejectRequest(http.StatusNotFound, "not found")
}
