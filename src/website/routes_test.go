package website

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestLogContextErrors(t *testing.T) {
	err1 := errors.New("test error 1")
	err2 := errors.New("test error 2")

	defer zerolog.SetGlobalLevel(zerolog.GlobalLevel())
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	logger.Print("sanity check")

	assert.Contains(t, buf.String(), "sanity check")

	router := &Router{}
	routes := RouteBuilder{
		Router: router,
		Middlewares: []Middleware{
			func(h Handler) Handler {
				return func(c *RequestContext) (res ResponseData) {
					c.Logger = &logger
					return logContextErrorsMiddleware(h)(c)
				}
			},
		},
	}

	routes.GET(regexp.MustCompile("^/test$"), func(c *RequestContext) ResponseData {
		return c.ErrorResponse(http.StatusInternalServerError, err1, err2)
	})

	srv := httptest.NewServer(router)
	defer srv.Close()

	res, err := http.Get(srv.URL + "/test")
	if assert.Nil(t, err) {
		defer res.Body.Close()

		t.Logf("Log contents: %s", buf.String())

		assert.Equal(t, http.StatusInternalServerError, res.StatusCode)

		assert.Contains(t, buf.String(), err1.Error())
		assert.Contains(t, buf.String(), err2.Error())
	}
}

func TestRouterPathParams(t *testing.T) {
	router := &Router{}
	routes := RouteBuilder{Router: router}

	var gotId string
	routes.GET(regexp.MustCompile(`^/media/(?P<id>\d+)$`), func(c *RequestContext) ResponseData {
		gotId = c.PathParams["id"]
		var res ResponseData
		res.WriteJson(map[string]string{"id": gotId})
		return res
	})
	routes.AnyMethod(regexp.MustCompile(`^`), FourOhFour)

	srv := httptest.NewServer(router)
	defer srv.Close()

	res, err := http.Get(srv.URL + "/media/42")
	if assert.Nil(t, err) {
		res.Body.Close()
		assert.Equal(t, http.StatusOK, res.StatusCode)
		assert.Equal(t, "42", gotId)
	}

	res, err = http.Get(srv.URL + "/media/not-a-number")
	if assert.Nil(t, err) {
		res.Body.Close()
		assert.Equal(t, http.StatusNotFound, res.StatusCode)
	}
}

func TestNeedsAuth(t *testing.T) {
	router := &Router{}
	routes := RouteBuilder{Router: router}

	routes.GET(regexp.MustCompile(`^/private$`), needsAuth(func(c *RequestContext) ResponseData {
		var res ResponseData
		res.WriteJson(map[string]string{"ok": "yes"})
		return res
	}))

	srv := httptest.NewServer(router)
	defer srv.Close()

	res, err := http.Get(srv.URL + "/private")
	if assert.Nil(t, err) {
		res.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	}
}

func TestIdentifyUserRejectsGarbageTokens(t *testing.T) {
	router := &Router{}
	routes := RouteBuilder{Router: router}

	routes.GET(regexp.MustCompile(`^/whoami$`), identifyUser(func(c *RequestContext) ResponseData {
		assert.Nil(t, c.CurrentUser)
		var res ResponseData
		res.WriteJson(map[string]string{"ok": "yes"})
		return res
	}))

	srv := httptest.NewServer(router)
	defer srv.Close()

	// No Authorization header at all is fine, you are just anonymous.
	res, err := http.Get(srv.URL + "/whoami")
	if assert.Nil(t, err) {
		res.Body.Close()
		assert.Equal(t, http.StatusOK, res.StatusCode)
	}

	// A malformed token is an error, not anonymity.
	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/whoami", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	res, err = http.DefaultClient.Do(req)
	if assert.Nil(t, err) {
		res.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, res.StatusCode)
	}
}
