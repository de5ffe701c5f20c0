package weaprous

import (
	"bytes"
	"errors"
	"io"
	"log"
	"net"
	stdhttp "net/http"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/indigo-web/weaprous/config"
	"github.com/indigo-web/weaprous/http"
	"github.com/indigo-web/weaprous/http/cookie"
	"github.com/indigo-web/weaprous/http/status"
	"github.com/stretchr/testify/require"
)

func startApp(t *testing.T, register func(app *App)) *App {
	cfg := config.Default()
	cfg.NET.AcceptLoopInterruptPeriod = 20 * time.Millisecond

	app := New(cfg).
		Configure("127.0.0.1", 0).
		Logger(log.New(io.Discard, "", 0))
	register(app)

	started := make(chan struct{})
	errch := make(chan error, 1)
	app.NotifyOnStart(func() {
		close(started)
	})

	go func() {
		errch <- app.Start()
	}()

	select {
	case <-started:
	case err := <-errch:
		t.Fatalf("app failed to start: %s", err)
	case <-time.After(5 * time.Second):
		t.Fatal("app didn't start in time")
	}

	t.Cleanup(func() {
		app.Stop()
		require.NoError(t, <-errch)
	})

	return app
}

func roundTrip(t *testing.T, app *App, request string) string {
	conn, err := net.Dial("tcp", app.Addr().String())
	require.NoError(t, err)
	defer conn.Close()

	_, err = conn.Write([]byte(request))
	require.NoError(t, err)
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

	response, err := io.ReadAll(conn)
	require.NoError(t, err)

	return string(response)
}

func TestScenarios(t *testing.T) {
	t.Run("root with empty table", func(t *testing.T) {
		app := startApp(t, func(*App) {})
		response := roundTrip(t, app, "GET / HTTP/1.1\r\nHost: h\r\n\r\n")
		require.True(t, strings.HasPrefix(response, "HTTP/1.1 404 Not Found\r\n"), response)
	})

	t.Run("login", func(t *testing.T) {
		type call struct{ body, auth string }
		calls := make(chan call, 1)

		app := startApp(t, func(app *App) {
			app.Post("/login", func(headers http.Headers, body string) (*http.Response, error) {
				calls <- call{body, cookie.Parse(headers.Value("cookie")).Value("auth")}
				return http.Code(status.OK), nil
			})
		})

		response := roundTrip(t, app,
			"POST /login HTTP/1.1\r\nHost: h\r\nCookie: auth=true\r\nContent-Length: 32\r\n\r\n"+
				"username=admin&password=password",
		)
		require.Equal(t, "HTTP/1.1 200 OK\r\nContent-Length: 0\r\nConnection: close\r\n\r\n", response)
		got := <-calls
		require.Equal(t, "username=admin&password=password", got.body)
		require.Equal(t, "true", got.auth)
	})

	t.Run("malformed", func(t *testing.T) {
		called := new(atomic.Bool)
		app := startApp(t, func(app *App) {
			app.Get("/", func(http.Headers, string) (*http.Response, error) {
				called.Store(true)
				return nil, nil
			})
		})

		response := roundTrip(t, app, "garbage\r\n\r\n")
		require.True(t, strings.HasPrefix(response, "HTTP/1.1 400 Bad Request\r\n"), response)
		require.False(t, called.Load())
	})
}

func TestApp(t *testing.T) {
	t.Run("keeps serving after a panic", func(t *testing.T) {
		app := startApp(t, func(app *App) {
			app.Get("/boom", func(http.Headers, string) (*http.Response, error) {
				panic("boom")
			})
			app.Get("/hello", func(http.Headers, string) (*http.Response, error) {
				return http.String("Hello, world!"), nil
			})
		})

		response := roundTrip(t, app, "GET /boom HTTP/1.1\r\n\r\n")
		require.True(t, strings.HasPrefix(response, "HTTP/1.1 500 Internal Server Error\r\n"), response)

		response = roundTrip(t, app, "GET /hello HTTP/1.1\r\n\r\n")
		require.True(t, strings.HasPrefix(response, "HTTP/1.1 200 OK\r\n"), response)
		require.True(t, strings.HasSuffix(response, "\r\n\r\nHello, world!"), response)
	})

	t.Run("handler error", func(t *testing.T) {
		app := startApp(t, func(app *App) {
			app.Get("/secret", func(http.Headers, string) (*http.Response, error) {
				return nil, status.ErrUnauthorized
			})
			app.Get("/broken", func(http.Headers, string) (*http.Response, error) {
				return nil, errors.New("tracker is down")
			})
		})

		response := roundTrip(t, app, "GET /secret HTTP/1.1\r\n\r\n")
		require.True(t, strings.HasPrefix(response, "HTTP/1.1 401 Unauthorized\r\n"), response)

		response = roundTrip(t, app, "GET /broken HTTP/1.1\r\n\r\n")
		require.True(t, strings.HasPrefix(response, "HTTP/1.1 500 Internal Server Error\r\n"), response)
	})

	t.Run("standard client", func(t *testing.T) {
		app := startApp(t, func(app *App) {
			app.Put("/hello", func(headers http.Headers, body string) (*http.Response, error) {
				return http.String(body).Header("X-Echo", headers.Value("x-echo")), nil
			})
		})

		request, err := stdhttp.NewRequest(
			stdhttp.MethodPut, "http://"+app.Addr().String()+"/hello", strings.NewReader("ping"),
		)
		require.NoError(t, err)
		request.Header.Set("X-Echo", "pong")

		response, err := stdhttp.DefaultClient.Do(request)
		require.NoError(t, err)
		defer response.Body.Close()

		body, err := io.ReadAll(response.Body)
		require.NoError(t, err)
		require.Equal(t, stdhttp.StatusOK, response.StatusCode)
		require.Equal(t, "ping", string(body))
		require.Equal(t, "pong", response.Header.Get("X-Echo"))
		require.EqualValues(t, 4, response.ContentLength)
	})

	t.Run("register after start", func(t *testing.T) {
		app := startApp(t, func(*App) {})
		require.Panics(t, func() {
			app.Get("/late", func(http.Headers, string) (*http.Response, error) {
				return nil, nil
			})
		})
	})

	t.Run("bind failure", func(t *testing.T) {
		busy, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		defer busy.Close()

		port := uint16(busy.Addr().(*net.TCPAddr).Port)
		logs := new(bytes.Buffer)
		app := New(nil).Configure("127.0.0.1", port).Logger(log.New(logs, "", 0))
		require.Error(t, app.Start())
		app.Stop()
	})

	t.Run("stop before start", func(t *testing.T) {
		New(nil).Stop()
	})
}
