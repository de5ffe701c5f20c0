package http1

import (
	"strings"
	"testing"

	"github.com/indigo-web/weaprous/http"
	"github.com/indigo-web/weaprous/http/cookie"
	"github.com/indigo-web/weaprous/http/mime"
	"github.com/indigo-web/weaprous/http/status"
	"github.com/stretchr/testify/require"
)

func serialize(version string, response *http.Response) string {
	return string(NewSerializer(make([]byte, 0, 64)).Serialize(version, response))
}

func TestSerializer(t *testing.T) {
	t.Run("default response", func(t *testing.T) {
		want := "HTTP/1.1 200 OK\r\n" +
			"Content-Length: 0\r\n" +
			"Connection: close\r\n" +
			"\r\n"
		require.Equal(t, want, serialize("HTTP/1.1", http.Respond()))
	})

	t.Run("echoes version", func(t *testing.T) {
		resp := serialize("HTTP/1.0", http.Code(status.NotFound))
		require.True(t, strings.HasPrefix(resp, "HTTP/1.0 404 Not Found\r\n"))
	})

	t.Run("fallback version", func(t *testing.T) {
		for _, version := range []string{"", "whatever"} {
			resp := serialize(version, http.Code(status.BadRequest))
			require.True(t, strings.HasPrefix(resp, "HTTP/1.1 400 Bad Request\r\n"), version)
		}
	})

	t.Run("nonstandard code", func(t *testing.T) {
		resp := serialize("HTTP/1.1", http.Code(299))
		require.True(t, strings.HasPrefix(resp, "HTTP/1.1 299 Nonstandard\r\n"))
	})

	t.Run("body and headers", func(t *testing.T) {
		response := http.String("Hello, world!").
			ContentType(mime.Plain).
			Header("Server", "weaprous")

		want := "HTTP/1.1 200 OK\r\n" +
			"Content-Type: text/plain\r\n" +
			"Server: weaprous\r\n" +
			"Content-Length: 13\r\n" +
			"Connection: close\r\n" +
			"\r\n" +
			"Hello, world!"
		require.Equal(t, want, serialize("HTTP/1.1", response))
	})

	t.Run("content length counts bytes", func(t *testing.T) {
		resp := serialize("HTTP/1.1", http.String("привіт"))
		require.Contains(t, resp, "Content-Length: 12\r\n")
		require.True(t, strings.HasSuffix(resp, "\r\n\r\nпривіт"))
	})

	t.Run("user content length is ignored", func(t *testing.T) {
		response := http.String("abc").
			Header("Content-Length", "100").
			Header("Connection", "keep-alive")
		resp := serialize("HTTP/1.1", response)
		require.Equal(t, 1, strings.Count(resp, "Content-Length"))
		require.Contains(t, resp, "Content-Length: 3\r\n")
		require.NotContains(t, resp, "keep-alive")
	})

	t.Run("content type via header", func(t *testing.T) {
		resp := serialize("HTTP/1.1", http.Respond().Header("content-type", mime.HTML))
		require.Equal(t, 1, strings.Count(resp, "text/html"))
		require.Contains(t, resp, "Content-Type: text/html\r\n")
	})

	t.Run("cookies", func(t *testing.T) {
		response := http.Respond().Cookie(
			cookie.New("auth", "true"),
			cookie.Build("session", "abc").
				Path("/").
				MaxAge(3600).
				SameSite(cookie.SameSiteStrict).
				HttpOnly(true).
				Cookie(),
			cookie.Build("stale", "").MaxAge(-1).Cookie(),
		)

		resp := serialize("HTTP/1.1", response)
		require.Contains(t, resp, "Set-Cookie: auth=true\r\n")
		require.Contains(t, resp, "Set-Cookie: session=abc; Path=/; Max-Age=3600; SameSite=Strict; HttpOnly\r\n")
		require.Contains(t, resp, "Set-Cookie: stale=; Max-Age=0\r\n")
	})

	t.Run("buffer reuse", func(t *testing.T) {
		s := NewSerializer(nil)
		first := string(s.Serialize("HTTP/1.1", http.String("first")))
		second := string(s.Serialize("HTTP/1.1", http.Code(status.NoContent)))
		require.Contains(t, first, "first")
		require.NotContains(t, second, "first")
	})
}
