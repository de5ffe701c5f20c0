package peer

import (
	"bytes"
	"io"
	"log"
	"testing"
	"time"

	"github.com/indigo-web/weaprous"
	"github.com/indigo-web/weaprous/config"
	"github.com/indigo-web/weaprous/http"
	"github.com/indigo-web/weaprous/http/mime"
	"github.com/indigo-web/weaprous/http/status"
	"github.com/indigo-web/weaprous/kv"
	json "github.com/json-iterator/go"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newCredentials(t *testing.T) *Credentials {
	creds := NewCredentials(bcrypt.MinCost)
	require.NoError(t, creds.Add("admin", "password"))
	return creds
}

func newPeer(t *testing.T, session Session) *Peer {
	return New(session, newCredentials(t), time.Second, log.New(io.Discard, "", 0))
}

func headers(pairs ...string) http.Headers {
	h := kv.New()
	for i := 0; i+1 < len(pairs); i += 2 {
		h.Add(pairs[i], pairs[i+1])
	}

	return h
}

func startPeer(t *testing.T, p *Peer) string {
	cfg := config.Default()
	cfg.NET.AcceptLoopInterruptPeriod = 20 * time.Millisecond
	app := weaprous.New(cfg).
		Configure("127.0.0.1", 0).
		Logger(log.New(io.Discard, "", 0))
	p.Register(app)

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
		t.Fatalf("peer failed to start: %s", err)
	}

	t.Cleanup(func() {
		app.Stop()
		require.NoError(t, <-errch)
	})

	return app.Addr().String()
}

func TestCredentials(t *testing.T) {
	creds := newCredentials(t)
	require.True(t, creds.Verify("admin", "password"))
	require.False(t, creds.Verify("admin", "wrong"))
	require.False(t, creds.Verify("guest", "password"))
}

func TestRegistry(t *testing.T) {
	registry := NewRegistry()
	require.True(t, registry.Add("10.0.0.2:8000"))
	require.True(t, registry.Add("10.0.0.1:8000"))
	require.False(t, registry.Add("10.0.0.2:8000"))
	require.Equal(t, []string{"10.0.0.1:8000", "10.0.0.2:8000"}, registry.List())
	require.Empty(t, NewRegistry().List())
}

func TestLogin(t *testing.T) {
	p := newPeer(t, Session{})

	t.Run("success", func(t *testing.T) {
		response, err := p.Login(headers(), "username=admin&password=password")
		require.NoError(t, err)
		fields := response.Expose()
		require.Equal(t, status.OK, fields.Code)
		require.Len(t, fields.Cookies, 2)
		require.Equal(t, "auth", fields.Cookies[0].Name)
		require.Equal(t, "true", fields.Cookies[0].Value)
		require.Equal(t, sessionCookie, fields.Cookies[1].Name)
		require.NotEmpty(t, fields.Cookies[1].Value)
		require.True(t, fields.Cookies[1].HttpOnly)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := p.Login(headers(), "username=admin&password=admin")
		require.ErrorIs(t, err, status.ErrUnauthorized)
	})

	t.Run("malformed form", func(t *testing.T) {
		_, err := p.Login(headers(), "username=%zz")
		require.Equal(t, status.BadRequest, status.CodeOf(err))
	})
}

func TestIndex(t *testing.T) {
	p := newPeer(t, Session{})

	_, err := p.Index(headers(), "")
	require.ErrorIs(t, err, status.ErrUnauthorized)

	_, err = p.Index(headers("cookie", "auth=false"), "")
	require.ErrorIs(t, err, status.ErrUnauthorized)

	p.known = []string{"10.0.0.1:8000", "<script>"}
	response, err := p.Index(headers("cookie", "auth=true"), "")
	require.NoError(t, err)
	fields := response.Expose()
	require.Equal(t, mime.HTML, fields.ContentType)
	require.Contains(t, string(fields.Body), "<li>10.0.0.1:8000</li><li>&lt;script&gt;</li>")
	require.NotContains(t, string(fields.Body), peerListPlaceholder)
}

func TestMessages(t *testing.T) {
	p := newPeer(t, Session{})

	t.Run("anonymous", func(t *testing.T) {
		_, err := p.SendMessage(headers("host", "10.0.0.3:8000"), "message=hi+there")
		require.NoError(t, err)
	})

	t.Run("logged in", func(t *testing.T) {
		response, err := p.Login(headers(), "username=admin&password=password")
		require.NoError(t, err)
		token := response.Expose().Cookies[1].Value

		_, err = p.SendMessage(headers("cookie", "auth=true; session="+token), "message=hello")
		require.NoError(t, err)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := p.SendMessage(headers(), "message=")
		require.ErrorIs(t, err, status.ErrBadRequest)
	})

	response, err := p.Messages(headers(), "")
	require.NoError(t, err)

	var messages []Message
	require.NoError(t, json.Unmarshal(response.Expose().Body, &messages))
	require.Len(t, messages, 2)
	require.Equal(t, "10.0.0.3:8000", messages[0].From)
	require.Equal(t, "hi there", messages[0].Text)
	require.Equal(t, "admin", messages[1].From)
	require.Equal(t, "hello", messages[1].Text)
}

func TestTracker(t *testing.T) {
	tracker := newPeer(t, Session{})
	trackerAddr := startPeer(t, tracker)

	alice := newPeer(t, Session{Self: "10.0.0.1:8000", Tracker: trackerAddr})
	bob := newPeer(t, Session{Self: "10.0.0.2:8000", Tracker: trackerAddr})

	for _, p := range []*Peer{bob, alice, bob} {
		response, err := p.SubmitInfo(headers(), "")
		require.NoError(t, err)
		require.Equal(t, status.OK, response.Expose().Code)
	}

	require.Equal(t, []string{"10.0.0.1:8000", "10.0.0.2:8000"}, tracker.registry.List())

	response, err := alice.GetList(headers(), "")
	require.NoError(t, err)
	require.Equal(t, mime.JSON, response.Expose().ContentType)
	require.Equal(t, `["10.0.0.1:8000","10.0.0.2:8000"]`, string(response.Expose().Body))

	page, err := alice.Index(headers("cookie", "auth=true"), "")
	require.NoError(t, err)
	require.True(t, bytes.Contains(page.Expose().Body, []byte("<li>10.0.0.2:8000</li>")))

	t.Run("tracker is down", func(t *testing.T) {
		orphan := newPeer(t, Session{Self: "10.0.0.3:8000", Tracker: "127.0.0.1:1"})
		_, err := orphan.SubmitInfo(headers(), "")
		require.ErrorIs(t, err, status.ErrBadGateway)
	})
}

func TestAddInfoWithoutHost(t *testing.T) {
	_, err := newPeer(t, Session{}).AddInfo(headers(), "")
	require.ErrorIs(t, err, status.ErrBadRequest)
}
