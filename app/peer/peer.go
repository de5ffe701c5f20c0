package peer

import (
	"context"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/dchest/uniuri"
	"github.com/indigo-web/weaprous"
	"github.com/indigo-web/weaprous/client"
	"github.com/indigo-web/weaprous/http"
	"github.com/indigo-web/weaprous/http/cookie"
	"github.com/indigo-web/weaprous/http/form"
	"github.com/indigo-web/weaprous/http/method"
	"github.com/indigo-web/weaprous/http/mime"
	"github.com/indigo-web/weaprous/http/status"
	json "github.com/json-iterator/go"
)

const sessionCookie = "session"

// Session identifies the peer and the tracker it reports to. Both are host:port.
type Session struct {
	Self    string
	Tracker string
}

// Peer is a sample application: every instance is a chat peer, and the one the others
// report to acts as a tracker, keeping the list of active peers.
type Peer struct {
	session     Session
	credentials *Credentials
	registry    *Registry
	history     *History
	client      *client.Client
	logger      *log.Logger

	mu     sync.RWMutex
	tokens map[string]string
	known  []string
}

// New returns a new peer. Outbound calls to the tracker are limited by the timeout.
func New(session Session, credentials *Credentials, timeout time.Duration, logger *log.Logger) *Peer {
	if logger == nil {
		logger = log.New(os.Stderr, "", log.LstdFlags)
	}

	return &Peer{
		session:     session,
		credentials: credentials,
		registry:    NewRegistry(),
		history:     NewHistory(),
		client:      client.New(timeout),
		logger:      logger,
		tokens:      make(map[string]string),
	}
}

// Register binds all the peer's routes. /login is registered by its friendly name, so the
// app's aliases decide which path actually serves it.
func (p *Peer) Register(app *weaprous.App) {
	app.
		Post("/login", p.Login).
		Put("/hello", p.Hello).
		Get("/index.html", p.Index).
		Get("/login.html", p.LoginPage).
		Post("/submitInfo", p.SubmitInfo).
		Post("/addInfo", p.AddInfo).
		Get("/getList", p.GetList).
		Get("/returnList", p.ReturnList).
		Post("/sendMessage", p.SendMessage).
		Get("/messages", p.Messages)
}

// Login checks the form credentials and hands out the auth and session cookies.
func (p *Peer) Login(_ http.Headers, body string) (*http.Response, error) {
	fields, err := form.Parse(body)
	if err != nil {
		return nil, err
	}

	user := fields.Value("username")
	if !p.credentials.Verify(user, fields.Value("password")) {
		p.logger.Printf("peer: failed login attempt for %q", user)
		return nil, status.ErrUnauthorized
	}

	token := uniuri.New()
	p.mu.Lock()
	p.tokens[token] = user
	p.mu.Unlock()

	return http.String("Welcome, "+user).Cookie(
		cookie.Build("auth", "true").Path("/").Cookie(),
		cookie.Build(sessionCookie, token).Path("/").HttpOnly(true).Cookie(),
	), nil
}

func (p *Peer) Hello(headers http.Headers, body string) (*http.Response, error) {
	p.logger.Printf("peer: hello from %s: %q", headers.ValueOr("host", "unknown"), body)
	return nil, nil
}

// Index renders the last known peer list. Requires the auth cookie.
func (p *Peer) Index(headers http.Headers, _ string) (*http.Response, error) {
	if cookie.Parse(headers.Value("cookie")).Value("auth") != "true" {
		return nil, status.ErrUnauthorized
	}

	p.mu.RLock()
	page := renderIndex(p.known)
	p.mu.RUnlock()

	return http.String(page).ContentType(mime.HTML), nil
}

func (p *Peer) LoginPage(http.Headers, string) (*http.Response, error) {
	return http.String(loginPage).ContentType(mime.HTML), nil
}

// SubmitInfo announces the peer to the tracker.
func (p *Peer) SubmitInfo(http.Headers, string) (*http.Response, error) {
	request := client.NewRequest(method.POST, "/addInfo").Header("Host", p.session.Self)
	if _, err := p.callTracker(request); err != nil {
		return nil, err
	}

	return http.String("submitted " + p.session.Self), nil
}

// AddInfo is served by the tracker: the announcing peer is identified by the Host header.
func (p *Peer) AddInfo(headers http.Headers, _ string) (*http.Response, error) {
	addr := strings.TrimSpace(headers.Value("host"))
	if len(addr) == 0 {
		return nil, status.ErrBadRequest
	}

	if p.registry.Add(addr) {
		p.logger.Printf("peer: registered new peer %s", addr)
	}

	return nil, nil
}

// GetList fetches the peer list from the tracker and caches it for Index.
func (p *Peer) GetList(http.Headers, string) (*http.Response, error) {
	response, err := p.callTracker(client.NewRequest(method.GET, "/returnList"))
	if err != nil {
		return nil, err
	}

	var peers []string
	if err = json.UnmarshalFromString(response.Body, &peers); err != nil {
		p.logger.Printf("peer: tracker returned malformed peer list: %s", err)
		return nil, status.ErrBadGateway
	}

	p.mu.Lock()
	p.known = peers
	p.mu.Unlock()

	return http.JSON(peers), nil
}

// ReturnList is served by the tracker.
func (p *Peer) ReturnList(http.Headers, string) (*http.Response, error) {
	return http.JSON(p.registry.List()), nil
}

// SendMessage appends the form's message to the chat history. The author is the logged-in
// user, if the session is known, otherwise the sender's host.
func (p *Peer) SendMessage(headers http.Headers, body string) (*http.Response, error) {
	fields, err := form.Parse(body)
	if err != nil {
		return nil, err
	}

	text := fields.Value("message")
	if len(text) == 0 {
		return nil, status.ErrBadRequest
	}

	p.history.Append(Message{
		From: p.author(headers),
		Text: text,
		At:   time.Now(),
	})

	return nil, nil
}

func (p *Peer) Messages(http.Headers, string) (*http.Response, error) {
	return http.JSON(p.history.All()), nil
}

func (p *Peer) author(headers http.Headers) string {
	token := cookie.Parse(headers.Value("cookie")).Value(sessionCookie)

	p.mu.RLock()
	user, found := p.tokens[token]
	p.mu.RUnlock()

	if found {
		return user
	}

	return headers.ValueOr("host", "anonymous")
}

func (p *Peer) callTracker(request *client.Request) (*client.Response, error) {
	response, err := p.client.Do(context.Background(), p.session.Tracker, request)
	if err != nil {
		p.logger.Printf("peer: tracker %s: %s", p.session.Tracker, err)
		return nil, status.ErrBadGateway
	}

	if response.Code != status.OK {
		p.logger.Printf(
			"peer: tracker %s: %s %s: unexpected status %d",
			p.session.Tracker, request.Method, request.Path, response.Code,
		)
		return nil, status.ErrBadGateway
	}

	return response, nil
}
