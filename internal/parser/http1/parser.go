package http1

import (
	"strconv"
	"strings"

	"github.com/indigo-web/utils/uf"
	"github.com/indigo-web/weaprous/config"
	"github.com/indigo-web/weaprous/http"
	"github.com/indigo-web/weaprous/http/cookie"
	"github.com/indigo-web/weaprous/http/method"
)

const (
	separator       = "\r\n\r\n"
	headerDelimiter = ": "
)

// Resolver is the read-only side of the route table.
type Resolver interface {
	Resolve(m method.Method, path string) (http.Handler, bool)
	Len() int
}

// Parser turns a complete raw request into http.Request. It holds no per-request state,
// so a single instance is safe for concurrent use as long as the resolver is.
type Parser struct {
	path   config.Path
	routes Resolver
}

// NewParser returns a new parser. Routes may be nil, in which case no route is ever resolved.
func NewParser(path config.Path, routes Resolver) *Parser {
	return &Parser{
		path:   path,
		routes: routes,
	}
}

// Parse never fails: a malformed request line results in a request with unknown method, empty
// path and version, which must be checked via Request.Malformed(). The returned request
// references the passed buffer, so it must not be modified until the request is discarded.
func (p *Parser) Parse(raw []byte) *http.Request {
	request := http.NewRequest()
	data := uf.B2S(raw)

	head, body, found := strings.Cut(data, separator)
	if !found {
		head, body = data, ""
	}

	requestLine, headers := cutLine(head)
	request.Method, request.Path, request.Version = parseRequestLine(requestLine)
	if len(request.Path) > 0 {
		if rewritten := p.path.Rewrite(request.Path); rewritten != request.Path {
			request.AliasFrom, request.Path = request.Path, rewritten
		}
	}

	parseHeaders(request.Headers, headers)
	request.Body = body
	if len(body) > 0 || request.Headers.Has("content-length") {
		// the value is derived from the body actually received, not trusted from the client
		request.Headers.Set("content-length", strconv.Itoa(len(body)))
	}

	if host := request.Headers.Value("host"); len(host) > 0 {
		request.URL = "http://" + host + request.Path
	} else {
		request.URL = request.Path
	}

	request.Cookies = cookie.Parse(request.Headers.Value("cookie"))

	if p.routes != nil && p.routes.Len() > 0 && !request.Malformed() {
		request.Route, _ = p.routes.Resolve(request.Method, request.Path)
	}

	return request
}

func parseRequestLine(line string) (method.Method, string, string) {
	tokens := strings.Fields(line)
	if len(tokens) != 3 {
		return method.Unknown, "", ""
	}

	return method.Parse(tokens[0]), tokens[1], tokens[2]
}

// parseHeaders fills the storage with lower-cased names. Lines without the ": " delimiter
// are skipped, later duplicates override earlier ones.
func parseHeaders(storage http.Headers, data string) {
	for len(data) > 0 {
		var line string
		line, data = cutLine(data)

		key, value, found := strings.Cut(line, headerDelimiter)
		if !found {
			continue
		}

		storage.Set(strings.ToLower(key), value)
	}
}

// cutLine returns the first line without its terminator and the rest. Both CRLF and bare LF
// are recognized.
func cutLine(data string) (line, rest string) {
	line, rest, _ = strings.Cut(data, "\n")
	return strings.TrimSuffix(line, "\r"), rest
}
