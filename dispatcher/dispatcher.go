package dispatcher

import (
	"log"
	"os"

	"github.com/indigo-web/weaprous/http"
	"github.com/indigo-web/weaprous/http/status"
)

// Dispatcher invokes the handler resolved for the request and maps its outcome onto
// a response. Nothing a handler does is able to escape it: errors and panics alike
// turn into error responses.
type Dispatcher struct {
	logger *log.Logger
}

func New(logger *log.Logger) *Dispatcher {
	if logger == nil {
		logger = log.New(os.Stderr, "", log.LstdFlags)
	}

	return &Dispatcher{logger: logger}
}

// Dispatch never returns nil. Malformed requests result in 400 Bad Request and requests
// without a resolved route in 404 Not Found, neither invokes any handler. The handler
// is called at most once.
func (d *Dispatcher) Dispatch(request *http.Request) *http.Response {
	switch {
	case request.Malformed():
		return http.Error(status.ErrMalformedRequestLine)
	case !request.Matched():
		return http.Error(status.ErrNotFound)
	}

	return d.invoke(request)
}

func (d *Dispatcher) invoke(request *http.Request) (response *http.Response) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Printf(
				"weaprous: [%s] %s %s: handler panicked: %v",
				request.ID, request.Method, request.Path, r,
			)
			response = http.Error(status.ErrInternalServerError)
		}
	}()

	response, err := request.Route(request.Headers, request.Body)
	if err != nil {
		d.logger.Printf(
			"weaprous: [%s] %s %s: handler failed: %s",
			request.ID, request.Method, request.Path, err,
		)

		return http.Error(err)
	}

	if response == nil {
		return http.Respond()
	}

	return response
}
