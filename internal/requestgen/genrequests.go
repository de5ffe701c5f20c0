package requestgen

import (
	"strconv"
	"strings"

	"github.com/indigo-web/weaprous/http/method"
	"github.com/indigo-web/weaprous/kv"
)

// Headers returns n headers, the last one being Host.
func Headers(n int) *kv.Storage {
	hdrs := kv.NewPrealloc(n)

	for i := 0; i < n-1; i++ {
		hdrs.Add("some-random-header-name-nobody-cares-about"+strconv.Itoa(i), strings.Repeat("b", 100))
	}

	return hdrs.Add("Host", "localhost")
}

func HeadersBlock(hdrs *kv.Storage) (buff []byte) {
	for key, value := range hdrs.Pairs() {
		buff = append(buff, key+": "+value+"\r\n"...)
	}

	return buff
}

// Generate renders a complete request. Content-Length is appended if the body isn't empty.
func Generate(m method.Method, path string, hdrs *kv.Storage, body string) (request []byte) {
	request = append(request, m.String()+" "+path+" HTTP/1.1\r\n"...)
	request = append(request, HeadersBlock(hdrs)...)
	if len(body) > 0 {
		request = append(request, "Content-Length: "+strconv.Itoa(len(body))+"\r\n"...)
	}

	request = append(request, '\r', '\n')

	return append(request, body...)
}
