package requestgen

import (
	"testing"

	"github.com/indigo-web/weaprous/http/method"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	hdrs := Headers(3)
	require.Equal(t, 3, hdrs.Len())
	require.Equal(t, "localhost", hdrs.Value("host"))

	request := Generate(method.POST, "/sendMessage", Headers(1), "message=hi")
	require.Equal(t,
		"POST /sendMessage HTTP/1.1\r\nHost: localhost\r\nContent-Length: 10\r\n\r\nmessage=hi",
		string(request),
	)
}
