package peer

import (
	"html"
	"strings"
)

const peerListPlaceholder = "{{ip_list}}"

const indexPage = `<!DOCTYPE html>
<html>
<head><title>Peers</title></head>
<body>
<h1>Active peers</h1>
<ul>{{ip_list}}</ul>
<form action="/getList" method="get"><button>Refresh</button></form>
</body>
</html>
`

const loginPage = `<!DOCTYPE html>
<html>
<head><title>Login</title></head>
<body>
<form action="/login" method="post">
<input name="username" placeholder="username">
<input name="password" type="password" placeholder="password">
<button>Log in</button>
</form>
</body>
</html>
`

func renderIndex(peers []string) string {
	var items strings.Builder
	for _, addr := range peers {
		items.WriteString("<li>")
		items.WriteString(html.EscapeString(addr))
		items.WriteString("</li>")
	}

	return strings.Replace(indexPage, peerListPlaceholder, items.String(), 1)
}
