package cookie

import "strings"

// Jar holds cookies received from a user-agent. Only name-value pairs are kept, as the
// Cookie header never carries attributes.
type Jar map[string]string

// Parse splits the Cookie header value into name-value pairs. Segments are separated by
// semicolons and split on the first equality sign, so the value may contain further ones.
// Segments without equality sign are silently skipped. Values are stored as is, without
// any percent-decoding. An empty header results in an empty, non-nil jar.
func Parse(header string) Jar {
	jar := make(Jar)

	for header != "" {
		var segment string
		segment, header, _ = strings.Cut(header, ";")

		name, value, found := strings.Cut(strings.TrimSpace(segment), "=")
		if !found {
			continue
		}

		jar[name] = value
	}

	return jar
}

// Value returns the cookie value or an empty string if it's absent.
func (j Jar) Value(name string) string {
	return j[name]
}

func (j Jar) Has(name string) bool {
	_, found := j[name]
	return found
}
