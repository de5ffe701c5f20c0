package form

import (
	"iter"
	"strings"

	"github.com/indigo-web/weaprous/internal/urlencoded"
)

type Data struct {
	Name  string
	Value string
}

// Form is an ordered list of fields, as they appeared in the body.
type Form []Data

// Parse decodes an application/x-www-form-urlencoded body. Pairs without the = sign are
// treated as names with empty values.
func Parse(body string) (Form, error) {
	var (
		form Form
		buff []byte
		err  error
	)

	for len(body) > 0 {
		var pair string
		pair, body, _ = strings.Cut(body, "&")
		if len(pair) == 0 {
			continue
		}

		name, value, _ := strings.Cut(pair, "=")
		name, buff, err = urlencoded.ExtendedDecodeString(name, buff)
		if err != nil {
			return nil, err
		}

		value, buff, err = urlencoded.ExtendedDecodeString(value, buff)
		if err != nil {
			return nil, err
		}

		form = append(form, Data{Name: name, Value: value})
	}

	return form, nil
}

// Name returns the first Data matching the name.
func (f Form) Name(name string) (Data, bool) {
	for data := range f.Names(name) {
		return data, true
	}

	return Data{}, false
}

// Value returns the value of the first field matching the name, or an empty string.
func (f Form) Value(name string) string {
	data, _ := f.Name(name)
	return data.Value
}

// Names returns an iterator over all Data matching the name.
func (f Form) Names(name string) iter.Seq[Data] {
	return func(yield func(Data) bool) {
		for _, entry := range f {
			if entry.Name == name {
				if !yield(entry) {
					break
				}
			}
		}
	}
}
