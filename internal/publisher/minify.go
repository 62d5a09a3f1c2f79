package publisher

import (
	"io"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
	"github.com/tdewolff/minify/v2/json"
	"github.com/tdewolff/minify/v2/svg"
	"github.com/tdewolff/minify/v2/xml"
)

// Client wraps a minifier keyed by media type.
type Client struct {
	m     *minify.M
	types map[string]bool
}

// NewClient registers minifiers for every media type in MediaTypeFor.
// Document and end tags are kept so layouts round-trip predictably.
func NewClient() Client {
	m := minify.New()
	c := Client{m: m, types: map[string]bool{}}

	c.add("text/html", func() minify.Minifier {
		return &html.Minifier{
			KeepDocumentTags:        true,
			KeepConditionalComments: true,
			KeepEndTags:             true,
			KeepDefaultAttrVals:     true,
		}
	})
	c.add("text/css", func() minify.Minifier { return &css.Minifier{KeepCSS2: true} })
	c.add("application/javascript", func() minify.Minifier { return &js.Minifier{} })
	c.add("application/json", func() minify.Minifier { return &json.Minifier{} })
	c.add("image/svg+xml", func() minify.Minifier { return &svg.Minifier{} })
	c.add("text/xml", func() minify.Minifier { return &xml.Minifier{} })
	return c
}

// add registers a minifier built fresh for every call. Some minifiers keep
// per-run state on their struct and pages are published concurrently.
func (c Client) add(mediaType string, newMinifier func() minify.Minifier) {
	c.m.Add(mediaType, minify.MinifierFunc(func(m *minify.M, w io.Writer, r io.Reader, params map[string]string) error {
		return newMinifier().Minify(m, w, r, params)
	}))
	c.types[mediaType] = true
}

// Supports reports whether a minifier is registered for mediaType.
func (c Client) Supports(mediaType string) bool {
	return c.types[mediaType]
}

// Minify copies r to w, minified for mediaType.
func (c Client) Minify(mediaType string, w io.Writer, r io.Reader) error {
	return c.m.Minify(mediaType, w, r)
}
