// Package render turns a document tree into printable markup.
package render

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"

	"github.com/starford/warband/internal/document"
	"github.com/starford/warband/internal/stats"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var page = template.Must(template.New("document.html.tmpl").Funcs(template.FuncMap{
	"number": stats.Number,
	"dict":   dict,
}).ParseFS(templateFS, "templates/document.html.tmpl"))

// HTML writes doc as a standalone printable HTML page. The detail appendix
// starts on a new page.
func HTML(w io.Writer, doc document.Document) error {
	if err := page.Execute(w, doc); err != nil {
		return fmt.Errorf("render: html: %w", err)
	}
	return nil
}

// dict builds a map from alternating key/value arguments for sub-templates.
func dict(pairs ...any) (map[string]any, error) {
	if len(pairs)%2 != 0 {
		return nil, errors.New("dict: odd number of arguments")
	}
	m := make(map[string]any, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		k, ok := pairs[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict: key %v is not a string", pairs[i])
		}
		m[k] = pairs[i+1]
	}
	return m, nil
}
