// internal/app/features/styleguide/templates.go
package styleguide

import (
	"embed"

	"github.com/dalemusser/waffle/pantry/templates"
)

//go:embed templates/*.gohtml
var FS embed.FS

func init() {
	templates.Register(templates.Set{
		Name:     "styleguide",
		FS:       FS,
		Patterns: []string{"templates/*.gohtml"},
	})
}
