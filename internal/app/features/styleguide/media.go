// internal/app/features/styleguide/media.go
package styleguide

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed media/*
var mediaFS embed.FS

// MediaHandler serves the card images under MediaPath.
func MediaHandler() http.Handler {
	sub, _ := fs.Sub(mediaFS, "media")
	return http.StripPrefix(MediaPath, http.FileServer(http.FS(sub)))
}
