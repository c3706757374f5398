// internal/app/features/grouppage/routes.go
package grouppage

import (
	"github.com/dalemusser/grouppages/internal/app/system/ogroutes"
	"github.com/go-chi/chi/v5"
)

// MountRoutes mounts the group page on r at the canonical node path.
func MountRoutes(r chi.Router, h *Handler) {
	r.Get(ogroutes.Patterns[ogroutes.GroupPage], h.ServeGroup)
}
