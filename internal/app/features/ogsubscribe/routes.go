// internal/app/features/ogsubscribe/routes.go
package ogsubscribe

import (
	"github.com/dalemusser/grouppages/internal/app/system/ogroutes"
	"github.com/go-chi/chi/v5"
)

// MountRoutes mounts the join and leave workflows on the paths group
// pages link to.
func MountRoutes(r chi.Router, h *Handler) {
	sub := ogroutes.Patterns[ogroutes.Subscribe]
	r.Get(sub, h.ServeSubscribe)
	r.Post(sub, h.HandleSubscribe)

	unsub := ogroutes.Patterns[ogroutes.Unsubscribe]
	r.Get(unsub, h.ServeUnsubscribe)
	r.Post(unsub, h.HandleUnsubscribe)
}
