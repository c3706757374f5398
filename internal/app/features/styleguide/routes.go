// internal/app/features/styleguide/routes.go
package styleguide

import "github.com/go-chi/chi/v5"

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeStyleGuide)
	return r
}
