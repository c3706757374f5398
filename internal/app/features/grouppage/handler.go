// internal/app/features/grouppage/handler.go
package grouppage

import (
	"errors"
	"html/template"
	"net/http"

	uierrors "github.com/dalemusser/grouppages/internal/app/features/errors"
	"github.com/dalemusser/grouppages/internal/app/policy/grouppolicy"
	groupstore "github.com/dalemusser/grouppages/internal/app/store/groups"
	"github.com/dalemusser/grouppages/internal/app/system/authz"
	"github.com/dalemusser/grouppages/internal/app/system/layout"
	"github.com/dalemusser/grouppages/internal/app/system/ogroutes"
	"github.com/dalemusser/grouppages/internal/app/system/timeouts"
	"github.com/dalemusser/grouppages/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves group pages.
type Handler struct {
	Groups  *groupstore.Store
	Builder *Builder
	ErrLog  *uierrors.ErrorLogger
	Log     *zap.Logger
}

// NewHandler constructs a group page Handler.
func NewHandler(db *mongo.Database, builder *Builder, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Groups:  groupstore.New(db),
		Builder: builder,
		ErrLog:  errLog,
		Log:     logger,
	}
}

type pageData struct {
	viewdata.BaseVM
	Content template.HTML
}

// ServeGroup renders a group page.
// GET /node/{node}
//
// HTMX requests get the fragment only, so the membership area can be
// refreshed in place.
func (h *Handler) ServeGroup(w http.ResponseWriter, r *http.Request) {
	gid, err := primitive.ObjectIDFromHex(chi.URLParam(r, ogroutes.ParamNode))
	if err != nil {
		uierrors.RenderNotFound(w, r, "/")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "build group page")
	defer cancel()

	g, err := h.Groups.GetByID(ctx, gid)
	if errors.Is(err, mongo.ErrNoDocuments) {
		uierrors.RenderNotFound(w, r, "/")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load group failed", err, "A database error occurred.", "/")
		return
	}

	viewer := authz.Viewer(r)
	if !grouppolicy.CanView(g, viewer) {
		uierrors.RenderNotFound(w, r, "/")
		return
	}

	node, err := h.Builder.BuildFull(ctx, g, viewer, r.URL.RequestURI())
	if err != nil {
		h.ErrLog.LogServerError(w, r, "build group page failed", err, "A database error occurred.", "/")
		return
	}
	content, err := layout.Render(node)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "render group page failed", err, "The page could not be displayed.", "/")
		return
	}

	if layout.MaxAge(node) == 0 {
		w.Header().Set("Cache-Control", "no-store")
	}

	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(content))
		return
	}

	templates.Render(w, r, "group_page", pageData{
		BaseVM:  viewdata.NewBaseVM(r, g.Label(), "/"),
		Content: content,
	})
}
