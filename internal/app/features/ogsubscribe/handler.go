// internal/app/features/ogsubscribe/handler.go
package ogsubscribe

import (
	"context"
	"errors"
	"html/template"
	"net/http"

	uierrors "github.com/dalemusser/grouppages/internal/app/features/errors"
	"github.com/dalemusser/grouppages/internal/app/policy/grouppolicy"
	groupstore "github.com/dalemusser/grouppages/internal/app/store/groups"
	membershipstore "github.com/dalemusser/grouppages/internal/app/store/memberships"
	"github.com/dalemusser/grouppages/internal/app/system/authz"
	"github.com/dalemusser/grouppages/internal/app/system/ogaccess"
	"github.com/dalemusser/grouppages/internal/app/system/ogmarkup"
	"github.com/dalemusser/grouppages/internal/app/system/ogroutes"
	"github.com/dalemusser/grouppages/internal/app/system/viewdata"
	"github.com/dalemusser/grouppages/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Form ids match the confirm forms group pages link to.
const (
	SubscribeFormID   = "og-subscribe-confirm-form"
	UnsubscribeFormID = "og-unsubscribe-confirm-form"
)

// Handler serves the join and leave confirmation workflows.
type Handler struct {
	Groups      *groupstore.Store
	Memberships *membershipstore.Store
	Access      *ogaccess.Service
	Routes      *ogroutes.Table
	ErrLog      *uierrors.ErrorLogger
	Log         *zap.Logger

	// Blocked mirrors the group page's blocked policy. Under
	// ogmarkup.BlockedIgnore a blocked viewer may apply again; the zero
	// value refuses them.
	Blocked ogmarkup.BlockedPolicy
}

// NewHandler constructs a subscribe Handler.
func NewHandler(db *mongo.Database, routes *ogroutes.Table, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Groups:      groupstore.New(db),
		Memberships: membershipstore.New(db),
		Access:      ogaccess.New(db),
		Routes:      routes,
		ErrLog:      errLog,
		Log:         logger,
	}
}

type confirmData struct {
	viewdata.BaseVM
	FormID      string
	Prompt      string
	Action      string
	SubmitLabel string
	CancelURL   string
	CSRFField   template.HTML
}

// loadGroup resolves the group named in the URL. It writes the error
// response itself and reports false when the request should stop.
func (h *Handler) loadGroup(ctx context.Context, w http.ResponseWriter, r *http.Request, viewer models.Viewer) (models.Group, bool) {
	if chi.URLParam(r, ogroutes.ParamEntityType) != "node" {
		uierrors.RenderNotFound(w, r, "/")
		return models.Group{}, false
	}
	gid, err := primitive.ObjectIDFromHex(chi.URLParam(r, ogroutes.ParamGroup))
	if err != nil {
		uierrors.RenderNotFound(w, r, "/")
		return models.Group{}, false
	}

	g, err := h.Groups.GetByID(ctx, gid)
	if errors.Is(err, mongo.ErrNoDocuments) {
		uierrors.RenderNotFound(w, r, "/")
		return models.Group{}, false
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load group failed", err, "A database error occurred.", "/")
		return models.Group{}, false
	}
	if !grouppolicy.CanView(g, viewer) {
		uierrors.RenderNotFound(w, r, "/")
		return models.Group{}, false
	}
	return g, true
}

// requireViewer sends anonymous viewers to the login page with the
// current request as the destination.
func (h *Handler) requireViewer(w http.ResponseWriter, r *http.Request) (models.Viewer, bool) {
	v := authz.Viewer(r)
	if v.Authenticated {
		return v, true
	}
	dest := r.URL.RequestURI()
	if r.Method != http.MethodGet {
		dest = r.URL.Path
	}
	http.Redirect(w, r, h.Routes.LoginURL(dest), http.StatusSeeOther)
	return v, false
}

func (h *Handler) groupURL(g models.Group) string {
	return h.Routes.GroupURL(g.ID.Hex())
}

func (h *Handler) routeParams(g models.Group) map[string]string {
	return map[string]string{
		ogroutes.ParamEntityType: g.EntityType(),
		ogroutes.ParamGroup:      g.ID.Hex(),
	}
}

func (h *Handler) actionURL(route string, g models.Group, extra map[string]string) string {
	p := h.routeParams(g)
	for k, v := range extra {
		p[k] = v
	}
	return h.Routes.URLFor(route, p, nil)
}
