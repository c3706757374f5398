package home

import (
	"context"
	"net/http"

	uierrors "github.com/dalemusser/grouppages/internal/app/features/errors"
	groupstore "github.com/dalemusser/grouppages/internal/app/store/groups"
	membershipstore "github.com/dalemusser/grouppages/internal/app/store/memberships"
	"github.com/dalemusser/grouppages/internal/app/system/ogroutes"
	"github.com/dalemusser/grouppages/internal/app/system/timeouts"
	"github.com/dalemusser/grouppages/internal/app/system/viewdata"
	"github.com/dalemusser/grouppages/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// listLimit caps the landing page directory.
const listLimit = 100

// Handler holds dependencies needed to serve the home page.
type Handler struct {
	Groups      *groupstore.Store
	Memberships *membershipstore.Store
	Routes      *ogroutes.Table
	ErrLog      *uierrors.ErrorLogger
	Log         *zap.Logger
}

func NewHandler(db *mongo.Database, routes *ogroutes.Table, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Groups:      groupstore.New(db),
		Memberships: membershipstore.New(db),
		Routes:      routes,
		ErrLog:      errLog,
		Log:         logger,
	}
}

type groupItem struct {
	Title   string
	URL     string
	Members int64
}

type homeData struct {
	viewdata.BaseVM
	Groups []groupItem
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET / – group directory                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeRoot(w http.ResponseWriter, r *http.Request) {
	items, err := h.directory(r.Context())
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list groups failed", err, "A database error occurred.", "/")
		return
	}

	templates.Render(w, r, "home", homeData{
		BaseVM: viewdata.NewBaseVM(r, "Groups", "/"),
		Groups: items,
	})
}

func (h *Handler) directory(ctx context.Context) ([]groupItem, error) {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Short())
	defer cancel()

	groups, err := h.Groups.ListPublished(ctx, listLimit)
	if err != nil {
		return nil, err
	}
	items := make([]groupItem, 0, len(groups))
	for _, g := range groups {
		n, err := h.Memberships.CountByGroup(ctx, g.ID, models.MembershipActive)
		if err != nil {
			return nil, err
		}
		items = append(items, groupItem{Title: g.Label(), URL: h.Routes.GroupURL(g.ID.Hex()), Members: n})
	}
	return items, nil
}
