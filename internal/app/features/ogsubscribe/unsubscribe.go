// internal/app/features/ogsubscribe/unsubscribe.go
package ogsubscribe

import (
	"net/http"

	uierrors "github.com/dalemusser/grouppages/internal/app/features/errors"
	"github.com/dalemusser/grouppages/internal/app/policy/grouppolicy"
	"github.com/dalemusser/grouppages/internal/app/system/ogroutes"
	"github.com/dalemusser/grouppages/internal/app/system/timeouts"
	"github.com/dalemusser/grouppages/internal/app/system/viewdata"
	"github.com/dalemusser/grouppages/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"
)

// checkUnsubscribe runs the unsubscribe preconditions. It writes the
// response itself and reports false when the request should stop.
func (h *Handler) checkUnsubscribe(w http.ResponseWriter, r *http.Request) (models.Group, models.Viewer, bool) {
	viewer, ok := h.requireViewer(w, r)
	if !ok {
		return models.Group{}, viewer, false
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "unsubscribe checks")
	defer cancel()

	g, ok := h.loadGroup(ctx, w, r, viewer)
	if !ok {
		return models.Group{}, viewer, false
	}

	if grouppolicy.IsManager(g, viewer) {
		uierrors.RenderForbidden(w, r, "As the manager of "+g.Label()+", you can not leave the group.", h.groupURL(g))
		return models.Group{}, viewer, false
	}

	m, err := h.Memberships.GetMembership(ctx, g.ID, viewer.ID, nil)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "membership lookup failed", err, "A database error occurred.", h.groupURL(g))
		return models.Group{}, viewer, false
	}
	if m == nil {
		http.Redirect(w, r, h.groupURL(g), http.StatusSeeOther)
		return models.Group{}, viewer, false
	}
	// Leaving would let a blocked member apply again.
	if m.IsBlocked() {
		uierrors.RenderForbidden(w, r, "You have been blocked from this group.", h.groupURL(g))
		return models.Group{}, viewer, false
	}
	return g, viewer, true
}

// ServeUnsubscribe shows the leave confirmation form.
// GET /group/{entity_type_id}/{group}/unsubscribe
func (h *Handler) ServeUnsubscribe(w http.ResponseWriter, r *http.Request) {
	g, _, ok := h.checkUnsubscribe(w, r)
	if !ok {
		return
	}

	templates.Render(w, r, "og_confirm", confirmData{
		BaseVM:      viewdata.NewBaseVM(r, "Leave "+g.Label(), h.groupURL(g)),
		FormID:      UnsubscribeFormID,
		Prompt:      "Are you sure you want to unsubscribe from the group " + g.Label() + "?",
		Action:      h.actionURL(ogroutes.Unsubscribe, g, nil),
		SubmitLabel: "Unsubscribe",
		CancelURL:   h.groupURL(g),
		CSRFField:   csrf.TemplateField(r),
	})
}

// HandleUnsubscribe deletes the viewer's membership.
// POST /group/{entity_type_id}/{group}/unsubscribe
func (h *Handler) HandleUnsubscribe(w http.ResponseWriter, r *http.Request) {
	g, viewer, ok := h.checkUnsubscribe(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "unsubscribe")
	defer cancel()

	if err := h.Memberships.Remove(ctx, g.ID, viewer.ID); err != nil {
		h.ErrLog.LogServerError(w, r, "remove membership failed", err, "A database error occurred.", h.groupURL(g))
		return
	}
	h.Log.Info("group membership removed",
		zap.String("group_id", g.ID.Hex()),
		zap.String("user_id", viewer.ID.Hex()))

	http.Redirect(w, r, h.groupURL(g), http.StatusSeeOther)
}
