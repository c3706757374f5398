// internal/app/features/ogsubscribe/subscribe.go
package ogsubscribe

import (
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/grouppages/internal/app/features/errors"
	"github.com/dalemusser/grouppages/internal/app/policy/grouppolicy"
	membershipstore "github.com/dalemusser/grouppages/internal/app/store/memberships"
	"github.com/dalemusser/grouppages/internal/app/system/ogmarkup"
	"github.com/dalemusser/grouppages/internal/app/system/ogroutes"
	"github.com/dalemusser/grouppages/internal/app/system/timeouts"
	"github.com/dalemusser/grouppages/internal/app/system/viewdata"
	"github.com/dalemusser/grouppages/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"
)

// subscribeCheck is the outcome of the checks shared by GET and POST.
type subscribeCheck struct {
	group  models.Group
	open   bool
	rejoin bool // viewer holds a blocked membership being re-applied
}

// checkSubscribe runs the subscribe preconditions. It writes the
// response itself and reports false when the request should stop.
func (h *Handler) checkSubscribe(w http.ResponseWriter, r *http.Request) (subscribeCheck, models.Viewer, bool) {
	viewer, ok := h.requireViewer(w, r)
	if !ok {
		return subscribeCheck{}, viewer, false
	}
	if chi.URLParam(r, ogroutes.ParamMembershipType) != models.MembershipTypeDefault {
		uierrors.RenderNotFound(w, r, "/")
		return subscribeCheck{}, viewer, false
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "subscribe checks")
	defer cancel()

	g, ok := h.loadGroup(ctx, w, r, viewer)
	if !ok {
		return subscribeCheck{}, viewer, false
	}

	// Owners already manage the group.
	if grouppolicy.IsManager(g, viewer) {
		http.Redirect(w, r, h.groupURL(g), http.StatusSeeOther)
		return subscribeCheck{}, viewer, false
	}

	m, err := h.Memberships.GetMembership(ctx, g.ID, viewer.ID, nil)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "membership lookup failed", err, "A database error occurred.", h.groupURL(g))
		return subscribeCheck{}, viewer, false
	}
	rejoin := false
	switch {
	case m == nil:
	case m.IsBlocked() && h.Blocked == ogmarkup.BlockedIgnore:
		// The group page offered this viewer a subscribe link, so the
		// access checks below decide.
		rejoin = true
	case m.IsBlocked():
		uierrors.RenderForbidden(w, r, "You have been blocked from this group.", h.groupURL(g))
		return subscribeCheck{}, viewer, false
	default:
		http.Redirect(w, r, h.groupURL(g), http.StatusSeeOther)
		return subscribeCheck{}, viewer, false
	}

	open, err := h.Access.UserAccess(ctx, g, viewer, models.PermSubscribeWithoutApproval)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "access check failed", err, "A database error occurred.", h.groupURL(g))
		return subscribeCheck{}, viewer, false
	}
	if !open {
		moderated, err := h.Access.UserAccess(ctx, g, viewer, models.PermSubscribe)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "access check failed", err, "A database error occurred.", h.groupURL(g))
			return subscribeCheck{}, viewer, false
		}
		if !moderated {
			uierrors.RenderForbidden(w, r, "This is a closed group. Only a group administrator can add you.", h.groupURL(g))
			return subscribeCheck{}, viewer, false
		}
	}
	return subscribeCheck{group: g, open: open, rejoin: rejoin}, viewer, true
}

// ServeSubscribe shows the join confirmation form.
// GET /group/{entity_type_id}/{group}/subscribe/{og_membership_type}
func (h *Handler) ServeSubscribe(w http.ResponseWriter, r *http.Request) {
	chk, _, ok := h.checkSubscribe(w, r)
	if !ok {
		return
	}

	label := "Join"
	if !chk.open {
		label = "Request membership"
	}

	templates.Render(w, r, "og_confirm", confirmData{
		BaseVM:      viewdata.NewBaseVM(r, "Join "+chk.group.Label(), h.groupURL(chk.group)),
		FormID:      SubscribeFormID,
		Prompt:      "Are you sure you want to join the group " + chk.group.Label() + "?",
		Action:      h.actionURL(ogroutes.Subscribe, chk.group, map[string]string{ogroutes.ParamMembershipType: models.MembershipTypeDefault}),
		SubmitLabel: label,
		CancelURL:   h.groupURL(chk.group),
		CSRFField:   csrf.TemplateField(r),
	})
}

// HandleSubscribe creates the membership: active when the viewer may join
// without approval, pending otherwise. Under BlockedIgnore a blocked
// membership is moved to that state instead.
// POST /group/{entity_type_id}/{group}/subscribe/{og_membership_type}
func (h *Handler) HandleSubscribe(w http.ResponseWriter, r *http.Request) {
	chk, viewer, ok := h.checkSubscribe(w, r)
	if !ok {
		return
	}

	state := models.MembershipActive
	if !chk.open {
		state = models.MembershipPending
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "subscribe")
	defer cancel()

	if chk.rejoin {
		if err := h.Memberships.SetState(ctx, chk.group.ID, viewer.ID, state); err != nil {
			h.ErrLog.LogServerError(w, r, "reapply membership failed", err, "A database error occurred.", h.groupURL(chk.group))
			return
		}
		h.Log.Info("blocked membership reapplied",
			zap.String("group_id", chk.group.ID.Hex()),
			zap.String("user_id", viewer.ID.Hex()),
			zap.String("state", state))
		http.Redirect(w, r, h.groupURL(chk.group), http.StatusSeeOther)
		return
	}

	_, err := h.Memberships.Add(ctx, chk.group, viewer.ID, state)
	if err != nil && !errors.Is(err, membershipstore.ErrDuplicateMembership) {
		h.ErrLog.LogServerError(w, r, "create membership failed", err, "A database error occurred.", h.groupURL(chk.group))
		return
	}
	if err == nil {
		h.Log.Info("group membership created",
			zap.String("group_id", chk.group.ID.Hex()),
			zap.String("user_id", viewer.ID.Hex()),
			zap.String("state", state))
	}

	http.Redirect(w, r, h.groupURL(chk.group), http.StatusSeeOther)
}
