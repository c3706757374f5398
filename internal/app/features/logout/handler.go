// internal/app/features/logout/handler.go
package logout

import (
	"net/http"

	"github.com/dalemusser/grouppages/internal/app/system/auth"
	"github.com/dalemusser/grouppages/internal/app/system/ogroutes"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"go.uber.org/zap"
)

// Handler ends sessions.
type Handler struct {
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
}

func NewHandler(sessionMgr *auth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{
		Log:        logger,
		SessionMgr: sessionMgr,
	}
}

// ServeLogout handles GET /user/logout.
//
// The session cookie is expired and the browser is sent back to the
// local ?destination= (typically the group page the link was on), or to
// the group directory when none is given.
func (h *Handler) ServeLogout(w http.ResponseWriter, r *http.Request) {
	dest := urlutil.SafeReturn(query.Get(r, ogroutes.DestinationParam), "", "/")

	if u, ok := auth.CurrentUser(r); ok {
		h.Log.Info("user signed out", zap.String("user_id", u.ID))
	}
	h.expireSession(w, r)

	// HTMX swaps would otherwise render the redirect target inside the fragment.
	if r.Header.Get("HX-Request") != "" {
		w.Header().Set("HX-Redirect", dest)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, dest, http.StatusSeeOther)
}

// expireSession overwrites the session cookie with MaxAge -1 using the
// store's cookie scope, so the browser drops the same cookie it was given.
func (h *Handler) expireSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.SessionMgr.GetSession(r)
	if err != nil {
		// A cookie that no longer decodes is still overwritten below.
		h.Log.Warn("logout: session decode failed", zap.Error(err))
	}
	if session == nil {
		return
	}

	if opts := h.SessionMgr.Store().Options; opts != nil {
		session.Options.Domain = opts.Domain
		session.Options.Path = opts.Path
		session.Options.Secure = opts.Secure
		session.Options.HttpOnly = opts.HttpOnly
		session.Options.SameSite = opts.SameSite
	}
	session.Options.MaxAge = -1

	if err := session.Save(r, w); err != nil {
		h.Log.Error("logout: save session", zap.Error(err))
	}
}
