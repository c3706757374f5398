// internal/app/features/login/handler.go
package login

// Terminology: User Identifiers
//   - UserID / userID / user_id: The MongoDB ObjectID (_id) that uniquely identifies a user record
//   - LoginID / loginID / login_id: The human-readable string users type to log in

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/grouppages/internal/app/features/errors"
	userstore "github.com/dalemusser/grouppages/internal/app/store/users"
	"github.com/dalemusser/grouppages/internal/app/system/auth"
	"github.com/dalemusser/grouppages/internal/app/system/ogroutes"
	"github.com/dalemusser/grouppages/internal/app/system/ratelimit"
	"github.com/dalemusser/grouppages/internal/app/system/timeouts"
	"github.com/dalemusser/grouppages/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"github.com/gorilla/csrf"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Users      *userstore.Store
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	Limiter    *ratelimit.LoginLimiter
}

func NewHandler(db *mongo.Database, sessionMgr *auth.SessionManager, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Users:      userstore.New(db),
		Log:        logger,
		SessionMgr: sessionMgr,
		ErrLog:     errLog,
		Limiter:    ratelimit.NewLoginLimiter(),
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| Template-data                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

type loginFormData struct {
	viewdata.BaseVM
	Error       string
	LoginID     string
	Destination string
	CSRFField   template.HTML
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET /user/login                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, "", "", query.Get(r, ogroutes.DestinationParam))
}

/*─────────────────────────────────────────────────────────────────────────────*
| POST /user/login                                                            |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderForm(w, r, "Invalid form data.", "", "")
		return
	}

	loginID := strings.TrimSpace(r.FormValue("login_id"))
	password := r.FormValue("password")
	dest := strings.TrimSpace(r.FormValue(ogroutes.DestinationParam))

	if loginID == "" || password == "" {
		h.renderForm(w, r, "Please enter your login ID and password.", loginID, dest)
		return
	}

	if ok, reason := h.Limiter.Check(r, loginID); !ok {
		h.Log.Warn("login throttled", zap.String("login_id", loginID), zap.String("ip", ratelimit.ClientIP(r)))
		h.renderForm(w, r, reason, loginID, dest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByLoginID(ctx, loginID)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		h.Log.Info("login failed: unknown login id", zap.String("login_id", loginID))
		h.renderForm(w, r, "Unrecognized login ID or password.", loginID, dest)
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "DB find user", err, "A server error occurred.", ogroutes.Patterns[ogroutes.Login])
		return
	}

	if u.Status == "disabled" {
		h.renderForm(w, r, "Your account is currently disabled. Please contact an administrator.", loginID, dest)
		return
	}
	if !auth.CheckPassword(u.PasswordHash, password) {
		h.Log.Info("login failed: bad password", zap.String("user_id", u.ID.Hex()))
		h.renderForm(w, r, "Unrecognized login ID or password.", loginID, dest)
		return
	}

	if err := h.SessionMgr.SignIn(w, r, auth.SessionUser{
		ID:      u.ID.Hex(),
		Name:    u.DisplayName,
		LoginID: u.LoginID,
		Role:    u.Role,
	}); err != nil {
		h.ErrLog.LogServerError(w, r, "save session", err, "A server error occurred.", ogroutes.Patterns[ogroutes.Login])
		return
	}
	h.Limiter.ResetAccount(loginID)
	h.Log.Info("user signed in", zap.String("user_id", u.ID.Hex()))

	http.Redirect(w, r, urlutil.SafeReturn(dest, "", "/"), http.StatusSeeOther)
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, msg, loginID, dest string) {
	templates.Render(w, r, "login", loginFormData{
		BaseVM:      viewdata.NewBaseVM(r, "Log in", "/"),
		Error:       msg,
		LoginID:     loginID,
		Destination: dest,
		CSRFField:   csrf.TemplateField(r),
	})
}
