// internal/app/system/authz/authz.go
package authz

import (
	"net/http"
	"strings"

	"github.com/dalemusser/grouppages/internal/app/system/auth"
	"github.com/dalemusser/grouppages/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserCtx returns the user's role (lowercased), name, Mongo ObjectID, and a found flag.
// If no user is present in context or the user ID is malformed, it returns
// "visitor", "", NilObjectID, false.
func UserCtx(r *http.Request) (role string, name string, userID primitive.ObjectID, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return "visitor", "", primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		// Malformed user ID in session - fail closed.
		return "visitor", "", primitive.NilObjectID, false
	}
	return strings.ToLower(user.Role), user.Name, userID, true
}

// IsAdmin reports whether the current request's user is a site admin.
func IsAdmin(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == "admin"
}

// Viewer returns the account looking at the page. Requests without a
// valid session user get models.Anonymous().
func Viewer(r *http.Request) models.Viewer {
	role, name, id, ok := UserCtx(r)
	if !ok {
		return models.Anonymous()
	}
	return models.Viewer{
		ID:            id,
		DisplayName:   name,
		Authenticated: true,
		IsAdmin:       role == "admin",
	}
}
