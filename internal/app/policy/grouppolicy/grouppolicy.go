// internal/app/policy/grouppolicy/grouppolicy.go
package grouppolicy

import (
	"github.com/dalemusser/grouppages/internal/domain/models"
)

// IsManager reports whether the viewer owns the group.
func IsManager(g models.Group, v models.Viewer) bool {
	return v.Authenticated && v.ID == g.OwnerID
}

// CanView reports whether the viewer may see the group page:
// - Published groups are visible to everyone
// - Unpublished groups only to their owner and site admins
func CanView(g models.Group, v models.Viewer) bool {
	if g.Published || v.IsAdmin {
		return true
	}
	return IsManager(g, v)
}
