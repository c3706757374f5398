// Package ogaccess answers "may this viewer do X in this group" from the
// group role permissions of the group's bundle.
package ogaccess

import (
	"context"

	grouprolestore "github.com/dalemusser/grouppages/internal/app/store/grouproles"
	membershipstore "github.com/dalemusser/grouppages/internal/app/store/memberships"
	"github.com/dalemusser/grouppages/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
)

// Service evaluates group permissions.
//
// Site admins and the group owner are always allowed. Active members use
// the bundle's "member" role; everyone else (anonymous, pending and
// blocked users) uses the "non-member" role.
type Service struct {
	roles       *grouprolestore.Store
	memberships *membershipstore.Store
}

func New(db *mongo.Database) *Service {
	return &Service{
		roles:       grouprolestore.New(db),
		memberships: membershipstore.New(db),
	}
}

// UserAccess reports whether viewer holds permission in group.
func (s *Service) UserAccess(ctx context.Context, group models.Group, viewer models.Viewer, permission string) (bool, error) {
	if viewer.Authenticated && (viewer.IsAdmin || viewer.ID == group.OwnerID) {
		return true, nil
	}

	role := models.RoleNonMember
	if viewer.Authenticated {
		m, err := s.memberships.GetMembership(ctx, group.ID, viewer.ID, []string{models.MembershipActive})
		if err != nil {
			return false, err
		}
		if m != nil {
			role = models.RoleMember
		}
	}

	r, err := s.roles.Get(ctx, group.Bundle, role)
	if err != nil {
		return false, err
	}
	return r.Has(permission), nil
}
