package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Group role names.
const (
	RoleNonMember = "non-member"
	RoleMember    = "member"
)

// Group permission names checked by the membership fragment and the
// subscribe workflow.
const (
	PermSubscribe                = "subscribe"
	PermSubscribeWithoutApproval = "subscribe without approval"
)

// GroupRole grants permissions to a role for every group of a bundle.
// One document per (bundle, role).
type GroupRole struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Bundle      string             `bson:"bundle" json:"bundle"`
	Role        string             `bson:"role" json:"role"`
	Permissions []string           `bson:"permissions" json:"permissions"`
}

// Has reports whether the role grants perm.
func (r GroupRole) Has(perm string) bool {
	for _, p := range r.Permissions {
		if p == perm {
			return true
		}
	}
	return false
}
