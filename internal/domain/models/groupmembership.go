package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Membership states.
const (
	MembershipActive  = "active"
	MembershipPending = "pending"
	MembershipBlocked = "blocked"
)

// MembershipTypeDefault is the only membership type this app creates.
const MembershipTypeDefault = "default"

// GroupMembership links a user to a group.
// Exactly one document per (user_id, group_id); state is a scalar
// ("active" | "pending" | "blocked"). No document means no membership.
type GroupMembership struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	GroupID    primitive.ObjectID `bson:"group_id" json:"group_id"`
	UserID     primitive.ObjectID `bson:"user_id" json:"user_id"`
	EntityType string             `bson:"entity_type" json:"entity_type"` // "node"
	Type       string             `bson:"type" json:"type"`               // "default"
	State      string             `bson:"state" json:"state"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updated_at"`
}

func (m GroupMembership) IsActive() bool  { return m.State == MembershipActive }
func (m GroupMembership) IsPending() bool { return m.State == MembershipPending }
func (m GroupMembership) IsBlocked() bool { return m.State == MembershipBlocked }
