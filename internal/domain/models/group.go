package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Group is a content node that acts as a group container users can join.
//
// NOTE:
//   - Membership is not embedded on Group. It lives in the
//     group_memberships collection, one document per (user, group).
//   - PublishDate overrides CreatedAt for display when set.
type Group struct {
	ID      primitive.ObjectID `bson:"_id" json:"id"`
	OwnerID primitive.ObjectID `bson:"owner_id" json:"owner_id"`
	Title   string             `bson:"title" json:"title"`
	TitleCI string             `bson:"title_ci" json:"title_ci"`
	Bundle  string             `bson:"bundle" json:"bundle"` // node type machine name, e.g. "group"
	Body    string             `bson:"body" json:"body"`     // stored HTML, sanitized on render

	PublishDate *time.Time `bson:"publish_date,omitempty" json:"publish_date,omitempty"`
	Published   bool       `bson:"published" json:"published"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// EntityType is the entity type id used in group routes.
func (g Group) EntityType() string { return "node" }

// Label returns the display label of the group.
func (g Group) Label() string { return g.Title }

// DisplayTimestamp returns the publish date override, or the creation
// time when no override is set.
func (g Group) DisplayTimestamp() time.Time {
	if g.PublishDate != nil && !g.PublishDate.IsZero() {
		return *g.PublishDate
	}
	return g.CreatedAt
}
