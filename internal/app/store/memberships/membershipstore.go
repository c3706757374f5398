// internal/app/store/memberships/membershipstore.go
package membershipstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/grouppages/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("group_memberships")}
}

var errBadState = errors.New(`state must be "active", "pending" or "blocked"`)

var ErrDuplicateMembership = errors.New("user already has a membership in this group")

func validState(state string) bool {
	switch state {
	case models.MembershipActive, models.MembershipPending, models.MembershipBlocked:
		return true
	}
	return false
}

// GetMembership returns the membership for (groupID, userID) if its state
// is one of states. It returns nil, nil when there is no such membership.
// An empty states list matches any state.
func (s *Store) GetMembership(ctx context.Context, groupID, userID primitive.ObjectID, states []string) (*models.GroupMembership, error) {
	filter := bson.M{"group_id": groupID, "user_id": userID}
	if len(states) > 0 {
		filter["state"] = bson.M{"$in": states}
	}
	var m models.GroupMembership
	err := s.c.FindOne(ctx, filter).Decode(&m)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Add creates a default-type membership in the given state.
func (s *Store) Add(ctx context.Context, group models.Group, userID primitive.ObjectID, state string) (models.GroupMembership, error) {
	if !validState(state) {
		return models.GroupMembership{}, errBadState
	}
	now := time.Now().UTC()
	m := models.GroupMembership{
		ID:         primitive.NewObjectID(),
		GroupID:    group.ID,
		UserID:     userID,
		EntityType: group.EntityType(),
		Type:       models.MembershipTypeDefault,
		State:      state,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := s.c.InsertOne(ctx, m); err != nil {
		if wafflemongo.IsDup(err) {
			return models.GroupMembership{}, ErrDuplicateMembership
		}
		return models.GroupMembership{}, err
	}
	return m, nil
}

// SetState changes the state of an existing membership.
// Returns mongo.ErrNoDocuments if there is none.
func (s *Store) SetState(ctx context.Context, groupID, userID primitive.ObjectID, state string) error {
	if !validState(state) {
		return errBadState
	}
	res, err := s.c.UpdateOne(ctx,
		bson.M{"group_id": groupID, "user_id": userID},
		bson.M{"$set": bson.M{"state": state, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Remove deletes the membership document for (groupID, userID).
func (s *Store) Remove(ctx context.Context, groupID, userID primitive.ObjectID) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"group_id": groupID, "user_id": userID})
	return err
}

// CountByGroup returns the count of memberships for a group, optionally
// filtered by state. If state is empty, counts all memberships.
func (s *Store) CountByGroup(ctx context.Context, groupID primitive.ObjectID, state string) (int64, error) {
	filter := bson.M{"group_id": groupID}
	if state != "" {
		filter["state"] = state
	}
	return s.c.CountDocuments(ctx, filter)
}
