package grouprolestore

import (
	"context"
	"errors"

	"github.com/dalemusser/grouppages/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("group_roles")}
}

// Get returns the role for (bundle, role). A missing document is a role
// with no permissions, not an error.
func (s *Store) Get(ctx context.Context, bundle, role string) (models.GroupRole, error) {
	var r models.GroupRole
	err := s.c.FindOne(ctx, bson.M{"bundle": bundle, "role": role}).Decode(&r)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.GroupRole{Bundle: bundle, Role: role}, nil
	}
	if err != nil {
		return models.GroupRole{}, err
	}
	return r, nil
}

// SetPermissions replaces the permission list for (bundle, role).
func (s *Store) SetPermissions(ctx context.Context, bundle, role string, perms []string) error {
	if perms == nil {
		perms = []string{}
	}
	_, err := s.c.UpdateOne(ctx,
		bson.M{"bundle": bundle, "role": role},
		bson.M{"$set": bson.M{"permissions": perms}},
		options.Update().SetUpsert(true),
	)
	return err
}

// EnsureDefault creates (bundle, role) with perms only if it does not exist.
func (s *Store) EnsureDefault(ctx context.Context, bundle, role string, perms []string) error {
	_, err := s.c.UpdateOne(ctx,
		bson.M{"bundle": bundle, "role": role},
		bson.M{"$setOnInsert": bson.M{"permissions": perms}},
		options.Update().SetUpsert(true),
	)
	return err
}
