// Package nodetypestore resolves bundle machine names to their labels.
// Labels change rarely, so lookups are cached in-process for a short TTL.
package nodetypestore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/grouppages/internal/domain/models"
	"github.com/patrickmn/go-cache"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c      *mongo.Collection
	labels *cache.Cache
}

// New returns a Store caching labels for ttl. A zero ttl disables caching.
func New(db *mongo.Database, ttl time.Duration) *Store {
	s := &Store{c: db.Collection("node_types")}
	if ttl > 0 {
		s.labels = cache.New(ttl, 2*ttl)
	}
	return s
}

// Label returns the human label for bundle. Unknown bundles fall back to
// the machine name so a page never fails over a missing type document.
func (s *Store) Label(ctx context.Context, bundle string) (string, error) {
	if s.labels != nil {
		if v, ok := s.labels.Get(bundle); ok {
			return v.(string), nil
		}
	}

	var nt models.NodeType
	err := s.c.FindOne(ctx, bson.M{"_id": bundle}).Decode(&nt)
	label := nt.Label
	switch {
	case errors.Is(err, mongo.ErrNoDocuments) || (err == nil && label == ""):
		label = bundle
	case err != nil:
		return "", err
	}

	if s.labels != nil {
		s.labels.SetDefault(bundle, label)
	}
	return label, nil
}

// Upsert creates or renames a node type and drops its cached label.
func (s *Store) Upsert(ctx context.Context, nt models.NodeType) error {
	_, err := s.c.UpdateOne(ctx,
		bson.M{"_id": nt.Bundle},
		bson.M{"$set": bson.M{"label": nt.Label}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return err
	}
	if s.labels != nil {
		s.labels.Delete(nt.Bundle)
	}
	return nil
}

// EnsureDefault inserts nt only if no document exists for its bundle.
func (s *Store) EnsureDefault(ctx context.Context, nt models.NodeType) error {
	_, err := s.c.UpdateOne(ctx,
		bson.M{"_id": nt.Bundle},
		bson.M{"$setOnInsert": bson.M{"label": nt.Label}},
		options.Update().SetUpsert(true),
	)
	return err
}
