package groupstore

import (
	"context"
	"time"

	"github.com/dalemusser/grouppages/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("groups")}
}

// GetByID loads a group node. Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Group, error) {
	var g models.Group
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&g); err != nil {
		return models.Group{}, err
	}
	return g, nil
}

// Create inserts a group node, assigning ID, folded title and timestamps.
// An empty bundle defaults to "group".
func (s *Store) Create(ctx context.Context, g models.Group) (models.Group, error) {
	now := time.Now().UTC()
	g.ID = primitive.NewObjectID()
	g.TitleCI = text.Fold(g.Title)
	if g.Bundle == "" {
		g.Bundle = "group"
	}
	g.CreatedAt = now
	g.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, g); err != nil {
		return models.Group{}, err
	}
	return g, nil
}

// SetPublished flips the published flag.
func (s *Store) SetPublished(ctx context.Context, id primitive.ObjectID, published bool) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"published":  published,
		"updated_at": time.Now().UTC(),
	}})
	return err
}

// ListPublished returns up to limit published groups ordered by title.
func (s *Store) ListPublished(ctx context.Context, limit int64) ([]models.Group, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "title_ci", Value: 1}, {Key: "_id", Value: 1}}).
		SetProjection(bson.M{"body": 0})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cur, err := s.c.Find(ctx, bson.M{"published": true}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Group
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
