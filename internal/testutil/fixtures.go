package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/grouppages/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// WithChiURLParams adds chi URL parameters (key, value pairs) to the
// request context. Use this in handler tests that call handlers directly.
func WithChiURLParams(r *http.Request, kv ...string) *http.Request {
	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(kv); i += 2 {
		rctx.URLParams.Add(kv[i], kv[i+1])
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser creates an active member account.
func (f *Fixtures) CreateUser(ctx context.Context, displayName, loginID string) models.User {
	f.t.Helper()
	return f.createUser(ctx, displayName, loginID, "", "member")
}

// CreateUserWithPassword creates an active member account whose password
// is hashed with bcrypt's minimum cost.
func (f *Fixtures) CreateUserWithPassword(ctx context.Context, displayName, loginID, password string) models.User {
	f.t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		f.t.Fatalf("failed to hash password: %v", err)
	}
	return f.createUser(ctx, displayName, loginID, string(hash), "member")
}

// CreateAdmin creates a site admin account.
func (f *Fixtures) CreateAdmin(ctx context.Context, displayName, loginID string) models.User {
	f.t.Helper()
	return f.createUser(ctx, displayName, loginID, "", "admin")
}

func (f *Fixtures) createUser(ctx context.Context, displayName, loginID, hash, role string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:           primitive.NewObjectID(),
		DisplayName:  displayName,
		LoginID:      loginID,
		LoginIDCI:    text.Fold(loginID),
		PasswordHash: hash,
		Role:         role,
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateGroup creates a published group node of bundle "group".
func (f *Fixtures) CreateGroup(ctx context.Context, title string, ownerID primitive.ObjectID) models.Group {
	f.t.Helper()

	now := time.Now().UTC()
	group := models.Group{
		ID:        primitive.NewObjectID(),
		OwnerID:   ownerID,
		Title:     title,
		TitleCI:   text.Fold(title),
		Bundle:    "group",
		Body:      "<p>Test group description</p>",
		Published: true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("groups").InsertOne(ctx, group); err != nil {
		f.t.Fatalf("failed to create test group: %v", err)
	}
	return group
}

// CreateMembership links a user to a group in the given state.
func (f *Fixtures) CreateMembership(ctx context.Context, group models.Group, userID primitive.ObjectID, state string) models.GroupMembership {
	f.t.Helper()

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

	if _, err := f.db.Collection("group_memberships").InsertOne(ctx, m); err != nil {
		f.t.Fatalf("failed to create test membership: %v", err)
	}
	return m
}

// GrantNonMember sets the non-member permissions for the "group" bundle.
func (f *Fixtures) GrantNonMember(ctx context.Context, perms ...string) {
	f.t.Helper()

	if perms == nil {
		perms = []string{}
	}
	_, err := f.db.Collection("group_roles").InsertOne(ctx, models.GroupRole{
		ID:          primitive.NewObjectID(),
		Bundle:      "group",
		Role:        models.RoleNonMember,
		Permissions: perms,
	})
	if err != nil {
		f.t.Fatalf("failed to create test group role: %v", err)
	}
}

// ViewerFor returns the signed-in viewer for u.
func ViewerFor(u models.User) models.Viewer {
	return models.Viewer{ID: u.ID, DisplayName: u.DisplayName, Authenticated: true, IsAdmin: u.Role == "admin"}
}
