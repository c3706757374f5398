package membershipstore_test

import (
	"errors"
	"testing"

	membershipstore "github.com/dalemusser/grouppages/internal/app/store/memberships"
	"github.com/dalemusser/grouppages/internal/app/system/indexes"
	"github.com/dalemusser/grouppages/internal/domain/models"
	"github.com/dalemusser/grouppages/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestStore_AddAndGet(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := membershipstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Owner", "owner@example.com")
	alex := fixtures.CreateUser(ctx, "Alex", "alex@example.com")
	group := fixtures.CreateGroup(ctx, "Sports Club", owner.ID)

	if _, err := store.Add(ctx, group, alex.ID, models.MembershipPending); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	m, err := store.GetMembership(ctx, group.ID, alex.ID, []string{models.MembershipActive, models.MembershipPending})
	if err != nil {
		t.Fatalf("GetMembership failed: %v", err)
	}
	if m == nil {
		t.Fatal("expected membership")
	}
	if m.State != models.MembershipPending {
		t.Errorf("State: got %q", m.State)
	}
	if m.EntityType != "node" || m.Type != "default" {
		t.Errorf("EntityType/Type: got %q/%q", m.EntityType, m.Type)
	}
}

func TestStore_GetMembership_StateFilter(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := membershipstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Owner", "owner@example.com")
	alex := fixtures.CreateUser(ctx, "Alex", "alex@example.com")
	group := fixtures.CreateGroup(ctx, "Sports Club", owner.ID)
	fixtures.CreateMembership(ctx, group, alex.ID, models.MembershipBlocked)

	m, err := store.GetMembership(ctx, group.ID, alex.ID, []string{models.MembershipActive, models.MembershipPending})
	if err != nil {
		t.Fatalf("GetMembership failed: %v", err)
	}
	if m != nil {
		t.Errorf("expected blocked membership to be filtered out, got %+v", m)
	}

	m, err = store.GetMembership(ctx, group.ID, alex.ID, nil)
	if err != nil {
		t.Fatalf("GetMembership failed: %v", err)
	}
	if m == nil || !m.IsBlocked() {
		t.Errorf("expected blocked membership without a filter, got %+v", m)
	}
}

func TestStore_GetMembership_None(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := membershipstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	m, err := store.GetMembership(ctx, primitive.NewObjectID(), primitive.NewObjectID(), nil)
	if err != nil {
		t.Fatalf("GetMembership failed: %v", err)
	}
	if m != nil {
		t.Errorf("expected nil membership, got %+v", m)
	}
}

func TestStore_Add_InvalidState(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := membershipstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.Add(ctx, models.Group{ID: primitive.NewObjectID()}, primitive.NewObjectID(), "member")
	if err == nil {
		t.Fatal("expected error for invalid state")
	}
}

func TestStore_Add_Duplicate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
	store := membershipstore.New(db)
	fixtures := testutil.NewFixtures(t, db)

	owner := fixtures.CreateUser(ctx, "Owner", "owner@example.com")
	alex := fixtures.CreateUser(ctx, "Alex", "alex@example.com")
	group := fixtures.CreateGroup(ctx, "Sports Club", owner.ID)

	if _, err := store.Add(ctx, group, alex.ID, models.MembershipActive); err != nil {
		t.Fatalf("first Add failed: %v", err)
	}
	_, err := store.Add(ctx, group, alex.ID, models.MembershipPending)
	if err != membershipstore.ErrDuplicateMembership {
		t.Errorf("expected ErrDuplicateMembership, got %v", err)
	}
}

func TestStore_SetStateAndRemove(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := membershipstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fixtures.CreateUser(ctx, "Owner", "owner@example.com")
	alex := fixtures.CreateUser(ctx, "Alex", "alex@example.com")
	group := fixtures.CreateGroup(ctx, "Sports Club", owner.ID)
	fixtures.CreateMembership(ctx, group, alex.ID, models.MembershipPending)

	if err := store.SetState(ctx, group.ID, alex.ID, models.MembershipActive); err != nil {
		t.Fatalf("SetState failed: %v", err)
	}
	n, err := store.CountByGroup(ctx, group.ID, models.MembershipActive)
	if err != nil {
		t.Fatalf("CountByGroup failed: %v", err)
	}
	if n != 1 {
		t.Errorf("active count: got %d, want 1", n)
	}

	if err := store.Remove(ctx, group.ID, alex.ID); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if n, _ := store.CountByGroup(ctx, group.ID, ""); n != 0 {
		t.Errorf("count after remove: got %d, want 0", n)
	}

	if err := store.SetState(ctx, group.ID, alex.ID, models.MembershipActive); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("SetState on missing membership: got %v, want ErrNoDocuments", err)
	}
}
