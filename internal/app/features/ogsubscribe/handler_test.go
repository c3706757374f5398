package ogsubscribe_test

import (
	"net/http"
	"testing"

	uierrors "github.com/dalemusser/grouppages/internal/app/features/errors"
	"github.com/dalemusser/grouppages/internal/app/features/ogsubscribe"
	membershipstore "github.com/dalemusser/grouppages/internal/app/store/memberships"
	"github.com/dalemusser/grouppages/internal/app/system/ogmarkup"
	"github.com/dalemusser/grouppages/internal/app/system/ogroutes"
	"github.com/dalemusser/grouppages/internal/domain/models"
	"github.com/dalemusser/grouppages/internal/testutil"
	"go.uber.org/zap"
)

func newTestHandler(t *testing.T) (*ogsubscribe.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	h := ogsubscribe.NewHandler(db, ogroutes.New(), uierrors.NewErrorLogger(logger), logger)
	return h, testutil.NewFixtures(t, db)
}

func subscribeReq(method string, g models.Group, u *models.User) *http.Request {
	path := "/group/node/" + g.ID.Hex() + "/subscribe/default"
	r := testutil.NewRequest(method, path)
	if u != nil {
		r = testutil.WithUser(r, *u)
	}
	return testutil.WithChiURLParams(r,
		ogroutes.ParamEntityType, "node",
		ogroutes.ParamGroup, g.ID.Hex(),
		ogroutes.ParamMembershipType, models.MembershipTypeDefault)
}

func unsubscribeReq(method string, g models.Group, u *models.User) *http.Request {
	path := "/group/node/" + g.ID.Hex() + "/unsubscribe"
	r := testutil.NewRequest(method, path)
	if u != nil {
		r = testutil.WithUser(r, *u)
	}
	return testutil.WithChiURLParams(r,
		ogroutes.ParamEntityType, "node",
		ogroutes.ParamGroup, g.ID.Hex())
}

// serve runs fn and swallows template panics; templates are not booted in
// unit tests.
func serve(fn http.HandlerFunc, r *http.Request) *testutil.ResponseRecorder {
	rec := testutil.NewRecorder()
	func() {
		defer func() { _ = recover() }()
		fn(rec, r)
	}()
	return rec
}

func membershipState(t *testing.T, fx *testutil.Fixtures, g models.Group, u models.User) string {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()
	m, err := membershipstore.New(fx.DB()).GetMembership(ctx, g.ID, u.ID, nil)
	if err != nil {
		t.Fatalf("GetMembership failed: %v", err)
	}
	if m == nil {
		return ""
	}
	return m.State
}

func TestHandleSubscribe_OpenGroupCreatesActive(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fx.CreateUser(ctx, "Owner", "u42")
	alex := fx.CreateUser(ctx, "Alex", "u7")
	g := fx.CreateGroup(ctx, "Sports Club", owner.ID)
	fx.GrantNonMember(ctx, models.PermSubscribe, models.PermSubscribeWithoutApproval)

	rec := serve(h.HandleSubscribe, subscribeReq("POST", g, &alex))

	rec.AssertRedirect(t, "/node/"+g.ID.Hex())
	if got := membershipState(t, fx, g, alex); got != models.MembershipActive {
		t.Errorf("state: got %q, want active", got)
	}
}

func TestHandleSubscribe_ModeratedGroupCreatesPending(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fx.CreateUser(ctx, "Owner", "u42")
	alex := fx.CreateUser(ctx, "Alex", "u7")
	g := fx.CreateGroup(ctx, "Sports Club", owner.ID)
	fx.GrantNonMember(ctx, models.PermSubscribe)

	rec := serve(h.HandleSubscribe, subscribeReq("POST", g, &alex))

	rec.AssertRedirect(t, "/node/"+g.ID.Hex())
	if got := membershipState(t, fx, g, alex); got != models.MembershipPending {
		t.Errorf("state: got %q, want pending", got)
	}
}

func TestHandleSubscribe_ClosedGroupForbidden(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fx.CreateUser(ctx, "Owner", "u42")
	alex := fx.CreateUser(ctx, "Alex", "u7")
	g := fx.CreateGroup(ctx, "Sports Club", owner.ID)
	fx.GrantNonMember(ctx)

	rec := serve(h.HandleSubscribe, subscribeReq("POST", g, &alex))

	rec.AssertStatus(t, http.StatusForbidden)
	if got := membershipState(t, fx, g, alex); got != "" {
		t.Errorf("expected no membership, got %q", got)
	}
}

func TestHandleSubscribe_BlockedRefused(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fx.CreateUser(ctx, "Owner", "u42")
	alex := fx.CreateUser(ctx, "Alex", "u7")
	g := fx.CreateGroup(ctx, "Sports Club", owner.ID)
	fx.GrantNonMember(ctx, models.PermSubscribe, models.PermSubscribeWithoutApproval)
	fx.CreateMembership(ctx, g, alex.ID, models.MembershipBlocked)

	rec := serve(h.HandleSubscribe, subscribeReq("POST", g, &alex))

	rec.AssertStatus(t, http.StatusForbidden)
	if got := membershipState(t, fx, g, alex); got != models.MembershipBlocked {
		t.Errorf("state: got %q, want blocked", got)
	}
}

func TestHandleSubscribe_BlockedIgnoredReapplies(t *testing.T) {
	h, fx := newTestHandler(t)
	h.Blocked = ogmarkup.BlockedIgnore
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fx.CreateUser(ctx, "Owner", "u42")
	alex := fx.CreateUser(ctx, "Alex", "u7")
	g := fx.CreateGroup(ctx, "Sports Club", owner.ID)
	fx.GrantNonMember(ctx, models.PermSubscribe)
	fx.CreateMembership(ctx, g, alex.ID, models.MembershipBlocked)

	rec := serve(h.HandleSubscribe, subscribeReq("POST", g, &alex))

	rec.AssertRedirect(t, "/node/"+g.ID.Hex())
	if got := membershipState(t, fx, g, alex); got != models.MembershipPending {
		t.Errorf("state: got %q, want pending", got)
	}
}

func TestHandleSubscribe_BlockedIgnoredClosedGroupRefused(t *testing.T) {
	h, fx := newTestHandler(t)
	h.Blocked = ogmarkup.BlockedIgnore
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fx.CreateUser(ctx, "Owner", "u42")
	alex := fx.CreateUser(ctx, "Alex", "u7")
	g := fx.CreateGroup(ctx, "Sports Club", owner.ID)
	fx.CreateMembership(ctx, g, alex.ID, models.MembershipBlocked)

	rec := serve(h.HandleSubscribe, subscribeReq("POST", g, &alex))

	rec.AssertStatus(t, http.StatusForbidden)
	if got := membershipState(t, fx, g, alex); got != models.MembershipBlocked {
		t.Errorf("state: got %q, want blocked", got)
	}
}

func TestHandleSubscribe_ExistingMemberRedirected(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fx.CreateUser(ctx, "Owner", "u42")
	alex := fx.CreateUser(ctx, "Alex", "u7")
	g := fx.CreateGroup(ctx, "Sports Club", owner.ID)
	fx.GrantNonMember(ctx, models.PermSubscribe)
	fx.CreateMembership(ctx, g, alex.ID, models.MembershipPending)

	rec := serve(h.HandleSubscribe, subscribeReq("POST", g, &alex))

	rec.AssertRedirect(t, "/node/"+g.ID.Hex())
	if got := membershipState(t, fx, g, alex); got != models.MembershipPending {
		t.Errorf("state: got %q, want pending", got)
	}
}

func TestHandleSubscribe_OwnerRedirected(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fx.CreateUser(ctx, "Owner", "u42")
	g := fx.CreateGroup(ctx, "Sports Club", owner.ID)

	rec := serve(h.HandleSubscribe, subscribeReq("POST", g, &owner))

	rec.AssertRedirect(t, "/node/"+g.ID.Hex())
	if got := membershipState(t, fx, g, owner); got != "" {
		t.Errorf("owner should not get a membership, got %q", got)
	}
}

func TestServeSubscribe_AnonymousRedirectsToLogin(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fx.CreateUser(ctx, "Owner", "u42")
	g := fx.CreateGroup(ctx, "Sports Club", owner.ID)

	rec := serve(h.ServeSubscribe, subscribeReq("GET", g, nil))

	rec.AssertRedirect(t, "/user/login?destination=%2Fgroup%2Fnode%2F"+g.ID.Hex()+"%2Fsubscribe%2Fdefault")
}

func TestServeSubscribe_UnknownMembershipType(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fx.CreateUser(ctx, "Owner", "u42")
	alex := fx.CreateUser(ctx, "Alex", "u7")
	g := fx.CreateGroup(ctx, "Sports Club", owner.ID)

	r := testutil.WithChiURLParams(testutil.NewAuthenticatedRequest("GET", "/group/node/x/subscribe/vip", alex),
		ogroutes.ParamEntityType, "node",
		ogroutes.ParamGroup, g.ID.Hex(),
		ogroutes.ParamMembershipType, "vip")
	rec := serve(h.ServeSubscribe, r)

	rec.AssertStatus(t, http.StatusNotFound)
}

func TestHandleUnsubscribe_RemovesMembership(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fx.CreateUser(ctx, "Owner", "u42")
	alex := fx.CreateUser(ctx, "Alex", "u7")
	g := fx.CreateGroup(ctx, "Sports Club", owner.ID)
	fx.CreateMembership(ctx, g, alex.ID, models.MembershipActive)

	rec := serve(h.HandleUnsubscribe, unsubscribeReq("POST", g, &alex))

	rec.AssertRedirect(t, "/node/"+g.ID.Hex())
	if got := membershipState(t, fx, g, alex); got != "" {
		t.Errorf("expected membership removed, got %q", got)
	}
}

func TestHandleUnsubscribe_OwnerForbidden(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fx.CreateUser(ctx, "Owner", "u42")
	g := fx.CreateGroup(ctx, "Sports Club", owner.ID)

	rec := serve(h.HandleUnsubscribe, unsubscribeReq("POST", g, &owner))
	rec.AssertStatus(t, http.StatusForbidden)
}

func TestHandleUnsubscribe_BlockedForbidden(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fx.CreateUser(ctx, "Owner", "u42")
	alex := fx.CreateUser(ctx, "Alex", "u7")
	g := fx.CreateGroup(ctx, "Sports Club", owner.ID)
	fx.CreateMembership(ctx, g, alex.ID, models.MembershipBlocked)

	rec := serve(h.HandleUnsubscribe, unsubscribeReq("POST", g, &alex))

	rec.AssertStatus(t, http.StatusForbidden)
	if got := membershipState(t, fx, g, alex); got != models.MembershipBlocked {
		t.Errorf("state: got %q, want blocked", got)
	}
}

func TestServeUnsubscribe_NonMemberRedirected(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fx.CreateUser(ctx, "Owner", "u42")
	alex := fx.CreateUser(ctx, "Alex", "u7")
	g := fx.CreateGroup(ctx, "Sports Club", owner.ID)

	rec := serve(h.ServeUnsubscribe, unsubscribeReq("GET", g, &alex))
	rec.AssertRedirect(t, "/node/"+g.ID.Hex())
}

func TestHandleUnsubscribe_AnonymousRedirectsToLogin(t *testing.T) {
	h, fx := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := fx.CreateUser(ctx, "Owner", "u42")
	g := fx.CreateGroup(ctx, "Sports Club", owner.ID)

	rec := serve(h.HandleUnsubscribe, unsubscribeReq("POST", g, nil))
	rec.AssertRedirect(t, "/user/login?destination=%2Fgroup%2Fnode%2F"+g.ID.Hex()+"%2Funsubscribe")
}
