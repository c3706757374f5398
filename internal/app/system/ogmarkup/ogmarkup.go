// Package ogmarkup selects the membership fragment shown on a group page:
// a manager badge, a closed-group badge, a subscribe or unsubscribe link,
// a login link for anonymous viewers, or nothing for blocked members.
//
// The choice is re-derived on every render and the fragment carries a
// zero max-age, since membership changes between requests.
package ogmarkup

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/dalemusser/grouppages/internal/app/system/layout"
	"github.com/dalemusser/grouppages/internal/app/system/ogroutes"
	"github.com/dalemusser/grouppages/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MembershipLookup finds a viewer's membership in a group restricted to
// the given states. It returns nil, nil when there is none.
type MembershipLookup interface {
	GetMembership(ctx context.Context, groupID, userID primitive.ObjectID, states []string) (*models.GroupMembership, error)
}

// AccessChecker evaluates a named group permission for a viewer.
type AccessChecker interface {
	UserAccess(ctx context.Context, group models.Group, viewer models.Viewer, permission string) (bool, error)
}

// Router builds URLs for named routes.
type Router interface {
	URLFor(route string, params map[string]string, query url.Values) string
}

// BlockedPolicy decides how a blocked membership is treated.
type BlockedPolicy string

const (
	// BlockedSuppress renders nothing for blocked members.
	BlockedSuppress BlockedPolicy = "suppress"
	// BlockedIgnore looks up active and pending memberships only, so a
	// blocked member is handled like a non-member.
	BlockedIgnore BlockedPolicy = "ignore"
)

// SubscribeMode decides whether moderated subscription gets its own link
// class.
type SubscribeMode string

const (
	// SubscribeDistinct marks moderated subscribe links "subscribe request".
	SubscribeDistinct SubscribeMode = "distinct"
	// SubscribeCollapsed uses "subscribe" for open and moderated groups.
	SubscribeCollapsed SubscribeMode = "collapsed"
)

// ParseBlockedPolicy validates a configured policy name.
func ParseBlockedPolicy(s string) (BlockedPolicy, error) {
	switch p := BlockedPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case BlockedSuppress, BlockedIgnore:
		return p, nil
	case "":
		return BlockedSuppress, nil
	}
	return "", fmt.Errorf("blocked policy must be %q or %q, got %q", BlockedSuppress, BlockedIgnore, s)
}

// ParseSubscribeMode validates a configured mode name.
func ParseSubscribeMode(s string) (SubscribeMode, error) {
	switch m := SubscribeMode(strings.ToLower(strings.TrimSpace(s))); m {
	case SubscribeDistinct, SubscribeCollapsed:
		return m, nil
	case "":
		return SubscribeDistinct, nil
	}
	return "", fmt.Errorf("subscribe mode must be %q or %q, got %q", SubscribeDistinct, SubscribeCollapsed, s)
}

// Options configures a Selector. Zero values pick BlockedSuppress and
// SubscribeDistinct.
type Options struct {
	Blocked   BlockedPolicy
	Subscribe SubscribeMode
}

// Variant identifies which fragment was selected.
type Variant int

const (
	VariantManager Variant = iota + 1
	VariantHidden
	VariantUnsubscribe
	VariantSubscribe
	VariantSubscribeRequest
	VariantLogin
	VariantClosed
)

func (v Variant) String() string {
	switch v {
	case VariantManager:
		return "manager"
	case VariantHidden:
		return "hidden"
	case VariantUnsubscribe:
		return "unsubscribe"
	case VariantSubscribe:
		return "subscribe"
	case VariantSubscribeRequest:
		return "subscribe-request"
	case VariantLogin:
		return "login"
	case VariantClosed:
		return "closed"
	}
	return "unknown"
}

// Result is the selected variant and its fragment.
type Result struct {
	Variant Variant
	Node    layout.Node
}

// LinkID is the DOM id carried by every link variant.
const LinkID = "og_group"

// Visible strings. @name and @group_name are substituted.
const (
	msgManager     = "You are the group manager"
	msgClosed      = "This is a closed group. Only a group administrator can add you."
	msgSubscribe   = "Hi @name, click here if you would like to subscribe to this group called @group_name."
	msgUnsubscribe = "Hi @name, you're already subscribed to this group called, @group_name, click here if you would like to unsubscribe."
	msgLogin       = "Please login to request group membership"
)

// Selector chooses the membership fragment for a (group, viewer) pair.
type Selector struct {
	memberships MembershipLookup
	access      AccessChecker
	routes      Router
	opts        Options
}

// New constructs a Selector.
func New(memberships MembershipLookup, access AccessChecker, routes Router, opts Options) *Selector {
	if opts.Blocked == "" {
		opts.Blocked = BlockedSuppress
	}
	if opts.Subscribe == "" {
		opts.Subscribe = SubscribeDistinct
	}
	return &Selector{memberships: memberships, access: access, routes: routes, opts: opts}
}

// Select returns the fragment for viewer on group. destination is the
// current page (path and query) that anonymous viewers return to after
// logging in. Collaborator errors are returned unchanged.
func (s *Selector) Select(ctx context.Context, group models.Group, viewer models.Viewer, destination string) (Result, error) {
	// Owners manage the group; membership and access do not matter.
	if viewer.Authenticated && viewer.ID == group.OwnerID {
		badge := layout.Tag("span", msgManager, "group", "manager").WithAttr("title", msgManager)
		return result(VariantManager, layout.WrapWide(badge)), nil
	}

	params := map[string]string{
		ogroutes.ParamEntityType: group.EntityType(),
		ogroutes.ParamGroup:      group.ID.Hex(),
	}
	name := viewer.DisplayName
	groupName := group.Label()

	if viewer.Authenticated {
		m, err := s.memberships.GetMembership(ctx, group.ID, viewer.ID, s.lookupStates())
		if err != nil {
			return Result{}, err
		}
		if m != nil {
			// Blocked members cannot apply again, so they get no link at all.
			if m.IsBlocked() {
				return result(VariantHidden, layout.Empty()), nil
			}
			href := s.routes.URLFor(ogroutes.Unsubscribe, params, nil)
			link := s.link(interpolate(msgUnsubscribe, name, groupName), href, []string{"unsubscribe"})
			return result(VariantUnsubscribe, layout.WrapWide(link)), nil
		}
	}

	var href string
	if viewer.Authenticated {
		params[ogroutes.ParamMembershipType] = models.MembershipTypeDefault
		href = s.routes.URLFor(ogroutes.Subscribe, params, nil)
	} else {
		q := url.Values{}
		q.Set(ogroutes.DestinationParam, destination)
		href = s.routes.URLFor(ogroutes.Login, nil, q)
	}

	open, err := s.access.UserAccess(ctx, group, viewer, models.PermSubscribeWithoutApproval)
	if err != nil {
		return Result{}, err
	}
	if open {
		if !viewer.Authenticated {
			return result(VariantLogin, layout.WrapWide(s.link(msgLogin, href, nil))), nil
		}
		link := s.link(interpolate(msgSubscribe, name, groupName), href, []string{"subscribe"})
		return result(VariantSubscribe, layout.WrapWide(link)), nil
	}

	moderated, err := s.access.UserAccess(ctx, group, viewer, models.PermSubscribe)
	if err != nil {
		return Result{}, err
	}
	if moderated {
		classes := []string{"subscribe", "request"}
		variant := VariantSubscribeRequest
		if s.opts.Subscribe == SubscribeCollapsed {
			classes = []string{"subscribe"}
			variant = VariantSubscribe
		}
		if !viewer.Authenticated {
			return result(VariantLogin, layout.WrapWide(s.link(msgLogin, href, classes))), nil
		}
		link := s.link(interpolate(msgSubscribe, name, groupName), href, classes)
		return result(variant, layout.WrapWide(link)), nil
	}

	badge := layout.Tag("span", msgClosed, "group", "closed").WithAttr("title", msgClosed)
	return result(VariantClosed, layout.WrapWide(badge)), nil
}

// Build is Select without the variant.
func (s *Selector) Build(ctx context.Context, group models.Group, viewer models.Viewer, destination string) (layout.Node, error) {
	res, err := s.Select(ctx, group, viewer, destination)
	if err != nil {
		return layout.Node{}, err
	}
	return res.Node, nil
}

// result tags the whole fragment, including the empty one, as uncacheable.
func result(v Variant, n layout.Node) Result {
	return Result{Variant: v, Node: n.WithCache(layout.NoCache())}
}

func (s *Selector) lookupStates() []string {
	states := []string{models.MembershipActive, models.MembershipPending}
	if s.opts.Blocked == BlockedSuppress {
		states = append(states, models.MembershipBlocked)
	}
	return states
}

func (s *Selector) link(text, href string, classes []string) layout.Node {
	return layout.Link(text, href, classes, LinkID).WithCache(layout.NoCache())
}

func interpolate(msg, name, groupName string) string {
	return strings.NewReplacer("@name", name, "@group_name", groupName).Replace(msg)
}
