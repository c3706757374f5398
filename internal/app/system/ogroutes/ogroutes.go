// Package ogroutes names the routes the group membership fragment links
// to and builds URLs for them.
package ogroutes

import (
	"net/url"
	"strings"
)

// Route names.
const (
	Subscribe   = "og.subscribe"
	Unsubscribe = "og.unsubscribe"
	Login       = "user.login"
	GroupPage   = "entity.node.canonical"
)

// Route parameter names.
const (
	ParamEntityType     = "entity_type_id"
	ParamGroup          = "group"
	ParamMembershipType = "og_membership_type"
	ParamNode           = "node"
)

// DestinationParam is the query key carrying the return-to path on login
// links.
const DestinationParam = "destination"

// Patterns maps route names to chi-style path patterns. Routers mount
// handlers on the same patterns so links and routes cannot drift.
var Patterns = map[string]string{
	Subscribe:   "/group/{entity_type_id}/{group}/subscribe/{og_membership_type}",
	Unsubscribe: "/group/{entity_type_id}/{group}/unsubscribe",
	Login:       "/user/login",
	GroupPage:   "/node/{node}",
}

// Table resolves route names to URLs.
type Table struct {
	patterns map[string]string
}

// New returns a Table over the default Patterns.
func New() *Table {
	return &Table{patterns: Patterns}
}

// URLFor builds the path for route, substituting {param} segments from
// params (path-escaped) and appending query. Unknown routes return "".
func (t *Table) URLFor(route string, params map[string]string, query url.Values) string {
	pattern, ok := t.patterns[route]
	if !ok {
		return ""
	}

	var b strings.Builder
	rest := pattern
	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			b.WriteString(rest)
			break
		}
		end := strings.IndexByte(rest[open:], '}')
		if end < 0 {
			b.WriteString(rest)
			break
		}
		b.WriteString(rest[:open])
		name := rest[open+1 : open+end]
		b.WriteString(url.PathEscape(params[name]))
		rest = rest[open+end+1:]
	}

	if len(query) > 0 {
		b.WriteByte('?')
		b.WriteString(query.Encode())
	}
	return b.String()
}

// LoginURL returns the login path that sends the user back to destination
// after signing in.
func (t *Table) LoginURL(destination string) string {
	q := url.Values{}
	if destination != "" {
		q.Set(DestinationParam, destination)
	}
	return t.URLFor(Login, nil, q)
}

// GroupURL returns the canonical page path for a group node.
func (t *Table) GroupURL(groupHex string) string {
	return t.URLFor(GroupPage, map[string]string{ParamNode: groupHex}, nil)
}
