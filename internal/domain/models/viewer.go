package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Viewer is the account looking at a page. Anonymous viewers have a nil
// ID and Authenticated false.
type Viewer struct {
	ID            primitive.ObjectID
	DisplayName   string
	Authenticated bool
	IsAdmin       bool
}

// Anonymous returns the viewer for a request with no signed-in user.
func Anonymous() Viewer { return Viewer{DisplayName: "Anonymous"} }
