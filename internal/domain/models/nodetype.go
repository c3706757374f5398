package models

// NodeType maps a bundle machine name to its human label.
type NodeType struct {
	Bundle string `bson:"_id" json:"bundle"`
	Label  string `bson:"label" json:"label"`
}
