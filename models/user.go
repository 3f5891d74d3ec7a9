package models

// User is a read-only directory entry supplied by the identity layer.
// The engine never creates users; it only resolves display names.
type User struct {
	ID   string `bson:"id" json:"id"`
	Name string `bson:"name" json:"name"`
}
