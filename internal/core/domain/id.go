package domain

import "go.mongodb.org/mongo-driver/bson/primitive"

// ValidID reports whether id is a well-formed document identifier.
func ValidID(id string) bool {
	return primitive.IsValidObjectID(id)
}

// NewID returns a fresh document identifier.
func NewID() string {
	return primitive.NewObjectID().Hex()
}
