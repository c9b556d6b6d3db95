// internal/domain/models/category.go
package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Category is a catalog category. The catalog service owns this collection and
// its camelCase field names; this service only reads it.
type Category struct {
	ID        primitive.ObjectID  `bson:"_id" json:"id"`
	Name      string              `bson:"name" json:"name"`
	Slug      string              `bson:"slug" json:"slug"`
	Image     string              `bson:"image,omitempty" json:"image,omitempty"`
	Parent    *primitive.ObjectID `bson:"parent,omitempty" json:"parent,omitempty"`
	IsActive  bool                `bson:"isActive" json:"isActive"`
	SortOrder int                 `bson:"sortOrder" json:"sortOrder"`
}

// CategoryNode is a category with its active descendants, as shown in the menu.
type CategoryNode struct {
	ID       primitive.ObjectID `json:"id"`
	Name     string             `json:"name"`
	Slug     string             `json:"slug"`
	Image    string             `json:"image,omitempty"`
	IsActive bool               `json:"isActive"`
	Children []CategoryNode     `json:"children,omitempty"`
}
