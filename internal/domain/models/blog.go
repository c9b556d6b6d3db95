// internal/domain/models/blog.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultBlogAuthor is used when a post is created without an author.
const DefaultBlogAuthor = "Admin"

// Blog is a published article. Content holds sanitized HTML.
type Blog struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title           string             `bson:"title" json:"title"`
	Description     string             `bson:"description" json:"description"`
	Content         string             `bson:"content" json:"content"`
	Image           string             `bson:"image" json:"image"`
	Author          string             `bson:"author" json:"author"`
	Slug            string             `bson:"slug" json:"slug"`
	IsActive        bool               `bson:"is_active" json:"isActive"`
	PublishedAt     time.Time          `bson:"published_at" json:"publishedAt"`
	MetaTitle       string             `bson:"meta_title" json:"metaTitle"`
	MetaDescription string             `bson:"meta_description" json:"metaDescription"`
	CreatedAt       time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updatedAt"`
}

// BlogSummary is the subset of a blog attached to comments in admin listings.
type BlogSummary struct {
	ID    primitive.ObjectID `bson:"_id" json:"id"`
	Title string             `bson:"title" json:"title"`
	Slug  string             `bson:"slug" json:"slug"`
}

// BlogComment is a reader comment on a blog. ParentID is nil for top-level comments.
type BlogComment struct {
	ID         primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	BlogID     primitive.ObjectID  `bson:"blog_id" json:"blogId"`
	ParentID   *primitive.ObjectID `bson:"parent_id" json:"parentId"`
	Name       string              `bson:"name" json:"name"`
	Email      string              `bson:"email" json:"email"`
	Comment    string              `bson:"comment" json:"comment"`
	IsApproved bool                `bson:"is_approved" json:"isApproved"`
	CreatedAt  time.Time           `bson:"created_at" json:"createdAt"`
	UpdatedAt  time.Time           `bson:"updated_at" json:"updatedAt"`
}

// CommentThread is an approved top-level comment with its approved direct replies.
type CommentThread struct {
	BlogComment
	Replies []BlogComment `json:"replies"`
}

// CommentWithBlog is a comment whose blogId is expanded into a summary of the blog.
// The outer Blog field shadows the embedded blogId in JSON output.
type CommentWithBlog struct {
	BlogComment
	Blog *BlogSummary `json:"blogId"`
}
