// internal/domain/models/staticpage.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Static page types. Privacy and terms pages are linked from the footer.
const (
	PageTypeShipping        = "shipping"
	PageTypeReturnRefund    = "return-refund"
	PageTypePrivacyPolicy   = "privacy-policy"
	PageTypeTermsConditions = "terms-conditions"
	PageTypeFAQs            = "faqs"
	PageTypeOther           = "other"
)

// AllPageTypes returns all valid static page types.
func AllPageTypes() []string {
	return []string{
		PageTypeShipping,
		PageTypeReturnRefund,
		PageTypePrivacyPolicy,
		PageTypeTermsConditions,
		PageTypeFAQs,
		PageTypeOther,
	}
}

// IsValidPageType checks if a page type is valid.
func IsValidPageType(t string) bool {
	for _, s := range AllPageTypes() {
		if s == t {
			return true
		}
	}
	return false
}

// StaticPage is an informational page such as shipping or privacy policy.
// Content is sanitized HTML.
type StaticPage struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title           string             `bson:"title" json:"title"`
	Slug            string             `bson:"slug" json:"slug"`
	Content         string             `bson:"content" json:"content"`
	PageType        string             `bson:"page_type" json:"pageType"`
	IsActive        bool               `bson:"is_active" json:"isActive"`
	MetaTitle       string             `bson:"meta_title" json:"metaTitle"`
	MetaDescription string             `bson:"meta_description" json:"metaDescription"`
	CreatedAt       time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updatedAt"`
}

// StaticPageLink is the projection used for public page listings.
type StaticPageLink struct {
	ID       primitive.ObjectID `bson:"_id" json:"id"`
	Title    string             `bson:"title" json:"title"`
	Slug     string             `bson:"slug" json:"slug"`
	PageType string             `bson:"page_type" json:"pageType"`
}
