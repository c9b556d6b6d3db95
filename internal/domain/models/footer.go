// internal/domain/models/footer.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxFooterColumns is the number of dynamic columns the footer layout supports.
const MaxFooterColumns = 6

// YearToken is replaced with the current year when the copyright is served.
const YearToken = "{year}"

// Footer defaults.
const (
	DefaultPrivacyLabel = "Privacy Policy"
	DefaultTermsLabel   = "Terms & Conditions"
	DefaultCopyright    = "© Cavios® " + YearToken + ". Designed for performance. Built to last."
)

// FooterItem is a link inside a footer column.
type FooterItem struct {
	Label    string `bson:"label" json:"label"`
	Href     string `bson:"href" json:"href"`
	Target   string `bson:"target" json:"target"`
	Order    int    `bson:"order" json:"order"`
	IsActive bool   `bson:"is_active" json:"isActive"`
}

// FooterColumn is a headed list of footer links.
type FooterColumn struct {
	Heading  string       `bson:"heading" json:"heading"`
	Items    []FooterItem `bson:"items" json:"items"`
	Order    int          `bson:"order" json:"order"`
	IsActive bool         `bson:"is_active" json:"isActive"`
}

// FooterLink is a bottom-section link. When AutoDetect is set the href is
// resolved from the matching static page at read time.
type FooterLink struct {
	Label      string `bson:"label" json:"label"`
	Href       string `bson:"href" json:"href"`
	AutoDetect bool   `bson:"auto_detect" json:"autoDetect"`
}

// FooterBottom holds the legal links and copyright line.
type FooterBottom struct {
	PrivacyPolicy      FooterLink `bson:"privacy_policy" json:"privacyPolicy"`
	TermsAndConditions FooterLink `bson:"terms_and_conditions" json:"termsAndConditions"`
	Copyright          string     `bson:"copyright" json:"copyright"`
}

// FooterConfig is the singleton footer document.
type FooterConfig struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DynamicColumns []FooterColumn     `bson:"dynamic_columns" json:"dynamicColumns"`
	BottomSection  FooterBottom       `bson:"bottom_section" json:"bottomSection"`
	CreatedAt      time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updatedAt"`
}

// DefaultFooterBottom returns the bottom section used for a new footer.
func DefaultFooterBottom() FooterBottom {
	return FooterBottom{
		PrivacyPolicy:      FooterLink{Label: DefaultPrivacyLabel, AutoDetect: true},
		TermsAndConditions: FooterLink{Label: DefaultTermsLabel, AutoDetect: true},
		Copyright:          DefaultCopyright,
	}
}

// DefaultFooterConfig returns the footer created on first read.
func DefaultFooterConfig() FooterConfig {
	return FooterConfig{
		DynamicColumns: []FooterColumn{},
		BottomSection:  DefaultFooterBottom(),
	}
}

// ResolvedFooter is the public footer payload: active columns and items in
// order, legal links resolved, copyright year substituted.
type ResolvedFooter struct {
	DynamicColumns []FooterColumn `json:"dynamicColumns"`
	BottomSection  FooterBottom   `json:"bottomSection"`
}
