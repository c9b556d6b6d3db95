// internal/domain/models/banner.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Banner collection style variants.
const (
	BannerStyleDefault  = "default"
	BannerStylePosition = "position"
)

// Defaults applied when a banner is created without the optional fields.
const (
	DefaultButtonText           = "Shop Now"
	DefaultCollectionButtonLink = "/shop-collection"
	DefaultCountdownButtonLink  = "/shop-default-grid"
	DefaultHeroAlt              = "hero-slideshow"
	DefaultHeroButtonText       = "Explore Collection"
	DefaultHeroButtonLink       = "/shop-default-grid"
)

// AllBannerStyles returns the accepted banner collection styles.
func AllBannerStyles() []string {
	return []string{BannerStyleDefault, BannerStylePosition}
}

// IsValidBannerStyle reports whether s is an accepted banner style.
func IsValidBannerStyle(s string) bool {
	for _, v := range AllBannerStyles() {
		if v == s {
			return true
		}
	}
	return false
}

// BannerCollection is a promotional tile shown in the storefront collection grid.
type BannerCollection struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Image       string             `bson:"image" json:"image"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	ButtonText  string             `bson:"button_text" json:"buttonText"`
	ButtonLink  string             `bson:"button_link" json:"buttonLink"`
	Style       string             `bson:"style" json:"style"`
	IsActive    bool               `bson:"is_active" json:"isActive"`
	Order       int                `bson:"order" json:"order"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updatedAt"`
}

// BannerCountdown is a time-limited promotion. It stops being shown once EndDate passes.
type BannerCountdown struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Image       string             `bson:"image" json:"image"`
	EndDate     time.Time          `bson:"end_date" json:"endDate"`
	ButtonText  string             `bson:"button_text" json:"buttonText"`
	ButtonLink  string             `bson:"button_link" json:"buttonLink"`
	IsActive    bool               `bson:"is_active" json:"isActive"`
	Order       int                `bson:"order" json:"order"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updatedAt"`
}

// HeroBanner is a homepage slideshow entry. Only the canonical field names are
// stored; legacy aliases (title, modelImage, button1Text, button1Link) are
// translated by the API layer.
type HeroBanner struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ImgSrc             string             `bson:"img_src" json:"imgSrc"`
	Alt                string             `bson:"alt" json:"alt"`
	Subheading         string             `bson:"subheading" json:"subheading"`
	Heading            string             `bson:"heading" json:"heading"`
	BtnText            string             `bson:"btn_text" json:"btnText"`
	ButtonLink         string             `bson:"button_link" json:"buttonLink"`
	Description        string             `bson:"description" json:"description"`
	BackgroundGradient string             `bson:"background_gradient" json:"backgroundGradient"`
	Button2Text        string             `bson:"button2_text" json:"button2Text"`
	Button2Link        string             `bson:"button2_link" json:"button2Link"`
	IsActive           bool               `bson:"is_active" json:"isActive"`
	Order              int                `bson:"order" json:"order"`
	CreatedBy          string             `bson:"created_by,omitempty" json:"createdBy,omitempty"`
	UpdatedBy          string             `bson:"updated_by,omitempty" json:"updatedBy,omitempty"`
	CreatedAt          time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt          time.Time          `bson:"updated_at" json:"updatedAt"`
}
