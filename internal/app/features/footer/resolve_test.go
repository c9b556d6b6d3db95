package footer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dalemusser/stratacms/internal/domain/models"
)

type fakePages map[string]*models.StaticPageLink

func (f fakePages) FirstActiveByType(_ context.Context, pageType string) (*models.StaticPageLink, error) {
	if pageType == "boom" {
		return nil, errors.New("boom")
	}
	return f[pageType], nil
}

func TestActiveColumns(t *testing.T) {
	cols := []models.FooterColumn{
		{Heading: "Help", Order: 2, IsActive: true, Items: []models.FooterItem{
			{Label: "b", Order: 2, IsActive: true},
			{Label: "hidden", Order: 0, IsActive: false},
			{Label: "a", Order: 1, IsActive: true},
		}},
		{Heading: "Off", Order: 0, IsActive: false},
		{Heading: "Shop", Order: 1, IsActive: true},
	}

	got := activeColumns(cols)
	if len(got) != 2 || got[0].Heading != "Shop" || got[1].Heading != "Help" {
		t.Fatalf("columns = %+v", got)
	}
	items := got[1].Items
	if len(items) != 2 || items[0].Label != "a" || items[1].Label != "b" {
		t.Errorf("items = %+v", items)
	}
	if got[0].Items == nil {
		t.Error("empty item list should encode as [] not null")
	}
}

func TestResolve(t *testing.T) {
	rv := resolver{
		pages: fakePages{
			models.PageTypePrivacyPolicy: {Slug: "privacy"},
		},
		pageBase: "/page/",
	}
	fc := &models.FooterConfig{
		BottomSection: models.FooterBottom{
			PrivacyPolicy:      models.FooterLink{Label: "Privacy", Href: "/old-privacy", AutoDetect: true},
			TermsAndConditions: models.FooterLink{Label: "Terms", Href: "/terms", AutoDetect: true},
			Copyright:          "© Shop {year}. {year}!",
		},
	}
	now := time.Date(2031, 3, 1, 0, 0, 0, 0, time.UTC)

	out, err := rv.resolve(context.Background(), fc, now)
	if err != nil {
		t.Fatalf("resolve() error = %v", err)
	}
	if out.BottomSection.PrivacyPolicy.Href != "/page/privacy" {
		t.Errorf("privacy href = %q", out.BottomSection.PrivacyPolicy.Href)
	}
	if out.BottomSection.TermsAndConditions.Href != "/terms" {
		t.Errorf("terms href = %q, want stored fallback", out.BottomSection.TermsAndConditions.Href)
	}
	if out.BottomSection.Copyright != "© Shop 2031. 2031!" {
		t.Errorf("copyright = %q", out.BottomSection.Copyright)
	}
	if fc.BottomSection.PrivacyPolicy.Href != "/old-privacy" {
		t.Error("resolve() should not modify the stored config")
	}

	fc.BottomSection.PrivacyPolicy.AutoDetect = false
	out, _ = rv.resolve(context.Background(), fc, now)
	if out.BottomSection.PrivacyPolicy.Href != "/old-privacy" {
		t.Errorf("manual href replaced: %q", out.BottomSection.PrivacyPolicy.Href)
	}
}

func TestResolve_LookupError(t *testing.T) {
	rv := resolver{pages: fakePages{}}
	l := models.FooterLink{AutoDetect: true}
	if _, err := rv.link(context.Background(), l, "boom"); err == nil {
		t.Error("link() should return lookup errors")
	}
}
