package footer

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dalemusser/stratacms/internal/domain/models"
)

// pageFinder looks up the static page a legal link should point at.
type pageFinder interface {
	FirstActiveByType(ctx context.Context, pageType string) (*models.StaticPageLink, error)
}

// resolver turns the stored footer into the public payload.
type resolver struct {
	pages    pageFinder
	pageBase string
}

func (rv resolver) resolve(ctx context.Context, fc *models.FooterConfig, now time.Time) (models.ResolvedFooter, error) {
	out := models.ResolvedFooter{
		DynamicColumns: activeColumns(fc.DynamicColumns),
		BottomSection:  fc.BottomSection,
	}

	var err error
	out.BottomSection.PrivacyPolicy, err = rv.link(ctx, fc.BottomSection.PrivacyPolicy, models.PageTypePrivacyPolicy)
	if err != nil {
		return out, err
	}
	out.BottomSection.TermsAndConditions, err = rv.link(ctx, fc.BottomSection.TermsAndConditions, models.PageTypeTermsConditions)
	if err != nil {
		return out, err
	}
	out.BottomSection.Copyright = strings.ReplaceAll(fc.BottomSection.Copyright, models.YearToken, strconv.Itoa(now.Year()))
	return out, nil
}

// link points an auto-detected link at the first active page of pageType.
// Without such a page the stored href is kept.
func (rv resolver) link(ctx context.Context, l models.FooterLink, pageType string) (models.FooterLink, error) {
	if !l.AutoDetect {
		return l, nil
	}
	page, err := rv.pages.FirstActiveByType(ctx, pageType)
	if err != nil {
		return l, err
	}
	if page != nil {
		l.Href = strings.TrimRight(rv.pageBase, "/") + "/" + page.Slug
	}
	return l, nil
}

// activeColumns keeps active columns and their active items, both in order.
func activeColumns(cols []models.FooterColumn) []models.FooterColumn {
	out := make([]models.FooterColumn, 0, len(cols))
	for _, c := range cols {
		if !c.IsActive {
			continue
		}
		items := make([]models.FooterItem, 0, len(c.Items))
		for _, it := range c.Items {
			if it.IsActive {
				items = append(items, it)
			}
		}
		sort.SliceStable(items, func(i, j int) bool { return items[i].Order < items[j].Order })
		c.Items = items
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}
