package headermenu

import (
	"context"
	"sort"

	"github.com/dalemusser/stratacms/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// categorySource reads the catalog categories a custom menu points at.
type categorySource interface {
	ActiveByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Category, error)
	ActiveChildren(ctx context.Context, parents []primitive.ObjectID) (map[primitive.ObjectID][]models.Category, error)
}

// resolve builds the public menu. Default mode lists the active static
// items; custom mode merges category entries with active manual items.
// Either way entries are stable-sorted by order, unset orders last.
func resolve(ctx context.Context, cats categorySource, hm *models.HeaderMenuConfig) (models.ResolvedHeaderMenu, error) {
	out := models.ResolvedHeaderMenu{
		MenuItems:    []models.MenuItem{},
		ShowShopMenu: hm.ShowShopMenu,
		MenuType:     hm.MenuType,
	}
	if out.MenuType == "" {
		out.MenuType = models.MenuTypeDefault
	}

	if out.MenuType == models.MenuTypeDefault {
		for _, it := range hm.StaticMenuItems {
			if !it.IsActive {
				continue
			}
			out.MenuItems = append(out.MenuItems, models.MenuItem{
				Type:  models.MenuItemStatic,
				Name:  it.Name,
				Href:  it.Href,
				Order: it.Order.Rank(),
			})
		}
	} else {
		items, err := categoryItems(ctx, cats, hm.MenuCategories)
		if err != nil {
			return out, err
		}
		out.MenuItems = append(out.MenuItems, items...)
		out.MenuItems = append(out.MenuItems, manualItems(hm.ManualMenuItems)...)
	}

	sort.SliceStable(out.MenuItems, func(i, j int) bool {
		return out.MenuItems[i].Order < out.MenuItems[j].Order
	})
	return out, nil
}

// categoryItems resolves refs to active categories with two levels of
// active descendants. Missing and inactive categories are dropped.
func categoryItems(ctx context.Context, cats categorySource, refs []models.MenuCategoryRef) ([]models.MenuItem, error) {
	if len(refs) == 0 {
		return nil, nil
	}
	ids := make([]primitive.ObjectID, len(refs))
	for i, ref := range refs {
		ids[i] = ref.CategoryID
	}
	found, err := cats.ActiveByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, nil
	}

	tops := make([]primitive.ObjectID, 0, len(found))
	for id := range found {
		tops = append(tops, id)
	}
	children, err := cats.ActiveChildren(ctx, tops)
	if err != nil {
		return nil, err
	}
	var childIDs []primitive.ObjectID
	for _, list := range children {
		for _, c := range list {
			childIDs = append(childIDs, c.ID)
		}
	}
	grandchildren, err := cats.ActiveChildren(ctx, childIDs)
	if err != nil {
		return nil, err
	}

	items := make([]models.MenuItem, 0, len(refs))
	for _, ref := range refs {
		c, ok := found[ref.CategoryID]
		if !ok {
			continue
		}
		kids := make([]models.CategoryNode, 0, len(children[c.ID]))
		for _, child := range children[c.ID] {
			grand := make([]models.CategoryNode, 0, len(grandchildren[child.ID]))
			for _, g := range grandchildren[child.ID] {
				grand = append(grand, node(g, nil))
			}
			kids = append(kids, node(child, grand))
		}
		id := c.ID
		items = append(items, models.MenuItem{
			Type:       models.MenuItemCategory,
			Name:       c.Name,
			Href:       "/shop?category=" + c.Slug,
			Order:      ref.Order.Rank(),
			Slug:       c.Slug,
			CategoryID: &id,
			Children:   kids,
		})
	}
	return items, nil
}

func node(c models.Category, children []models.CategoryNode) models.CategoryNode {
	return models.CategoryNode{
		ID:       c.ID,
		Name:     c.Name,
		Slug:     c.Slug,
		Image:    c.Image,
		IsActive: c.IsActive,
		Children: children,
	}
}

// manualItems returns the active manual items with their active submenus
// in order.
func manualItems(in []models.ManualMenuItem) []models.MenuItem {
	out := make([]models.MenuItem, 0, len(in))
	for _, it := range in {
		if !it.IsActive {
			continue
		}
		subs := make([]models.MenuSubItem, 0, len(it.Submenus))
		for _, s := range it.Submenus {
			if s.IsActive {
				subs = append(subs, s)
			}
		}
		sort.SliceStable(subs, func(i, j int) bool { return subs[i].Order.Rank() < subs[j].Order.Rank() })

		target := it.Target
		if target == "" {
			target = models.TargetSelf
		}
		out = append(out, models.MenuItem{
			Type:     models.MenuItemManual,
			Name:     it.Name,
			Href:     it.Href,
			Order:    it.Order.Rank(),
			Target:   target,
			Submenus: subs,
		})
	}
	return out
}
