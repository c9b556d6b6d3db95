// internal/domain/models/headermenu.go
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Header menu modes.
const (
	MenuTypeDefault = "default"
	MenuTypeCustom  = "custom"
)

// Link targets shared by menu and footer links.
const (
	TargetSelf  = "_self"
	TargetBlank = "_blank"
)

// UnorderedRank is the sort position given to menu entries without a usable order.
const UnorderedRank = 9999

// IsValidMenuType reports whether t is a known header menu mode.
func IsValidMenuType(t string) bool {
	return t == MenuTypeDefault || t == MenuTypeCustom
}

// IsValidTarget reports whether t is an accepted link target.
func IsValidTarget(t string) bool {
	return t == TargetSelf || t == TargetBlank
}

// MenuOrder is a display position that accepts a number or a numeric string
// on input. An order that is missing or not numeric is unset and ranks last.
type MenuOrder struct {
	Value int
	Valid bool
}

// OrderOf returns a set MenuOrder.
func OrderOf(n int) MenuOrder {
	return MenuOrder{Value: n, Valid: true}
}

// Rank returns the value used for sorting.
func (o MenuOrder) Rank() int {
	if !o.Valid {
		return UnorderedRank
	}
	return o.Value
}

// UnmarshalJSON accepts 3, 3.0, "3" and treats null or non-numeric strings as unset.
func (o *MenuOrder) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	*o = MenuOrder{}
	if bytes.Equal(trimmed, []byte("null")) {
		return nil
	}

	var num json.Number
	if err := json.Unmarshal(trimmed, &num); err == nil {
		return o.setFromString(num.String())
	}

	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		_ = o.setFromString(strings.TrimSpace(s))
		return nil
	}

	return fmt.Errorf("order: expected number or string, got %s", string(data))
}

func (o *MenuOrder) setFromString(s string) error {
	if n, err := strconv.Atoi(s); err == nil {
		*o = OrderOf(n)
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*o = OrderOf(int(f))
	return nil
}

// MarshalJSON writes the order as a number, or null when unset.
func (o MenuOrder) MarshalJSON() ([]byte, error) {
	if !o.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(o.Value)), nil
}

// MarshalBSONValue stores the order as int64, or null when unset.
func (o MenuOrder) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if !o.Valid {
		return bson.TypeNull, nil, nil
	}
	return bson.MarshalValue(int64(o.Value))
}

// UnmarshalBSONValue reads any numeric BSON value; null and missing are unset.
func (o *MenuOrder) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	rv := bson.RawValue{Type: t, Value: data}
	switch t {
	case bson.TypeInt32:
		*o = OrderOf(int(rv.Int32()))
	case bson.TypeInt64:
		*o = OrderOf(int(rv.Int64()))
	case bson.TypeDouble:
		*o = OrderOf(int(rv.Double()))
	case bson.TypeString:
		*o = MenuOrder{}
		_ = o.setFromString(rv.StringValue())
	default:
		*o = MenuOrder{}
	}
	return nil
}

// StaticMenuItem is a fixed navigation entry shown in default menu mode.
type StaticMenuItem struct {
	Name     string    `bson:"name" json:"name"`
	Href     string    `bson:"href" json:"href"`
	Order    MenuOrder `bson:"order" json:"order"`
	IsActive bool      `bson:"is_active" json:"isActive"`
}

// MenuCategoryRef points a custom menu entry at a catalog category.
type MenuCategoryRef struct {
	CategoryID primitive.ObjectID `bson:"category_id" json:"categoryId"`
	Order      MenuOrder          `bson:"order" json:"order"`
}

// MenuSubItem is a link nested under a manual menu item.
type MenuSubItem struct {
	Name     string    `bson:"name" json:"name"`
	Href     string    `bson:"href" json:"href"`
	Target   string    `bson:"target" json:"target"`
	Order    MenuOrder `bson:"order" json:"order"`
	IsActive bool      `bson:"is_active" json:"isActive"`
}

// ManualMenuItem is an authored link shown in custom menu mode.
type ManualMenuItem struct {
	Name     string        `bson:"name" json:"name"`
	Href     string        `bson:"href" json:"href"`
	Target   string        `bson:"target" json:"target"`
	Order    MenuOrder     `bson:"order" json:"order"`
	IsActive bool          `bson:"is_active" json:"isActive"`
	Submenus []MenuSubItem `bson:"submenus" json:"submenus"`
}

// HeaderMenuConfig is the singleton header navigation document.
type HeaderMenuConfig struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	MenuType        string             `bson:"menu_type" json:"menuType"`
	StaticMenuItems []StaticMenuItem   `bson:"static_menu_items" json:"staticMenuItems"`
	MenuCategories  []MenuCategoryRef  `bson:"menu_categories" json:"menuCategories"`
	ManualMenuItems []ManualMenuItem   `bson:"manual_menu_items" json:"manualMenuItems"`
	ShowShopMenu    bool               `bson:"show_shop_menu" json:"showShopMenu"`
	CreatedAt       time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updatedAt"`
}

// DefaultStaticMenuItems returns the navigation used until an admin customizes it.
func DefaultStaticMenuItems() []StaticMenuItem {
	return []StaticMenuItem{
		{Name: "Home", Href: "/", Order: OrderOf(0), IsActive: true},
		{Name: "Shop", Href: "/shop", Order: OrderOf(1), IsActive: true},
		{Name: "Blog", Href: "/blogs", Order: OrderOf(2), IsActive: true},
		{Name: "Contact Us", Href: "/contact", Order: OrderOf(3), IsActive: true},
	}
}

// DefaultHeaderMenuConfig returns the header menu created on first read.
func DefaultHeaderMenuConfig() HeaderMenuConfig {
	return HeaderMenuConfig{
		MenuType:        MenuTypeDefault,
		StaticMenuItems: DefaultStaticMenuItems(),
		MenuCategories:  []MenuCategoryRef{},
		ManualMenuItems: []ManualMenuItem{},
		ShowShopMenu:    true,
	}
}

// Resolved menu item kinds.
const (
	MenuItemStatic   = "static"
	MenuItemCategory = "category"
	MenuItemManual   = "manual"
)

// MenuItem is one entry of the resolved public header menu. Type selects which
// of the optional fields are populated.
type MenuItem struct {
	Type       string              `json:"type"`
	Name       string              `json:"name"`
	Href       string              `json:"href"`
	Order      int                 `json:"order"`
	Target     string              `json:"target,omitempty"`
	Slug       string              `json:"slug,omitempty"`
	CategoryID *primitive.ObjectID `json:"categoryId,omitempty"`
	Children   []CategoryNode      `json:"children,omitempty"`
	Submenus   []MenuSubItem       `json:"submenus,omitempty"`
}

// ResolvedHeaderMenu is the public header menu payload.
type ResolvedHeaderMenu struct {
	MenuItems    []MenuItem `json:"menuItems"`
	ShowShopMenu bool       `json:"showShopMenu"`
	MenuType     string     `json:"menuType"`
}
