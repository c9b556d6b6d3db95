// Package headermenu serves the storefront navigation, a singleton created
// with defaults on first read. In custom mode the menu links catalog
// categories, which are resolved at read time.
package headermenu

import (
	"context"
	"errors"
	"net/http"
	"strings"

	categorystore "github.com/dalemusser/stratacms/internal/app/store/categories"
	headermenustore "github.com/dalemusser/stratacms/internal/app/store/headermenu"
	"github.com/dalemusser/stratacms/internal/app/store/storeutil"
	"github.com/dalemusser/stratacms/internal/app/system/apperr"
	"github.com/dalemusser/stratacms/internal/app/system/inputval"
	"github.com/dalemusser/stratacms/internal/app/system/jsonutil"
	"github.com/dalemusser/stratacms/internal/app/system/timeouts"
	"github.com/dalemusser/stratacms/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const msgNotFound = "Header menu configuration not found"

var errMissingCategory = apperr.Validation("Category ID is required")

// Handler handles header menu requests.
type Handler struct {
	store      *headermenustore.Store
	categories *categorystore.Store
	logger     *zap.Logger
}

// NewHandler creates a new header menu handler.
func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		store:      headermenustore.New(db),
		categories: categorystore.New(db),
		logger:     logger,
	}
}

// Public handles GET /header-menu.
func (h *Handler) Public(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.logger, "headermenu.public")
	defer cancel()

	hm, err := h.store.Get(ctx)
	if err != nil {
		jsonutil.Error(w, r, h.logger, "get header menu", err)
		return
	}
	out, err := resolve(ctx, h.categories, hm)
	if err != nil {
		jsonutil.Error(w, r, h.logger, "resolve header menu", err)
		return
	}
	jsonutil.OK(w, "Header menu configuration retrieved successfully", out)
}

// adminView is the stored configuration plus the categories it references,
// active or not, so the editor can show names for every entry.
type adminView struct {
	*models.HeaderMenuConfig
	Categories []models.Category `json:"categories"`
}

// Admin handles GET /header-menu/admin.
func (h *Handler) Admin(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.logger, "headermenu.admin")
	defer cancel()

	hm, err := h.store.Get(ctx)
	if err != nil {
		jsonutil.Error(w, r, h.logger, "get header menu", err)
		return
	}
	view, err := h.adminView(ctx, hm)
	if err != nil {
		jsonutil.Error(w, r, h.logger, "load menu categories", err)
		return
	}
	jsonutil.OK(w, "Header menu configuration retrieved successfully", view)
}

func (h *Handler) adminView(ctx context.Context, hm *models.HeaderMenuConfig) (adminView, error) {
	ids := make([]primitive.ObjectID, len(hm.MenuCategories))
	for i, ref := range hm.MenuCategories {
		ids[i] = ref.CategoryID
	}
	found, err := h.categories.ByIDs(ctx, ids)
	if err != nil {
		return adminView{}, err
	}
	cats := make([]models.Category, 0, len(found))
	for _, id := range ids {
		if c, ok := found[id]; ok {
			cats = append(cats, c)
			delete(found, id)
		}
	}
	return adminView{HeaderMenuConfig: hm, Categories: cats}, nil
}

type menuInput struct {
	MenuType        *string                   `json:"menuType"`
	StaticMenuItems *[]models.StaticMenuItem  `json:"staticMenuItems"`
	MenuCategories  *[]models.MenuCategoryRef `json:"menuCategories"`
	ManualMenuItems *[]models.ManualMenuItem  `json:"manualMenuItems"`
	ShowShopMenu    *bool                     `json:"showShopMenu"`
}

type menuTypeRule struct {
	MenuType string `validate:"menutype" label:"Menu type"`
}

type targetRule struct {
	Target string `validate:"linktarget" label:"Link target"`
}

// checkTarget trims *t, defaults it to _self and validates it.
func checkTarget(t *string) error {
	*t = strings.TrimSpace(*t)
	if *t == "" {
		*t = models.TargetSelf
	}
	return inputval.Check(targetRule{Target: *t})
}

func checkRefs(refs []models.MenuCategoryRef) error {
	for _, ref := range refs {
		if ref.CategoryID.IsZero() {
			return errMissingCategory
		}
	}
	return nil
}

func (in *menuInput) normalize() error {
	if in.MenuType != nil {
		mt := strings.TrimSpace(*in.MenuType)
		if err := inputval.Check(menuTypeRule{MenuType: mt}); err != nil {
			return err
		}
		if mt == "" {
			mt = models.MenuTypeDefault
		}
		in.MenuType = &mt
	}
	if in.MenuCategories != nil {
		if err := checkRefs(*in.MenuCategories); err != nil {
			return err
		}
	}
	if in.ManualMenuItems != nil {
		items := *in.ManualMenuItems
		for i := range items {
			if err := checkTarget(&items[i].Target); err != nil {
				return err
			}
			for j := range items[i].Submenus {
				if err := checkTarget(&items[i].Submenus[j].Target); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// Update handles PUT /header-menu/admin. Fields left out of the body are kept.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var in menuInput
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.Error(w, r, h.logger, "decode header menu", err)
		return
	}
	if err := in.normalize(); err != nil {
		jsonutil.Error(w, r, h.logger, "validate header menu", err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.logger, "headermenu.update")
	defer cancel()

	hm, err := h.store.Update(ctx, headermenustore.UpdateInput{
		MenuType:        in.MenuType,
		StaticMenuItems: in.StaticMenuItems,
		MenuCategories:  in.MenuCategories,
		ManualMenuItems: in.ManualMenuItems,
		ShowShopMenu:    in.ShowShopMenu,
	})
	if err != nil {
		jsonutil.Error(w, r, h.logger, "update header menu", err)
		return
	}
	h.logger.Info("header menu updated", zap.String("menu_type", hm.MenuType))
	jsonutil.OK(w, "Header menu configuration updated successfully", hm)
}

type orderInput struct {
	MenuCategories []models.MenuCategoryRef `json:"menuCategories"`
}

// UpdateOrder handles PUT /header-menu/admin/order, replacing the category
// references of an existing configuration.
func (h *Handler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	var in orderInput
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.Error(w, r, h.logger, "decode menu order", err)
		return
	}
	if err := checkRefs(in.MenuCategories); err != nil {
		jsonutil.Error(w, r, h.logger, "validate menu order", err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.logger, "headermenu.order")
	defer cancel()

	hm, err := h.store.UpdateOrder(ctx, in.MenuCategories)
	if errors.Is(err, storeutil.ErrNotFound) {
		jsonutil.NotFound(w, r, msgNotFound)
		return
	}
	if err != nil {
		jsonutil.Error(w, r, h.logger, "update menu order", err)
		return
	}
	jsonutil.OK(w, "Menu order updated successfully", hm)
}
