// Package footer serves the site footer, a singleton created with defaults
// on first read.
package footer

import (
	"net/http"
	"strings"
	"time"

	footerstore "github.com/dalemusser/stratacms/internal/app/store/footer"
	staticpagestore "github.com/dalemusser/stratacms/internal/app/store/staticpages"
	"github.com/dalemusser/stratacms/internal/app/system/inputval"
	"github.com/dalemusser/stratacms/internal/app/system/jsonutil"
	"github.com/dalemusser/stratacms/internal/app/system/timeouts"
	"github.com/dalemusser/stratacms/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler handles footer requests.
type Handler struct {
	store    *footerstore.Store
	resolver resolver
	logger   *zap.Logger
	now      func() time.Time
}

// NewHandler creates a new footer handler. Auto-detected legal links are
// served as pageBase + "/" + slug.
func NewHandler(db *mongo.Database, pageBase string, logger *zap.Logger) *Handler {
	return &Handler{
		store:    footerstore.New(db),
		resolver: resolver{pages: staticpagestore.New(db), pageBase: pageBase},
		logger:   logger,
		now:      time.Now,
	}
}

// Public handles GET /footer.
func (h *Handler) Public(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.logger, "footer.public")
	defer cancel()

	fc, err := h.store.Get(ctx)
	if err != nil {
		jsonutil.Error(w, r, h.logger, "get footer", err)
		return
	}
	out, err := h.resolver.resolve(ctx, fc, h.now())
	if err != nil {
		jsonutil.Error(w, r, h.logger, "resolve footer", err)
		return
	}
	jsonutil.OK(w, "Footer configuration retrieved successfully", out)
}

// Admin handles GET /footer/admin, the stored configuration as is.
func (h *Handler) Admin(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.logger, "footer.admin")
	defer cancel()

	fc, err := h.store.Get(ctx)
	if err != nil {
		jsonutil.Error(w, r, h.logger, "get footer", err)
		return
	}
	jsonutil.OK(w, "Footer configuration retrieved successfully", fc)
}

type footerInput struct {
	DynamicColumns *[]models.FooterColumn `json:"dynamicColumns"`
	BottomSection  *models.FooterBottom   `json:"bottomSection"`
}

type targetRule struct {
	Target string `validate:"linktarget" label:"Link target"`
}

// normalize trims labels, defaults blank targets to _self and rejects
// unknown targets.
func (in *footerInput) normalize() error {
	if in.DynamicColumns == nil {
		return nil
	}
	for i := range *in.DynamicColumns {
		col := &(*in.DynamicColumns)[i]
		col.Heading = strings.TrimSpace(col.Heading)
		for j := range col.Items {
			it := &col.Items[j]
			it.Label = strings.TrimSpace(it.Label)
			it.Href = strings.TrimSpace(it.Href)
			it.Target = strings.TrimSpace(it.Target)
			if it.Target == "" {
				it.Target = models.TargetSelf
			}
			if err := inputval.Check(targetRule{Target: it.Target}); err != nil {
				return err
			}
		}
	}
	return nil
}

// Update handles PUT /footer/admin. Sections left out of the body are kept.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var in footerInput
	if err := jsonutil.Decode(r, &in); err != nil {
		jsonutil.Error(w, r, h.logger, "decode footer", err)
		return
	}
	if err := in.normalize(); err != nil {
		jsonutil.Error(w, r, h.logger, "validate footer", err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.logger, "footer.update")
	defer cancel()

	fc, err := h.store.Update(ctx, footerstore.UpdateInput{
		DynamicColumns: in.DynamicColumns,
		BottomSection:  in.BottomSection,
	})
	if err != nil {
		jsonutil.Error(w, r, h.logger, "update footer", err)
		return
	}
	h.logger.Info("footer updated", zap.Int("columns", len(fc.DynamicColumns)))
	jsonutil.OK(w, "Footer configuration updated successfully", fc)
}
