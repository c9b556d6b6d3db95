package herobanners

import (
	"net/http"
	"testing"

	"github.com/dalemusser/stratacms/internal/app/system/auth"
	"github.com/dalemusser/stratacms/internal/app/system/respcache"
	"github.com/dalemusser/stratacms/internal/domain/models"
	"github.com/dalemusser/stratacms/internal/testutil"
	"go.uber.org/zap"
)

func newRouter(t *testing.T) http.Handler {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	v := auth.NewVerifier(testutil.TestJWTSecret, testutil.TestAdminRoles, logger)
	return Routes(NewHandler(db, logger), v, respcache.New(nil, 0, logger))
}

func serve(h http.Handler, req *http.Request) *testutil.ResponseRecorder {
	rec := testutil.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func create(t *testing.T, router http.Handler, token string, body map[string]any) heroView {
	t.Helper()
	var hb heroView
	rec := serve(router, testutil.JSONRequest(t, http.MethodPost, "/", body, token))
	rec.AssertStatus(t, http.StatusCreated)
	rec.Envelope(t, &hb)
	return hb
}

func TestCreate_LegacyAliases(t *testing.T) {
	router := newRouter(t)
	admin := testutil.AdminUser()
	token := testutil.Token(t, admin)

	hb := create(t, router, token, map[string]any{
		"title":      "Spring Drop",
		"modelImage": "/img/spring.jpg",
	})
	if hb.Heading != "Spring Drop" || hb.Title != "Spring Drop" {
		t.Errorf("heading/title = %q/%q", hb.Heading, hb.Title)
	}
	if hb.ImgSrc != "/img/spring.jpg" || hb.ModelImage != hb.ImgSrc {
		t.Errorf("imgSrc/modelImage = %q/%q", hb.ImgSrc, hb.ModelImage)
	}
	if hb.BtnText != models.DefaultHeroButtonText || hb.Button1Text != hb.BtnText {
		t.Errorf("btnText = %q, button1Text = %q", hb.BtnText, hb.Button1Text)
	}
	if hb.ButtonLink != models.DefaultHeroButtonLink || hb.Alt != models.DefaultHeroAlt {
		t.Errorf("defaults not applied: %+v", hb.HeroBanner)
	}
	if hb.CreatedBy != admin.ID {
		t.Errorf("CreatedBy = %q, want %q", hb.CreatedBy, admin.ID)
	}

	canonical := create(t, router, token, map[string]any{
		"heading":    "Canonical",
		"title":      "Ignored",
		"imgSrc":     "/img/a.jpg",
		"modelImage": "/img/b.jpg",
	})
	if canonical.Heading != "Canonical" || canonical.ImgSrc != "/img/a.jpg" {
		t.Errorf("canonical fields should win: %+v", canonical.HeroBanner)
	}

	rec := serve(router, testutil.JSONRequest(t, http.MethodPost, "/", map[string]any{"heading": "No image"}, token))
	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestPublicListAndAuth(t *testing.T) {
	router := newRouter(t)
	token := testutil.AdminToken(t)

	create(t, router, token, map[string]any{"heading": "Shown", "imgSrc": "/a.jpg"})
	create(t, router, token, map[string]any{"heading": "Hidden", "imgSrc": "/b.jpg", "isActive": false})

	var active []heroView
	rec := serve(router, testutil.JSONRequest(t, http.MethodGet, "/", nil, ""))
	rec.AssertStatus(t, http.StatusOK)
	env := rec.Envelope(t, &active)
	if env.Message != "Hero banners retrieved successfully" {
		t.Errorf("message = %q", env.Message)
	}
	if len(active) != 1 || active[0].Heading != "Shown" {
		t.Errorf("active = %+v", active)
	}

	rec = serve(router, testutil.JSONRequest(t, http.MethodGet, "/admin/all", nil, ""))
	rec.AssertStatus(t, http.StatusUnauthorized)

	customer := testutil.Token(t, testutil.CustomerUser())
	rec = serve(router, testutil.JSONRequest(t, http.MethodGet, "/admin/all", nil, customer))
	rec.AssertStatus(t, http.StatusForbidden)

	var all struct {
		HeroBanners []heroView `json:"heroBanners"`
	}
	rec = serve(router, testutil.JSONRequest(t, http.MethodGet, "/admin/all", nil, token))
	rec.AssertStatus(t, http.StatusOK)
	rec.Envelope(t, &all)
	if len(all.HeroBanners) != 2 {
		t.Errorf("admin list len = %d, want 2", len(all.HeroBanners))
	}
	rec.AssertContains(t, `"pagination"`)
}

func TestUpdateReorderDelete(t *testing.T) {
	router := newRouter(t)
	token := testutil.AdminToken(t)

	a := create(t, router, token, map[string]any{"heading": "A", "imgSrc": "/a.jpg"})
	b := create(t, router, token, map[string]any{"heading": "B", "imgSrc": "/b.jpg"})

	var updated heroView
	rec := serve(router, testutil.JSONRequest(t, http.MethodPut, "/"+a.ID.Hex(), map[string]any{"button1Text": "Shop"}, token))
	rec.AssertStatus(t, http.StatusOK)
	rec.Envelope(t, &updated)
	if updated.BtnText != "Shop" || updated.Button1Text != "Shop" {
		t.Errorf("btnText = %q, button1Text = %q", updated.BtnText, updated.Button1Text)
	}

	body := map[string]any{"banners": []map[string]any{
		{"id": a.ID.Hex(), "order": 2},
		{"id": b.ID.Hex(), "order": 1},
		{"id": "junk", "order": 3},
	}}
	rec = serve(router, testutil.JSONRequest(t, http.MethodPut, "/admin/order", body, token))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "Banner order updated successfully")

	var active []heroView
	rec = serve(router, testutil.JSONRequest(t, http.MethodGet, "/", nil, ""))
	rec.Envelope(t, &active)
	if len(active) != 2 || active[0].Heading != "B" {
		t.Errorf("order after reorder = %+v", active)
	}

	rec = serve(router, testutil.JSONRequest(t, http.MethodPut, "/admin/order", map[string]any{}, token))
	rec.AssertStatus(t, http.StatusBadRequest)

	rec = serve(router, testutil.JSONRequest(t, http.MethodPatch, "/"+a.ID.Hex()+"/toggle-status", nil, token))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"isActive":false`)

	rec = serve(router, testutil.JSONRequest(t, http.MethodDelete, "/"+b.ID.Hex(), nil, token))
	rec.AssertStatus(t, http.StatusOK)
	rec = serve(router, testutil.JSONRequest(t, http.MethodDelete, "/"+b.ID.Hex(), nil, token))
	rec.AssertStatus(t, http.StatusNotFound)
	rec.AssertContains(t, msgNotFound)
}

func TestUpdateRejectsBlankRequired(t *testing.T) {
	router := newRouter(t)
	token := testutil.AdminToken(t)

	hb := create(t, router, token, map[string]any{"heading": "Summer", "imgSrc": "/s.jpg"})
	target := "/" + hb.ID.Hex()

	for _, body := range []map[string]any{
		{"heading": ""},
		{"imgSrc": "  "},
		{"title": ""},
		{"modelImage": "", "imgSrc": ""},
	} {
		rec := serve(router, testutil.JSONRequest(t, http.MethodPut, target, body, token))
		rec.AssertStatus(t, http.StatusBadRequest)
		if env := rec.Envelope(t, nil); env.Message != "Image and heading are required" {
			t.Errorf("%v: message = %q", body, env.Message)
		}
	}

	// A blank canonical field falls back to its alias.
	var updated heroView
	rec := serve(router, testutil.JSONRequest(t, http.MethodPut, target, map[string]any{"heading": "", "title": " Autumn "}, token))
	rec.AssertStatus(t, http.StatusOK)
	rec.Envelope(t, &updated)
	if updated.Heading != "Autumn" || updated.ImgSrc != "/s.jpg" {
		t.Errorf("update = %+v", updated.HeroBanner)
	}
}
