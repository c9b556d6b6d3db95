package apistatsfeature

import (
	"net/http"
	"testing"
	"time"

	apistatsstore "github.com/dalemusser/stratacms/internal/app/store/apistats"
	"github.com/dalemusser/stratacms/internal/app/system/auth"
	"github.com/dalemusser/stratacms/internal/testutil"
	"go.uber.org/zap"
)

func TestStatsEndpoints(t *testing.T) {
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	v := auth.NewVerifier(testutil.TestJWTSecret, testutil.TestAdminRoles, logger)
	router := Routes(NewHandler(db, logger), v)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	store := apistatsstore.New(db)
	now := time.Now()
	if err := store.Record(ctx, "footer", time.Hour, now.Add(-time.Hour), 12, false); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if err := store.Record(ctx, "footer", time.Hour, now.Add(-48*time.Hour), 12, true); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.JSONRequest(t, http.MethodGet, "/", nil, ""))
	rec.AssertStatus(t, http.StatusUnauthorized)

	token := testutil.AdminToken(t)

	var summary struct {
		Modules []apistatsstore.Summary `json:"modules"`
	}
	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.JSONRequest(t, http.MethodGet, "/?hours=24", nil, token))
	rec.AssertStatus(t, http.StatusOK)
	rec.Envelope(t, &summary)
	if len(summary.Modules) != 1 || summary.Modules[0].TotalRequests != 1 || summary.Modules[0].TotalErrors != 0 {
		t.Errorf("summary = %+v, want one footer request within 24h", summary.Modules)
	}

	var detail struct {
		Buckets []apistatsstore.Bucket `json:"buckets"`
	}
	rec = testutil.NewRecorder()
	router.ServeHTTP(rec, testutil.JSONRequest(t, http.MethodGet, "/footer?hours=72", nil, token))
	rec.AssertStatus(t, http.StatusOK)
	rec.Envelope(t, &detail)
	if len(detail.Buckets) != 2 {
		t.Errorf("buckets = %d, want 2", len(detail.Buckets))
	}
}
