package bootstrap

import (
	"reflect"
	"testing"
	"time"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

func validAppConfig() AppConfig {
	return AppConfig{
		MongoURI:           "mongodb://localhost:27017",
		MongoDatabase:      "stratacms",
		JWTSecret:          "k3Qv9xZp2LmN7rT4wY8bC1dF6gH0jS5a",
		AdminRoles:         []string{"admin"},
		APIStatsBucket:     time.Hour,
		StorefrontBasePath: "/page",
	}
}

func TestValidateConfig(t *testing.T) {
	logger := zap.NewNop()

	tests := []struct {
		name    string
		env     string
		mutate  func(*AppConfig)
		wantErr bool
	}{
		{"valid prod", "prod", func(*AppConfig) {}, false},
		{"default secret in dev", "dev", func(c *AppConfig) { c.JWTSecret = defaultJWTSecret }, false},
		{"default secret in prod", "prod", func(c *AppConfig) { c.JWTSecret = defaultJWTSecret }, true},
		{"short secret in prod", "prod", func(c *AppConfig) { c.JWTSecret = "tiny" }, true},
		{"empty secret", "dev", func(c *AppConfig) { c.JWTSecret = "" }, true},
		{"no admin roles", "dev", func(c *AppConfig) { c.AdminRoles = nil }, true},
		{"tiny stats bucket", "dev", func(c *AppConfig) { c.APIStatsEnabled = true; c.APIStatsBucket = time.Second }, true},
		{"moderation without smtp host", "dev", func(c *AppConfig) { c.ModerationNotifyTo = []string{"mod@test.com"} }, true},
		{"moderation with smtp", "dev", func(c *AppConfig) {
			c.ModerationNotifyTo = []string{"mod@test.com"}
			c.MailSMTPHost = "smtp.test"
			c.MailFrom = "cms@test.com"
		}, false},
		{"relative page base", "dev", func(c *AppConfig) { c.StorefrontBasePath = "page" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validAppConfig()
			tt.mutate(&cfg)
			err := ValidateConfig(&config.CoreConfig{Env: tt.env}, cfg, logger)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" Admin, super-admin ,,editor ")
	want := []string{"admin", "super-admin", "editor"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("splitList() = %v, want %v", got, want)
	}
	if splitList("") != nil {
		t.Error("splitList(\"\") should be nil")
	}
}
