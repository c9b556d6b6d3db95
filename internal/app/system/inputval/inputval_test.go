package inputval

import (
	"testing"

	"github.com/dalemusser/stratacms/internal/app/system/apperr"
)

func TestIsHTTPURL(t *testing.T) {
	cases := map[string]bool{
		"https://shop.example.com/sale":  true,
		"http://localhost:8080":          true,
		"  https://example.com  ":        true,
		"":                               false,
		"example.com":                    false,
		"ftp://example.com":              false,
		"https://":                       false,
		"javascript:alert(1)":            false,
	}
	for in, want := range cases {
		if got := IsHTTPURL(in); got != want {
			t.Errorf("IsHTTPURL(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestIsObjectID(t *testing.T) {
	cases := map[string]bool{
		"507f1f77bcf86cd799439011":   true,
		" 507f1f77bcf86cd799439011 ": true,
		"":                           false,
		"507f1f77bcf86cd79943901":    false,
		"zzzzzzzzzzzzzzzzzzzzzzzz":   false,
	}
	for in, want := range cases {
		if got := IsObjectID(in); got != want {
			t.Errorf("IsObjectID(%q) = %v, want %v", in, got, want)
		}
	}
}

type commentInput struct {
	BlogID  string `json:"blogId" validate:"required,objectid" label:"Blog ID"`
	Name    string `json:"name" validate:"required,max=5" label:"Name"`
	Email   string `json:"email" validate:"required,email" label:"Email"`
	Website string `json:"website" validate:"httpurl"`
}

func TestProblems(t *testing.T) {
	valid := commentInput{BlogID: "507f1f77bcf86cd799439011", Name: "Ann", Email: "ann@example.com"}

	tests := []struct {
		name    string
		mutate  func(*commentInput)
		want    string
	}{
		{"valid", func(*commentInput) {}, ""},
		{"missing blog", func(c *commentInput) { c.BlogID = "" }, "Blog ID is required."},
		{"bad blog id", func(c *commentInput) { c.BlogID = "nope" }, "Blog ID is not a valid ID."},
		{"long name", func(c *commentInput) { c.Name = "Annabel" }, "Name must be at most 5 characters."},
		{"bad email", func(c *commentInput) { c.Email = "ann" }, "Email must be a valid email address."},
		{"unlabeled field", func(c *commentInput) { c.Website = "ftp://x" }, "website must be a valid URL starting with http:// or https://."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)
			var got string
			if p := Problems(&in); len(p) > 0 {
				got = p[0].Message
			}
			if got != tt.want {
				t.Errorf("Problems() first = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestProblems_CMSRules(t *testing.T) {
	type input struct {
		PageType string `json:"pageType" validate:"pagetype" label:"Page type"`
		Style    string `json:"style" validate:"bannerstyle" label:"Style"`
		Target   string `json:"target" validate:"linktarget" label:"Target"`
		MenuType string `json:"menuType" validate:"menutype" label:"Menu type"`
	}

	tests := []struct {
		name string
		in   input
		want string
	}{
		{"blank values pass", input{}, ""},
		{"all valid", input{PageType: "faqs", Style: "position", Target: "_blank", MenuType: "custom"}, ""},
		{"page type", input{PageType: "blog"}, "Page type must be one of: shipping, return-refund, privacy-policy, terms-conditions, faqs, other."},
		{"style", input{Style: "wide"}, "Style must be one of: default, position."},
		{"target", input{Target: "_top"}, "Target must be one of: _self, _blank."},
		{"menu type", input{MenuType: "mega"}, "Menu type must be one of: default, custom."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			if p := Problems(tt.in); len(p) > 0 {
				got = p[0].Message
			}
			if got != tt.want {
				t.Errorf("Problems() first = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCheck(t *testing.T) {
	if err := Check(commentInput{BlogID: "507f1f77bcf86cd799439011", Name: "Ann", Email: "ann@example.com"}); err != nil {
		t.Errorf("Check() error = %v, want nil", err)
	}

	err := Check(commentInput{})
	if !apperr.IsValidation(err) {
		t.Fatalf("Check() error kind = %v, want validation", apperr.KindOf(err))
	}
	if apperr.Message(err) != "Blog ID is required." {
		t.Errorf("Check() message = %q", apperr.Message(err))
	}
}

func TestCleared(t *testing.T) {
	s := func(v string) *string { return &v }

	if Cleared() {
		t.Error("Cleared() with no fields should be false")
	}
	if Cleared(nil, nil) {
		t.Error("absent fields should not count as cleared")
	}
	if Cleared(s("Summer sale"), nil) {
		t.Error("non-blank field should not count as cleared")
	}
	if !Cleared(s("Summer sale"), s("")) {
		t.Error("empty field should count as cleared")
	}
	if !Cleared(nil, s("   ")) {
		t.Error("whitespace-only field should count as cleared")
	}
}
