// Package inputval checks decoded request payloads against struct tags.
//
// Rules come from waffle/pantry/validate plus the CMS rules registered below.
// A `label` tag names the field in messages:
//
//	type commentInput struct {
//	    Email string `json:"email" validate:"required,email" label:"Email"`
//	}
//
//	if err := inputval.Check(in); err != nil {
//	    jsonutil.Error(w, r, h.logger, "create comment", err)
//	}
package inputval

import (
	"errors"
	"net/url"
	"reflect"
	"strings"
	"sync"

	"github.com/dalemusser/stratacms/internal/app/system/apperr"
	"github.com/dalemusser/stratacms/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/validate"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Problem is one failed rule.
type Problem struct {
	Field   string
	Rule    string
	Message string
}

// cmsRule is a string rule. Blank values pass so "required" decides them.
type cmsRule struct {
	ok      func(string) bool
	message func(label string) string
}

func oneOf(values ...string) func(string) string {
	return func(label string) string {
		return label + " must be one of: " + strings.Join(values, ", ") + "."
	}
}

var cmsRules = map[string]cmsRule{
	"httpurl":     {IsHTTPURL, func(l string) string { return l + " must be a valid URL starting with http:// or https://." }},
	"objectid":    {IsObjectID, func(l string) string { return l + " is not a valid ID." }},
	"pagetype":    {models.IsValidPageType, oneOf(models.AllPageTypes()...)},
	"bannerstyle": {models.IsValidBannerStyle, oneOf(models.AllBannerStyles()...)},
	"linktarget":  {models.IsValidTarget, oneOf(models.TargetSelf, models.TargetBlank)},
	"menutype":    {models.IsValidMenuType, oneOf(models.MenuTypeDefault, models.MenuTypeCustom)},
}

var (
	v    *validate.Validator
	once sync.Once
)

func validator() *validate.Validator {
	once.Do(func() {
		v = validate.New(validate.WithStopOnFirstError())
		for name, rule := range cmsRules {
			ok := rule.ok
			v.RegisterRuleFunc(name, func(value any) bool {
				s, isString := value.(string)
				return isString && (strings.TrimSpace(s) == "" || ok(s))
			}, name)
		}
	})
	return v
}

// Problems returns every failed rule on s, in field order.
func Problems(s any) []Problem {
	err := validator().Struct(s)
	if err == nil {
		return nil
	}
	var errs validate.Errors
	if !errors.As(err, &errs) {
		return []Problem{{Rule: "invalid", Message: err.Error()}}
	}
	labels := labelsOf(s)
	out := make([]Problem, 0, len(errs))
	for _, e := range errs {
		label := labels[e.Field]
		if label == "" {
			label = e.Field
		}
		out = append(out, Problem{Field: e.Field, Rule: e.Rule, Message: message(label, e.Rule, e.Param)})
	}
	return out
}

// Check returns the first problem with s as an apperr validation error, or nil.
func Check(s any) error {
	if p := Problems(s); len(p) > 0 {
		return apperr.Validation(p[0].Message)
	}
	return nil
}

// labelsOf maps a field's json name (or Go name) to its label tag.
func labelsOf(s any) map[string]string {
	labels := map[string]string{}
	t := reflect.TypeOf(s)
	if t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return labels
	}
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		label := f.Tag.Get("label")
		if label == "" {
			continue
		}
		name := f.Name
		if j, _, _ := strings.Cut(f.Tag.Get("json"), ","); j != "" && j != "-" {
			name = j
		}
		labels[name] = label
	}
	return labels
}

func message(label, rule, param string) string {
	if r, ok := cmsRules[rule]; ok {
		return r.message(label)
	}
	switch rule {
	case "required":
		return label + " is required."
	case "email":
		return label + " must be a valid email address."
	case "oneof", "enum":
		return oneOf(strings.Fields(param)...)(label)
	case "min":
		return label + " must be at least " + param + " characters."
	case "max":
		return label + " must be at most " + param + " characters."
	}
	return label + " is invalid."
}

// IsHTTPURL reports whether s parses as an absolute http or https URL.
func IsHTTPURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// IsObjectID reports whether s is a 24-character ObjectID hex string.
func IsObjectID(s string) bool {
	_, err := primitive.ObjectIDFromHex(strings.TrimSpace(s))
	return err == nil
}

// Cleared reports whether any of the given fields was sent but is blank
// after trimming. Absent (nil) fields are left alone, so partial updates
// can skip required fields without clearing them.
func Cleared(fields ...*string) bool {
	for _, p := range fields {
		if p != nil && strings.TrimSpace(*p) == "" {
			return true
		}
	}
	return false
}
