package herobanners

import (
	"strings"

	herobannerstore "github.com/dalemusser/stratacms/internal/app/store/herobanners"
	"github.com/dalemusser/stratacms/internal/app/system/inputval"
	"github.com/dalemusser/stratacms/internal/domain/models"
)

// heroInput accepts both the canonical field names and the legacy aliases
// older admin clients still send. Canonical names win when both are present.
type heroInput struct {
	ImgSrc             *string `json:"imgSrc"`
	Alt                *string `json:"alt"`
	Subheading         *string `json:"subheading"`
	Heading            *string `json:"heading"`
	BtnText            *string `json:"btnText"`
	ButtonLink         *string `json:"buttonLink"`
	Description        *string `json:"description"`
	BackgroundGradient *string `json:"backgroundGradient"`
	Button2Text        *string `json:"button2Text"`
	Button2Link        *string `json:"button2Link"`
	IsActive           *bool   `json:"isActive"`
	Order              *int    `json:"order"`

	Title       *string `json:"title"`
	ModelImage  *string `json:"modelImage"`
	Button1Text *string `json:"button1Text"`
	Button1Link *string `json:"button1Link"`
}

// pick returns canonical when it is set and non-blank, otherwise alias.
func pick(canonical, alias *string) *string {
	if canonical != nil && strings.TrimSpace(*canonical) != "" {
		return canonical
	}
	if alias != nil && strings.TrimSpace(*alias) != "" {
		return alias
	}
	return canonical
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(*p)
}

func trimmed(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	return &v
}

// fold resolves aliases into their canonical fields.
func (in heroInput) fold() heroInput {
	in.ImgSrc = pick(in.ImgSrc, in.ModelImage)
	in.Heading = pick(in.Heading, in.Title)
	in.BtnText = pick(in.BtnText, in.Button1Text)
	in.ButtonLink = pick(in.ButtonLink, in.Button1Link)
	in.Title, in.ModelImage, in.Button1Text, in.Button1Link = nil, nil, nil, nil
	return in
}

func (in heroInput) model(createdBy string) models.HeroBanner {
	in = in.fold()
	hb := models.HeroBanner{
		ImgSrc:             str(in.ImgSrc),
		Alt:                str(in.Alt),
		Subheading:         str(in.Subheading),
		Heading:            str(in.Heading),
		BtnText:            str(in.BtnText),
		ButtonLink:         str(in.ButtonLink),
		Description:        str(in.Description),
		BackgroundGradient: str(in.BackgroundGradient),
		Button2Text:        str(in.Button2Text),
		Button2Link:        str(in.Button2Link),
		IsActive:           in.IsActive == nil || *in.IsActive,
		CreatedBy:          createdBy,
	}
	if in.Order != nil {
		hb.Order = *in.Order
	}
	return hb
}

// clearsRequired reports whether the body blanks the image or heading
// under either its canonical name or its alias.
func (in heroInput) clearsRequired() bool {
	f := in.fold()
	if f.ImgSrc == nil {
		f.ImgSrc = in.ModelImage
	}
	if f.Heading == nil {
		f.Heading = in.Title
	}
	return inputval.Cleared(f.ImgSrc, f.Heading)
}

func (in heroInput) update(updatedBy string) herobannerstore.UpdateInput {
	in = in.fold()
	return herobannerstore.UpdateInput{
		ImgSrc:             trimmed(in.ImgSrc),
		Alt:                trimmed(in.Alt),
		Subheading:         trimmed(in.Subheading),
		Heading:            trimmed(in.Heading),
		BtnText:            trimmed(in.BtnText),
		ButtonLink:         trimmed(in.ButtonLink),
		Description:        trimmed(in.Description),
		BackgroundGradient: trimmed(in.BackgroundGradient),
		Button2Text:        trimmed(in.Button2Text),
		Button2Link:        trimmed(in.Button2Link),
		IsActive:           in.IsActive,
		Order:              in.Order,
		UpdatedBy:          updatedBy,
	}
}

// heroView is the response shape: the canonical banner plus the legacy
// aliases mirrored from it.
type heroView struct {
	models.HeroBanner
	Title       string `json:"title"`
	ModelImage  string `json:"modelImage"`
	Button1Text string `json:"button1Text"`
	Button1Link string `json:"button1Link"`
}

func view(hb *models.HeroBanner) heroView {
	return heroView{
		HeroBanner:  *hb,
		Title:       hb.Heading,
		ModelImage:  hb.ImgSrc,
		Button1Text: hb.BtnText,
		Button1Link: hb.ButtonLink,
	}
}

func views(items []models.HeroBanner) []heroView {
	out := make([]heroView, len(items))
	for i := range items {
		out[i] = view(&items[i])
	}
	return out
}
