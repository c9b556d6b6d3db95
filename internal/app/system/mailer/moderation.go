package mailer

import (
	"bytes"
	htmltemplate "html/template"
	"text/template"

	"github.com/dalemusser/stratacms/internal/domain/models"
	"go.uber.org/zap"
)

// ModerationNotifier emails moderators when a comment awaits approval.
type ModerationNotifier struct {
	mailer     *Mailer
	recipients []string
	adminURL   string
	log        *zap.Logger
}

// NewModerationNotifier returns a notifier that mails recipients. adminURL,
// when set, is linked from the message.
func NewModerationNotifier(m *Mailer, recipients []string, adminURL string, log *zap.Logger) *ModerationNotifier {
	return &ModerationNotifier{mailer: m, recipients: recipients, adminURL: adminURL, log: log}
}

type pendingView struct {
	Name     string
	Email    string
	Comment  string
	BlogID   string
	IsReply  bool
	AdminURL string
}

var pendingText = template.Must(template.New("pending.txt").Parse(
	`{{.Name}} <{{.Email}}> left a {{if .IsReply}}reply{{else}}comment{{end}} on blog {{.BlogID}}:

{{.Comment}}

It stays hidden until it is approved.{{if .AdminURL}}
Review it at {{.AdminURL}}{{end}}
`))

var pendingHTML = htmltemplate.Must(htmltemplate.New("pending.html").Parse(
	`<p><strong>{{.Name}}</strong> &lt;{{.Email}}&gt; left a {{if .IsReply}}reply{{else}}comment{{end}} on blog <code>{{.BlogID}}</code>:</p>
<blockquote>{{.Comment}}</blockquote>
<p>It stays hidden until it is approved.</p>{{if .AdminURL}}
<p><a href="{{.AdminURL}}">Review pending comments</a></p>{{end}}
`))

// PendingEmail renders the moderation message for c.
func (n *ModerationNotifier) PendingEmail(c models.BlogComment) (Email, error) {
	v := pendingView{
		Name:     c.Name,
		Email:    c.Email,
		Comment:  c.Comment,
		BlogID:   c.BlogID.Hex(),
		IsReply:  c.ParentID != nil,
		AdminURL: n.adminURL,
	}
	var text, html bytes.Buffer
	if err := pendingText.Execute(&text, v); err != nil {
		return Email{}, err
	}
	if err := pendingHTML.Execute(&html, v); err != nil {
		return Email{}, err
	}
	return Email{
		To:       n.recipients,
		Subject:  "New comment awaiting approval",
		TextBody: text.String(),
		HTMLBody: html.String(),
	}, nil
}

// CommentPending sends the moderation email in the background.
func (n *ModerationNotifier) CommentPending(c models.BlogComment) {
	email, err := n.PendingEmail(c)
	if err != nil {
		n.log.Error("render moderation email", zap.String("comment_id", c.ID.Hex()), zap.Error(err))
		return
	}
	go func() {
		// Send logs its own failures.
		_ = n.mailer.Send(email)
	}()
}
