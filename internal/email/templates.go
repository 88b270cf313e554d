package email

import (
	"fmt"
	"html"
	"strings"

	"gontrel-admin/internal/config"
	"gontrel-admin/internal/models"
)

// Templates provides email template generation.
type Templates struct {
	cfg *config.Config
}

// NewTemplates creates a new templates instance.
func NewTemplates(cfg *config.Config) *Templates {
	return &Templates{cfg: cfg}
}

// baseHTML wraps content in a consistent HTML email template.
func (t *Templates) baseHTML(title, content string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>%s</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #16a34a; color: white; padding: 20px; text-align: center; border-radius: 8px 8px 0 0; }
        .header h1 { margin: 0; font-size: 24px; }
        .content { background: #f9fafb; padding: 20px; border: 1px solid #e5e7eb; }
        .footer { background: #f3f4f6; padding: 15px; text-align: center; font-size: 12px; color: #6b7280; border-radius: 0 0 8px 8px; border: 1px solid #e5e7eb; border-top: none; }
        .info-box { background: white; border: 1px solid #e5e7eb; border-radius: 6px; padding: 15px; margin: 15px 0; }
        .label { font-weight: 600; color: #374151; }
        .value { color: #6b7280; }
        .error { color: #dc2626; }
    </style>
</head>
<body>
    <div class="header">
        <h1>%s</h1>
    </div>
    <div class="content">
        %s
    </div>
    <div class="footer">
        <p>This email was sent by Gontrel</p>
        <p><a href="%s">%s</a></p>
    </div>
</body>
</html>`, html.EscapeString(title), html.EscapeString(title), content, t.cfg.BaseURL, t.cfg.BaseURL)
}

// SubmissionRejected generates the email sent to a submitter whose content
// was rejected during moderation.
func (t *Templates) SubmissionRejected(submitterName string, items []models.CommittedChange) (subject, htmlBody, textBody string) {
	subject = "Gontrel: an update on your submission"

	greeting := "Hello,"
	if submitterName != "" {
		greeting = fmt.Sprintf("Hello %s,", submitterName)
	}

	var htmlItems, textItems strings.Builder
	for _, ch := range items {
		label := describeChange(ch)
		htmlItems.WriteString(fmt.Sprintf(`<div class="info-box"><span class="label">%s</span>`, html.EscapeString(label)))
		if ch.Comment != "" {
			htmlItems.WriteString(fmt.Sprintf(`<br><span class="value">Moderator note: %s</span>`, html.EscapeString(ch.Comment)))
		}
		htmlItems.WriteString("</div>\n")

		textItems.WriteString("  - " + label)
		if ch.Comment != "" {
			textItems.WriteString(" (moderator note: " + ch.Comment + ")")
		}
		textItems.WriteString("\n")
	}

	content := fmt.Sprintf(`
        <p>%s</p>
        <p>Part of your recent Gontrel submission could not be approved:</p>
        %s
        <p>You can update and resubmit at any time. Thanks for contributing!</p>`,
		html.EscapeString(greeting), htmlItems.String())

	htmlBody = t.baseHTML("Submission update", content)

	textBody = fmt.Sprintf(`%s

Part of your recent Gontrel submission could not be approved:

%s
You can update and resubmit at any time. Thanks for contributing!

%s`, greeting, textItems.String(), t.cfg.BaseURL)

	return subject, htmlBody, textBody
}

func describeChange(ch models.CommittedChange) string {
	if ch.PostID != "" || ch.Field == "" {
		return "Submitted video"
	}
	return fmt.Sprintf("Restaurant %s", ch.Field)
}
