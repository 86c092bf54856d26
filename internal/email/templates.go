package email

import (
	"fmt"
	"html"
	"strings"

	"recoverydesk/internal/config"
	"recoverydesk/internal/models"
)

const siteTitle = "Recovery Desk"

// Templates builds notification bodies.
type Templates struct {
	cfg *config.Config
}

// NewTemplates creates a new templates instance.
func NewTemplates(cfg *config.Config) *Templates {
	return &Templates{cfg: cfg}
}

func (t *Templates) baseHTML(title, content string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>%s</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #b91c1c; color: white; padding: 16px; border-radius: 8px 8px 0 0; }
        .content { background: #f9fafb; padding: 20px; border: 1px solid #e5e7eb; }
        .footer { padding: 12px; font-size: 12px; color: #6b7280; }
        .label { font-weight: 600; color: #374151; }
        code { background: #e5e7eb; padding: 2px 6px; border-radius: 4px; font-family: monospace; }
    </style>
</head>
<body>
    <div class="header"><h1>%s</h1></div>
    <div class="content">%s</div>
    <div class="footer"><a href="%s">%s</a></div>
</body>
</html>`, html.EscapeString(title), html.EscapeString(title), content, html.EscapeString(t.cfg.BaseURL), html.EscapeString(siteTitle))
}

func allocationLines(b *models.Broadcast) []string {
	var lines []string
	for _, seg := range models.SegmentPriority() {
		if n := b.Allocation[seg]; n > 0 {
			lines = append(lines, fmt.Sprintf("%s: %d", seg, n))
		}
	}
	return lines
}

// BroadcastFailed describes a broadcast the backend refused to launch.
func (t *Templates) BroadcastFailed(b *models.Broadcast) (subject, htmlBody, textBody string) {
	subject = fmt.Sprintf("[%s] Broadcast failed: %s", siteTitle, b.Name)

	reason := "unknown error"
	if b.Error != nil && *b.Error != "" {
		reason = *b.Error
	}
	lines := allocationLines(b)

	var segments strings.Builder
	for _, l := range lines {
		fmt.Fprintf(&segments, "<li>%s</li>", html.EscapeString(l))
	}

	content := fmt.Sprintf(`
        <p>The backend rejected a broadcast launch. No messages were sent.</p>
        <p><span class="label">Broadcast:</span> %s (<code>%s</code>)</p>
        <p><span class="label">Channel:</span> %s</p>
        <p><span class="label">Customers:</span> %d of target %d</p>
        <p><span class="label">Estimated cost:</span> %s %s</p>
        <p><span class="label">Error:</span> %s</p>
        <ul>%s</ul>`,
		html.EscapeString(b.Name), b.ID,
		html.EscapeString(b.Channel),
		b.TotalAllocated, b.Target,
		b.EstimatedCost.StringFixed(2), html.EscapeString(b.Currency),
		html.EscapeString(reason),
		segments.String(),
	)
	htmlBody = t.baseHTML("Broadcast failed", content)

	textBody = fmt.Sprintf(`The backend rejected a broadcast launch. No messages were sent.

Broadcast: %s (%s)
Channel: %s
Customers: %d of target %d
Estimated cost: %s %s
Error: %s

%s

%s
`, b.Name, b.ID, b.Channel, b.TotalAllocated, b.Target,
		b.EstimatedCost.StringFixed(2), b.Currency, reason,
		strings.Join(lines, "\n"), t.cfg.BaseURL)

	return subject, htmlBody, textBody
}
