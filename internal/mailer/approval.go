package mailer

import (
	"fmt"
	"time"
)

// NewApprovalMessage builds the email sent to a business when its application
// is approved. The entry URL carries the approval token and the body tells the
// recipient when the link stops working.
func NewApprovalMessage(to, businessName, entryURL string, expiresAt time.Time) *Message {
	expiry := expiresAt.UTC().Format("January 2, 2006")

	html := fmt.Sprintf(`<p>Congratulations! Your business <strong>%s</strong> has been approved on ROAM.</p>
<p>Complete your setup to start accepting bookings:</p>
<p><a href="%s">Continue business setup</a></p>
<p>This link expires on %s. If it expires, contact support to request a new one.</p>`,
		businessName, entryURL, expiry)

	text := fmt.Sprintf(`Congratulations! Your business %s has been approved on ROAM.

Complete your setup to start accepting bookings:

%s

This link expires on %s. If it expires, contact support to request a new one.`,
		businessName, entryURL, expiry)

	return &Message{
		To:      to,
		Subject: fmt.Sprintf("%s has been approved on ROAM", businessName),
		HTML:    html,
		Text:    text,
	}
}
