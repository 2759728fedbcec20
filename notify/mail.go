package notify

import (
	"fmt"
	"net/mail"

	"github.com/raushankrgupta/catalog-crawler/utils"
)

type sendFunc func(apiKey string, from, to utils.EmailAddress, subject, text, html string) error

// Mailer e-mails run summaries through SendGrid.
type Mailer struct {
	apiKey string
	from   utils.EmailAddress
	to     utils.EmailAddress
	send   sendFunc
}

// NewMailer parses from and to as RFC 5322 addresses ("Name <addr>" or
// a bare address).
func NewMailer(apiKey, from, to string) (*Mailer, error) {
	fromAddr, err := parseAddress(from)
	if err != nil {
		return nil, fmt.Errorf("notify from: %w", err)
	}
	toAddr, err := parseAddress(to)
	if err != nil {
		return nil, fmt.Errorf("notify to: %w", err)
	}
	return &Mailer{apiKey: apiKey, from: fromAddr, to: toAddr, send: utils.SendEmail}, nil
}

// SendSummary mails the summary table as plain text and HTML.
func (m *Mailer) SendSummary(subject string, rows []SiteSummary) error {
	t := summaryTable(rows)
	text := t.Render()
	html := t.RenderHTML()
	return m.send(m.apiKey, m.from, m.to, subject, text, html)
}

func parseAddress(s string) (utils.EmailAddress, error) {
	addr, err := mail.ParseAddress(s)
	if err != nil {
		return utils.EmailAddress{}, err
	}
	return utils.EmailAddress{Name: addr.Name, Address: addr.Address}, nil
}
