package utils

import (
	"fmt"
	"log/slog"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// EmailAddress is a display name plus address.
type EmailAddress struct {
	Name    string
	Address string
}

// SendEmail sends a single message through SendGrid.
func SendEmail(apiKey string, from, to EmailAddress, subject, textContent, htmlContent string) error {
	if apiKey == "" {
		return fmt.Errorf("sendgrid api key is not configured")
	}

	message := mail.NewSingleEmail(
		mail.NewEmail(from.Name, from.Address),
		subject,
		mail.NewEmail(to.Name, to.Address),
		textContent,
		htmlContent,
	)
	client := sendgrid.NewSendClient(apiKey)

	response, err := client.Send(message)
	if err != nil {
		return fmt.Errorf("send email to %s: %w", to.Address, err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("failed to send email, status code: %d, body: %s", response.StatusCode, response.Body)
	}

	slog.Info("email sent", "to", to.Address, "status", response.StatusCode)
	return nil
}
