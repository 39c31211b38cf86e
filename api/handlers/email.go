package handlers

import (
	"fmt"
	"os"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"

	templates "github.com/sves-app/vehicle-entry-api/templates/html"
)

// Mailer delivers account emails to newly created users.
type Mailer interface {
	SendTempPassword(toEmail, toName, tempPassword string) error
}

// SendgridMailer sends mail through the SendGrid API. Delivery is skipped with
// a logged error when SENDGRID_API_KEY is unset so local setups still work.
type SendgridMailer struct{}

func NewSendgridMailer() SendgridMailer {
	return SendgridMailer{}
}

// SendTempPassword emails a temporary password to a user created from the
// admin console.
func (SendgridMailer) SendTempPassword(toEmail, toName, tempPassword string) error {
	apiKey := os.Getenv("SENDGRID_API_KEY")
	if apiKey == "" {
		zap.S().Errorw("SENDGRID_API_KEY not set, cannot send email", "email", toEmail)
		return fmt.Errorf("SENDGRID_API_KEY not set")
	}

	from := mail.NewEmail("Smart Vehicle Entry System", "no-reply@sves-app.com")
	subject := "Your Smart Vehicle Entry System Account"
	to := mail.NewEmail(toName, toEmail)
	plainTextContent := "Your account has been created. Temporary password: " + tempPassword + ". Please change it after your first login."
	htmlContent := templates.RenderTempPassword(toName, tempPassword)
	message := mail.NewSingleEmail(from, subject, to, plainTextContent, htmlContent)

	client := sendgrid.NewSendClient(apiKey)
	response, err := client.Send(message)
	if err != nil {
		zap.S().Errorw("failed to send account email", "email", toEmail, "error", err)
		return err
	}
	if response.StatusCode >= 400 {
		zap.S().Errorw("sendgrid rejected account email", "email", toEmail, "statusCode", response.StatusCode)
		return fmt.Errorf("sendgrid returned status %d", response.StatusCode)
	}

	zap.S().Infow("account email sent", "email", toEmail, "statusCode", response.StatusCode)
	return nil
}
