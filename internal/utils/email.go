package utils

import (
	"fmt"
	"os"

	"github.com/wneessen/go-mail"
)

// SMTPMailer envoie les e-mails transactionnels via SMTP.
type SMTPMailer struct {
	Host string
	Port int
	From string
}

func NewSMTPMailer() *SMTPMailer {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		host = "ssl0.ovh.net"
	}
	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = "noreply@bistro-boss.com"
	}
	return &SMTPMailer{Host: host, Port: 587, From: from}
}

func (m *SMTPMailer) Send(to, subject, htmlBody string) error {
	msg := mail.NewMsg()

	if err := msg.From(m.From); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	client, err := mail.NewClient(m.Host,
		mail.WithPort(m.Port),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
		mail.WithUsername(os.Getenv("SMTP_USERNAME")),
		mail.WithPassword(os.Getenv("SMTP_PASSWORD")),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return err
	}

	return client.DialAndSend(msg)
}

// GeneratePaymentConfirmationHTML génère le corps HTML de l'e-mail de
// confirmation de commande.
func GeneratePaymentConfirmationHTML(transactionID string) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html lang="fr">
<body style="font-family: Arial, sans-serif; background-color: #f9f9f9; padding: 20px;">
	<div style="max-width: 600px; margin: auto; background-color: white; padding: 20px; border-radius: 10px;">
		<h2 style="color: #333;">Merci pour votre commande !</h2>
		<h4>Votre numéro de transaction : <strong>%s</strong></h4>
		<p>Nous serions ravis d'avoir votre avis sur les plats.</p>
		<p style="margin-top: 30px; color: #555;">
			Cordialement,<br>
			<strong>L'équipe Bistro Boss</strong>
		</p>
	</div>
</body>
</html>`, transactionID)
}
