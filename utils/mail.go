package utils

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/Kariqs/goneer-api/models"
)

type SMTPConfig struct {
	Address  string // host:port used to send
	Host     string // host used for PLAIN auth
	From     string
	Password string
}

func (c SMTPConfig) Enabled() bool {
	return c.Address != "" && c.From != ""
}

type EmailData struct {
	Name    string
	Message string
	Orders  []models.Order
}

var orderPlacedTemplate = template.Must(template.New("order_placed").Parse(`<html><body>
<p>Hi {{.Name}},</p>
<p>{{.Message}}</p>
<ul>
{{range .Orders}}<li>Order {{.ID}}: &#8377;{{.TotalAmount.StringFixed 2}} to {{.DeliveryAddress}} ({{.Status}})</li>
{{end}}</ul>
</body></html>`))

// Mailer sends transactional email over SMTP.
type Mailer struct {
	cfg  SMTPConfig
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewMailer(cfg SMTPConfig) *Mailer {
	return &Mailer{cfg: cfg, send: smtp.SendMail}
}

func (m *Mailer) SendEmail(emailTo string, emailSubject string, data EmailData, tmpl *template.Template) error {
	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("template execution error: %w", err)
	}

	message := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-version: 1.0;\r\nContent-Type: text/html; charset=\"UTF-8\";\r\n\r\n%s",
		m.cfg.From,
		emailTo,
		emailSubject,
		body.String(),
	)

	auth := smtp.PlainAuth("", m.cfg.From, m.cfg.Password, m.cfg.Host)
	if err := m.send(m.cfg.Address, auth, m.cfg.From, []string{emailTo}, []byte(message)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// OrderPlaced mails the customer a summary of the orders created at checkout.
func (m *Mailer) OrderPlaced(_ context.Context, user models.User, orders []models.Order) error {
	data := EmailData{
		Name:    user.FullName(),
		Message: "Your water is on its way. You can track it on your orders page.",
		Orders:  orders,
	}
	return m.SendEmail(user.Email, "Go-Neer order confirmation", data, orderPlacedTemplate)
}
