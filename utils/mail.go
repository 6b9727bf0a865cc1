package utils

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
	"os"
)

type OrderEmailItem struct {
	Name     string
	Quantity int
	Price    float64
}

type OrderEmailData struct {
	Name        string
	OrderNumber string
	Total       float64
	Items       []OrderEmailItem
}

const orderConfirmationTemplate = `
<html>
  <body style="font-family: Arial, sans-serif; color: #333;">
    <h2>Thanks for your order, {{.Name}}!</h2>
    <p>Your order <strong>{{.OrderNumber}}</strong> has been confirmed.</p>
    <table cellpadding="6">
      {{range .Items}}
      <tr>
        <td>{{.Name}}</td>
        <td>x{{.Quantity}}</td>
        <td>&#8377;{{printf "%.2f" .Price}}</td>
      </tr>
      {{end}}
    </table>
    <p><strong>Total: &#8377;{{printf "%.2f" .Total}}</strong></p>
    <p>We will email you again when your jars are on their way.</p>
  </body>
</html>`

func SendEmail(emailTo string, emailSubject string, body string) error {
	message := fmt.Sprintf(
		"From: %s\r\nSubject: %s\r\nMIME-version: 1.0;\r\nContent-Type: text/html; charset=\"UTF-8\";\r\n\r\n%s",
		os.Getenv("FROM_EMAIL"),
		emailSubject,
		body,
	)

	auth := smtp.PlainAuth(
		"",
		os.Getenv("FROM_EMAIL"),
		os.Getenv("FROM_EMAIL_PASSWORD"),
		os.Getenv("FROM_EMAIL_SMTP"),
	)

	err := smtp.SendMail(os.Getenv("SMTP_ADDRESS"), auth, os.Getenv("FROM_EMAIL"), []string{emailTo}, []byte(message))
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

// SendOrderConfirmationEmail renders and sends the order confirmation.
// Callers treat this as fire-and-forget: a mail failure never fails an order.
func SendOrderConfirmationEmail(emailTo string, data OrderEmailData) error {
	tmpl, err := template.New("order_confirmation").Parse(orderConfirmationTemplate)
	if err != nil {
		return fmt.Errorf("template parse error: %w", err)
	}

	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("template execution error: %w", err)
	}

	return SendEmail(emailTo, "Order Confirmed - "+data.OrderNumber, body.String())
}
