package services

import (
	"fmt"
	"net/smtp"
	"os"
	"strings"

	"backend/models"

	"golang.org/x/net/html"
)

// convertHTMLToText converts HTML content to plain text for email sending
func convertHTMLToText(htmlContent string) string {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		// If parsing fails, return the original content
		return htmlContent
	}

	var text strings.Builder
	var extractText func(*html.Node)
	extractText = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			text.WriteString(n.Data)
		case html.ElementNode:
			// Add line breaks for block elements
			switch n.Data {
			case "p", "div", "br", "h1", "h2", "h3", "h4", "h5", "h6":
				text.WriteString("\n")
			case "li":
				text.WriteString("- ")
			case "tr":
				text.WriteString("\n")
			case "td", "th":
				text.WriteString(" | ")
			}
		}

		for child := n.FirstChild; child != nil; child = child.NextSibling {
			extractText(child)
		}
	}

	extractText(doc)

	result := text.String()
	result = strings.ReplaceAll(result, "\n\n\n", "\n\n")
	result = strings.TrimSpace(result)

	return result
}

// EmailService sends quote lifecycle notifications over SMTP.
type EmailService struct {
	host string
	port string
	user string
	pass string
	from string
}

// NewEmailService builds an EmailService from SMTP_* environment variables.
// Returns an error when the host is unset so callers can run without email.
func NewEmailService() (*EmailService, error) {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		return nil, fmt.Errorf("SMTP_HOST not configured")
	}
	port := os.Getenv("SMTP_PORT")
	if port == "" {
		port = "587"
	}
	return &EmailService{
		host: host,
		port: port,
		user: os.Getenv("SMTP_USER"),
		pass: os.Getenv("SMTP_PASSWORD"),
		from: os.Getenv("SMTP_FROM"),
	}, nil
}

// quoteStatusTemplate is the HTML body for quote status notifications.
// Variables use the {{name}} placeholder convention.
const quoteStatusTemplate = `
<div>
  <p>Hello {{company_name}},</p>
  <p>Your quote request <b>{{quote_code}}</b> for {{product_name}} is now <b>{{status}}</b>.</p>
  <p>{{price_line}}</p>
  <p>You can follow your request from your Matbixx dashboard.</p>
</div>`

// SendQuoteStatusEmail notifies a customer that the status of their quote
// request changed.
func (es *EmailService) SendQuoteStatusEmail(recipient string, quote models.QuoteRequest) error {
	priceLine := ""
	if quote.Status == models.QuoteStatusQuoted && quote.QuotedPrice > 0 {
		priceLine = fmt.Sprintf("The offered price is %.2f.", quote.QuotedPrice)
	}

	variables := map[string]string{
		"company_name": quote.CustomerName,
		"quote_code":   quote.QuoteCode,
		"product_name": quote.ProductName,
		"status":       quote.Status,
		"price_line":   priceLine,
	}

	body := quoteStatusTemplate
	for key, value := range variables {
		placeholder := fmt.Sprintf("{{%s}}", key)
		body = strings.ReplaceAll(body, placeholder, value)
	}

	subject := fmt.Sprintf("Matbixx quote %s: %s", quote.QuoteCode, quote.Status)
	plainTextBody := convertHTMLToText(body)

	return es.sendEmail(recipient, subject, plainTextBody)
}

// sendEmail sends a plain text email using SMTP
func (es *EmailService) sendEmail(to, subject, body string) error {
	auth := smtp.PlainAuth("", es.user, es.pass, es.host)

	from := es.from
	if from == "" {
		from = es.user
	}

	msg := strings.Builder{}
	msg.WriteString(fmt.Sprintf("From: %s\r\n", from))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", to))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	addr := es.host + ":" + es.port
	if err := smtp.SendMail(addr, auth, from, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("failed to send email to %s: %v", to, err)
	}
	return nil
}
