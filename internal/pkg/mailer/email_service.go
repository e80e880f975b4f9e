package mailer

import (
	"fmt"
	"html"
	"time"

	"gopkg.in/gomail.v2"
)

// Receipt is what a submitter gets emailed after a successful submission.
type Receipt struct {
	FullName     string
	DocumentType string
	Reference    string
	SubmittedAt  time.Time
}

type IEmailService interface {
	SendReceipt(toEmail string, r Receipt) error
}

type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type emailService struct {
	dialer      sender
	senderEmail string
	senderName  string
}

func NewEmailService(host string, port int, username, password, senderEmail, senderName string) IEmailService {
	return &emailService{
		dialer:      gomail.NewDialer(host, port, username, password),
		senderEmail: senderEmail,
		senderName:  senderName,
	}
}

func (s *emailService) SendReceipt(toEmail string, r Receipt) error {
	if err := s.dialer.DialAndSend(s.receiptMessage(toEmail, r)); err != nil {
		return fmt.Errorf("send receipt to %s: %w", toEmail, err)
	}
	return nil
}

func (s *emailService) receiptMessage(toEmail string, r Receipt) *gomail.Message {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.senderEmail, s.senderName)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", fmt.Sprintf("We received your %s request", documentLabel(r.DocumentType)))

	name := r.FullName
	if name == "" {
		name = "there"
	}
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Hello %s,</h2>
			<p>Your %s request was submitted on %s.</p>
			<p>Reference number:</p>
			<h1 style="letter-spacing: 2px;">%s</h1>
			<p>Keep this number. A member of our team will contact you about next steps.</p>
		</div>
	`,
		html.EscapeString(name),
		html.EscapeString(documentLabel(r.DocumentType)),
		r.SubmittedAt.Format("January 2, 2006"),
		html.EscapeString(r.Reference),
	)
	m.SetBody("text/html", body)
	return m
}

func documentLabel(d string) string {
	switch d {
	case "expungement":
		return "record expungement"
	case "housing":
		return "housing assistance"
	case "fee_waiver":
		return "court fee waiver"
	case "immigration":
		return "immigration consultation"
	}
	return d
}
