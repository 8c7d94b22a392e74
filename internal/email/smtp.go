package email

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"time"

	gomail "github.com/wneessen/go-mail"
)

// SMTPSender implements the Sender interface using a direct SMTP connection via go-mail.
// It renders the same HTML templates as ResendSender but delivers via a configured SMTP server.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

// NewSMTPSender creates a new SMTPSender with the given SMTP credentials.
func NewSMTPSender(host string, port int, username, password, fromEmail, fromName string) *SMTPSender {
	return &SMTPSender{
		host:      host,
		port:      port,
		username:  username,
		password:  password,
		fromName:  fromName,
		fromEmail: fromEmail,
	}
}

func (s *SMTPSender) send(ctx context.Context, toEmail, subject, htmlContent string, attachments ...Attachment) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)

	for _, att := range attachments {
		msg.AttachReader(att.FileName, bytes.NewReader(att.Content))
	}

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	return nil
}

func (s *SMTPSender) SendLeadIntakeEmail(ctx context.Context, toEmail string, data IntakeEmail) error {
	subject := fmt.Sprintf(subjectLeadIntakeFmt, data.LeadNumber, data.FullName, data.Address)
	content, err := renderEmailTemplate("lead_intake.html", intakeData(data))
	if err != nil {
		return err
	}

	var attachments []Attachment
	if len(data.QRCodePNG) > 0 {
		attachments = append(attachments, Attachment{
			Content:  data.QRCodePNG,
			FileName: fmt.Sprintf("fiche-%s.png", data.LeadNumber),
			MIMEType: "image/png",
		})
	}
	return s.send(ctx, toEmail, subject, content, attachments...)
}

func (s *SMTPSender) SendLeadFinalizedEmail(ctx context.Context, toEmail string, data FinalizedEmail) error {
	format := subjectLeadFinalizedFmt
	if data.IsIncomeProperty {
		format = subjectLeadFinalizedIncomeFmt
	}
	subject := fmt.Sprintf(format, data.FullName, data.Address)

	content, err := renderEmailTemplate("lead_finalized.html", finalizedData(data))
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subject, content)
}

func (s *SMTPSender) SendDisqualificationEmail(ctx context.Context, toEmail string, data DisqualifyEmail) error {
	subject, content, err := buildDisqualifyEmail(data)
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subject, content)
}

func (s *SMTPSender) SendReminderEmail(ctx context.Context, toEmail string, data ReminderEmail) error {
	subject, content, err := buildReminderEmail(data)
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subject, content)
}

func (s *SMTPSender) SendCustomEmail(ctx context.Context, toEmail, subject, htmlContent string) error {
	return s.send(ctx, toEmail, subject, htmlContent)
}
