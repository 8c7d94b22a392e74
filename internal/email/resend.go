package email

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"vmr_backend/platform/config"
)

// ErrRateLimited is returned when the email provider rejects a send with
// HTTP 429. The bulk token batch backs off when it sees this.
var ErrRateLimited = errors.New("email provider rate limited")

// Attachment represents a file attachment for an email.
type Attachment struct {
	Content  []byte // raw file bytes (base64-encoded on the wire)
	FileName string // e.g. "fiche-20250115-0930.png"
	MIMEType string // e.g. "image/png"
}

type Sender interface {
	SendLeadIntakeEmail(ctx context.Context, toEmail string, data IntakeEmail) error
	SendLeadFinalizedEmail(ctx context.Context, toEmail string, data FinalizedEmail) error
	SendDisqualificationEmail(ctx context.Context, toEmail string, data DisqualifyEmail) error
	SendReminderEmail(ctx context.Context, toEmail string, data ReminderEmail) error
	SendCustomEmail(ctx context.Context, toEmail, subject, htmlContent string) error
}

type NoopSender struct{}

func (NoopSender) SendLeadIntakeEmail(ctx context.Context, toEmail string, data IntakeEmail) error {
	return nil
}

func (NoopSender) SendLeadFinalizedEmail(ctx context.Context, toEmail string, data FinalizedEmail) error {
	return nil
}

func (NoopSender) SendDisqualificationEmail(ctx context.Context, toEmail string, data DisqualifyEmail) error {
	return nil
}

func (NoopSender) SendReminderEmail(ctx context.Context, toEmail string, data ReminderEmail) error {
	return nil
}

func (NoopSender) SendCustomEmail(ctx context.Context, toEmail, subject, htmlContent string) error {
	return nil
}

// ResendSender delivers email through the Resend HTTP API.
type ResendSender struct {
	apiKey    string
	fromName  string
	fromEmail string
	client    *http.Client
}

type resendAttachment struct {
	Content  string `json:"content"` // base64-encoded file content
	Filename string `json:"filename"`
}

type resendEmailRequest struct {
	From        string             `json:"from"`
	To          []string           `json:"to"`
	Subject     string             `json:"subject"`
	HTML        string             `json:"html"`
	Attachments []resendAttachment `json:"attachments,omitempty"`
}

// NewSender builds the configured Sender: a no-op when email is disabled,
// SMTP when EMAIL_TRANSPORT=smtp, Resend otherwise.
func NewSender(cfg config.EmailConfig) (Sender, error) {
	if !cfg.GetEmailEnabled() {
		return NoopSender{}, nil
	}

	if cfg.GetEmailTransport() == "smtp" {
		return NewSMTPSender(
			cfg.GetSMTPHost(), cfg.GetSMTPPort(),
			cfg.GetSMTPUsername(), cfg.GetSMTPPassword(),
			cfg.GetEmailFromAddress(), cfg.GetEmailFromName(),
		), nil
	}

	client := &http.Client{Timeout: 10 * time.Second}
	return &ResendSender{
		apiKey:    cfg.GetResendAPIKey(),
		fromName:  cfg.GetEmailFromName(),
		fromEmail: cfg.GetEmailFromAddress(),
		client:    client,
	}, nil
}

func (r *ResendSender) SendLeadIntakeEmail(ctx context.Context, toEmail string, data IntakeEmail) error {
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
	return r.sendWithAttachments(ctx, toEmail, subject, content, attachments...)
}

func (r *ResendSender) SendLeadFinalizedEmail(ctx context.Context, toEmail string, data FinalizedEmail) error {
	format := subjectLeadFinalizedFmt
	if data.IsIncomeProperty {
		format = subjectLeadFinalizedIncomeFmt
	}
	subject := fmt.Sprintf(format, data.FullName, data.Address)

	content, err := renderEmailTemplate("lead_finalized.html", finalizedData(data))
	if err != nil {
		return err
	}
	return r.send(ctx, toEmail, subject, content)
}

func (r *ResendSender) SendDisqualificationEmail(ctx context.Context, toEmail string, data DisqualifyEmail) error {
	subject, content, err := buildDisqualifyEmail(data)
	if err != nil {
		return err
	}
	return r.send(ctx, toEmail, subject, content)
}

func (r *ResendSender) SendReminderEmail(ctx context.Context, toEmail string, data ReminderEmail) error {
	subject, content, err := buildReminderEmail(data)
	if err != nil {
		return err
	}
	return r.send(ctx, toEmail, subject, content)
}

func (r *ResendSender) SendCustomEmail(ctx context.Context, toEmail, subject, htmlContent string) error {
	return r.send(ctx, toEmail, subject, htmlContent)
}

func (r *ResendSender) send(ctx context.Context, toEmail, subject, htmlContent string) error {
	return r.sendWithAttachments(ctx, toEmail, subject, htmlContent)
}

func (r *ResendSender) sendWithAttachments(ctx context.Context, toEmail, subject, htmlContent string, attachments ...Attachment) error {
	payload := resendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", r.fromName, r.fromEmail),
		To:      []string{toEmail},
		Subject: subject,
		HTML:    htmlContent,
	}

	for _, att := range attachments {
		payload.Attachments = append(payload.Attachments, resendAttachment{
			Content:  base64.StdEncoding.EncodeToString(att.Content),
			Filename: att.FileName,
		})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "https://api.resend.com/emails", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+r.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("resend send failed: %w", ErrRateLimited)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("resend send failed: status %d: %s", resp.StatusCode, string(data))
	}

	return nil
}

// buildDisqualifyEmail resolves the template variant from the catalog and
// renders the message. Shared by the Resend and SMTP senders.
func buildDisqualifyEmail(data DisqualifyEmail) (subject, content string, err error) {
	catalog, err := LoadCatalog()
	if err != nil {
		return "", "", err
	}

	tmpl := catalog.TemplateFor(data.TemplateType)
	subject = data.Subject
	if subject == "" {
		subject = catalog.DefaultSubject
	}

	content, err = renderEmailTemplate("disqualify.html", disqualifyEmailData{
		baseEmailData: baseEmailData{Title: subject},
		LeadName:      data.LeadName,
		Intro:         tmpl.Intro,
		Body:          formatMultiline(data.Body),
		Outro:         tmpl.Outro,
	})
	return subject, content, err
}

// buildReminderEmail renders the finalization reminder with catalog fallbacks.
func buildReminderEmail(data ReminderEmail) (subject, content string, err error) {
	catalog, err := LoadCatalog()
	if err != nil {
		return "", "", err
	}

	subject = data.Subject
	if subject == "" {
		subject = catalog.DefaultSubject
	}
	body := data.Body
	if body == "" {
		body = catalog.Reminder.DefaultBody
	}

	content, err = renderEmailTemplate("reminder.html", reminderEmailData{
		baseEmailData: baseEmailData{Title: subject},
		LeadName:      data.LeadName,
		Body:          formatMultiline(body),
		AfterCTA:      formatMultiline(catalog.Reminder.AfterCTA),
		FinalizeURL:   data.FinalizeURL,
	})
	return subject, content, err
}
