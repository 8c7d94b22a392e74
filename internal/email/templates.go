package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
)

//go:embed templates/*.html
var templateFS embed.FS

type baseEmailData struct {
	Title   string
	Heading string
}

// IntakeEmail carries everything the new-lead notification needs.
type IntakeEmail struct {
	LeadNumber    string
	FullName      string
	Email         string
	Phone         string
	Address       string
	PropertyType  string
	Intention     string
	UTMSource     string
	UTMMedium     string
	UTMCampaign   string
	Referrer      string
	ConversionURL string
	FinalizeURL   string
	// QRCodePNG, when set, is attached so the team can open the
	// finalization form from a phone. The link stays primary.
	QRCodePNG []byte
}

// AnswerRow is one rendered question/answer line of a finalized form.
type AnswerRow struct {
	Label string
	Value string
}

// AnswerSection groups answer rows under a heading.
type AnswerSection struct {
	Title string
	Rows  []AnswerRow
}

// FinalizedEmail carries the finalization summary sent to the team.
type FinalizedEmail struct {
	LeadNumber       string
	FullName         string
	Email            string
	Phone            string
	Address          string
	PropertyType     string
	BrokerLine       string
	IsIncomeProperty bool
	Sections         []AnswerSection
	Note             string
	DetailURL        string
}

// DisqualifyEmail carries a disqualification message to a lead.
type DisqualifyEmail struct {
	LeadName     string
	Subject      string
	Body         string
	TemplateType string
}

// ReminderEmail carries a finalization reminder to a lead.
type ReminderEmail struct {
	LeadName    string
	Subject     string
	Body        string
	FinalizeURL string
}

type leadIntakeEmailData struct {
	baseEmailData
	IntakeEmail
	HasTracking bool
}

type leadFinalizedEmailData struct {
	baseEmailData
	FinalizedEmail
	Banner    string
	NoteTitle string
}

type disqualifyEmailData struct {
	baseEmailData
	LeadName string
	Intro    string
	Body     template.HTML
	Outro    string
}

type reminderEmailData struct {
	baseEmailData
	LeadName    string
	Body        template.HTML
	AfterCTA    template.HTML
	FinalizeURL string
}

func renderEmailTemplate(name string, data any) (string, error) {
	templates := []string{"templates/base.html", "templates/" + name}
	tmpl, err := template.New("base.html").ParseFS(templateFS, templates...)
	if err != nil {
		return "", fmt.Errorf("parse email template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "email", data); err != nil {
		return "", fmt.Errorf("execute email template %s: %w", name, err)
	}
	return buf.String(), nil
}

// formatMultiline escapes user text and turns newlines into <br/> so plain
// paragraphs survive HTML rendering.
func formatMultiline(s string) template.HTML {
	escaped := template.HTMLEscapeString(s)
	return template.HTML(strings.ReplaceAll(escaped, "\n", "<br/>"))
}

func intakeData(data IntakeEmail) leadIntakeEmailData {
	return leadIntakeEmailData{
		baseEmailData: baseEmailData{
			Title:   "Nouveau lead",
			Heading: "Nouveau lead - Évaluation immobilière",
		},
		IntakeEmail: data,
		HasTracking: data.UTMSource != "" || data.UTMMedium != "" || data.UTMCampaign != "" ||
			data.Referrer != "" || data.ConversionURL != "",
	}
}

func finalizedData(data FinalizedEmail) leadFinalizedEmailData {
	heading := "✅ Lead finalisé - " + data.FullName
	banner := "Le lead a complété sa fiche avec toutes les informations détaillées."
	noteTitle := "Note du lead:"
	if data.IsIncomeProperty {
		heading = "✅ Lead finalisé - Immeuble à revenus - " + data.FullName
		banner = "Le lead a complété sa fiche d'évaluation pour un immeuble à revenus."
		noteTitle = "Notes importantes:"
	}
	return leadFinalizedEmailData{
		baseEmailData: baseEmailData{Title: "Lead finalisé", Heading: heading},
		FinalizedEmail: data,
		Banner:         banner,
		NoteTitle:      noteTitle,
	}
}
