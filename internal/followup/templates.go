package followup

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"leadflow_backend/internal/leads/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

// EmailContent is a rendered email template.
type EmailContent struct {
	Subject string
	HTML    string
	Text    string
}

type emailData struct {
	FirstName   string
	AgentName   string
	JourneyVerb string // "buying" or "selling"
	SellOrBuy   string // "sell" or "buy"
	HomeGoal    string // "buying a home" or "selling your home"
}

func newEmailData(lead domain.Lead, intent Intent, agentName string) emailData {
	d := emailData{
		FirstName:   firstNameOrThere(lead),
		AgentName:   agentName,
		JourneyVerb: "buying",
		SellOrBuy:   "buy",
		HomeGoal:    "buying a home",
	}
	if intent == IntentSelling {
		d.JourneyVerb = "selling"
		d.SellOrBuy = "sell"
		d.HomeGoal = "selling your home"
	}
	return d
}

// emailCatalog maps template keys to their subject and body templates.
// Keys not present here render the welcome template instead of failing, so
// a stale or misspelled key still produces a sensible message.
var emailCatalog = map[string]struct {
	subject func(d emailData) string
	file    string
	text    func(d emailData) string
}{
	"welcome": {
		subject: func(d emailData) string {
			return fmt.Sprintf("Welcome %s! Let's find your perfect home", d.FirstName)
		},
		file: "welcome.html",
		text: func(d emailData) string {
			return fmt.Sprintf("Hi %s,\n\nThank you for your interest in %s real estate! I'm excited to help you through this journey.\n\nI'll be reaching out shortly to discuss your needs and timeline. In the meantime, feel free to reply with any questions.\n\nBest regards,\n%s", d.FirstName, d.JourneyVerb, d.AgentName)
		},
	},
	"property_recommendations": {
		subject: func(d emailData) string {
			return fmt.Sprintf("%s, I found some great properties for you!", d.FirstName)
		},
		file: "property_recommendations.html",
		text: func(d emailData) string {
			return fmt.Sprintf("Hi %s,\n\nI've been working on finding properties that match your criteria. I have some exciting options to share with you!\n\nWould you like to schedule a call to discuss these opportunities? I'm available for a quick 15-minute conversation at your convenience.\n\nBest regards,\n%s", d.FirstName, d.AgentName)
		},
	},
	"market_update": {
		subject: func(d emailData) string {
			return fmt.Sprintf("%s, Important Market Update", d.FirstName)
		},
		file: "market_update.html",
		text: func(d emailData) string {
			return fmt.Sprintf("Hi %s,\n\nI wanted to share some important market updates that could impact your %s timeline.\n\nThe market has been showing some interesting trends lately. Would you like to hop on a quick call to discuss how these changes might benefit you?\n\nBest regards,\n%s", d.FirstName, d.JourneyVerb, d.AgentName)
		},
	},
	"reactivation": {
		subject: func(d emailData) string {
			return fmt.Sprintf("%s, are you still looking to %s?", d.FirstName, d.SellOrBuy)
		},
		file: "reactivation.html",
		text: func(d emailData) string {
			return fmt.Sprintf("Hi %s,\n\nI hope you're doing well! I wanted to check in and see if you're still interested in %s.\n\nThe market has some great opportunities right now, and I'd love to help you take advantage of them.\n\nAre you available for a quick 10-minute call this week?\n\nBest regards,\n%s", d.FirstName, d.HomeGoal, d.AgentName)
		},
	},
}

// RenderEmail renders the email for a template key.
func RenderEmail(key string, lead domain.Lead, intent Intent, agentName string) (EmailContent, error) {
	entry, ok := emailCatalog[key]
	if !ok {
		entry = emailCatalog["welcome"]
	}

	data := newEmailData(lead, intent, agentName)

	html, err := renderEmailTemplate(entry.file, data)
	if err != nil {
		return EmailContent{}, err
	}

	return EmailContent{
		Subject: entry.subject(data),
		HTML:    html,
		Text:    entry.text(data),
	}, nil
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

// smsCatalog maps template keys to message builders. Unknown keys fall
// back to a generic check-in text.
var smsCatalog = map[string]func(d emailData) string{
	"initial_follow_up": func(d emailData) string {
		goals := "home buying"
		if d.JourneyVerb == "selling" {
			goals = "selling"
		}
		return fmt.Sprintf("Hi %s! Quick follow-up from yesterday. When would be a good time for a brief call to discuss your %s goals? I'm here to help!", d.FirstName, goals)
	},
	"weekly_check_in": func(d emailData) string {
		return fmt.Sprintf("Hi %s! Hope you're having a great week. Any questions about the %s process? I'm here if you need anything!", d.FirstName, d.JourneyVerb)
	},
	"property_alert": func(d emailData) string {
		return fmt.Sprintf("Hi %s! Found a property that matches your criteria. Interested in learning more? Let me know if you'd like details!", d.FirstName)
	},
	"appointment_reminder": func(d emailData) string {
		return fmt.Sprintf("Hi %s! Reminder: we have our appointment scheduled for tomorrow. Looking forward to connecting with you!", d.FirstName)
	},
	"market_update": func(d emailData) string {
		update := "Great buying opportunities available right now!"
		if d.JourneyVerb == "selling" {
			update = "Home values in your area are trending up!"
		}
		return fmt.Sprintf("Hi %s! Quick market update: %s Want to chat about it?", d.FirstName, update)
	},
	"reactivation": func(d emailData) string {
		if d.JourneyVerb == "selling" {
			return fmt.Sprintf("Hi %s, are you still considering selling your home? I have some exciting market updates to share.", d.FirstName)
		}
		return fmt.Sprintf("Hi %s, are you still looking to buy a home? The market has some great opportunities right now!", d.FirstName)
	},
}

// RenderSMS renders the text for a template key.
func RenderSMS(key string, lead domain.Lead, intent Intent) string {
	data := newEmailData(lead, intent, "")

	if build, ok := smsCatalog[key]; ok {
		return build(data)
	}
	return fmt.Sprintf("Hi %s! Just checking in. How can I help with your real estate needs today?", data.FirstName)
}

func firstNameOrThere(lead domain.Lead) string {
	if lead.FirstName == "" {
		return "there"
	}
	return lead.FirstName
}
