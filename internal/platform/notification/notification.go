// Package notification delivers WhatsApp appointment reminders to patients
// through the Twilio messaging API.
package notification

import (
	"context"
	"fmt"
	"strings"
)

// Sender delivers a message to a phone number. Numbers are in E.164 format
// without the whatsapp: prefix; implementations add channel addressing.
type Sender interface {
	Send(ctx context.Context, to, body string) error
}

// Template is a message body with {{placeholder}} markers.
type Template struct {
	ID   string
	Body string
}

// ReminderTemplateID identifies the built-in appointment reminder.
const ReminderTemplateID = "appointment-reminder"

var builtinTemplates = map[string]Template{
	ReminderTemplateID: {
		ID: ReminderTemplateID,
		Body: "Hola {{nombre}}, le recordamos su cita del {{fecha}} a las {{hora}}. " +
			"Si no puede asistir, por favor avísenos con antelación.",
	},
}

// Render substitutes {{key}} markers in the named template.
func Render(templateID string, data map[string]string) (string, error) {
	tpl, ok := builtinTemplates[templateID]
	if !ok {
		return "", fmt.Errorf("unknown template %q", templateID)
	}
	body := tpl.Body
	for key, value := range data {
		body = strings.ReplaceAll(body, "{{"+key+"}}", value)
	}
	if strings.Contains(body, "{{") {
		return "", fmt.Errorf("template %q has unresolved placeholders", templateID)
	}
	return body, nil
}
