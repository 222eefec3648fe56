// Package templates provides email template components
package templates

import (
	"bytes"
	"html/template"
	"log"
)

var (
	paragraphTemplate = template.Must(template.New("emailParagraph").Parse(
		`<p style="font-family: Helvetica, sans-serif; font-size: 16px; font-weight: normal; margin: 0 0 16px;">{{.}}</p>`))

	labeledValueTemplate = template.Must(template.New("emailLabeledValue").Parse(
		`<p style="font-family: Helvetica, sans-serif; font-size: 16px; margin: 0 0 8px;"><strong>{{.Label}}:</strong> {{.Value}}</p>`))

	headingTemplate = template.Must(template.New("emailHeading").Parse(
		`<h2 style="font-family: Helvetica, sans-serif; font-size: 20px; font-weight: bold; margin: 0 0 16px;">{{.}}</h2>`))
)

// GetParagraph renders a text paragraph, escaping the content.
func GetParagraph(text string) string {
	return render(paragraphTemplate, text)
}

// GetHeading renders a section heading.
func GetHeading(text string) string {
	return render(headingTemplate, text)
}

// LeadNotificationProps carries the fields of a newly captured lead.
type LeadNotificationProps struct {
	Name    string
	Email   string
	Message string
	Source  string
}

// GetLeadNotificationContent composes the body of the new-lead email.
func GetLeadNotificationContent(props LeadNotificationProps) string {
	var buf bytes.Buffer
	buf.WriteString(GetHeading("New lead from the website"))
	buf.WriteString(render(labeledValueTemplate, map[string]string{"Label": "Name", "Value": props.Name}))
	buf.WriteString(render(labeledValueTemplate, map[string]string{"Label": "Email", "Value": props.Email}))
	if props.Source != "" {
		buf.WriteString(render(labeledValueTemplate, map[string]string{"Label": "Source", "Value": props.Source}))
	}
	if props.Message != "" {
		buf.WriteString(GetParagraph(props.Message))
	}
	return buf.String()
}

func render(tmpl *template.Template, data any) string {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		log.Printf("Failed to execute email template %s: %v", tmpl.Name(), err)
		return ""
	}
	return buf.String()
}
