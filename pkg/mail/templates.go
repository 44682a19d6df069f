package mail

import (
	"bytes"
	_ "embed"
	"html/template"
)

// SubmissionNotificationParams feeds the notification email body for a
// single contact submission.
type SubmissionNotificationParams struct {
	Name         string
	Email        string
	Message      string
	Reference    string
	ReceivedAt   string
	BrandingName string
}

var (
	submissionNotificationTemplate = template.New("submissionNotification")

	//go:embed templates/submissionNotification.html
	submissionNotificationTemplateRaw string
)

func init() {
	if _, err := submissionNotificationTemplate.Parse(submissionNotificationTemplateRaw); err != nil {
		panic(err)
	}
}

func render(t *template.Template, p any) (string, error) {
	b := bytes.Buffer{}
	err := t.Execute(&b, p)
	return b.String(), err
}

// RenderSubmissionNotification renders the HTML body for a contact
// submission notification. Field values are HTML-escaped by the template
// engine, so submitter-controlled content cannot inject markup.
func RenderSubmissionNotification(p SubmissionNotificationParams) (string, error) {
	return render(submissionNotificationTemplate, p)
}
