package contact

import (
	"bytes"
	_ "embed"
	"html/template"
)

// formPageParams feeds the contact form page template.
type formPageParams struct {
	BrandingName     string
	Action           string
	MaxMessageLength int
	Sent             bool
	HasStylesheet    bool
}

var (
	formPageTemplate = template.New("contactForm")

	//go:embed templates/form.html
	formPageTemplateRaw string
)

func init() {
	if _, err := formPageTemplate.Parse(formPageTemplateRaw); err != nil {
		panic(err)
	}
}

func renderFormPage(p formPageParams) (string, error) {
	b := bytes.Buffer{}
	err := formPageTemplate.Execute(&b, p)
	return b.String(), err
}
