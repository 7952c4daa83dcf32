package email

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"

	"stagepass/internal/domain"
)

//go:embed templates/*
var templateFS embed.FS

// templateRenderer renders the three parts of an email (subject, HTML body,
// text body) from embedded files named <template>_subject.txt, <template>.html,
// and <template>.txt.
type templateRenderer struct{}

// NewTemplateRenderer returns an EmailTemplateRenderer over the embedded templates.
func NewTemplateRenderer() domain.EmailTemplateRenderer {
	return &templateRenderer{}
}

func (r *templateRenderer) Render(templateName string, data any) (subject, htmlBody, textBody string, err error) {
	parts := []struct {
		file string
		html bool
		out  *string
	}{
		{templateName + "_subject.txt", false, &subject},
		{templateName + ".html", true, &htmlBody},
		{templateName + ".txt", false, &textBody},
	}
	for _, p := range parts {
		*p.out, err = renderPart(p.file, data, p.html)
		if err != nil {
			return "", "", "", fmt.Errorf("render %s: %w", p.file, err)
		}
	}
	return strings.TrimSpace(subject), htmlBody, textBody, nil
}

// renderPart executes one template file. HTML bodies go through html/template
// for escaping; subjects and text bodies use text/template.
func renderPart(name string, data any, html bool) (string, error) {
	raw, err := templateFS.ReadFile("templates/" + name)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if html {
		t, err := htmltemplate.New(name).Parse(string(raw))
		if err != nil {
			return "", err
		}
		err = t.Execute(&buf, data)
		return buf.String(), err
	}
	t, err := texttemplate.New(name).Parse(string(raw))
	if err != nil {
		return "", err
	}
	err = t.Execute(&buf, data)
	return buf.String(), err
}
