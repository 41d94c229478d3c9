package request

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"text/template"

	"github.com/dev-shimada/csv-record-mapper/internal/mapper"
)

// Factory renders one HTTP request per record. Templates see the record as a
// map keyed by field name, e.g. {{.object_id}} or {{index . "Start Date"}}.
type Factory struct {
	method         string
	urlTemplate    *template.Template
	headerTemplate *template.Template
	bodyTemplate   *template.Template
}

func NewFactory(method, urlTemplate, headerTemplate, bodyTemplate string) (*Factory, error) {
	u, err := template.New("url").Option("missingkey=error").Parse(urlTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse url template: %w", err)
	}
	h, err := template.New("header").Option("missingkey=error").Parse(headerTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse header template: %w", err)
	}
	b, err := template.New("body").Option("missingkey=error").Parse(bodyTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse body template: %w", err)
	}
	return &Factory{
		method:         method,
		urlTemplate:    u,
		headerTemplate: h,
		bodyTemplate:   b,
	}, nil
}

func (f *Factory) Build(rec mapper.Record) (*http.Request, error) {
	data := rec.Map()

	var url bytes.Buffer
	if err := f.urlTemplate.Execute(&url, data); err != nil {
		return nil, err
	}

	var body bytes.Buffer
	if err := f.bodyTemplate.Execute(&body, data); err != nil {
		return nil, err
	}

	req, err := http.NewRequest(f.method, url.String(), &body)
	if err != nil {
		return nil, err
	}

	var headers bytes.Buffer
	if err := f.headerTemplate.Execute(&headers, data); err != nil {
		return nil, err
	}

	for _, line := range strings.Split(headers.String(), "\n") {
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			continue
		}
		req.Header.Set(strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]))
	}

	return req, nil
}

// BuildAll renders a request for each record, stopping at the first failure.
func (f *Factory) BuildAll(records []mapper.Record) ([]*http.Request, error) {
	reqs := make([]*http.Request, 0, len(records))
	for i, rec := range records {
		req, err := f.Build(rec)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		reqs = append(reqs, req)
	}
	return reqs, nil
}
