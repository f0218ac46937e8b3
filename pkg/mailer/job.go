package mailer

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	tpl "github.com/oksasatya/go-account-service/pkg/mailer/templates"
)

// ErrBadJob marks a payload that can never be delivered; it should be dropped, not retried.
var ErrBadJob = errors.New("bad email job")

// Decode parses a queue message body into a job.
func Decode(body []byte) (EmailJob, error) {
	var job EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		return EmailJob{}, fmt.Errorf("%w: %v", ErrBadJob, err)
	}
	return job, nil
}

// Prepare renders the job into subject, text and html bodies.
func Prepare(job EmailJob) (subject, text, html string, err error) {
	if strings.TrimSpace(job.To) == "" {
		return "", "", "", fmt.Errorf("%w: missing recipient", ErrBadJob)
	}
	if job.Template == "" {
		if job.Subject == "" || (job.Text == "" && job.HTML == "") {
			return "", "", "", fmt.Errorf("%w: missing subject or body", ErrBadJob)
		}
		return job.Subject, job.Text, job.HTML, nil
	}
	if !tpl.Known(job.Template) {
		return "", "", "", fmt.Errorf("%w: unknown template %q", ErrBadJob, job.Template)
	}
	subject, text, html, err = tpl.Render(job.Template, job.Data)
	if err != nil {
		return "", "", "", fmt.Errorf("%w: %v", ErrBadJob, err)
	}
	return subject, text, html, nil
}
