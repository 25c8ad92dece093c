package mailer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	mailtpl "github.com/oksasatya/go-ddd-user-terms/pkg/mailer/templates"
)

// Outcome tells the queue consumer what to do with a delivery.
type Outcome int

const (
	Ack     Outcome = iota
	Drop            // malformed or unrenderable; nack without requeue
	Requeue         // transient send failure
)

var ErrNoRecipient = errors.New("email job has no recipient")

// Prepare fills recipient fields the templates expect and applies brand defaults.
func Prepare(job *EmailJob, brand mailtpl.Brand) {
	if job.Data == nil {
		job.Data = map[string]any{}
	}
	setDefault(job.Data, "Email", job.To)
	setDefault(job.Data, "RecipientEmail", job.To)
	setDefault(job.Data, "AppName", brand.AppName)
	setDefault(job.Data, "CompanyName", brand.CompanyName)
	setDefault(job.Data, "SupportURL", brand.SupportURL)
}

func setDefault(m map[string]any, key, val string) {
	if v, ok := m[key]; !ok || fmt.Sprintf("%v", v) == "" {
		m[key] = val
	}
}

// Compose renders the job into subject, text and html. Jobs without a template pass through.
func Compose(job EmailJob) (subject, text, html string, err error) {
	if strings.TrimSpace(job.To) == "" {
		return "", "", "", ErrNoRecipient
	}
	if job.Template == "" {
		if job.Subject == "" || (job.Text == "" && job.HTML == "") {
			return "", "", "", errors.New("email job has neither template nor content")
		}
		return job.Subject, job.Text, job.HTML, nil
	}
	return mailtpl.Render(strings.ToLower(job.Template), job.Data)
}

// Deliver decodes one queue message body, renders it and hands it to s.
func Deliver(ctx context.Context, s Sender, brand mailtpl.Brand, body []byte) (Outcome, error) {
	var job EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		return Drop, fmt.Errorf("decode job: %w", err)
	}
	Prepare(&job, brand)
	subject, text, html, err := Compose(job)
	if err != nil {
		return Drop, fmt.Errorf("compose %q: %w", job.Template, err)
	}
	if err := s.Send(ctx, job.To, subject, text, html); err != nil {
		return Requeue, fmt.Errorf("send: %w", err)
	}
	return Ack, nil
}
