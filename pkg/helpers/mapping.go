package helpers

import (
	"fmt"

	"github.com/oksasatya/go-identity-service/pkg/mailer"
	mailtpl "github.com/oksasatya/go-identity-service/pkg/mailer/templates"
)

// SubjectFor returns a subject for jobs that carry neither a subject nor a
// renderable template.
func SubjectFor(template string) string {
	switch template {
	case mailtpl.Welcome:
		return "Welcome"
	case mailtpl.AccountDeleted:
		return "Your account"
	default:
		return "Notification"
	}
}

// EnsureRecipientAndEmail fills Email and RecipientEmail from the job
// recipient when the producer left them out.
func EnsureRecipientAndEmail(job *mailer.EmailJob) {
	if job.Data == nil {
		job.Data = map[string]any{}
	}
	if v, ok := job.Data["Email"]; !ok || fmt.Sprintf("%v", v) == "" {
		job.Data["Email"] = job.To
	}
	if v, ok := job.Data["RecipientEmail"]; !ok || fmt.Sprintf("%v", v) == "" {
		job.Data["RecipientEmail"] = job.To
	}
}

// RenderJob resolves the final subject, text and html for job.
func RenderJob(job *mailer.EmailJob) (subject, text, html string, err error) {
	subject, text, html = job.Subject, job.Text, job.HTML
	if job.Template != "" {
		EnsureRecipientAndEmail(job)
		s, t, h, rerr := mailtpl.Render(job.Template, job.Data)
		if rerr != nil {
			return "", "", "", rerr
		}
		subject, text, html = s, t, h
	}
	if subject == "" {
		subject = SubjectFor(job.Template)
	}
	if text == "" && html == "" {
		return "", "", "", fmt.Errorf("email job for %s has no body", job.To)
	}
	return subject, text, html, nil
}
