package main

import (
	"context"
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-identity-service/pkg/helpers"
	"github.com/oksasatya/go-identity-service/pkg/mailer"
)

type outcome int

const (
	ack outcome = iota
	retry
	drop
)

type worker struct {
	Sender  mailer.Sender
	Logger  *logrus.Logger
	Timeout time.Duration
}

// process renders and sends one queued job. Malformed or unrenderable jobs
// are dropped; delivery failures are retried.
func (w *worker) process(ctx context.Context, body []byte) outcome {
	var job mailer.EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		w.Logger.WithError(err).Warn("bad message")
		return drop
	}
	subject, text, html, err := helpers.RenderJob(&job)
	if err != nil {
		w.Logger.WithError(err).WithField("template", job.Template).Warn("render failed")
		return drop
	}

	c, cancel := context.WithTimeout(ctx, w.Timeout)
	defer cancel()
	if err := w.Sender.Send(c, job.To, subject, text, html); err != nil {
		w.Logger.WithError(err).WithField("to", job.To).Error("send failed")
		return retry
	}
	w.Logger.WithFields(logrus.Fields{"to": job.To, "template": job.Template}).Info("email sent")
	return ack
}
