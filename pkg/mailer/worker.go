package mailer

import (
	"context"
	"errors"
)

// Outcome tells the consumer what to do with a delivery.
type Outcome int

const (
	Ack     Outcome = iota // delivered
	Requeue                // transient send failure, retry later
	Drop                   // payload can never be delivered
)

func (o Outcome) String() string {
	switch o {
	case Ack:
		return "ack"
	case Requeue:
		return "requeue"
	default:
		return "drop"
	}
}

// Process decodes, renders and sends one queue message.
func Process(ctx context.Context, sender Sender, body []byte) (Outcome, error) {
	job, err := Decode(body)
	if err != nil {
		return Drop, err
	}
	subject, text, html, err := Prepare(job)
	if err != nil {
		if errors.Is(err, ErrBadJob) {
			return Drop, err
		}
		return Requeue, err
	}
	if err := sender.Send(ctx, job.To, subject, text, html); err != nil {
		return Requeue, err
	}
	return Ack, nil
}
