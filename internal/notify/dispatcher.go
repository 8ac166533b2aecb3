package notify

import (
	"context"

	"go.uber.org/zap"
)

type Sender interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

// Notifier accepts a notification job. Implementations never fail the caller.
type Notifier interface {
	Notify(ctx context.Context, job Job)
}

type Job struct {
	ID           string
	OrderID      uint
	OriginChatID int64
	Text         string
}

type Attempt struct {
	Recipient int64
	Outcome   Outcome
	Err       error
}

type Report struct {
	Attempts  []Attempt
	Recipient int64 // who got the message, 0 if nobody
	FellBack  bool
}

func (r Report) Delivered() bool {
	return r.Recipient != 0
}

// Dispatcher delivers a job to the first reachable operator and falls back
// to the conversation the order came from.
type Dispatcher struct {
	sender    Sender
	operators []int64
	logger    *zap.Logger
}

func NewDispatcher(sender Sender, operators []int64, logger *zap.Logger) *Dispatcher {
	ops := make([]int64, 0, len(operators))
	for _, id := range operators {
		if id != 0 {
			ops = append(ops, id)
		}
	}

	return &Dispatcher{
		sender:    sender,
		operators: ops,
		logger:    logger,
	}
}

func (d *Dispatcher) Notify(ctx context.Context, job Job) {
	d.Dispatch(ctx, job)
}

// Dispatch tries the operators in order, one at a time, and stops at the
// first delivery. Every failure is logged and swallowed.
func (d *Dispatcher) Dispatch(ctx context.Context, job Job) Report {
	var report Report
	log := d.logger.With(zap.String("job_id", job.ID), zap.Uint("order_id", job.OrderID))

	for _, operator := range d.operators {
		attempt := d.attempt(ctx, operator, job.Text)
		report.Attempts = append(report.Attempts, attempt)

		switch attempt.Outcome {
		case Delivered:
			log.Info("order notification delivered", zap.Int64("operator_id", operator))
			report.Recipient = operator
			return report
		case Unreachable:
			log.Warn("operator unreachable", zap.Int64("operator_id", operator), zap.Error(attempt.Err))
		case TransportError:
			log.Error("operator notification failed", zap.Int64("operator_id", operator), zap.Error(attempt.Err))
		}
	}

	report.FellBack = true
	if job.OriginChatID == 0 {
		log.Error("no operator reachable and no origin chat to fall back to")
		return report
	}

	attempt := d.attempt(ctx, job.OriginChatID, job.Text)
	report.Attempts = append(report.Attempts, attempt)

	if attempt.Outcome == Delivered {
		log.Info("order notification sent to origin chat", zap.Int64("chat_id", job.OriginChatID))
		report.Recipient = job.OriginChatID
		return report
	}

	log.Error("fallback notification failed",
		zap.Int64("chat_id", job.OriginChatID),
		zap.Stringer("outcome", attempt.Outcome),
		zap.Error(attempt.Err),
	)
	return report
}

func (d *Dispatcher) attempt(ctx context.Context, recipient int64, text string) Attempt {
	err := d.sender.SendMessage(ctx, recipient, text)
	return Attempt{
		Recipient: recipient,
		Outcome:   Classify(err),
		Err:       err,
	}
}
