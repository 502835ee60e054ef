// Package worker turns queued notifications into outgoing email.
package worker

import (
	"context"
	"fmt"

	"splitbook/internal/amqp"
)

// MailSender delivers a single plain-text message.
type MailSender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// NotifyWorker renders notification messages into mail bodies and hands
// them to the sender. Errors propagate so the consumer can requeue.
type NotifyWorker struct {
	mailer MailSender
}

func NewNotifyWorker(mailer MailSender) *NotifyWorker {
	return &NotifyWorker{mailer: mailer}
}

// HandleNotification composes and sends the mail for one message.
func (w *NotifyWorker) HandleNotification(ctx context.Context, n *amqp.Notification) error {
	subject, body, err := composeMail(n)
	if err != nil {
		return err
	}
	if err := w.mailer.Send(ctx, n.Recipient, subject, body); err != nil {
		return fmt.Errorf("deliver %s notification: %w", n.Kind, err)
	}
	return nil
}

func composeMail(n *amqp.Notification) (subject, body string, err error) {
	switch n.Kind {
	case amqp.KindBudgetAlert:
		subject = "Budget Alert: Limit Exceeded"
		body = fmt.Sprintf("Hello %s,\n\n"+
			"You have exceeded your monthly personal budget limit.\n\n"+
			"Budget Limit: %s\n"+
			"Current Month Expenses: %s\n\n"+
			"Please manage your expenses accordingly.\n\n"+
			"Best,\nThe Splitbook Team",
			n.RecipientName, n.BudgetLimit, n.CurrentTotal)
	case amqp.KindGroupInvite:
		subject = "Join my group on Splitbook"
		body = fmt.Sprintf("Hello!\n\n"+
			"%s has invited you to join their expense tracking group.\n\n"+
			"Use this Group Code to join: %s\n\n"+
			"1. Log in to the app.\n"+
			"2. Open the group menu.\n"+
			"3. Select 'Join Group' and enter the code above.\n\n"+
			"Happy budgeting!",
			n.InviterName, n.GroupCode)
	case amqp.KindActivation:
		subject = "Activate your account"
		body = fmt.Sprintf("Hello %s,\n\n"+
			"Click here to activate your account: %s\n",
			n.RecipientName, n.ActivationLink)
	default:
		return "", "", fmt.Errorf("unknown notification kind %q", n.Kind)
	}
	return subject, body, nil
}
