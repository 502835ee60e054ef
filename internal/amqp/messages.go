package amqp

import (
	"encoding/json"
	"time"
)

// NotificationKind selects the mail template the worker renders.
type NotificationKind string

const (
	KindBudgetAlert NotificationKind = "budget_alert"
	KindGroupInvite NotificationKind = "group_invite"
	KindActivation  NotificationKind = "activation"
)

// Notification is the message the API publishes and the worker turns
// into an email. Currency fields carry exact 2-decimal strings.
type Notification struct {
	Kind          NotificationKind `json:"kind"`
	Recipient     string           `json:"recipient"`
	RecipientName string           `json:"recipient_name,omitempty"`

	// budget_alert
	BudgetLimit  string `json:"budget_limit,omitempty"`
	CurrentTotal string `json:"current_total,omitempty"`

	// group_invite
	InviterName string `json:"inviter_name,omitempty"`
	GroupCode   string `json:"group_code,omitempty"`

	// activation
	ActivationLink string `json:"activation_link,omitempty"`

	Timestamp time.Time `json:"timestamp"`
}

// NewBudgetAlert builds a budget-exceeded notification.
func NewBudgetAlert(recipient, recipientName, limit, currentTotal string) Notification {
	return Notification{
		Kind:          KindBudgetAlert,
		Recipient:     recipient,
		RecipientName: recipientName,
		BudgetLimit:   limit,
		CurrentTotal:  currentTotal,
		Timestamp:     time.Now(),
	}
}

// NewGroupInvite builds a group invitation notification.
func NewGroupInvite(recipient, inviterName, groupCode string) Notification {
	return Notification{
		Kind:        KindGroupInvite,
		Recipient:   recipient,
		InviterName: inviterName,
		GroupCode:   groupCode,
		Timestamp:   time.Now(),
	}
}

// NewActivation builds an account activation notification.
func NewActivation(recipient, recipientName, link string) Notification {
	return Notification{
		Kind:           KindActivation,
		Recipient:      recipient,
		RecipientName:  recipientName,
		ActivationLink: link,
		Timestamp:      time.Now(),
	}
}

func (n Notification) ToJSON() ([]byte, error) {
	return json.Marshal(n)
}

func NotificationFromJSON(data []byte) (*Notification, error) {
	var n Notification
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, err
	}
	return &n, nil
}
