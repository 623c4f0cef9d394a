package model

import "time"

type Kind string

const (
	KindApprovalRequested Kind = "approval_requested"
	KindApproved          Kind = "approved"
	KindRejected          Kind = "rejected"
)

// Booking is the part of a booking a notification talks about.
type Booking struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	LinkTitle   string    `json:"link_title"`
	ClientName  string    `json:"client_name"`
	ClientEmail string    `json:"client_email"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Timezone    string    `json:"timezone"`
}

// Notification is the message published on the notification topic.
type Notification struct {
	Kind       Kind     `json:"kind"`
	Booking    Booking  `json:"booking"`
	Recipients []string `json:"recipients"`
	Reason     string   `json:"reason,omitempty"`
}
