package service

import (
	"fmt"
	"scheduler/internal/domains/notification/model"
	"strings"
	"time"
)

const mailTimeFormat = "Mon 2 Jan 2006 15:04 MST"

func when(b model.Booking) string {
	loc, err := time.LoadLocation(b.Timezone)
	if err != nil || b.Timezone == "" {
		loc = time.UTC
	}

	return fmt.Sprintf("%s - %s", b.Start.In(loc).Format(mailTimeFormat), b.End.In(loc).Format("15:04 MST"))
}

func title(b model.Booking) string {
	if b.LinkTitle != "" {
		return b.LinkTitle
	}

	return "Meeting"
}

func subject(n model.Notification) string {
	switch n.Kind {
	case model.KindApprovalRequested:
		return fmt.Sprintf("Approval needed: %s with %s", title(n.Booking), n.Booking.ClientName)
	case model.KindApproved:
		return "Confirmed: " + title(n.Booking)
	case model.KindRejected:
		return "Declined: " + title(n.Booking)
	}

	return title(n.Booking)
}

func body(n model.Notification) string {
	var sb strings.Builder

	switch n.Kind {
	case model.KindApprovalRequested:
		fmt.Fprintf(&sb, "%s <%s> requested %s.\n", n.Booking.ClientName, n.Booking.ClientEmail, title(n.Booking))
		fmt.Fprintf(&sb, "When: %s\n", when(n.Booking))
		fmt.Fprintf(&sb, "Booking: %s\n", n.Booking.ID)
	case model.KindApproved:
		fmt.Fprintf(&sb, "Hello %s,\n\nYour booking for %s is confirmed.\n", n.Booking.ClientName, title(n.Booking))
		fmt.Fprintf(&sb, "When: %s\n", when(n.Booking))
	case model.KindRejected:
		fmt.Fprintf(&sb, "Hello %s,\n\nYour booking request for %s was declined.\n", n.Booking.ClientName, title(n.Booking))
		fmt.Fprintf(&sb, "Reason: %s\n", n.Reason)
	}

	return sb.String()
}
