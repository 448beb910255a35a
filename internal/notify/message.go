package notify

import (
	"fmt"
	"strings"
)

// Format renders the customer-facing text for ev.
func Format(ev Event) string {
	var b strings.Builder

	switch ev.Type {
	case EventTicketCreated:
		b.WriteString("🎫 *Ticket Booked!*\n\n")
		fmt.Fprintf(&b, "Store: %s\n", ev.StoreName)
		fmt.Fprintf(&b, "Ticket #: %d\n", ev.TicketNumber)
		fmt.Fprintf(&b, "Position: %d\n", ev.Position)
		fmt.Fprintf(&b, "Est. Wait: ~%d mins\n", ev.EstimatedWait)
		fmt.Fprintf(&b, "Secret Code: %s\n\n", ev.SecretCode)
		b.WriteString("We'll notify you when it's your turn!")

	case EventTicketCalled:
		b.WriteString("🔔 *IT'S YOUR TURN!*\n\n")
		fmt.Fprintf(&b, "Store: %s\n", ev.StoreName)
		fmt.Fprintf(&b, "Ticket #: %d\n", ev.TicketNumber)
		fmt.Fprintf(&b, "Secret Code: %s\n\n", ev.SecretCode)
		b.WriteString("⚡ Please proceed to the counter now!")

	case EventTicketCompleted:
		b.WriteString("✅ *Service Completed!*\n\n")
		fmt.Fprintf(&b, "Store: %s\n", ev.StoreName)
		fmt.Fprintf(&b, "Ticket #: %d\n", ev.TicketNumber)
		fmt.Fprintf(&b, "Service Time: %d mins\n\n", ev.ServiceMinutes)
		b.WriteString("Thank you for using QueueGo! 🙏\n")
		b.WriteString("We hope to see you again soon.")

	default:
		fmt.Fprintf(&b, "Ticket #%d at %s: %s", ev.TicketNumber, ev.StoreName, ev.Type)
	}

	return b.String()
}
