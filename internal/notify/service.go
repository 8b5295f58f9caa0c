package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/trivern/leadflow/internal/events"
	"github.com/trivern/leadflow/pkg/logging"
)

// EscalationNotifier emails the team when a lead trips an escalation
// rule. It is deliberately tolerant: a nil or failing sender is logged
// and swallowed so lead capture never blocks on email.
type EscalationNotifier struct {
	sender    EmailSender
	teamEmail string
	logger    *logging.Logger
}

func NewEscalationNotifier(sender EmailSender, teamEmail string, logger *logging.Logger) *EscalationNotifier {
	if logger == nil {
		logger = logging.Default()
	}
	return &EscalationNotifier{sender: sender, teamEmail: teamEmail, logger: logger}
}

// Notify sends the escalation summary. Returns nil when email is not
// configured.
func (n *EscalationNotifier) Notify(ctx context.Context, ev events.LeadEscalatedV1) error {
	if n.sender == nil || n.teamEmail == "" {
		n.logger.Debug("escalation email not configured, skipping", "client_id", ev.ClientID)
		return nil
	}

	name := ev.Name
	if name == "" {
		name = ev.Phone
	}

	subject := fmt.Sprintf("Escalated lead: %s (%s, score %d)", name, ev.Tier, ev.Score)

	var b strings.Builder
	fmt.Fprintf(&b, "A lead was escalated for priority follow-up.\n\n")
	fmt.Fprintf(&b, "Name:  %s\n", name)
	fmt.Fprintf(&b, "Phone: %s\n", ev.Phone)
	fmt.Fprintf(&b, "Tier:  %s\n", ev.Tier)
	fmt.Fprintf(&b, "Score: %d\n\n", ev.Score)
	if len(ev.Reasons) > 0 {
		b.WriteString("Reasons:\n")
		for _, r := range ev.Reasons {
			fmt.Fprintf(&b, "  - %s\n", r)
		}
	}

	err := n.sender.Send(ctx, EmailMessage{
		To:      n.teamEmail,
		Subject: subject,
		Body:    b.String(),
	})
	if err != nil {
		n.logger.Error("escalation email failed", "error", err, "client_id", ev.ClientID)
		return fmt.Errorf("notify: escalation email: %w", err)
	}
	return nil
}
