package notify

import (
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"teamup/internal/models"
	"teamup/internal/worker"
)

// Outcome names the message a transition produces. Exactly one outcome
// is emitted per effective transition.
type Outcome string

const (
	OutcomeBooked       Outcome = "booked"
	OutcomeWaitlisted   Outcome = "waitlisted"
	OutcomeFullWaitlist Outcome = "full_waitlisted"
	OutcomeMaybe        Outcome = "maybe"
	OutcomeNotAttending Outcome = "not_attending"
	OutcomePromoted     Outcome = "promoted"
)

// Message is the user-facing text for an outcome, also used as the
// flash-style message in toggle responses.
func (o Outcome) Message() string {
	switch o {
	case OutcomeBooked:
		return "You're booked in!"
	case OutcomeWaitlisted:
		return "You're on the waitlist."
	case OutcomeFullWaitlist:
		return "Event is full. You've been added to the waitlist."
	case OutcomeMaybe:
		return "Marked as maybe."
	case OutcomeNotAttending:
		return "Marked as not attending."
	case OutcomePromoted:
		return "A spot opened up and you're booked in!"
	}
	return ""
}

// Notifier delivers transition notifications off the request path
// through the worker pool.
type Notifier struct {
	mailer Mailer
	wp     *worker.Pool
}

func NewNotifier(mailer Mailer, wp *worker.Pool) *Notifier {
	return &Notifier{mailer: mailer, wp: wp}
}

func (n *Notifier) SignupChanged(user models.User, event models.Event, outcome Outcome) {
	subject := fmt.Sprintf("%s: %s", event.Title, outcome.Message())
	n.send(user.Email, subject, outcome.Message())
}

func (n *Notifier) TopUpApplied(user models.User, amount decimal.Decimal) {
	n.send(user.Email, "Wallet top-up applied",
		fmt.Sprintf("Your wallet was topped up by %s.", amount.StringFixed(2)))
}

func (n *Notifier) send(to, subject, body string) {
	n.wp.Submit(func() {
		if err := n.mailer.Send(to, subject, body); err != nil {
			slog.Warn("notification delivery failed", "to", to, "err", err)
		}
	})
}
