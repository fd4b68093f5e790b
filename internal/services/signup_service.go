package services

import (
	"context"
	"errors"

	"teamup/internal/metrics"
	"teamup/internal/models"
	"teamup/internal/notify"
	repo "teamup/internal/repository"
)

var (
	ErrInvalidStatus     = errors.New("invalid signup status")
	ErrInsufficientFunds = errors.New("insufficient wallet balance, top up to book this event")
	ErrNotTeamMember     = errors.New("not a member of this team")
)

// SignupService owns the attendance transition: one database
// transaction per toggle, row locks taken in event -> signup -> wallet
// order so concurrent toggles and promotions on the same event or
// wallet serialize instead of overbooking or double-spending.
type SignupService struct {
	store    repo.Store
	notifier *notify.Notifier
}

func NewSignupService(store repo.Store, notifier *notify.Notifier) *SignupService {
	return &SignupService{store: store, notifier: notifier}
}

// ToggleResult reports what the transition did. Outcome is empty when
// the requested status equals the current one, in which case no
// notification is sent either.
type ToggleResult struct {
	Previous models.SignupStatus `json:"previous,omitempty"`
	Status   models.SignupStatus `json:"status"`
	Outcome  notify.Outcome      `json:"-"`
	Message  string              `json:"message,omitempty"`
}

func (s *SignupService) Toggle(ctx context.Context, eventID, userID string, requested models.SignupStatus) (ToggleResult, error) {
	if _, ok := models.ParseSignupStatus(string(requested)); !ok {
		return ToggleResult{}, ErrInvalidStatus
	}

	user, err := s.store.Repos().Users.GetByID(ctx, userID)
	if err != nil {
		return ToggleResult{}, err
	}

	var (
		ev       models.Event
		res      ToggleResult
		promoted []string
	)
	err = s.store.InTx(ctx, func(r repo.Repos) error {
		var err error
		ev, err = r.Events.LockGet(ctx, eventID)
		if err != nil {
			return err
		}
		if _, member, err := r.Teams.Role(ctx, ev.TeamID, userID); err != nil {
			return err
		} else if !member {
			return ErrNotTeamMember
		}

		signup, err := r.Signups.LockGet(ctx, eventID, userID)
		if err != nil {
			return err
		}
		var current models.SignupStatus
		if signup != nil {
			current = signup.Status
		}

		wallet, err := r.Wallets.LockGetOrCreate(ctx, userID)
		if err != nil {
			return err
		}

		yesCount, err := r.Signups.CountYes(ctx, eventID)
		if err != nil {
			return err
		}
		spotsLeft := ev.MaxParticipants - yesCount

		var outcome notify.Outcome
		if requested == models.StatusYes && current != models.StatusYes {
			switch {
			case spotsLeft <= 0:
				// never reject on capacity, offer the waitlist instead
				requested = models.StatusWaitlist
				outcome = notify.OutcomeFullWaitlist
			case ev.Priced() && wallet.Balance.LessThan(ev.Price):
				return ErrInsufficientFunds
			}
		}

		if _, err := r.Signups.Upsert(ctx, eventID, userID, requested); err != nil {
			return err
		}

		if current == models.StatusYes && requested != models.StatusYes {
			// cancellation: refund, then fill the freed slot
			if ev.Priced() {
				if _, err := r.Wallets.Apply(ctx, repo.WalletChange{
					WalletID: wallet.ID,
					Amount:   ev.Price,
					Kind:     models.KindEventRefund,
					EventID:  &ev.ID,
				}); err != nil {
					return err
				}
			}
			promoted, err = promoteWaitlist(ctx, r, ev, userID)
			if err != nil {
				return err
			}
		}

		if current != models.StatusYes && requested == models.StatusYes {
			// funds were checked above under the same wallet lock
			if ev.Priced() {
				if _, err := r.Wallets.Apply(ctx, repo.WalletChange{
					WalletID: wallet.ID,
					Amount:   ev.Price.Neg(),
					Kind:     models.KindEventDebit,
					EventID:  &ev.ID,
				}); err != nil {
					return err
				}
			}
		}

		if outcome == "" && current != requested {
			switch requested {
			case models.StatusYes:
				outcome = notify.OutcomeBooked
			case models.StatusWaitlist:
				outcome = notify.OutcomeWaitlisted
			case models.StatusMaybe:
				outcome = notify.OutcomeMaybe
			case models.StatusNo:
				outcome = notify.OutcomeNotAttending
			}
		}

		res = ToggleResult{
			Previous: current,
			Status:   requested,
			Outcome:  outcome,
			Message:  outcome.Message(),
		}
		return nil
	})
	if err != nil {
		metrics.TransitionsFailed.Inc()
		return ToggleResult{}, err
	}

	metrics.SignupTransitions.WithLabelValues(string(res.Status)).Inc()
	if res.Outcome != "" {
		s.notifier.SignupChanged(user, ev, res.Outcome)
	}
	s.notifyPromoted(ctx, ev, promoted)
	return res, nil
}

// promoteWaitlist runs inside the toggle's transaction, after a yes
// slot was vacated. Strict FIFO over created_at with a best-effort
// skip: an underfunded candidate stays waitlisted and never blocks
// later candidates, even if that leaves slots unfilled.
func promoteWaitlist(ctx context.Context, r repo.Repos, ev models.Event, excludeUserID string) ([]string, error) {
	yesCount, err := r.Signups.CountYes(ctx, ev.ID)
	if err != nil {
		return nil, err
	}
	spotsLeft := ev.MaxParticipants - yesCount
	if spotsLeft <= 0 {
		return nil, nil
	}

	waitlist, err := r.Signups.LockWaitlisted(ctx, ev.ID, excludeUserID)
	if err != nil {
		return nil, err
	}

	var promoted []string
	for _, candidate := range waitlist {
		if spotsLeft <= 0 {
			break
		}
		wallet, err := r.Wallets.LockGetOrCreate(ctx, candidate.UserID)
		if err != nil {
			return nil, err
		}
		if ev.Priced() && wallet.Balance.LessThan(ev.Price) {
			continue
		}
		if _, err := r.Signups.Upsert(ctx, ev.ID, candidate.UserID, models.StatusYes); err != nil {
			return nil, err
		}
		if ev.Priced() {
			if _, err := r.Wallets.Apply(ctx, repo.WalletChange{
				WalletID: wallet.ID,
				Amount:   ev.Price.Neg(),
				Kind:     models.KindEventDebit,
				EventID:  &ev.ID,
			}); err != nil {
				return nil, err
			}
		}
		spotsLeft--
		promoted = append(promoted, candidate.UserID)
	}
	return promoted, nil
}

func (s *SignupService) notifyPromoted(ctx context.Context, ev models.Event, userIDs []string) {
	users := s.store.Repos().Users
	for _, id := range userIDs {
		metrics.WaitlistPromotions.Inc()
		u, err := users.GetByID(ctx, id)
		if err != nil {
			continue
		}
		s.notifier.SignupChanged(u, ev, notify.OutcomePromoted)
	}
}
