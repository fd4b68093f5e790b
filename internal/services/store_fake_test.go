package services

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"teamup/internal/models"
	repo "teamup/internal/repository"
)

// fakeStore is an in-memory repository.Store so service behavior can be
// exercised without postgres. InTx has no rollback; the services only
// fail before their first write, which the tests rely on staying true.
type fakeStore struct {
	users       map[string]models.User
	memberships map[string]models.MembershipRole // teamID+"/"+userID
	teams       map[string]models.Team
	venues      map[string]models.Venue
	events      map[string]models.Event
	signups     map[string]*models.EventSignup // eventID+"/"+userID
	wallets     map[string]*models.Wallet      // by userID
	txns        []models.WalletTransaction

	clock time.Time // advances per signup so FIFO order is deterministic
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:       map[string]models.User{},
		memberships: map[string]models.MembershipRole{},
		teams:       map[string]models.Team{},
		venues:      map[string]models.Venue{},
		events:      map[string]models.Event{},
		signups:     map[string]*models.EventSignup{},
		wallets:     map[string]*models.Wallet{},
		clock:       time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (s *fakeStore) Repos() repo.Repos {
	return repo.Repos{
		Users:   &fakeUsers{s},
		Teams:   &fakeTeams{s},
		Venues:  &fakeVenues{s},
		Events:  &fakeEvents{s},
		Signups: &fakeSignups{s},
		Wallets: &fakeWallets{s},
	}
}

func (s *fakeStore) InTx(ctx context.Context, fn func(repo.Repos) error) error {
	return fn(s.Repos())
}

func (s *fakeStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

// --- seeding helpers ---

func (s *fakeStore) addTeam(name string) models.Team {
	t := models.Team{ID: uuid.NewString(), Name: name, CreatedAt: s.tick()}
	s.teams[t.ID] = t
	return t
}

func (s *fakeStore) addUser(teamID, username string, balance decimal.Decimal) models.User {
	u := models.User{
		ID:       uuid.NewString(),
		Username: username,
		Email:    username + "@example.com",
	}
	s.users[u.ID] = u
	s.memberships[teamID+"/"+u.ID] = models.RoleMember
	s.wallets[u.ID] = &models.Wallet{ID: uuid.NewString(), UserID: u.ID, Balance: balance}
	return u
}

func (s *fakeStore) addEvent(teamID string, max int, price decimal.Decimal) models.Event {
	e := models.Event{
		ID:              uuid.NewString(),
		TeamID:          teamID,
		Title:           "Training",
		StartsAt:        s.clock.Add(24 * time.Hour),
		EndsAt:          s.clock.Add(26 * time.Hour),
		MaxParticipants: max,
		Price:           price,
		CreatedAt:       s.tick(),
	}
	s.events[e.ID] = e
	return e
}

func (s *fakeStore) balance(userID string) decimal.Decimal {
	return s.wallets[userID].Balance
}

func (s *fakeStore) status(eventID, userID string) models.SignupStatus {
	if su, ok := s.signups[eventID+"/"+userID]; ok {
		return su.Status
	}
	return ""
}

func (s *fakeStore) txnsFor(userID string) []models.WalletTransaction {
	var out []models.WalletTransaction
	for _, t := range s.txns {
		if t.WalletID == s.wallets[userID].ID {
			out = append(out, t)
		}
	}
	return out
}

func (s *fakeStore) yesCount(eventID string) int {
	n := 0
	for _, su := range s.signups {
		if su.EventID == eventID && su.Status == models.StatusYes {
			n++
		}
	}
	return n
}

// --- repos ---

type fakeUsers struct{ s *fakeStore }

func (r *fakeUsers) Create(ctx context.Context, username, email, hash string) (models.User, error) {
	u := models.User{ID: uuid.NewString(), Username: username, Email: email, PasswordHash: hash}
	r.s.users[u.ID] = u
	return u, nil
}

func (r *fakeUsers) GetByID(ctx context.Context, id string) (models.User, error) {
	if u, ok := r.s.users[id]; ok {
		return u, nil
	}
	return models.User{}, repo.ErrNotFound
}

func (r *fakeUsers) GetByEmail(ctx context.Context, email string) (models.User, error) {
	for _, u := range r.s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return models.User{}, repo.ErrNotFound
}

func (r *fakeUsers) Exists(ctx context.Context, id string) (bool, error) {
	_, ok := r.s.users[id]
	return ok, nil
}

type fakeTeams struct{ s *fakeStore }

func (r *fakeTeams) EnsureByName(ctx context.Context, name string) (models.Team, error) {
	for _, t := range r.s.teams {
		if t.Name == name {
			return t, nil
		}
	}
	return r.s.addTeam(name), nil
}

func (r *fakeTeams) GetByID(ctx context.Context, id string) (models.Team, error) {
	if t, ok := r.s.teams[id]; ok {
		return t, nil
	}
	return models.Team{}, repo.ErrNotFound
}

func (r *fakeTeams) Join(ctx context.Context, teamID, userID string, role models.MembershipRole) (models.TeamMembership, error) {
	key := teamID + "/" + userID
	if _, ok := r.s.memberships[key]; !ok {
		r.s.memberships[key] = role
	}
	return models.TeamMembership{
		ID: uuid.NewString(), TeamID: teamID, UserID: userID, Role: r.s.memberships[key],
	}, nil
}

func (r *fakeTeams) Role(ctx context.Context, teamID, userID string) (models.MembershipRole, bool, error) {
	role, ok := r.s.memberships[teamID+"/"+userID]
	return role, ok, nil
}

type fakeVenues struct{ s *fakeStore }

func (r *fakeVenues) Create(ctx context.Context, v models.Venue) (models.Venue, error) {
	v.ID = uuid.NewString()
	r.s.venues[v.ID] = v
	return v, nil
}

func (r *fakeVenues) GetByID(ctx context.Context, id string) (models.Venue, error) {
	if v, ok := r.s.venues[id]; ok {
		return v, nil
	}
	return models.Venue{}, repo.ErrNotFound
}

func (r *fakeVenues) List(ctx context.Context) ([]models.Venue, error) {
	var out []models.Venue
	for _, v := range r.s.venues {
		out = append(out, v)
	}
	return out, nil
}

type fakeEvents struct{ s *fakeStore }

func (r *fakeEvents) Create(ctx context.Context, e models.Event) (models.Event, error) {
	e.ID = uuid.NewString()
	e.CreatedAt = r.s.tick()
	r.s.events[e.ID] = e
	return e, nil
}

func (r *fakeEvents) GetByID(ctx context.Context, id string) (models.Event, error) {
	if e, ok := r.s.events[id]; ok {
		return e, nil
	}
	return models.Event{}, repo.ErrNotFound
}

func (r *fakeEvents) LockGet(ctx context.Context, id string) (models.Event, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeEvents) ListByTeam(ctx context.Context, teamID, viewerID string) ([]models.EventSummary, error) {
	var out []models.EventSummary
	for _, e := range r.s.events {
		if e.TeamID != teamID {
			continue
		}
		sum := models.EventSummary{Event: e}
		for _, su := range r.s.signups {
			if su.EventID != e.ID {
				continue
			}
			switch su.Status {
			case models.StatusYes:
				sum.YesCount++
			case models.StatusWaitlist:
				sum.WaitlistCount++
			}
			if su.UserID == viewerID {
				status := su.Status
				sum.MyStatus = &status
			}
		}
		out = append(out, sum)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartsAt.Before(out[j].StartsAt) })
	return out, nil
}

type fakeSignups struct{ s *fakeStore }

func (r *fakeSignups) LockGet(ctx context.Context, eventID, userID string) (*models.EventSignup, error) {
	if su, ok := r.s.signups[eventID+"/"+userID]; ok {
		cp := *su
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeSignups) Upsert(ctx context.Context, eventID, userID string, status models.SignupStatus) (models.EventSignup, error) {
	key := eventID + "/" + userID
	if su, ok := r.s.signups[key]; ok {
		su.Status = status
		return *su, nil
	}
	su := &models.EventSignup{
		ID: uuid.NewString(), EventID: eventID, UserID: userID,
		Status: status, CreatedAt: r.s.tick(),
	}
	r.s.signups[key] = su
	return *su, nil
}

func (r *fakeSignups) CountYes(ctx context.Context, eventID string) (int, error) {
	return r.s.yesCount(eventID), nil
}

func (r *fakeSignups) LockWaitlisted(ctx context.Context, eventID, excludeUserID string) ([]models.EventSignup, error) {
	var out []models.EventSignup
	for _, su := range r.s.signups {
		if su.EventID == eventID && su.Status == models.StatusWaitlist && su.UserID != excludeUserID {
			out = append(out, *su)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeSignups) ListByEvent(ctx context.Context, eventID string) ([]models.SignupWithUser, error) {
	var out []models.SignupWithUser
	for _, su := range r.s.signups {
		if su.EventID != eventID {
			continue
		}
		out = append(out, models.SignupWithUser{
			EventSignup: *su,
			Username:    r.s.users[su.UserID].Username,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

type fakeWallets struct{ s *fakeStore }

func (r *fakeWallets) GetOrCreate(ctx context.Context, userID string) (models.Wallet, error) {
	if w, ok := r.s.wallets[userID]; ok {
		return *w, nil
	}
	w := &models.Wallet{ID: uuid.NewString(), UserID: userID, Balance: decimal.Zero}
	r.s.wallets[userID] = w
	return *w, nil
}

func (r *fakeWallets) LockGetOrCreate(ctx context.Context, userID string) (models.Wallet, error) {
	return r.GetOrCreate(ctx, userID)
}

func (r *fakeWallets) Apply(ctx context.Context, ch repo.WalletChange) (models.WalletTransaction, error) {
	if ch.PaymentSessionID != nil {
		for _, t := range r.s.txns {
			if t.PaymentSessionID != nil && *t.PaymentSessionID == *ch.PaymentSessionID {
				return models.WalletTransaction{}, repo.ErrDuplicateSession
			}
		}
	}
	var wallet *models.Wallet
	for _, w := range r.s.wallets {
		if w.ID == ch.WalletID {
			wallet = w
			break
		}
	}
	if wallet == nil {
		return models.WalletTransaction{}, repo.ErrNotFound
	}
	wallet.Balance = wallet.Balance.Add(ch.Amount)
	wallet.UpdatedAt = r.s.tick()
	t := models.WalletTransaction{
		ID: uuid.NewString(), WalletID: ch.WalletID, Amount: ch.Amount, Kind: ch.Kind,
		EventID: ch.EventID, PaymentSessionID: ch.PaymentSessionID, PaymentIntentID: ch.PaymentIntentID,
		CreatedAt: wallet.UpdatedAt,
	}
	r.s.txns = append(r.s.txns, t)
	return t, nil
}

func (r *fakeWallets) HasSession(ctx context.Context, sessionID string) (bool, error) {
	for _, t := range r.s.txns {
		if t.PaymentSessionID != nil && *t.PaymentSessionID == sessionID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeWallets) ListTransactions(ctx context.Context, walletID string, limit, offset int) ([]models.WalletTransaction, error) {
	var out []models.WalletTransaction
	for _, t := range r.s.txns {
		if t.WalletID == walletID {
			out = append(out, t)
		}
	}
	return out, nil
}
