package repository

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"teamup/internal/models"
)

var (
	ErrNotFound = errors.New("not found")

	// ErrDuplicateSession is returned when a ledger insert collides with
	// an existing payment session id. The unique constraint is the final
	// safety net against two concurrent deliveries of the same payment
	// confirmation.
	ErrDuplicateSession = errors.New("payment session already applied")
)

// Store gives access to the repositories, either pool-bound for plain
// reads or bound to a single database transaction via InTx. All row
// locks taken inside fn are held until InTx commits or rolls back.
type Store interface {
	Repos() Repos
	InTx(ctx context.Context, fn func(Repos) error) error
}

type Repos struct {
	Users   Users
	Teams   Teams
	Venues  Venues
	Events  Events
	Signups Signups
	Wallets Wallets
}

type Users interface {
	Create(ctx context.Context, username, email, passwordHash string) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	Exists(ctx context.Context, id string) (bool, error)
}

type Teams interface {
	// EnsureByName creates the team if it does not exist yet. Called
	// once at startup for the configured single-tenant team, never from
	// request paths.
	EnsureByName(ctx context.Context, name string) (models.Team, error)
	GetByID(ctx context.Context, id string) (models.Team, error)
	Join(ctx context.Context, teamID, userID string, role models.MembershipRole) (models.TeamMembership, error)
	Role(ctx context.Context, teamID, userID string) (models.MembershipRole, bool, error)
}

type Venues interface {
	Create(ctx context.Context, v models.Venue) (models.Venue, error)
	GetByID(ctx context.Context, id string) (models.Venue, error)
	List(ctx context.Context) ([]models.Venue, error)
}

type Events interface {
	Create(ctx context.Context, e models.Event) (models.Event, error)
	GetByID(ctx context.Context, id string) (models.Event, error)
	// LockGet reads the event under FOR UPDATE. Only meaningful inside
	// InTx; it is the first lock of the event -> signup -> wallet order.
	LockGet(ctx context.Context, id string) (models.Event, error)
	// ListByTeam annotates each event with yes/waitlist counts and the
	// viewer's own status.
	ListByTeam(ctx context.Context, teamID, viewerID string) ([]models.EventSummary, error)
}

type Signups interface {
	// LockGet returns the signup for (event, user) under FOR UPDATE, or
	// nil when the user has not responded yet.
	LockGet(ctx context.Context, eventID, userID string) (*models.EventSignup, error)
	// Upsert creates the signup or updates its status in place.
	Upsert(ctx context.Context, eventID, userID string, status models.SignupStatus) (models.EventSignup, error)
	CountYes(ctx context.Context, eventID string) (int, error)
	// LockWaitlisted returns waitlisted signups for the event in
	// created_at order (earliest first), excluding excludeUserID, each
	// locked FOR UPDATE.
	LockWaitlisted(ctx context.Context, eventID, excludeUserID string) ([]models.EventSignup, error)
	ListByEvent(ctx context.Context, eventID string) ([]models.SignupWithUser, error)
}

// WalletChange is one balance movement paired with its ledger entry.
type WalletChange struct {
	WalletID         string
	Amount           decimal.Decimal
	Kind             models.TransactionKind
	EventID          *string
	PaymentSessionID *string
	PaymentIntentID  *string
}

type Wallets interface {
	GetOrCreate(ctx context.Context, userID string) (models.Wallet, error)
	// LockGetOrCreate returns the user's wallet under FOR UPDATE,
	// creating it first if absent.
	LockGetOrCreate(ctx context.Context, userID string) (models.Wallet, error)
	// Apply moves the balance by ch.Amount and appends the matching
	// ledger row in the same statement sequence. Returns
	// ErrDuplicateSession when ch.PaymentSessionID is already recorded.
	Apply(ctx context.Context, ch WalletChange) (models.WalletTransaction, error)
	HasSession(ctx context.Context, sessionID string) (bool, error)
	ListTransactions(ctx context.Context, walletID string, limit, offset int) ([]models.WalletTransaction, error)
}
