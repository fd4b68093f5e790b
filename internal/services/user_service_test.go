package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teamup/internal/auth"
	"teamup/internal/models"
)

func newUserService(s *fakeStore, teamID string) *UserService {
	teams := NewTeamService(s, teamID)
	tokens := auth.NewTokenManager("test-secret", "teamup", time.Hour)
	return NewUserService(s, teams, tokens)
}

func TestRegisterJoinsTeam(t *testing.T) {
	s := newFakeStore()
	team := s.addTeam("Club")
	svc := newUserService(s, team.ID)

	u, err := svc.Register(context.Background(), "alice", "alice@example.com", "supersecret")
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)

	role, member, err := s.Repos().Teams.Role(context.Background(), team.ID, u.ID)
	require.NoError(t, err)
	assert.True(t, member)
	assert.Equal(t, models.RoleMember, role)
}

func TestRegisterValidation(t *testing.T) {
	s := newFakeStore()
	team := s.addTeam("Club")
	svc := newUserService(s, team.ID)
	ctx := context.Background()

	_, err := svc.Register(ctx, "", "alice@example.com", "supersecret")
	assert.Error(t, err)

	_, err = svc.Register(ctx, "alice", "not-an-email", "supersecret")
	assert.Error(t, err)

	_, err = svc.Register(ctx, "alice", "alice@example.com", "short")
	assert.Error(t, err)
}

func TestLogin(t *testing.T) {
	s := newFakeStore()
	team := s.addTeam("Club")
	svc := newUserService(s, team.ID)
	ctx := context.Background()

	_, err := svc.Register(ctx, "alice", "alice@example.com", "supersecret")
	require.NoError(t, err)

	tok, err := svc.Login(ctx, "alice@example.com", "supersecret")
	require.NoError(t, err)
	assert.NotEmpty(t, tok.AccessToken)
	assert.True(t, tok.ExpiresAt.After(time.Now()))

	_, err = svc.Login(ctx, "alice@example.com", "wrong-password")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@example.com", "supersecret")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestHomeSplitsMyEvents(t *testing.T) {
	s := newFakeStore()
	team := s.addTeam("Club")
	alice := s.addUser(team.ID, "alice", decimal.Zero)
	booked := s.addEvent(team.ID, 5, decimal.Zero)
	s.addEvent(team.ID, 5, decimal.Zero)

	signupSvc := newSignupService(t, s)
	_, err := signupSvc.Toggle(context.Background(), booked.ID, alice.ID, models.StatusYes)
	require.NoError(t, err)

	teams := NewTeamService(s, team.ID)
	view, err := teams.Home(context.Background(), alice.ID)
	require.NoError(t, err)

	assert.Len(t, view.Events, 2)
	require.Len(t, view.MyEvents, 1)
	assert.Equal(t, booked.ID, view.MyEvents[0].ID)
	assert.Equal(t, 1, view.MyEvents[0].YesCount)
	assert.False(t, view.IsAdmin)
}
