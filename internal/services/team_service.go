package services

import (
	"context"

	"teamup/internal/models"
	repo "teamup/internal/repository"
)

// TeamService serves the single configured team. The team row is
// created once at startup (main calls repository.Teams.EnsureByName)
// and its id injected here.
type TeamService struct {
	store  repo.Store
	teamID string
}

func NewTeamService(store repo.Store, teamID string) *TeamService {
	return &TeamService{store: store, teamID: teamID}
}

func (s *TeamService) TeamID() string { return s.teamID }

func (s *TeamService) Team(ctx context.Context) (models.Team, error) {
	return s.store.Repos().Teams.GetByID(ctx, s.teamID)
}

// Join adds the user as a member. Idempotent; an existing membership
// (and its role) is left untouched.
func (s *TeamService) Join(ctx context.Context, userID string) (models.TeamMembership, error) {
	return s.store.Repos().Teams.Join(ctx, s.teamID, userID, models.RoleMember)
}

func (s *TeamService) IsAdmin(ctx context.Context, userID string) (bool, error) {
	role, ok, err := s.store.Repos().Teams.Role(ctx, s.teamID, userID)
	if err != nil {
		return false, err
	}
	return ok && role == models.RoleAdmin, nil
}

// HomeView is the team landing page: all events with counts and the
// viewer's status, plus the ones the viewer is booked into.
type HomeView struct {
	Team     models.Team           `json:"team"`
	Events   []models.EventSummary `json:"events"`
	MyEvents []models.EventSummary `json:"my_events"`
	IsAdmin  bool                  `json:"is_admin"`
}

func (s *TeamService) Home(ctx context.Context, userID string) (HomeView, error) {
	r := s.store.Repos()
	team, err := r.Teams.GetByID(ctx, s.teamID)
	if err != nil {
		return HomeView{}, err
	}
	events, err := r.Events.ListByTeam(ctx, s.teamID, userID)
	if err != nil {
		return HomeView{}, err
	}
	var mine []models.EventSummary
	for _, e := range events {
		if e.MyStatus != nil && *e.MyStatus == models.StatusYes {
			mine = append(mine, e)
		}
	}
	isAdmin, err := s.IsAdmin(ctx, userID)
	if err != nil {
		return HomeView{}, err
	}
	return HomeView{Team: team, Events: events, MyEvents: mine, IsAdmin: isAdmin}, nil
}
