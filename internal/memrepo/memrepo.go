// Package memrepo implements the repositories in memory for tests. It
// follows the same rules as the MongoDB repository.
package memrepo

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/joshua-takyi/crumbs/internal/models"
	"github.com/supabase-community/gotrue-go/types"
)

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Store holds locations, reviews and users. It starts with the fixture
// locations.
type Store struct {
	mu        sync.Mutex
	Locations map[string]*models.Location
	Reviews   map[string]*models.Review
	Users     map[string]*models.User
	order     []string
	FailWith  error
}

func New() *Store {
	s := &Store{
		Locations: map[string]*models.Location{},
		Reviews:   map[string]*models.Review{},
		Users:     map[string]*models.User{},
	}
	for i := range models.FixtureLocations {
		loc := models.FixtureLocations[i]
		s.Locations[loc.ID] = &loc
		s.order = append(s.order, loc.ID)
	}
	return s
}

func matchesEqual(where models.Equal, fields map[string]interface{}) bool {
	if where.Field == "" {
		return true
	}
	return fields[where.Field] == where.Value
}

func (s *Store) ListLocations(_ context.Context, where models.Equal) ([]*models.Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWith != nil {
		return nil, s.FailWith
	}
	out := []*models.Location{}
	for _, id := range s.order {
		l := s.Locations[id]
		if matchesEqual(where, map[string]interface{}{"status": l.Status, "school_id": l.SchoolID}) {
			cp := *l
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *Store) GetLocation(_ context.Context, id string) (*models.Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.Locations[id]
	if !ok {
		return nil, models.NotFound("location")
	}
	cp := *l
	return &cp, nil
}

func (s *Store) CreateLocation(_ context.Context, loc *models.Location) (*models.Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *loc
	s.Locations[loc.ID] = &cp
	s.order = append(s.order, loc.ID)
	return loc, nil
}

func (s *Store) SeedLocations(_ context.Context, locs []models.Location) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range locs {
		cp := locs[i]
		if _, ok := s.Locations[cp.ID]; !ok {
			s.order = append(s.order, cp.ID)
		}
		s.Locations[cp.ID] = &cp
	}
	return int64(len(locs)), nil
}

func (s *Store) fold(locationID string, rating, sign int) {
	l, ok := s.Locations[locationID]
	if !ok {
		return
	}
	total := l.AvgRating*float64(l.ReviewCount) + float64(sign*rating)
	l.ReviewCount += sign
	if l.ReviewCount <= 0 {
		l.ReviewCount = 0
		l.AvgRating = 0
		return
	}
	l.AvgRating = total / float64(l.ReviewCount)
}

func (s *Store) ListReviews(_ context.Context, where models.Equal) ([]*models.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*models.Review{}
	for _, r := range s.Reviews {
		if matchesEqual(where, map[string]interface{}{"location_id": r.LocationID, "user_id": r.UserID}) {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *Store) GetReview(_ context.Context, id string) (*models.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.Reviews[id]
	if !ok {
		return nil, models.NotFound("review")
	}
	cp := *r
	return &cp, nil
}

func (s *Store) HasReviewed(_ context.Context, userID, locationID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.Reviews {
		if r.UserID == userID && r.LocationID == locationID {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) CreateReview(_ context.Context, review *models.Review) (*models.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *review
	s.Reviews[review.ID] = &cp
	s.fold(review.LocationID, review.OverallRating, 1)
	return review, nil
}

func (s *Store) DeleteReview(_ context.Context, review *models.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.Reviews[review.ID]; !ok {
		return models.NotFound("review")
	}
	delete(s.Reviews, review.ID)
	s.fold(review.LocationID, review.OverallRating, -1)
	return nil
}

func (s *Store) UpvoteReview(_ context.Context, reviewID, actorID string) (*models.Review, error) {
	if actorID == "" {
		return nil, models.ErrUnauthenticated
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.Reviews[reviewID]
	if !ok {
		return nil, models.NotFound("review")
	}
	plan, err := models.PlanUpvote(r, actorID)
	if err != nil {
		return nil, err
	}
	var author *models.User
	if plan.CreditAuthor {
		author, ok = s.Users[plan.AuthorID]
		if !ok {
			return nil, models.NotFound("review author")
		}
	}
	updated := r.WithUpvote(actorID)
	s.Reviews[reviewID] = &updated
	if author != nil {
		author.Crumbs++
	}
	cp := updated
	return &cp, nil
}

func (s *Store) ListUsers(_ context.Context, limit int64) ([]*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*models.User{}
	for _, u := range s.Users {
		if limit > 0 && int64(len(out)) == limit {
			break
		}
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

func (s *Store) GetUser(_ context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.Users[id]
	if !ok {
		return nil, models.NotFound("user")
	}
	cp := *u
	return &cp, nil
}

func (s *Store) EnsureUser(_ context.Context, user *models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.Users[user.ID]; ok {
		cp := *u
		return &cp, nil
	}
	cp := *user
	s.Users[user.ID] = &cp
	out := cp
	return &out, nil
}

func (s *Store) UpdateProfile(_ context.Context, id string, update *models.ProfileUpdate) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.Users[id]
	if !ok {
		return nil, models.NotFound("user")
	}
	if update.DisplayName != nil {
		u.DisplayName = *update.DisplayName
	}
	if update.Bio != nil {
		u.Bio = *update.Bio
	}
	if update.School != nil {
		school := *update.School
		u.School = &school
	} else if update.ClearSchool {
		u.School = nil
	}
	cp := *u
	return &cp, nil
}

// Identity is a scripted identity provider.
type Identity struct {
	Token      *types.TokenResponse
	Err        error
	LoggedOut  string
	RedirectTo string
}

func (f *Identity) AuthenticateUser(_ context.Context, email, password string) (*types.TokenResponse, error) {
	return f.Token, f.Err
}

func (f *Identity) RefreshToken(_ context.Context, refreshToken string) (*types.TokenResponse, error) {
	return f.Token, f.Err
}

func (f *Identity) GoogleAuthURL(_ context.Context, redirectTo string) (string, error) {
	f.RedirectTo = redirectTo
	return "https://auth.example.com/authorize?provider=google", f.Err
}

func (f *Identity) Logout(_ context.Context, accessToken string) error {
	f.LoggedOut = accessToken
	return f.Err
}

// AddReview stores r as is, without touching the location average.
func (s *Store) AddReview(r *models.Review) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *r
	s.Reviews[r.ID] = &cp
}

// AddUser stores u as is.
func (s *Store) AddUser(u *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *u
	s.Users[u.ID] = &cp
}

var (
	_ models.LocationsRepo = (*Store)(nil)
	_ models.ReviewsRepo   = (*Store)(nil)
	_ models.UsersRepo     = (*Store)(nil)
	_ models.IdentityRepo  = (*Identity)(nil)
)
