package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/joshua-takyi/crumbs/internal/helpers"
	"github.com/joshua-takyi/crumbs/internal/memrepo"
	"github.com/joshua-takyi/crumbs/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/supabase-community/gotrue-go/types"
)

type stubDirectory struct {
	got string
}

func (d *stubDirectory) Search(_ context.Context, name string) ([]models.UserSchool, error) {
	d.got = name
	return []models.UserSchool{{Name: "University of Washington", Country: "United States", Domain: "uw.edu"}}, nil
}

func newUserService(store *memrepo.Store, id *memrepo.Identity) *UserService {
	return NewUserService(id, store, store, &stubDirectory{}, memrepo.DiscardLogger())
}

func TestEnsureProfileCreatesOnce(t *testing.T) {
	store := memrepo.New()
	us := newUserService(store, &memrepo.Identity{})

	p := &helpers.Principal{UserID: "u1", Email: "sam@uw.edu"}
	user, err := us.EnsureProfile(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, "sam", user.DisplayName)

	store.Users["u1"].Crumbs = 7
	user, err = us.EnsureProfile(context.Background(), &helpers.Principal{UserID: "u1", DisplayName: "Other"})
	require.NoError(t, err)
	assert.Equal(t, "sam", user.DisplayName)
	assert.Equal(t, 7, user.Crumbs)

	_, err = us.EnsureProfile(context.Background(), nil)
	assert.ErrorIs(t, err, models.ErrUnauthenticated)
}

func TestUpdateProfileAppliesCaps(t *testing.T) {
	store := memrepo.New()
	us := newUserService(store, &memrepo.Identity{})
	p := &helpers.Principal{UserID: "u1", DisplayName: "Sam"}

	name := "  " + strings.Repeat("n", 80) + "  "
	bio := strings.Repeat("b", 200)
	user, err := us.UpdateProfile(context.Background(), p, &models.ProfileUpdate{
		DisplayName: &name,
		Bio:         &bio,
		School:      &models.UserSchool{Name: " University of Washington ", Domain: "uw.edu"},
	})
	require.NoError(t, err)
	assert.Len(t, user.DisplayName, models.MaxDisplayNameLength)
	assert.Len(t, user.Bio, models.MaxBioLength)
	require.NotNil(t, user.School)
	assert.Equal(t, "University of Washington", user.School.Name)

	user, err = us.UpdateProfile(context.Background(), p, &models.ProfileUpdate{ClearSchool: true})
	require.NoError(t, err)
	assert.Nil(t, user.School)
	assert.Len(t, user.Bio, models.MaxBioLength, "other fields are left alone")
}

func TestUpdateProfileRejects(t *testing.T) {
	us := newUserService(memrepo.New(), &memrepo.Identity{})
	p := &helpers.Principal{UserID: "u1"}
	blank := "   "

	_, err := us.UpdateProfile(context.Background(), p, &models.ProfileUpdate{})
	assert.Equal(t, models.KindValidation, models.KindOf(err))

	_, err = us.UpdateProfile(context.Background(), p, &models.ProfileUpdate{DisplayName: &blank})
	assert.Equal(t, models.KindValidation, models.KindOf(err))

	_, err = us.UpdateProfile(context.Background(), p, &models.ProfileUpdate{School: &models.UserSchool{}})
	assert.Equal(t, models.KindValidation, models.KindOf(err))

	_, err = us.UpdateProfile(context.Background(), nil, &models.ProfileUpdate{Bio: &blank})
	assert.ErrorIs(t, err, models.ErrUnauthenticated)
}

func TestPublicProfile(t *testing.T) {
	store := memrepo.New()
	store.AddUser(&models.User{ID: "u1", DisplayName: "Sam"})
	store.AddReview(&models.Review{ID: "r1", UserID: "u1", LocationID: "the-8", OverallRating: 4})
	store.AddReview(&models.Review{ID: "r2", UserID: "u2", LocationID: "the-8", OverallRating: 2})
	us := newUserService(store, &memrepo.Identity{})

	profile, err := us.GetPublicProfile(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "Sam", profile.User.DisplayName)
	require.Len(t, profile.Reviews, 1)
	assert.Equal(t, "r1", profile.Reviews[0].ID)

	_, err = us.GetPublicProfile(context.Background(), "ghost")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestPublicProfileNewestFirst(t *testing.T) {
	store := memrepo.New()
	store.AddUser(&models.User{ID: "u1", DisplayName: "Sam"})
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, loc := range []string{"local-point", "center-table", "the-8", "by-george", "district-market", "suzzallo-cafe"} {
		store.AddReview(&models.Review{
			ID:            fmt.Sprintf("r%d", i),
			UserID:        "u1",
			LocationID:    loc,
			OverallRating: 3,
			CreatedAt:     base.Add(time.Duration(i) * time.Hour),
		})
	}
	us := newUserService(store, &memrepo.Identity{})

	profile, err := us.GetPublicProfile(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, profile.Reviews, 6)
	ids := make([]string, 0, len(profile.Reviews))
	for _, r := range profile.Reviews {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"r5", "r4", "r3", "r2", "r1", "r0"}, ids)
}

func TestAuthenticateUserValidatesInput(t *testing.T) {
	id := &memrepo.Identity{Token: &types.TokenResponse{}}
	us := newUserService(memrepo.New(), id)

	_, err := us.AuthenticateUser(context.Background(), "not-an-email", "secret123")
	assert.Equal(t, models.KindValidation, models.KindOf(err))

	_, err = us.AuthenticateUser(context.Background(), "sam@uw.edu", "123")
	assert.Equal(t, models.KindValidation, models.KindOf(err))

	tok, err := us.AuthenticateUser(context.Background(), " sam@uw.edu ", "secret123")
	require.NoError(t, err)
	assert.Same(t, id.Token, tok)
}

func TestRefreshAndLogout(t *testing.T) {
	id := &memrepo.Identity{Err: errors.New("boom")}
	us := newUserService(memrepo.New(), id)

	_, err := us.RefreshToken(context.Background(), "")
	assert.ErrorIs(t, err, models.ErrUnauthenticated)

	assert.Error(t, us.Logout(context.Background(), "tok"))
	assert.Equal(t, "tok", id.LoggedOut)
}

func TestSearchUniversities(t *testing.T) {
	dir := &stubDirectory{}
	us := NewUserService(&memrepo.Identity{}, memrepo.New(), memrepo.New(), dir, memrepo.DiscardLogger())

	got, err := us.SearchUniversities(context.Background(), "washington")
	require.NoError(t, err)
	assert.Equal(t, "washington", dir.got)
	assert.Len(t, got, 1)
}
