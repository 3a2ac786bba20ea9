package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/joshua-takyi/crumbs/internal/helpers"
	"github.com/joshua-takyi/crumbs/internal/models"
	"github.com/joshua-takyi/crumbs/internal/search"
	"github.com/supabase-community/gotrue-go/types"
)

// Directory is the university lookup used by profile editing.
type Directory interface {
	Search(ctx context.Context, name string) ([]models.UserSchool, error)
}

type UserService struct {
	identityRepo models.IdentityRepo
	usersRepo    models.UsersRepo
	reviewsRepo  models.ReviewsRepo
	directory    Directory
	logger       *slog.Logger
}

func NewUserService(identityRepo models.IdentityRepo, usersRepo models.UsersRepo, reviewsRepo models.ReviewsRepo, directory Directory, logger *slog.Logger) *UserService {
	return &UserService{
		identityRepo: identityRepo,
		usersRepo:    usersRepo,
		reviewsRepo:  reviewsRepo,
		directory:    directory,
		logger:       logger,
	}
}

// PublicProfile is what other users see.
type PublicProfile struct {
	User    *models.User     `json:"user"`
	Reviews []*models.Review `json:"reviews"`
}

func (us *UserService) AuthenticateUser(ctx context.Context, email, password string) (*types.TokenResponse, error) {
	email = strings.TrimSpace(email)
	if err := models.Validate.Var(email, "required,email"); err != nil {
		return nil, models.Invalid("invalid email format")
	}
	if err := models.Validate.Var(password, "required,min=6"); err != nil {
		return nil, models.Invalid("password must be at least 6 characters")
	}
	return us.identityRepo.AuthenticateUser(ctx, email, password)
}

func (us *UserService) RefreshToken(ctx context.Context, refreshToken string) (*types.TokenResponse, error) {
	if refreshToken == "" {
		return nil, models.ErrUnauthenticated
	}
	return us.identityRepo.RefreshToken(ctx, refreshToken)
}

func (us *UserService) GoogleAuthURL(ctx context.Context, redirectTo string) (string, error) {
	return us.identityRepo.GoogleAuthURL(ctx, redirectTo)
}

func (us *UserService) Logout(ctx context.Context, accessToken string) error {
	return us.identityRepo.Logout(ctx, accessToken)
}

// EnsureProfile returns the profile of p, creating it from the identity
// provider's data on first sight.
func (us *UserService) EnsureProfile(ctx context.Context, p *helpers.Principal) (*models.User, error) {
	if p == nil || p.UserID == "" {
		return nil, models.ErrUnauthenticated
	}
	name := p.DisplayName
	if name == "" && p.Email != "" {
		name = strings.SplitN(p.Email, "@", 2)[0]
	}
	return us.usersRepo.EnsureUser(ctx, &models.User{
		ID:          p.UserID,
		DisplayName: helpers.Truncate(strings.TrimSpace(name), models.MaxDisplayNameLength),
		PhotoURL:    p.PhotoURL,
	})
}

func (us *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	id = helpers.StringTrim(id)
	if id == "" {
		return nil, models.Invalid("user ID is required")
	}
	return us.usersRepo.GetUser(ctx, id)
}

func (us *UserService) GetPublicProfile(ctx context.Context, id string) (*PublicProfile, error) {
	user, err := us.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	reviews, err := us.reviewsRepo.ListReviews(ctx, models.ByAuthor(user.ID))
	if err != nil {
		return nil, err
	}
	return &PublicProfile{User: user, Reviews: search.SortReviews(reviews, search.ReviewsNewest)}, nil
}

// UpdateProfile trims and caps the editable fields before merging them into
// the stored profile.
func (us *UserService) UpdateProfile(ctx context.Context, p *helpers.Principal, update *models.ProfileUpdate) (*models.User, error) {
	if p == nil || p.UserID == "" {
		return nil, models.ErrUnauthenticated
	}
	if update == nil || update.IsEmpty() {
		return nil, models.Invalid("nothing to update")
	}

	if update.DisplayName != nil {
		name := helpers.Truncate(strings.TrimSpace(*update.DisplayName), models.MaxDisplayNameLength)
		if name == "" {
			return nil, models.Invalid("display name cannot be empty")
		}
		update.DisplayName = &name
	}
	if update.Bio != nil {
		bio := helpers.Truncate(strings.TrimSpace(*update.Bio), models.MaxBioLength)
		update.Bio = &bio
	}
	if update.School != nil {
		update.School.Name = strings.TrimSpace(update.School.Name)
		if update.School.Name == "" {
			return nil, models.Invalid("school name is required")
		}
	}

	if _, err := us.EnsureProfile(ctx, p); err != nil {
		return nil, err
	}
	return us.usersRepo.UpdateProfile(ctx, p.UserID, update)
}

func (us *UserService) SearchUniversities(ctx context.Context, name string) ([]models.UserSchool, error) {
	if us.directory == nil {
		return []models.UserSchool{}, nil
	}
	return us.directory.Search(ctx, name)
}
