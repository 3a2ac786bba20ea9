package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/joshua-takyi/crumbs/internal/helpers"
	"github.com/joshua-takyi/crumbs/internal/models"
	"github.com/joshua-takyi/crumbs/internal/moderation"
	"github.com/joshua-takyi/crumbs/internal/search"
)

type ReviewService struct {
	reviewsRepo   models.ReviewsRepo
	locationsRepo models.LocationsRepo
	usersRepo     models.UsersRepo
	moderator     moderation.Moderator
	logger        *slog.Logger
	now           func() time.Time
	newID         func() string
}

func NewReviewService(
	reviewsRepo models.ReviewsRepo,
	locationsRepo models.LocationsRepo,
	usersRepo models.UsersRepo,
	moderator moderation.Moderator,
	logger *slog.Logger,
) *ReviewService {
	if moderator == nil {
		moderator = moderation.Noop{}
	}
	return &ReviewService{
		reviewsRepo:   reviewsRepo,
		locationsRepo: locationsRepo,
		usersRepo:     usersRepo,
		moderator:     moderator,
		logger:        logger,
		now:           time.Now,
		newID:         func() string { return uuid.New().String() },
	}
}

// SubmitReview validates, moderates and stores a review by author at the
// given location. One review per author and location is allowed.
func (rs *ReviewService) SubmitReview(ctx context.Context, author *helpers.Principal, locationID string, in *models.ReviewInput) (*models.Review, error) {
	if author == nil || author.UserID == "" {
		return nil, models.ErrUnauthenticated
	}
	in.Sanitize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	loc, err := rs.locationsRepo.GetLocation(ctx, helpers.StringTrim(locationID))
	if err != nil {
		return nil, err
	}
	if !loc.IsApproved() {
		return nil, models.NotFound("location")
	}

	has, err := rs.reviewsRepo.HasReviewed(ctx, author.UserID, loc.ID)
	if err != nil {
		return nil, err
	}
	if has {
		return nil, models.ErrDuplicateReview
	}

	verdict, err := rs.moderator.Check(ctx, in.Text)
	if err != nil {
		return nil, models.Transport("moderation is unavailable, try again later", err)
	}
	if !verdict.Safe {
		rs.logger.Info("review rejected by moderation", "user_id", author.UserID, "location_id", loc.ID, "reason", verdict.Reason)
		return nil, models.Rejected(verdict.Reason)
	}

	profile, err := rs.usersRepo.EnsureUser(ctx, &models.User{
		ID:          author.UserID,
		DisplayName: author.DisplayName,
		PhotoURL:    author.PhotoURL,
	})
	if err != nil {
		return nil, err
	}

	review := models.NewReview(rs.newID(), in, loc, profile, rs.now())
	review.ModerationVerified = true
	return rs.reviewsRepo.CreateReview(ctx, review)
}

// DeleteReview removes a review written by actor and takes its rating out
// of the location's average.
func (rs *ReviewService) DeleteReview(ctx context.Context, actor *helpers.Principal, reviewID string) error {
	if actor == nil || actor.UserID == "" {
		return models.ErrUnauthenticated
	}
	review, err := rs.reviewsRepo.GetReview(ctx, helpers.StringTrim(reviewID))
	if err != nil {
		return err
	}
	if !actor.IsOwner(review.UserID) {
		return models.Forbidden("you can only delete your own reviews")
	}
	return rs.reviewsRepo.DeleteReview(ctx, review)
}

func (rs *ReviewService) ListLocationReviews(ctx context.Context, locationID string, sortKey search.ReviewSort) ([]*models.Review, error) {
	locationID = helpers.StringTrim(locationID)
	if locationID == "" {
		return nil, models.Invalid("location ID is required")
	}
	reviews, err := rs.reviewsRepo.ListReviews(ctx, models.ByLocation(locationID))
	if err != nil {
		return nil, err
	}
	return search.SortReviews(reviews, sortKey), nil
}

func (rs *ReviewService) ListUserReviews(ctx context.Context, userID string) ([]*models.Review, error) {
	userID = helpers.StringTrim(userID)
	if userID == "" {
		return nil, models.Invalid("user ID is required")
	}
	reviews, err := rs.reviewsRepo.ListReviews(ctx, models.ByAuthor(userID))
	if err != nil {
		return nil, err
	}
	return search.SortReviews(reviews, search.ReviewsNewest), nil
}

// UpvoteReview records one upvote by actor. A repeated vote returns
// models.ErrDuplicateVote and changes nothing.
func (rs *ReviewService) UpvoteReview(ctx context.Context, actor *helpers.Principal, reviewID string) (*models.Review, error) {
	actorID := ""
	if actor != nil {
		actorID = actor.UserID
	}
	review, err := rs.reviewsRepo.UpvoteReview(ctx, helpers.StringTrim(reviewID), actorID)
	if err != nil {
		if errors.Is(err, models.ErrDuplicateVote) {
			rs.logger.Info("duplicate upvote ignored", "review_id", reviewID, "user_id", actorID)
		}
		return nil, err
	}
	return review, nil
}
