package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/google/uuid"
	"github.com/joshua-takyi/crumbs/internal/helpers"
	"github.com/joshua-takyi/crumbs/internal/models"
	"github.com/joshua-takyi/crumbs/internal/search"
)

type LocationService struct {
	locationsRepo models.LocationsRepo
	reviewsRepo   models.ReviewsRepo
	cld           *cloudinary.Cloudinary
	logger        *slog.Logger
	now           func() time.Time
}

func NewLocationService(locationsRepo models.LocationsRepo, reviewsRepo models.ReviewsRepo, cld *cloudinary.Cloudinary, logger *slog.Logger) *LocationService {
	return &LocationService{
		locationsRepo: locationsRepo,
		reviewsRepo:   reviewsRepo,
		cld:           cld,
		logger:        logger,
		now:           time.Now,
	}
}

// LocationDetail is a location page as seen by one viewer.
type LocationDetail struct {
	*models.Location
	HasReviewed bool `json:"has_reviewed"`
}

func approved() models.Equal {
	return models.Equal{Field: "status", Value: models.StatusApproved}
}

// ListLocations fetches the approved locations and applies q. total is the
// number of matches before paging.
func (ls *LocationService) ListLocations(ctx context.Context, q search.Query) ([]*models.Location, int, error) {
	all, err := ls.locationsRepo.ListLocations(ctx, approved())
	if err != nil {
		return nil, 0, err
	}

	matched := search.Locations(all, search.Query{
		Text:     q.Text,
		SchoolID: q.SchoolID,
		Area:     q.Area,
		Type:     q.Type,
		Sort:     q.Sort,
	})
	return search.Page(matched, q.Offset, q.Limit), len(matched), nil
}

// GetLocation returns an approved location. Pending suggestions are not
// visible.
func (ls *LocationService) GetLocation(ctx context.Context, id string) (*models.Location, error) {
	id = helpers.StringTrim(id)
	if id == "" {
		return nil, models.Invalid("location ID is required")
	}
	loc, err := ls.locationsRepo.GetLocation(ctx, id)
	if err != nil {
		return nil, err
	}
	if !loc.IsApproved() {
		return nil, models.NotFound("location")
	}
	return loc, nil
}

func (ls *LocationService) GetLocationDetail(ctx context.Context, id string, viewer *helpers.Principal) (*LocationDetail, error) {
	loc, err := ls.GetLocation(ctx, id)
	if err != nil {
		return nil, err
	}
	detail := &LocationDetail{Location: loc}
	if viewer == nil || viewer.UserID == "" {
		return detail, nil
	}

	has, err := ls.reviewsRepo.HasReviewed(ctx, viewer.UserID, loc.ID)
	if err != nil {
		// The page still renders; the write path re-checks.
		ls.logger.Warn("failed to check existing review", "location_id", loc.ID, "user_id", viewer.UserID, "error", err)
		return detail, nil
	}
	detail.HasReviewed = has
	return detail, nil
}

// SuggestLocation stores a pending location. The image is copied to
// Cloudinary when it is configured; the original URL is kept otherwise.
func (ls *LocationService) SuggestLocation(ctx context.Context, in *models.LocationSuggestion, submittedBy *helpers.Principal) (*models.Location, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.SchoolName = strings.TrimSpace(in.SchoolName)
	in.CampusArea = strings.TrimSpace(in.CampusArea)
	in.ImageURL = strings.TrimSpace(in.ImageURL)
	if err := models.Validate.Struct(in); err != nil {
		return nil, &models.Error{Kind: models.KindValidation, Message: "invalid location suggestion", Err: err}
	}

	now := ls.now()
	loc := &models.Location{
		ID:          uuid.New().String(),
		Name:        in.Name,
		Type:        in.Type,
		CampusArea:  in.CampusArea,
		SchoolName:  in.SchoolName,
		ImageURL:    in.ImageURL,
		Status:      models.StatusPending,
		SubmittedAt: &now,
	}
	if submittedBy != nil {
		loc.SubmittedBy = submittedBy.UserID
	}

	if loc.ImageURL != "" && ls.cld != nil {
		hosted, err := helpers.UploadImage(ctx, ls.cld, loc.ImageURL, helpers.LocationFolder)
		if err != nil {
			ls.logger.Warn("failed to re-host location image", "image_url", loc.ImageURL, "error", err)
		} else if hosted != "" {
			loc.ImageURL = hosted
		}
	}

	return ls.locationsRepo.CreateLocation(ctx, loc)
}

func (ls *LocationService) ListSchools(q string) []models.School {
	return search.Schools(models.Schools, q, 0)
}
