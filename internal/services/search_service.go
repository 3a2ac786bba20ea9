package services

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/joshua-takyi/crumbs/internal/models"
	"github.com/joshua-takyi/crumbs/internal/search"
	"golang.org/x/sync/errgroup"
)

// DefaultUserScan is how many user profiles the unified search scans.
const DefaultUserScan = 20

type SearchService struct {
	locationsRepo models.LocationsRepo
	usersRepo     models.UsersRepo
	userScan      int64
}

func NewSearchService(locationsRepo models.LocationsRepo, usersRepo models.UsersRepo) *SearchService {
	return &SearchService{
		locationsRepo: locationsRepo,
		usersRepo:     usersRepo,
		userScan:      DefaultUserScan,
	}
}

// Search answers the unified dropdown. Locations and users are fetched
// concurrently and filtered in memory; nothing is cached between calls.
func (ss *SearchService) Search(ctx context.Context, q string) (search.Results, error) {
	q = strings.TrimSpace(q)
	if utf8.RuneCountInString(q) < search.MinQueryLength {
		return search.Dropdown(q, nil, nil, nil), nil
	}

	var (
		locations []*models.Location
		users     []*models.User
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		locations, err = ss.locationsRepo.ListLocations(gctx, approved())
		return err
	})
	g.Go(func() error {
		var err error
		users, err = ss.usersRepo.ListUsers(gctx, ss.userScan)
		return err
	})
	if err := g.Wait(); err != nil {
		return search.Results{}, err
	}

	return search.Dropdown(q, models.Schools, locations, users), nil
}
