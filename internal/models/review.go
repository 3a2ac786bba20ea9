package models

import (
	"time"

	"github.com/joshua-takyi/crumbs/internal/helpers"
)

const (
	ReviewsColName = "reviews"

	MaxReviewTextLength = 350
	MaxCategoryRatings  = 3
)

type Category string

const (
	CategoryFoodQuality Category = "food_quality"
	CategoryValue       Category = "value"
	CategoryPortionSize Category = "portion_size"
	CategoryDietary     Category = "dietary"
	CategoryWaitTime    Category = "wait_time"
	CategoryLateNight   Category = "late_night"
)

var Categories = []Category{
	CategoryFoodQuality,
	CategoryValue,
	CategoryPortionSize,
	CategoryDietary,
	CategoryWaitTime,
	CategoryLateNight,
}

// QuickTags is the fixed vocabulary reviewers pick tags from.
var QuickTags = []string{
	"Good after 9pm",
	"Crowded",
	"Huge portions",
	"Not worth the price",
	"Great vegan options",
}

func IsCategory(s string) bool {
	for _, c := range Categories {
		if string(c) == s {
			return true
		}
	}
	return false
}

func IsQuickTag(s string) bool {
	for _, t := range QuickTags {
		if t == s {
			return true
		}
	}
	return false
}

type Review struct {
	ID                 string           `bson:"_id" json:"id"`
	LocationID         string           `bson:"location_id" json:"location_id"`
	LocationName       string           `bson:"location_name,omitempty" json:"location_name,omitempty"`
	SchoolName         string           `bson:"school_name,omitempty" json:"school_name,omitempty"`
	UserID             string           `bson:"user_id" json:"user_id"`
	UserName           string           `bson:"user_name" json:"user_name"`
	UserPhoto          string           `bson:"user_photo,omitempty" json:"user_photo,omitempty"`
	OverallRating      int              `bson:"overall_rating" json:"overall_rating"`
	CategoryRatings    map[Category]int `bson:"category_ratings,omitempty" json:"category_ratings,omitempty"`
	Text               string           `bson:"text,omitempty" json:"text,omitempty"`
	Tags               []string         `bson:"tags,omitempty" json:"tags,omitempty"`
	CreatedAt          time.Time        `bson:"timestamp" json:"timestamp"`
	UpvoteCount        int              `bson:"upvote_count" json:"upvote_count"`
	UpvotedBy          []string         `bson:"upvoted_by" json:"upvoted_by"`
	ModerationVerified bool             `bson:"moderation_verified" json:"moderation_verified"`
}

func (r *Review) HasVoter(userID string) bool {
	for _, v := range r.UpvotedBy {
		if v == userID {
			return true
		}
	}
	return false
}

// ReviewInput is the body of a review submission.
type ReviewInput struct {
	OverallRating   int            `json:"overall_rating" validate:"required,min=1,max=5"`
	CategoryRatings map[string]int `json:"category_ratings" validate:"omitempty,max=3,dive,keys,review_category,endkeys,min=1,max=5"`
	Text            string         `json:"text"`
	Tags            []string       `json:"tags" validate:"omitempty,dive,quick_tag"`
}

// Sanitize trims and truncates the text and drops repeated tags.
func (in *ReviewInput) Sanitize() {
	in.Text = helpers.Truncate(helpers.StringTrim(in.Text), MaxReviewTextLength)
	in.Tags = helpers.RemoveDuplicates(in.Tags)
}

func (in *ReviewInput) Validate() error {
	if in.OverallRating == 0 {
		return Invalid("overall rating is required")
	}
	if err := Validate.Struct(in); err != nil {
		return &Error{Kind: KindValidation, Message: "invalid review", Err: err}
	}
	return nil
}

// NewReview builds the stored review for author at loc. The input must
// already be sanitized and validated.
func NewReview(id string, in *ReviewInput, loc *Location, author *User, now time.Time) *Review {
	var ratings map[Category]int
	if len(in.CategoryRatings) > 0 {
		ratings = make(map[Category]int, len(in.CategoryRatings))
		for k, v := range in.CategoryRatings {
			ratings[Category(k)] = v
		}
	}
	name := author.DisplayName
	if name == "" {
		name = "Anonymous"
	}
	return &Review{
		ID:              id,
		LocationID:      loc.ID,
		LocationName:    loc.Name,
		SchoolName:      loc.SchoolName,
		UserID:          author.ID,
		UserName:        name,
		UserPhoto:       author.PhotoURL,
		OverallRating:   in.OverallRating,
		CategoryRatings: ratings,
		Text:            in.Text,
		Tags:            in.Tags,
		CreatedAt:       now,
		UpvoteCount:     0,
		UpvotedBy:       []string{},
	}
}
