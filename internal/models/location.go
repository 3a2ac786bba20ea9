package models

import "time"

const (
	LocationsColName = "locations"
)

type LocationType string

const (
	TypeDiningHall LocationType = "dining_hall"
	TypeMarket     LocationType = "market"
	TypeCafe       LocationType = "cafe"
)

type LocationStatus string

const (
	StatusPending  LocationStatus = "pending"
	StatusApproved LocationStatus = "approved"
)

type Location struct {
	ID          string         `bson:"_id" json:"id"`
	Name        string         `bson:"name" json:"name" validate:"required,max=120"`
	Type        LocationType   `bson:"type" json:"type" validate:"required,oneof=dining_hall market cafe"`
	CampusArea  string         `bson:"campus_area,omitempty" json:"campus_area,omitempty"`
	SchoolID    string         `bson:"school_id,omitempty" json:"school_id,omitempty"`
	SchoolName  string         `bson:"school_name,omitempty" json:"school_name,omitempty"`
	ImageURL    string         `bson:"image_url,omitempty" json:"image_url,omitempty"`
	Description string         `bson:"description,omitempty" json:"description,omitempty"`
	AvgRating   float64        `bson:"avg_rating" json:"avg_rating"`
	ReviewCount int            `bson:"review_count" json:"review_count"`
	Badges      []string       `bson:"badges,omitempty" json:"badges,omitempty"`
	Status      LocationStatus `bson:"status" json:"status"`
	SubmittedBy string         `bson:"submitted_by,omitempty" json:"submitted_by,omitempty"`
	SubmittedAt *time.Time     `bson:"submitted_at,omitempty" json:"submitted_at,omitempty"`
}

func (l *Location) IsApproved() bool {
	return l.Status == StatusApproved
}

// LocationSuggestion is what a user submits when a location is missing.
type LocationSuggestion struct {
	Name       string       `json:"name" validate:"required,max=120"`
	SchoolName string       `json:"school_name" validate:"required,max=120"`
	Type       LocationType `json:"type" validate:"required,oneof=dining_hall market cafe"`
	CampusArea string       `json:"campus_area" validate:"max=60"`
	ImageURL   string       `json:"image_url" validate:"omitempty,url"`
}
