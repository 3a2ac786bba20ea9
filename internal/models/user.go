package models

import (
	"time"
)

const (
	UsersColName = "users"

	MaxBioLength         = 150
	MaxDisplayNameLength = 50
)

// UserSchool is the school a user picked from the university directory.
type UserSchool struct {
	Name    string `bson:"name" json:"name"`
	Country string `bson:"country,omitempty" json:"country,omitempty"`
	Domain  string `bson:"domain,omitempty" json:"domain,omitempty"`
}

type User struct {
	ID          string      `bson:"_id" json:"id"`
	DisplayName string      `bson:"display_name" json:"display_name"`
	PhotoURL    string      `bson:"photo_url,omitempty" json:"photo_url,omitempty"`
	Bio         string      `bson:"bio" json:"bio"`
	School      *UserSchool `bson:"school,omitempty" json:"school,omitempty"`
	Crumbs      int         `bson:"crumbs" json:"crumbs"`
	CreatedAt   time.Time   `bson:"created_at" json:"created_at"`
}

// ProfileUpdate holds the editable profile fields. Nil fields are left alone.
type ProfileUpdate struct {
	DisplayName *string     `json:"display_name,omitempty" validate:"omitempty,min=1"`
	Bio         *string     `json:"bio,omitempty"`
	School      *UserSchool `json:"school,omitempty"`
	ClearSchool bool        `json:"clear_school,omitempty"`
}

func (p *ProfileUpdate) IsEmpty() bool {
	return p.DisplayName == nil && p.Bio == nil && p.School == nil && !p.ClearSchool
}
