// Package domain contains core domain types for the profnet application.
package domain

import (
	"strings"
	"time"
)

// Identity is a member profile. The active identity is the logged-in user.
type Identity struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Headline     string    `json:"headline"`
	Location     string    `json:"location"`
	Bio          string    `json:"bio"`
	ProfileImage string    `json:"profileImage"`
	CoverImage   string    `json:"coverImage"`
	Connections  int       `json:"connections"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// FullName returns "First Last", trimmed when either part is missing.
func (i Identity) FullName() string {
	return strings.TrimSpace(i.FirstName + " " + i.LastName)
}

// AuthorSnapshot captures the display fields embedded into a post.
func (i Identity) AuthorSnapshot() Author {
	return Author{
		FirstName:    i.FirstName,
		LastName:     i.LastName,
		Headline:     i.Headline,
		ProfileImage: i.ProfileImage,
	}
}

// Registration carries the fields supplied when creating an account.
type Registration struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Headline  string `json:"headline"`
	Location  string `json:"location"`
}

// ProfileUpdate is a partial Identity. Nil fields are left untouched.
type ProfileUpdate struct {
	Email        *string `json:"email,omitempty"`
	FirstName    *string `json:"firstName,omitempty"`
	LastName     *string `json:"lastName,omitempty"`
	Headline     *string `json:"headline,omitempty"`
	Location     *string `json:"location,omitempty"`
	Bio          *string `json:"bio,omitempty"`
	ProfileImage *string `json:"profileImage,omitempty"`
	CoverImage   *string `json:"coverImage,omitempty"`
	Connections  *int    `json:"connections,omitempty"`
}

// Apply merges the supplied fields into id. ID and timestamps are never
// touched here; the caller owns UpdatedAt.
func (u ProfileUpdate) Apply(id *Identity) {
	setString(&id.Email, u.Email)
	setString(&id.FirstName, u.FirstName)
	setString(&id.LastName, u.LastName)
	setString(&id.Headline, u.Headline)
	setString(&id.Location, u.Location)
	setString(&id.Bio, u.Bio)
	setString(&id.ProfileImage, u.ProfileImage)
	setString(&id.CoverImage, u.CoverImage)
	if u.Connections != nil {
		id.Connections = *u.Connections
	}
}

// IsEmpty reports whether no field was supplied.
func (u ProfileUpdate) IsEmpty() bool {
	return u == ProfileUpdate{}
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
