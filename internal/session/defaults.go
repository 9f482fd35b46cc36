package session

import (
	"fmt"
	"time"

	"github.com/ashureev/profnet/internal/domain"
)

// Storage keys.
const (
	KeyActiveIdentity = "activeIdentity"
	KeyUserDirectory  = "userDirectory"
)

// DemoEmail is the email of the account seeded on a cold start.
const DemoEmail = "john@example.com"

const (
	defaultProfileImage = "https://images.pexels.com/photos/2379004/pexels-photo-2379004.jpeg?auto=compress&cs=tinysrgb&w=150&h=150&fit=crop"
	defaultCoverImage   = "https://images.pexels.com/photos/3184291/pexels-photo-3184291.jpeg?auto=compress&cs=tinysrgb&w=800&h=200&fit=crop"
)

func demoIdentity(now time.Time) domain.Identity {
	return domain.Identity{
		ID:           "demo-1",
		Email:        DemoEmail,
		FirstName:    "John",
		LastName:     "Doe",
		Headline:     "Software Engineer at Tech Corp",
		Location:     "San Francisco, CA",
		Bio:          "Passionate software developer with 5+ years of experience in full-stack development. I love building scalable applications and mentoring junior developers. Always eager to learn new technologies and tackle challenging problems.",
		ProfileImage: defaultProfileImage,
		CoverImage:   defaultCoverImage,
		Connections:  234,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func welcomeBio(r domain.Registration) string {
	return fmt.Sprintf("Welcome to my profile! I'm %s %s, %s based in %s. I'm passionate about connecting with like-minded professionals and exploring new opportunities.",
		r.FirstName, r.LastName, r.Headline, r.Location)
}
