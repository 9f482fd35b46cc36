package content

import (
	"time"

	"github.com/ashureev/profnet/internal/domain"
)

// SamplePosts returns the feed shown to a fresh session, newest first.
func SamplePosts(now time.Time) []domain.Post {
	at := func(hoursAgo int) time.Time { return now.Add(-time.Duration(hoursAgo) * time.Hour) }

	return []domain.Post{
		{
			ID:       "1",
			UserID:   "2",
			Content:  "Excited to share that our team just launched a new AI-powered feature that helps developers write better code! The future of software development is here. 🚀 #AI #SoftwareDevelopment #Innovation",
			ImageURL: "https://images.pexels.com/photos/3861969/pexels-photo-3861969.jpeg?auto=compress&cs=tinysrgb&w=500&h=300&fit=crop",
			Likes:    42,
			Comments: 8,
			Shares:   3,
			Author: domain.Author{
				FirstName:    "Sarah",
				LastName:     "Chen",
				Headline:     "Senior Product Manager at TechFlow",
				ProfileImage: "https://images.pexels.com/photos/415829/pexels-photo-415829.jpeg?auto=compress&cs=tinysrgb&w=150&h=150&fit=crop",
			},
			CreatedAt: at(2),
			UpdatedAt: at(2),
		},
		{
			ID:       "2",
			UserID:   "3",
			Content:  "Just completed my certification in Cloud Architecture! Big thanks to my mentor and team for their support throughout this journey. Always learning, always growing! 📚 #CloudComputing #AWS #ProfessionalDevelopment",
			Likes:    28,
			Comments: 12,
			Shares:   5,
			Author: domain.Author{
				FirstName:    "Michael",
				LastName:     "Rodriguez",
				Headline:     "DevOps Engineer at CloudScale Solutions",
				ProfileImage: "https://images.pexels.com/photos/2379005/pexels-photo-2379005.jpeg?auto=compress&cs=tinysrgb&w=150&h=150&fit=crop",
			},
			CreatedAt: at(4),
			UpdatedAt: at(4),
		},
		{
			ID:       "3",
			UserID:   "4",
			Content:  "Thrilled to announce that our startup just closed our Series A funding round! This milestone wouldn't have been possible without our amazing team and investors who believed in our vision. Here's to scaling new heights! 🎉 #Startup #Funding #Entrepreneurship",
			Likes:    156,
			Comments: 34,
			Shares:   18,
			Author: domain.Author{
				FirstName:    "Emily",
				LastName:     "Johnson",
				Headline:     "Co-Founder & CEO at InnovateTech",
				ProfileImage: "https://images.pexels.com/photos/774909/pexels-photo-774909.jpeg?auto=compress&cs=tinysrgb&w=150&h=150&fit=crop",
			},
			CreatedAt: at(6),
			UpdatedAt: at(6),
		},
	}
}

// SampleSuggestions returns the "people you may know" list shown to a fresh
// session.
func SampleSuggestions() []domain.Suggestion {
	return []domain.Suggestion{
		{
			ID:                "5",
			FirstName:         "Alice",
			LastName:          "Johnson",
			Headline:          "Product Manager at Google",
			ProfileImage:      "https://images.pexels.com/photos/774909/pexels-photo-774909.jpeg?auto=compress&cs=tinysrgb&w=150&h=150&fit=crop",
			MutualConnections: 12,
		},
		{
			ID:                "6",
			FirstName:         "Bob",
			LastName:          "Smith",
			Headline:          "Software Engineer at Microsoft",
			ProfileImage:      "https://images.pexels.com/photos/2379005/pexels-photo-2379005.jpeg?auto=compress&cs=tinysrgb&w=150&h=150&fit=crop",
			MutualConnections: 8,
		},
		{
			ID:                "7",
			FirstName:         "Carol",
			LastName:          "Davis",
			Headline:          "UX Designer at Adobe",
			ProfileImage:      "https://images.pexels.com/photos/415829/pexels-photo-415829.jpeg?auto=compress&cs=tinysrgb&w=150&h=150&fit=crop",
			MutualConnections: 15,
		},
	}
}
