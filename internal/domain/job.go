package domain

import "time"

// JobPost is a single job listing managed by the API.
type JobPost struct {
	ID            int64     `json:"postId"`
	Profile       string    `json:"postProfile"`
	Description   string    `json:"postDesc"`
	ReqExperience int       `json:"reqExperience"`
	Skills        []string  `json:"postSkills"`
	CreatedAt     time.Time `json:"-"`
	UpdatedAt     time.Time `json:"-"`
}
