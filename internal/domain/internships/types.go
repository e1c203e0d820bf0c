package internships

import "time"

// Internship is a posting created by an industry partner or an admin.
type Internship struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Company     string    `json:"company"`
	Location    string    `json:"location"`
	Duration    string    `json:"duration"`
	Credits     int       `json:"credits"`
	Description string    `json:"description"`
	PostedBy    int64     `json:"posted_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// PostParams is the request body for posting an internship.
type PostParams struct {
	Title       string `json:"title" validate:"required,max=200"`
	Company     string `json:"company" validate:"max=200"`
	Location    string `json:"location" validate:"max=200"`
	Duration    string `json:"duration" validate:"max=100"`
	Credits     int    `json:"credits" validate:"min=0"`
	Description string `json:"description" validate:"max=10000"`
}

// NewInternship holds the columns written when an internship is posted.
type NewInternship struct {
	PostParams
	PostedBy int64
}
