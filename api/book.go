package api

import "fmt"

// Read status values as the backend stores them.
const (
	StatusNotRead          = "not read"
	StatusRead             = "read"
	StatusCurrentlyReading = "currently reading"
)

// Section is one of the four book groupings.
type Section string

const (
	SectionAll              Section = "all"
	SectionRead             Section = "read"
	SectionNotRead          Section = "not read"
	SectionCurrentlyReading Section = "currently reading"
)

// Sections in display order.
var Sections = []Section{SectionAll, SectionRead, SectionNotRead, SectionCurrentlyReading}

func (s Section) Label() string {
	switch s {
	case SectionAll:
		return "All"
	case SectionRead:
		return "Read"
	case SectionNotRead:
		return "Not Read"
	case SectionCurrentlyReading:
		return "Currently Reading"
	default:
		return string(s)
	}
}

// path returns the list endpoint for the section.
func (s Section) path(userID int64) string {
	switch s {
	case SectionRead:
		return fmt.Sprintf("/books/%d/read", userID)
	case SectionNotRead:
		return fmt.Sprintf("/books/%d/not_read", userID)
	case SectionCurrentlyReading:
		return fmt.Sprintf("/books/%d/currently_reading", userID)
	default:
		return fmt.Sprintf("/books/%d", userID)
	}
}

// Book mirrors the backend row. ID 0 means not yet saved server-side.
type Book struct {
	ID              int64  `json:"book_id"`
	UserID          int64  `json:"user_id"`
	Title           string `json:"book_title"`
	Author          string `json:"book_author"`
	Year            int    `json:"book_year"`
	Read            string `json:"read"`
	Rating          int    `json:"rating"`
	ImageURL        string `json:"image_url,omitempty"`
	FinishedReading string `json:"finished_reading,omitempty"`
}

// Counts groups per-status totals for the shelves overview.
type Counts struct {
	Read             int `json:"read"`
	NotRead          int `json:"not_read"`
	CurrentlyReading int `json:"currently_reading"`
	Total            int `json:"total"`
}

// BySection returns the count shown on a section row.
func (c Counts) BySection(s Section) int {
	switch s {
	case SectionAll:
		return c.Total
	case SectionRead:
		return c.Read
	case SectionNotRead:
		return c.NotRead
	case SectionCurrentlyReading:
		return c.CurrentlyReading
	default:
		return 0
	}
}

// RatingSummary aggregates ratings across a user's whole library.
type RatingSummary struct {
	TotalBooks    int            `json:"total_books"`
	RatingCounts  map[string]int `json:"rating_counts"`
	AverageRating *float64       `json:"average_rating"`
}
