package model

import "time"

// Movie statuses.
const (
	MovieStatusComingSoon = "coming_soon"
	MovieStatusNowShowing = "now_showing"
	MovieStatusEnded      = "ended"
)

// Movie is a film that can be scheduled into showtimes.
//
// Fields:
//  ID              – primary key identifier.
//  Title           – display title.
//  Slug            – unique URL-safe identifier.
//  Description     – optional synopsis.
//  DurationMinutes – running time.
//  Rating          – optional age rating label.
//  ReleaseDate     – optional theatrical release date.
//  Status          – one of the MovieStatus* constants.
type Movie struct {
	ID              uint64     // movies.id
	Title           string     // movies.title
	Slug            string     // movies.slug
	Description     *string    // movies.description (nullable)
	DurationMinutes uint32     // movies.duration_minutes
	Rating          *string    // movies.rating (nullable)
	ReleaseDate     *time.Time // movies.release_date (nullable)
	Status          string     // movies.status
	CreatedAt       time.Time  // movies.created_at
	UpdatedAt       time.Time  // movies.updated_at
	DeletedAt       *time.Time // movies.deleted_at (nullable)
}
