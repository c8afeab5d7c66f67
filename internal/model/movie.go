package model

import "time"

// Movie mirrors a row of the `movies` table.  Prices are stored as
// integer cents so that aggregation in SQL stays exact.  The Available
// flag gates ticket sales: the ticket service refuses to create tickets
// for movies that are not available.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – movie title.
//  Description – optional synopsis.
//  PriceCents  – ticket price in cents.
//  DurationMin – running time in minutes.
//  ReleaseDate – optional release date.
//  Rating      – optional rating on a 0.0–10.0 scale.
//  GenreID     – optional reference into the genres table.
//  StudioID    – optional reference into the studios table.
//  Available   – whether tickets may be sold for this movie.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Movie struct {
    ID          uint64     // movies.id
    Name        string     // movies.name
    Description string     // movies.description
    PriceCents  int64      // movies.price_cents
    DurationMin uint32     // movies.duration_min
    ReleaseDate *time.Time // movies.release_date (nullable)
    Rating      *float64   // movies.rating (nullable)
    GenreID     *uint64    // movies.genre_id (nullable)
    StudioID    *uint64    // movies.studio_id (nullable)
    Available   bool       // movies.is_available
    CreatedAt   time.Time  // movies.created_at
    UpdatedAt   time.Time  // movies.updated_at
}

// Genre mirrors a row of the `genres` table.
type Genre struct {
    ID          uint64    // genres.id
    Name        string    // genres.name (unique)
    Description string    // genres.description
    CreatedAt   time.Time // genres.created_at
    UpdatedAt   time.Time // genres.updated_at
}

// Studio mirrors a row of the `studios` table.  Studios are the
// production companies a movie is attributed to, together with the
// contact details the managers keep on file.
type Studio struct {
    ID            uint64    // studios.id
    CompanyName   string    // studios.company_name (unique)
    ContactPerson string    // studios.contact_person
    Phone         string    // studios.phone
    Email         string    // studios.email
    Address       string    // studios.address
    Description   string    // studios.description
    Active        bool      // studios.is_active
    CreatedAt     time.Time // studios.created_at
    UpdatedAt     time.Time // studios.updated_at
}
