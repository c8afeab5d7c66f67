// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as the
// ticket service and handlers to distinguish between different failure
// scenarios without parsing driver error strings. For example,
// ErrTicketNotFound maps to a 404 at the HTTP boundary while
// ErrNameExists maps to a 409.
package repository

import "errors"

// ErrTicketNotFound is returned when a ticket lookup by id or number
// matches no row.
var ErrTicketNotFound = errors.New("ticket not found")

// ErrMovieNotFound is returned when a movie lookup matches no row.
var ErrMovieNotFound = errors.New("movie not found")

// ErrGenreNotFound is returned when a genre lookup matches no row.
var ErrGenreNotFound = errors.New("genre not found")

// ErrStudioNotFound is returned when a studio lookup matches no row.
var ErrStudioNotFound = errors.New("studio not found")

// ErrUserNotFound is returned when a user lookup matches no row.
var ErrUserNotFound = errors.New("user not found")

// ErrNameExists is returned when inserting or renaming a catalog record
// would violate a unique name constraint (genre name, studio company name).
var ErrNameExists = errors.New("name already exists")

// ErrTicketNumberExists is returned when an insert collides with the
// unique key on tickets.ticket_number. The ticket service retries with a
// freshly generated number.
var ErrTicketNumberExists = errors.New("ticket number already exists")

// ErrConflict is returned when a delete or update cannot be performed
// because of conflicting state, such as deleting a genre that still has
// movies attached. Handlers should translate this into an HTTP 409.
var ErrConflict = errors.New("conflict")
