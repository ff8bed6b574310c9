package model

import "time"

// Role is a named grant bundle. Users acquire permissions only
// through roles; there is no hierarchy or inheritance between
// roles – a flat role→permission mapping resolved per request.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – unique human-readable name.
//  Slug        – unique URL-safe identifier.
//  Description – optional free text.
type Role struct {
	ID          uint64    // roles.id
	Name        string    // roles.name
	Slug        string    // roles.slug
	Description *string   // roles.description (nullable)
	CreatedAt   time.Time // roles.created_at
	UpdatedAt   time.Time // roles.updated_at
}

// Permission identifies a single (resource, action) pair. The pair is
// unique; the slug is a second unique handle used by seed data and
// admin tooling.
type Permission struct {
	ID          uint64    // permissions.id
	Name        string    // permissions.name
	Slug        string    // permissions.slug
	Resource    string    // permissions.resource
	Action      string    // permissions.action
	Description *string   // permissions.description (nullable)
	CreatedAt   time.Time // permissions.created_at
	UpdatedAt   time.Time // permissions.updated_at
}
