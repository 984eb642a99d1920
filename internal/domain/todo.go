package domain

import "time"

// Todo is the domain entity. Does not depend on Gin, Postgres or Redis.
//
// CreatedAt is assigned once at creation and never changes afterwards.
// UpdatedAt is nil until the first mutation, then set on every one.
type Todo struct {
	ID        string
	Title     string
	Body      string
	Tag       string
	Completed bool

	CreatedAt time.Time
	UpdatedAt *time.Time
}
