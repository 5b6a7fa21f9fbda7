package domain

import "time"

// Company is the tenancy unit; every client user and ticket belongs to one.
type Company struct {
	ID        string
	Name      string
	Document  string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
