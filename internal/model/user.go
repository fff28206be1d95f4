// Package model defines the typed domain records shared by the store,
// the planner services, and the handlers.
package model

import "time"

// User represents a registered member.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose in JSON
	CreatedAt    time.Time `json:"created_at"`
}
