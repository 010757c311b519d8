// Package models holds the persistent records owned by the broker.
package models

import "time"

// User is an identity record. Username is unique only by convention: the
// Identity Store checks before it writes, the schema does not enforce it.
type User struct {
	ID        int64
	Email     string
	FirstName string
	LastName  string
	UserName  string
	Password  string
	IsAdmin   bool
	CreatedAt time.Time
}
