package models

import "time"

// Session is the proof-of-authentication record issued by login.
// UserName is a denormalized copy of User.UserName with no foreign key.
type Session struct {
	ID        int64
	UserName  string
	APIKey    string
	CreatedAt time.Time
}
