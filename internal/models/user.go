// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application.
package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a requester on the platform. Bounce fields record the last
// delivery failure of mail sent to Email.
type User struct {
	ID                 uuid.UUID  `json:"id"`
	Name               string     `json:"name"`
	URLName            string     `json:"url_name"`
	Email              string     `json:"-"`
	EmailBouncedAt     *time.Time `json:"email_bounced_at"`
	EmailBounceMessage string     `json:"email_bounce_message"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// EmailBounced returns true if mail to the user last bounced.
func (u *User) EmailBounced() bool {
	return u.EmailBouncedAt != nil
}

// Path is the public URL path of the user's profile.
func (u *User) Path() string {
	return "/user/" + u.URLName
}
