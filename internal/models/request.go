package models

import (
	"time"

	"github.com/google/uuid"
)

// InfoRequest is a request made by a user to a public body.
type InfoRequest struct {
	ID                  uuid.UUID   `json:"id"`
	Title               string      `json:"title"`
	URLTitle            string      `json:"url_title"`
	AwaitingDescription bool        `json:"awaiting_description"`
	PublicBody          *PublicBody `json:"public_body,omitempty"`
	User                *User       `json:"user,omitempty"`
	CreatedAt           time.Time   `json:"created_at"`
}

// Path is the public URL path of the request page.
func (r *InfoRequest) Path() string {
	return "/request/" + r.URLTitle
}

// CategorisePath is where a volunteer classifies the latest response.
func (r *InfoRequest) CategorisePath() string {
	return "/categorise/request/" + r.URLTitle
}

// Event types. A response leaves the request awaiting classification
// until someone describes its state.
const (
	EventSent     = "sent"
	EventResponse = "response"
	EventFollowup = "followup_sent"
)

// ValidEventType reports whether t is a known event type.
func ValidEventType(t string) bool {
	switch t {
	case EventSent, EventResponse, EventFollowup:
		return true
	}
	return false
}

// Event is something that happened to a request (sent, response, etc.).
type Event struct {
	ID          uuid.UUID    `json:"id"`
	EventType   string       `json:"event_type"`
	InfoRequest *InfoRequest `json:"info_request,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
}

// LeagueEntry is one row of the request classification league table.
type LeagueEntry struct {
	UserID  uuid.UUID `json:"user_id"`
	Name    string    `json:"name"`
	URLName string    `json:"url_name"`
	Count   int       `json:"count"`
}
