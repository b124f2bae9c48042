// Package models contains the data models and DTOs for the FocusBubble API.
package models

import (
	"time"

	"github.com/google/uuid"
)

// BlockedApp is an application the mobile client blocks for a period of time.
type BlockedApp struct {
	ID              int64  `json:"id"`
	PackageName     string `json:"package_name"`
	AppName         string `json:"app_name"`
	DurationMinutes int    `json:"duration_minutes"`
	IsActive        bool   `json:"is_active"`
}

// NewBlockedApp holds the fields for a row that has not been stored yet.
// A nil IsActive is stored as true.
type NewBlockedApp struct {
	PackageName     string
	AppName         string
	DurationMinutes int
	IsActive        *bool
}

// Active resolves the IsActive default.
func (n NewBlockedApp) Active() bool {
	if n.IsActive == nil {
		return true
	}
	return *n.IsActive
}

// CreateBlockedAppRequest is the body of POST /blocked_apps. DurationMinutes
// is int32 to match the INTEGER column, so out-of-range values fail decoding.
type CreateBlockedAppRequest struct {
	PackageName     string `json:"package_name" binding:"required"`
	AppName         string `json:"app_name" binding:"required"`
	DurationMinutes *int32 `json:"duration_minutes" binding:"required"`
	IsActive        *bool  `json:"is_active"`
}

// ToNewBlockedApp converts a validated request into store input.
func (r CreateBlockedAppRequest) ToNewBlockedApp() NewBlockedApp {
	n := NewBlockedApp{
		PackageName: r.PackageName,
		AppName:     r.AppName,
		IsActive:    r.IsActive,
	}
	if r.DurationMinutes != nil {
		n.DurationMinutes = int(*r.DurationMinutes)
	}
	return n
}

// GoogleAuthRequest is the body of POST /auth/google. An absent id_token is
// a validation error; an empty one is an invalid token.
type GoogleAuthRequest struct {
	IDToken *string `json:"id_token" binding:"required"`
}

// UserInfoResponse is returned after a successful identity token verification.
type UserInfoResponse struct {
	ID      string  `json:"id"`
	Email   string  `json:"email"`
	Name    *string `json:"name"`
	Picture *string `json:"picture"`
}

// MessageResponse carries a human-readable status message.
type MessageResponse struct {
	Message string `json:"message"`
}

// Blocked app change event types.
const (
	EventBlockedAppCreated = "blocked_app.created"
	EventBlockedAppDeleted = "blocked_app.deleted"
)

// BlockedAppEvent is published to the broker after a blocked app changes.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type BlockedAppEvent struct {
	EventID      uuid.UUID   `json:"event_id"`
	Type         string      `json:"type"`
	OccurredAt   time.Time   `json:"occurred_at"`
	BlockedAppID int64       `json:"blocked_app_id"`
	BlockedApp   *BlockedApp `json:"blocked_app,omitempty"`
}

// NewBlockedAppEvent stamps a new event with a fresh ID and the current time.
func NewBlockedAppEvent(eventType string, id int64, app *BlockedApp) *BlockedAppEvent {
	return &BlockedAppEvent{
		EventID:      uuid.New(),
		Type:         eventType,
		OccurredAt:   time.Now().UTC(),
		BlockedAppID: id,
		BlockedApp:   app,
	}
}

// FieldError describes one invalid request field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorResponse represents an error response.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type ErrorResponse struct {
	Timestamp time.Time    `json:"timestamp"`
	Status    int          `json:"status"`
	Error     string       `json:"error"`
	Detail    string       `json:"detail"`
	Path      string       `json:"path"`
	Fields    []FieldError `json:"fields,omitempty"`
}
