package notification

import "time"

// EventType names a user lifecycle event.
type EventType string

const (
	EventUserLogin       EventType = "USER_LOGIN"
	EventOtpRequested    EventType = "OTP_REQUESTED"
	EventUserRegistered  EventType = "USER_REGISTERED"
	EventPasswordChanged EventType = "PASSWORD_CHANGED"
	EventUserVerified    EventType = "USER_VERIFIED"
)

// Event sources.
const (
	SourceAuth = "auth-service"
	SourceUser = "user-service"
)

// EventMessage is the envelope written to the topic.
type EventMessage struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Source    string                 `json:"source"`
	Timestamp time.Time              `json:"timestamp"`
	Payload   map[string]interface{} `json:"payload"`
}

// Contact is the part of a user record that events carry.
type Contact struct {
	ID    int64
	Name  string
	Email string
	Phone string
}

func (c Contact) payload() map[string]interface{} {
	return map[string]interface{}{
		"id":    c.ID,
		"name":  c.Name,
		"email": c.Email,
		"phone": c.Phone,
	}
}
