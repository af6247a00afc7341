package domain

import "time"

// Notification is a message sent to a single user, newest-first in listings.
type Notification struct {
	ID      string    `json:"id"`
	UserID  string    `json:"userId"`
	Message string    `json:"message"`
	Read    bool      `json:"read"`
	SentAt  time.Time `json:"sentAt"`
}

// AdminStats are the dashboard card counts.
type AdminStats struct {
	Users         int64 `json:"users"`
	Books         int64 `json:"books"`
	Resources     int64 `json:"resources"`
	Notifications int64 `json:"notifications"`
}
