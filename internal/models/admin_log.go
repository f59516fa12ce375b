package models

import "time"

// AdminLogEntry is one persisted back-office change
type AdminLogEntry struct {
	ID         string            `json:"id"`
	ActionTime time.Time         `json:"action_time"`
	ActorID    string            `json:"actor_id,omitempty"`
	Action     string            `json:"action"`
	Model      string            `json:"model"`
	ObjectID   string            `json:"object_id"`
	IPAddress  string            `json:"ip_address,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}
