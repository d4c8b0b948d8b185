package models

import "time"

type ChatVisibility string

const (
	ChatVisibilityPrivate ChatVisibility = "private"
	ChatVisibilityPublic  ChatVisibility = "public"
)

type Chat struct {
	ID         string
	UserID     string
	Title      string
	Visibility ChatVisibility
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Message struct {
	ID        string
	ChatID    string
	Role      string
	Content   string
	ModelID   string
	CreatedAt time.Time
}

// ChatModel describes one entry in the model catalog. IDs double as
// entitlement keys.
type ChatModel struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}
