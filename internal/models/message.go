package models

// Message is a direct message between two matched users
type Message struct {
	ID         int64     `json:"id" validate:"gt=0"`
	SenderID   int64     `json:"sender_id" validate:"gt=0"`
	ReceiverID int64     `json:"receiver_id" validate:"gt=0"`
	Content    string    `json:"content"`
	IsRead     bool      `json:"is_read"`
	CreatedAt  Timestamp `json:"created_at"`
}

// Conversation summarises the exchange with one peer
type Conversation struct {
	User        User     `json:"user"`
	LastMessage *Message `json:"last_message,omitempty"`
	UnreadCount int      `json:"unread_count" validate:"gte=0"`
}

// MessageCreate is the payload of POST /messages
type MessageCreate struct {
	ReceiverID int64  `json:"receiver_id" validate:"gt=0"`
	Content    string `json:"content" validate:"required,notblank,max=5000"`
}

// UnreadCount is the response of GET /messages/unread-count
type UnreadCount struct {
	UnreadCount int `json:"unread_count" validate:"gte=0"`
}
