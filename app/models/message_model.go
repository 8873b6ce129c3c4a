package models

import (
	"time"

	"github.com/google/uuid"
)

type Message struct {
	ID         uuid.UUID `json:"messageId" db:"message_id"`
	SenderID   uuid.UUID `json:"senderId" db:"sender_id"`
	ReceiverID uuid.UUID `json:"receiverId" db:"receiver_id"`
	Text       string    `json:"text" db:"text"`
	IsRead     bool      `json:"isRead" db:"is_read"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}

type CreateMessageRequest struct {
	ReceiverID uuid.UUID `json:"receiverId" validate:"required"`
	Text       string    `json:"text" validate:"required,lte=4000"`
}

type Notification struct {
	ID        uuid.UUID `json:"notificationId" db:"notification_id"`
	UserID    uuid.UUID `json:"userId" db:"user_id"`
	Type      string    `json:"type" db:"type"`
	Message   string    `json:"message" db:"message"`
	Link      string    `json:"link,omitempty" db:"link"`
	IsRead    bool      `json:"isRead" db:"is_read"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

type DispatchRequest struct {
	UserIDs []uuid.UUID `json:"userIds" validate:"required,min=1,max=1000"`
	Type    string      `json:"type" validate:"omitempty,lte=50"`
	Message string      `json:"message" validate:"required,lte=2000"`
	Link    string      `json:"link" validate:"omitempty,lte=1024"`
}

// PushEvent is the websocket frame sent to connected users.
type PushEvent struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}
