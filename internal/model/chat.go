package model

import "time"

// ChatRoom is a public or private discussion room.
type ChatRoom struct {
	ID               string    `json:"_id"`
	Name             string    `json:"name"`
	Slug             string    `json:"slug"`
	Description      string    `json:"description,omitempty"`
	TopicDescription string    `json:"topicDescription,omitempty"`
	IsPrivate        bool      `json:"isPrivate"`
	MessageCount     int       `json:"messageCount"`
	CreatedAt        time.Time `json:"createdAt"`
}

func (r ChatRoom) GetID() string { return r.ID }

func (r ChatRoom) DescriptionOrDefault() string {
	if r.Description == "" {
		return "No description"
	}
	return r.Description
}

// ChatMessage is one message posted in a room.
type ChatMessage struct {
	ID            string    `json:"_id"`
	Content       string    `json:"content"`
	User          Ref       `json:"user"`
	DisplayName   string    `json:"displayName,omitempty"`
	Room          Ref       `json:"room"`
	IsFlagged     bool      `json:"isFlagged"`
	FlaggedReason string    `json:"flaggedReason,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

func (m ChatMessage) GetID() string { return m.ID }

func (m ChatMessage) Author() string {
	if m.DisplayName != "" {
		return m.DisplayName
	}
	return m.User.NameOr(unknownAuthor)
}

// RoomLabel prefers the room name, then its slug, then the raw id.
func (m ChatMessage) RoomLabel() string {
	switch {
	case m.Room.Name != "":
		return m.Room.Name
	case m.Room.Slug != "":
		return m.Room.Slug
	default:
		return m.Room.ID
	}
}

func (m ChatMessage) FlagReason() string {
	if m.FlaggedReason == "" {
		return "Unknown reason"
	}
	return m.FlaggedReason
}

// ChatMessageFilter narrows the message listing.
type ChatMessageFilter struct {
	RoomID  string `json:"roomId" form:"roomId"`
	Flagged string `json:"flagged" form:"flagged" binding:"omitempty,oneof=true false"`
}

// CreateRoomRequest is the body of POST /admin/chat/rooms.
type CreateRoomRequest struct {
	Name             string `json:"name" binding:"required"`
	Slug             string `json:"slug" binding:"omitempty,slug"`
	Description      string `json:"description"`
	TopicDescription string `json:"topicDescription"`
	IsPrivate        bool   `json:"isPrivate"`
}
