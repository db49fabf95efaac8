package model

import (
	"encoding/json"
	"time"
)

// Notification priorities
const (
	PriorityLow    = "low"
	PriorityNormal = "normal"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Notification types the bell draws a dedicated icon for.
const (
	NotificationModerationAction = "moderation_action"
	NotificationContentFlagged   = "content_flagged"
	NotificationPostApproved     = "post_approved"
	NotificationPostRejected     = "post_rejected"
)

// Notification is an in-app notice addressed to the logged in admin.
type Notification struct {
	ID             string          `json:"_id"`
	Type           string          `json:"type"`
	Title          string          `json:"title"`
	Message        string          `json:"message"`
	IsRead         bool            `json:"isRead"`
	ReadAt         *time.Time      `json:"readAt,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	Priority       string          `json:"priority"`
	ActionURL      string          `json:"actionUrl,omitempty"`
	RelatedPost    json.RawMessage `json:"relatedPost,omitempty"`
	RelatedComment json.RawMessage `json:"relatedComment,omitempty"`
	RelatedUser    json.RawMessage `json:"relatedUser,omitempty"`
}

func (n Notification) GetID() string { return n.ID }

// Target is where opening the notification navigates to.
func (n Notification) Target() string {
	if n.ActionURL == "" {
		return "#"
	}
	return n.ActionURL
}

// NotificationFilter holds the notifications page filters.
type NotificationFilter struct {
	IsRead   string `json:"isRead" form:"isRead" binding:"omitempty,oneof=true false"`
	Type     string `json:"type" form:"type"`
	Priority string `json:"priority" form:"priority" binding:"omitempty,oneof=low normal high urgent"`
}

// NotificationListResponse is the answer of GET /notifications.
type NotificationListResponse struct {
	Success       bool           `json:"success"`
	Notifications []Notification `json:"notifications"`
	Pagination    *Pagination    `json:"pagination"`
	UnreadCount   int            `json:"unreadCount"`
}

// NotificationPage is one page of notifications plus the unread total.
type NotificationPage struct {
	Page[Notification]
	UnreadCount int `json:"unreadCount"`
}

func (r NotificationListResponse) Page() NotificationPage {
	lr := ListResponse[Notification]{Data: r.Notifications, Pagination: r.Pagination}
	return NotificationPage{Page: lr.Page(), UnreadCount: r.UnreadCount}
}

type UnreadCountResponse struct {
	Success bool `json:"success"`
	Count   int  `json:"count"`
}

// MarkAllReadRequest optionally limits mark-all-read to one type.
type MarkAllReadRequest struct {
	Type string `json:"type,omitempty"`
}
