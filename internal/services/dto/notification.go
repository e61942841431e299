package dto

import "jobalert_backend/internal/models"

type NotificationListQuery struct {
	PageQuery
	IsRead *bool `form:"is_read" json:"is_read"`
}

type NotificationListResponse struct {
	*PaginatedResponse[models.Notification]
	UnreadCount int64 `json:"unread_count"`
}

type UnreadCountResponse struct {
	UnreadCount int64 `json:"unread_count"`
}

type MarkAllReadResponse struct {
	Message      string `json:"message"`
	UpdatedCount int64  `json:"updated_count"`
}
