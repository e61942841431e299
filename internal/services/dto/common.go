package dto

// PaginatedResponse - общий ответ для постраничных списков
type PaginatedResponse[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	TotalPages int   `json:"total_pages"`
	HasMore    bool  `json:"has_more"`
}

// NewPaginatedResponse считает total_pages и has_more
func NewPaginatedResponse[T any](items []T, total int64, page, size int) *PaginatedResponse[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := 0
	if size > 0 {
		totalPages = int((total + int64(size) - 1) / int64(size))
	}
	return &PaginatedResponse[T]{
		Items:      items,
		Total:      total,
		Page:       page,
		Size:       size,
		TotalPages: totalPages,
		HasMore:    page < totalPages,
	}
}

// PageQuery - page с 1, size 1..100; нули заменяются значениями по умолчанию
type PageQuery struct {
	Page int `form:"page" json:"page" validate:"omitempty,gte=1"`
	Size int `form:"size" json:"size" validate:"omitempty,gte=1,lte=100"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
