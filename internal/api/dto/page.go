package dto

import "math"

// PageQuery 列表请求参数；Cursor 非空时按游标定位，忽略 Page
type PageQuery struct {
	Page   int    `form:"page" binding:"omitempty,min=1"`
	Limit  int    `form:"limit" binding:"omitempty,min=1"`
	Cursor string `form:"cursor" binding:"omitempty,max=512"`
}

// Normalize 填充默认值并限制单页大小
func (q PageQuery) Normalize(defaultLimit, maxLimit int) PageQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = defaultLimit
	}
	if maxLimit > 0 && q.Limit > maxLimit {
		q.Limit = maxLimit
	}
	// 超大页码收敛到不溢出的末尾页之后
	if q.Page-1 > math.MaxInt/q.Limit {
		q.Page = math.MaxInt / q.Limit
	}
	return q
}

// Offset 页码对应的偏移量
func (q PageQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// Page 统一分页响应
type Page[T any] struct {
	Items       []T    `json:"items"`
	CurrentPage int    `json:"currentPage"`
	TotalPage   int    `json:"totalPage"`
	NextCursor  string `json:"nextCursor,omitempty"`
}

// TotalPages 总页数，空集为 0
func TotalPages(total int64, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

// NewPage 由当前页数据和总数构建分页响应
func NewPage[T any](items []T, page, limit int, total int64) *Page[T] {
	if items == nil {
		items = []T{}
	}
	return &Page[T]{
		Items:       items,
		CurrentPage: page,
		TotalPage:   TotalPages(total, limit),
	}
}
