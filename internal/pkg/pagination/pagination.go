package pagination

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// Params represents pagination parameters.
// Page is zero-based.
type Params struct {
	Page   int `json:"page"`
	Size   int `json:"size"`
	Offset int `json:"-"`
}

// Meta represents pagination metadata
type Meta struct {
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNext"`
	HasPrev    bool  `json:"hasPrev"`
}

// DefaultSize is the default number of items per page
const DefaultSize = 15

// MaxSize is the maximum number of items per page
const MaxSize = 100

// Normalize clamps page and size and computes the offset
func Normalize(page, size int) Params {
	if page < 0 {
		page = 0
	}
	if size < 1 {
		size = DefaultSize
	}
	if size > MaxSize {
		size = MaxSize
	}

	return Params{
		Page:   page,
		Size:   size,
		Offset: page * size,
	}
}

// GetParams extracts pagination parameters from request
func GetParams(c *fiber.Ctx) Params {
	page, _ := strconv.Atoi(c.Query("page", "0"))
	size, _ := strconv.Atoi(c.Query("size", strconv.Itoa(DefaultSize)))
	return Normalize(page, size)
}

// GetMeta calculates pagination metadata
func GetMeta(params Params, total int64) *Meta {
	size := params.Size
	if size < 1 {
		size = DefaultSize
	}

	totalPages := int(total) / size
	if int(total)%size > 0 {
		totalPages++
	}

	return &Meta{
		Page:       params.Page,
		Size:       size,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    params.Page+1 < totalPages,
		HasPrev:    params.Page > 0,
	}
}

// Response represents paginated response
type Response struct {
	Data interface{} `json:"data"`
	Meta *Meta       `json:"meta"`
}

// NewResponse creates a new paginated response
func NewResponse(data interface{}, params Params, total int64) *Response {
	return &Response{
		Data: data,
		Meta: GetMeta(params, total),
	}
}
