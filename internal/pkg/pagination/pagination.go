package pagination

import "github.com/gofiber/fiber/v2"

const (
	// DefaultLimit is the page size when the client supplies none
	DefaultLimit = 20

	// MaxLimit caps the page size a client may request
	MaxLimit = 100
)

// Params represents pagination parameters
type Params struct {
	Page   int `json:"page"`
	Limit  int `json:"limit"`
	Offset int `json:"-"`
}

// Meta represents pagination metadata
type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
}

// GetParams reads page and limit from the query string, clamping both
// to sane bounds
func GetParams(c *fiber.Ctx) *Params {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}

	limit := c.QueryInt("limit", DefaultLimit)
	switch {
	case limit < 1:
		limit = DefaultLimit
	case limit > MaxLimit:
		limit = MaxLimit
	}

	return &Params{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}

// GetMeta builds the metadata block for a listing response
func GetMeta(params *Params, total int64) *Meta {
	totalPages := int((total + int64(params.Limit) - 1) / int64(params.Limit))

	return &Meta{
		Page:       params.Page,
		Limit:      params.Limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    params.Page < totalPages,
		HasPrev:    params.Page > 1,
	}
}
