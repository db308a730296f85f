package pagination

import "math"

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type Params struct {
	Page     int
	PageSize int
}

// Normalize fills in defaults. A PageSize of 0 stays 0 and means "everything".
func (p Params) Normalize() Params {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 0 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	return p
}

// CalculateOffsetLimit converts p into a slice offset. An offset that does not
// fit in an int saturates at math.MaxInt.
func (p Params) CalculateOffsetLimit() (offset, limit int) {
	if p.PageSize <= 0 {
		return 0, 0
	}
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Page-1 > math.MaxInt/p.PageSize {
		return math.MaxInt, p.PageSize
	}
	offset = (p.Page - 1) * p.PageSize
	limit = p.PageSize
	return offset, limit
}

func (p Params) BuildMeta(totalItems int) Meta {
	totalPages := 0
	if p.PageSize > 0 {
		totalPages = (totalItems + p.PageSize - 1) / p.PageSize
	} else if totalItems > 0 {
		totalPages = 1
	}
	return Meta{
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalItems: totalItems,
		TotalPages: totalPages,
	}
}

type Meta struct {
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalItems int `json:"totalItems"`
	TotalPages int `json:"totalPages"`
}

// Window returns the page of items p selects along with its metadata.
// Pages past the end are empty.
func Window[T any](items []T, p Params) ([]T, Meta) {
	p = p.Normalize()
	meta := p.BuildMeta(len(items))

	offset, limit := p.CalculateOffsetLimit()
	if limit == 0 {
		return items, meta
	}
	if offset >= len(items) {
		return []T{}, meta
	}

	end := min(offset+limit, len(items))
	return items[offset:end], meta
}
