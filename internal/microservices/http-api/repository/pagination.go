package repository

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ListOptions selects one page of a list, 1-based.
type ListOptions struct {
	Page     int
	PageSize int
}

// Normalize clamps out-of-range values to the defaults.
func (o ListOptions) Normalize() ListOptions {
	if o.Page < 1 {
		o.Page = 1
	}
	if o.PageSize < 1 || o.PageSize > MaxPageSize {
		o.PageSize = DefaultPageSize
	}
	return o
}

func (o ListOptions) Offset() int {
	o = o.Normalize()
	return (o.Page - 1) * o.PageSize
}

func (o ListOptions) Limit() int {
	return o.Normalize().PageSize
}
