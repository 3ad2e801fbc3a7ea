package user

// Pagination describes one page of a user listing.
type Pagination struct {
	Total      int64 // Total number of matching users
	Page       int64 // Current page number (1-based)
	Limit      int64 // Number of users per page
	TotalPages int64 // Total number of pages
}

// NewPagination creates a Pagination with total pages derived from total and limit.
func NewPagination(total, page, limit int64) *Pagination {
	var totalPages int64
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}

	return &Pagination{
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}
}
