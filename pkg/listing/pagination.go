package listing

// DefaultPerPageOptions are the page-size choices offered by generic tables.
var DefaultPerPageOptions = []int{5, 10, 25, 50, 100}

// Pagination is the navigation descriptor for one page of results.
// StartItemIndex and EndItemIndex are 0-based half-open slice bounds.
// DisplayStartItem and DisplayEndItem are 1-based and clamped to TotalItems.
type Pagination struct {
	CurrentPage        int   `json:"current_page"`
	PageSize           int   `json:"page_size"`
	TotalItems         int64 `json:"total_items"`
	TotalPages         int   `json:"total_pages"`
	PageRange          []int `json:"page_range"`
	HasNextPage        bool  `json:"has_next_page"`
	HasPreviousPage    bool  `json:"has_previous_page"`
	NextPageNumber     *int  `json:"next_page_number"`
	PreviousPageNumber *int  `json:"previous_page_number"`
	StartItemIndex     int   `json:"start_item_index"`
	EndItemIndex       int   `json:"end_item_index"`
	DisplayStartItem   int   `json:"display_start_item"`
	DisplayEndItem     int   `json:"display_end_item"`
	PerPageOptions     []int `json:"per_page_options"`
}

// Paginate computes the descriptor for page of pageSize over total items.
// A pageSize of 0 puts every item on one page. Out of range pages are clamped.
func Paginate(total int64, page, pageSize int, perPageOptions ...int) Pagination {
	if total < 0 {
		total = 0
	}
	if pageSize < 0 {
		pageSize = 0
	}

	totalPages := 0
	switch {
	case pageSize > 0:
		totalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	case total > 0:
		totalPages = 1
	}

	if totalPages > 0 && page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}

	// With no items the page stays unclamped, so the bounds are left at zero
	// rather than derived from it.
	start, end := 0, int(total)
	if pageSize > 0 && total > 0 {
		start = (page - 1) * pageSize
		end = start + pageSize
	}

	p := Pagination{
		CurrentPage:     page,
		PageSize:        pageSize,
		TotalItems:      total,
		TotalPages:      totalPages,
		PageRange:       make([]int, 0, totalPages),
		HasNextPage:     page < totalPages,
		HasPreviousPage: page > 1,
		StartItemIndex:  start,
		EndItemIndex:    end,
	}
	for i := 1; i <= totalPages; i++ {
		p.PageRange = append(p.PageRange, i)
	}
	if p.HasNextPage {
		next := page + 1
		p.NextPageNumber = &next
	}
	if p.HasPreviousPage {
		prev := page - 1
		p.PreviousPageNumber = &prev
	}
	if total > 0 {
		p.DisplayStartItem = start + 1
		p.DisplayEndItem = end
		if int64(end) > total {
			p.DisplayEndItem = int(total)
		}
	}

	if len(perPageOptions) == 0 {
		perPageOptions = DefaultPerPageOptions
	}
	p.PerPageOptions = append([]int(nil), perPageOptions...)

	return p
}

// Offset and Limit translate the slice bounds for a storage query.
func (p Pagination) Offset() int { return p.StartItemIndex }

func (p Pagination) Limit() int { return p.EndItemIndex - p.StartItemIndex }
