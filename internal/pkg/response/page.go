package response

// Page is the paged result envelope used by every list endpoint.
type Page struct {
	Items      any   `json:"items"`
	PageNumber int   `json:"page_number"`
	PageSize   int   `json:"page_size"`
	TotalCount int64 `json:"total_count"`
	TotalPages int   `json:"total_pages"`
}

func NewPage(items any, pageNumber, pageSize int, totalCount int64) Page {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int((totalCount + int64(pageSize) - 1) / int64(pageSize))
	}
	return Page{
		Items:      items,
		PageNumber: pageNumber,
		PageSize:   pageSize,
		TotalCount: totalCount,
		TotalPages: totalPages,
	}
}
