package byte

// PageSize is the fixed listing page size the frontend paginates with.
const PageSize = 6

type Pagination struct {
	TotalCount  int `json:"totalCount"`
	TotalPages  int `json:"totalPages"`
	CurrentPage int `json:"currentPage"`
	PageSize    int `json:"pageSize"`
}

type Metadata struct {
	Categories []string `json:"categories"`
	Tags       []string `json:"tags"`
}

// Filter restricts a listing. Empty fields match everything; both set
// means both must match.
type Filter struct {
	Category string
	Tag      string
}

type ListResult struct {
	Items      []*Byte    `json:"data"`
	Pagination Pagination `json:"pagination"`
	Metadata   Metadata   `json:"metadata"`
}

// Paginate computes page metadata for a total row count. Pages are
// 1-based; a page past the end is legal and simply holds no items.
func Paginate(totalCount, page int) Pagination {
	if page < 1 {
		page = 1
	}
	totalPages := (totalCount + PageSize - 1) / PageSize
	return Pagination{
		TotalCount:  totalCount,
		TotalPages:  totalPages,
		CurrentPage: page,
		PageSize:    PageSize,
	}
}

// Offset is the LIMIT/OFFSET start row for a 1-based page.
func Offset(page int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * PageSize
}
