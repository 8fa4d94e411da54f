package dto

// TimeLayout is the timestamp format used in every response.
const TimeLayout = "2006-01-02T15:04:05Z"

// DateLayout is the date format used for cycle dates.
const DateLayout = "2006-01-02"

// PaginationRequest common paging parameters
type PaginationRequest struct {
	Page     int `form:"page"      binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// GetPage page number with default
func (p *PaginationRequest) GetPage() int {
	if p.Page <= 0 {
		return 1
	}
	return p.Page
}

// GetPageSize page size with default
func (p *PaginationRequest) GetPageSize() int {
	if p.PageSize <= 0 {
		return 20
	}
	return p.PageSize
}

// GetOffset row offset
func (p *PaginationRequest) GetOffset() int {
	return (p.GetPage() - 1) * p.GetPageSize()
}

// DependentsResponse dependent row count of an entity
type DependentsResponse struct {
	Kind  string `json:"kind"`
	ID    string `json:"id"`
	Count int64  `json:"count"`
}

// ToggleResponse new active flag after a toggle
type ToggleResponse struct {
	Kind     string `json:"kind"`
	ID       string `json:"id"`
	IsActive bool   `json:"is_active"`
}
