package shared

// Filter carries common listing options for repository queries
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Filters  map[string]interface{}
}

// NewFilter creates a Filter with sane defaults
func NewFilter() Filter {
	return Filter{
		Page:     1,
		PageSize: 20,
		Filters:  make(map[string]interface{}),
	}
}
