package catalog

// PageSize is fixed at 8 cards per page, same grid as the app.
const PageSize = 8

// CategoryAll is the sentinel that disables category filtering.
const CategoryAll = "all"

// Categories returns the "all" sentinel plus the distinct categories
// in first-seen order.
func Categories(products []Product) []string {
	out := []string{CategoryAll}
	seen := map[string]bool{}
	for _, p := range products {
		if !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	return out
}

type Page struct {
	Items      []Product `json:"products"`
	Category   string    `json:"category"`
	Page       int       `json:"page"`
	TotalPages int       `json:"total_pages"`
	Filtered   int       `json:"filtered"`
}

// Paginate filters by category ("all" passes everything) and windows
// the result into 1-indexed pages, clamped to [1, totalPages].
// TotalPages is at least 1 even for an empty catalog.
func Paginate(products []Product, category string, page int) Page {
	filtered := products
	if category != CategoryAll && category != "" {
		filtered = make([]Product, 0, len(products))
		for _, p := range products {
			if p.Category == category {
				filtered = append(filtered, p)
			}
		}
	}
	if category == "" {
		category = CategoryAll
	}

	totalPages := (len(filtered) + PageSize - 1) / PageSize
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	lo := (page - 1) * PageSize
	hi := lo + PageSize
	if lo > len(filtered) {
		lo = len(filtered)
	}
	if hi > len(filtered) {
		hi = len(filtered)
	}

	return Page{
		Items:      filtered[lo:hi],
		Category:   category,
		Page:       page,
		TotalPages: totalPages,
		Filtered:   len(filtered),
	}
}
