package table

import "github.com/Akashdeep-Patra/sdash/internal/survey"

// PageSizes are the rows-per-page choices offered by the table footer.
var PageSizes = []int{10, 15, 20, 25, 30}

// TotalPages returns ceil(count / pageSize). It is 0 for an empty result.
func TotalPages(count, pageSize int) int {
	if pageSize < 1 {
		pageSize = 1
	}
	return (count + pageSize - 1) / pageSize
}

// ClampPage clamps page into [1, max(1, totalPages)].
func ClampPage(page, totalPages int) int {
	if totalPages < 1 {
		totalPages = 1
	}
	return max(1, min(page, totalPages))
}

// Paginate returns records[(page-1)*size : page*size] clipped to bounds,
// along with the half-open index range it covers.
func Paginate(records []survey.Survey, pageSize, page int) (rows []survey.Survey, start, end int) {
	if pageSize < 1 {
		pageSize = 1
	}
	if page < 1 {
		page = 1
	}
	start = min((page-1)*pageSize, len(records))
	end = min(start+pageSize, len(records))
	return records[start:end:end], start, end
}

// PageItem is one entry of the pagination bar.
type PageItem struct {
	Page     int  // 0 for an ellipsis
	Ellipsis bool // a gap of one or more hidden pages
	Current  bool
}

// PageWindow lays out the numbered page links: the first and last page are
// always shown, plus current-1..current+1, with an ellipsis wherever two
// shown pages are more than one apart.
func PageWindow(current, totalPages int) []PageItem {
	if totalPages < 1 {
		totalPages = 1
	}
	current = ClampPage(current, totalPages)

	shown := []int{1}
	for p := max(2, current-1); p <= min(totalPages-1, current+1); p++ {
		shown = append(shown, p)
	}
	if totalPages > 1 {
		shown = append(shown, totalPages)
	}

	items := make([]PageItem, 0, len(shown)+2)
	prev := 0
	for _, p := range shown {
		if prev != 0 && p-prev > 1 {
			items = append(items, PageItem{Ellipsis: true})
		}
		items = append(items, PageItem{Page: p, Current: p == current})
		prev = p
	}
	return items
}
