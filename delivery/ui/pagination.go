package ui

const maxVisiblePages = 5

// Window returns the page numbers to show for current out of total: at most
// five consecutive pages, centered on current where possible and shifted,
// not shrunk, at either edge. It is empty when total <= 0.
func Window(current, total int) []int {
	if total <= 0 {
		return nil
	}
	current = clamp(current, 1, total)

	start := max(1, current-maxVisiblePages/2)
	end := min(total, start+maxVisiblePages-1)
	if end-start < maxVisiblePages-1 {
		start = max(1, end-maxVisiblePages+1)
	}

	pages := make([]int, 0, end-start+1)
	for p := start; p <= end; p++ {
		pages = append(pages, p)
	}
	return pages
}

type PageLink struct {
	Number  int
	Href    string
	Current bool
}

// Pagination is the view of the pagination control.
type Pagination struct {
	Pages        []PageLink
	Current      int
	Total        int
	PrevHref     string
	NextHref     string
	PrevDisabled bool
	NextDisabled bool
}

// NewPagination builds the control for current out of total pages, using
// href to link each page. current is clamped into [1, total].
func NewPagination(current, total int, href func(page int) string) Pagination {
	current = clamp(current, 1, max(total, 1))
	p := Pagination{Current: current, Total: total}
	for _, n := range Window(current, total) {
		p.Pages = append(p.Pages, PageLink{Number: n, Href: href(n), Current: n == current})
	}

	p.PrevDisabled = total <= 0 || current <= 1
	p.NextDisabled = total <= 0 || current >= total
	if !p.PrevDisabled {
		p.PrevHref = href(current - 1)
	}
	if !p.NextDisabled {
		p.NextHref = href(current + 1)
	}
	return p
}

// PageCount is the number of pages needed for n items.
func PageCount(n, size int) int {
	if n <= 0 || size <= 0 {
		return 0
	}
	return (n + size - 1) / size
}

// Paginate returns the items on page, the page actually used after clamping
// it into range, and the page count. An empty list yields page 1 of 0.
func Paginate[T any](items []T, page, size int) ([]T, int, int) {
	if size <= 0 {
		size = len(items)
	}
	pages := PageCount(len(items), size)
	if pages == 0 {
		return nil, 1, 0
	}
	page = clamp(page, 1, pages)

	start := (page - 1) * size
	end := min(start+size, len(items))
	return items[start:end], page, pages
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
