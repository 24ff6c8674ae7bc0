package ui

import "strings"

// TableHeader is one column heading. A sortable header links to Href.
type TableHeader struct {
	Label    string
	Sortable bool
	Href     string
}

func (h TableHeader) Classes() string {
	if h.Sortable {
		return "table-header is-sortable"
	}
	return "table-header"
}

type Table struct {
	Headers []TableHeader
	NoHover bool
}

func (t Table) RowClasses() string {
	if t.NoHover {
		return "table-row"
	}
	return "table-row row-hover"
}

// Modal is a dialog rendered over the page. Closing it navigates to
// CloseHref; Actions are submitted to ActionURL.
type Modal struct {
	Open      bool
	Title     string
	Body      string
	CloseHref string
	ActionURL string
	CSRFToken string
	Actions   []Button
}

// Skeleton is a stack of Count loading placeholders. Height and Width are
// CSS lengths.
type Skeleton struct {
	Count  int
	Height string
	Width  string
	Circle bool
}

func (s Skeleton) Items() []int {
	n := s.Count
	if n < 1 {
		n = 1
	}
	return make([]int, n)
}

func (s Skeleton) Classes() string {
	classes := []string{"skeleton"}
	if s.Circle {
		classes = append(classes, "skeleton-circle")
	}
	return strings.Join(classes, " ")
}

func (s Skeleton) HeightOrDefault() string {
	if s.Height == "" {
		return "1rem"
	}
	return s.Height
}

func (s Skeleton) WidthOrDefault() string {
	if s.Width == "" {
		return "100%"
	}
	return s.Width
}

type EmptyState struct {
	Title      string
	Message    string
	Action     string
	ActionHref string
}

func (e EmptyState) HasAction() bool {
	return e.Action != "" && e.ActionHref != ""
}
