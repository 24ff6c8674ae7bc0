package ui

import (
	"strconv"
	"strings"
)

const defaultSelectPlaceholder = "Select..."

// Input is a labelled text-like field. The hint is hidden while there is an
// error.
type Input struct {
	Label        string
	Name         string
	Type         string
	Value        string
	Placeholder  string
	Hint         string
	Error        string
	Required     bool
	Disabled     bool
	AutoComplete string
}

func (i Input) InputType() string {
	if i.Type == "" {
		return "text"
	}
	return i.Type
}

func (i Input) ShowHint() bool {
	return i.Hint != "" && i.Error == ""
}

func (i Input) Classes() string {
	return fieldClasses(i.Error, i.Disabled)
}

type DateInput struct {
	Label    string
	Name     string
	Value    string
	Error    string
	Required bool
	Disabled bool
}

func (d DateInput) Classes() string {
	return fieldClasses(d.Error, d.Disabled)
}

type Option struct {
	Value string
	Label string
}

// Select is a drop-down whose first, empty option shows Placeholder.
type Select struct {
	Label       string
	Name        string
	Options     []Option
	Selected    string
	Placeholder string
	Error       string
	Required    bool
	Disabled    bool
}

func (s Select) PlaceholderText() string {
	if s.Placeholder == "" {
		return defaultSelectPlaceholder
	}
	return s.Placeholder
}

func (s Select) IsSelected(value string) bool {
	return s.Selected == value
}

func (s Select) Classes() string {
	return fieldClasses(s.Error, s.Disabled)
}

func fieldClasses(errMsg string, disabled bool) string {
	classes := []string{"field-control"}
	if errMsg != "" {
		classes = append(classes, "is-invalid")
	}
	if disabled {
		classes = append(classes, "is-disabled")
	}
	return strings.Join(classes, " ")
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
