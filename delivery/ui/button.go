package ui

import "strings"

type ButtonVariant string

const (
	ButtonPrimary   ButtonVariant = "primary"
	ButtonSecondary ButtonVariant = "secondary"
	ButtonDanger    ButtonVariant = "danger"
	ButtonOutline   ButtonVariant = "outline"
)

type Size string

const (
	SizeSM Size = "sm"
	SizeMD Size = "md"
	SizeLG Size = "lg"
)

var spinnerColors = map[ButtonVariant]string{
	ButtonPrimary:   "white",
	ButtonSecondary: "gray",
	ButtonDanger:    "white",
	ButtonOutline:   "blue",
}

// Button configures a <button>. A loading button is always disabled and
// shows LoadingLabel, when set, instead of Label.
type Button struct {
	Label        string
	Type         string
	Variant      ButtonVariant
	Size         Size
	FullWidth    bool
	Disabled     bool
	Loading      bool
	LoadingLabel string
	Name         string
	Value        string
	FormAction   string
}

func (b Button) variant() ButtonVariant {
	if _, ok := spinnerColors[b.Variant]; ok {
		return b.Variant
	}
	return ButtonPrimary
}

func (b Button) size() Size {
	switch b.Size {
	case SizeSM, SizeLG:
		return b.Size
	}
	return SizeMD
}

func (b Button) Classes() string {
	classes := []string{"btn", "btn-" + string(b.variant()), "btn-" + string(b.size())}
	if b.FullWidth {
		classes = append(classes, "btn-block")
	}
	return strings.Join(classes, " ")
}

func (b Button) ButtonType() string {
	if b.Type == "" {
		return "submit"
	}
	return b.Type
}

func (b Button) IsDisabled() bool {
	return b.Disabled || b.Loading
}

func (b Button) Text() string {
	if b.Loading && b.LoadingLabel != "" {
		return b.LoadingLabel
	}
	return b.Label
}

func (b Button) SpinnerColor() string {
	return spinnerColors[b.variant()]
}
