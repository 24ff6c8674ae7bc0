package ui

import "strings"

type BadgeVariant string

const (
	BadgeDefault BadgeVariant = "default"
	BadgeSuccess BadgeVariant = "success"
	BadgeWarning BadgeVariant = "warning"
	BadgeDanger  BadgeVariant = "danger"
	BadgeInfo    BadgeVariant = "info"
)

// Badge is a small status label. Size is sm or md.
type Badge struct {
	Label   string
	Variant BadgeVariant
	Size    Size
	Rounded bool
}

func (b Badge) Classes() string {
	variant := b.Variant
	switch variant {
	case BadgeSuccess, BadgeWarning, BadgeDanger, BadgeInfo:
	default:
		variant = BadgeDefault
	}
	size := SizeMD
	if b.Size == SizeSM {
		size = SizeSM
	}

	classes := []string{"badge", "badge-" + string(variant), "badge-" + string(size)}
	if b.Rounded {
		classes = append(classes, "badge-pill")
	}
	return strings.Join(classes, " ")
}

type status struct {
	label   string
	variant BadgeVariant
}

var statuses = []status{
	1: {"Active", BadgeSuccess},
	2: {"In Maintenance", BadgeWarning},
	3: {"Out of Service", BadgeDanger},
	4: {"Retired", BadgeDefault},
}

// StatusBadge maps an equipment status id to its badge. Unknown ids render
// as an info badge labelled "Unknown".
func StatusBadge(id int) Badge {
	if id > 0 && id < len(statuses) {
		s := statuses[id]
		return Badge{Label: s.label, Variant: s.variant, Size: SizeSM, Rounded: true}
	}
	return Badge{Label: "Unknown", Variant: BadgeInfo, Size: SizeSM, Rounded: true}
}

// StatusOptions lists the known statuses for a Select.
func StatusOptions() []Option {
	opts := make([]Option, 0, len(statuses)-1)
	for id := 1; id < len(statuses); id++ {
		opts = append(opts, Option{Value: itoa(id), Label: statuses[id].label})
	}
	return opts
}
