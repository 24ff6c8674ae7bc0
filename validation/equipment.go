package validation

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Equipment is an accepted equipment record. Optional fields are nil when
// they were not supplied.
type Equipment struct {
	SerialNumber    string
	Make            string
	Model           string
	Location        *string
	StatusID        *int
	Notes           *string
	PurchasedDate   *time.Time
	WarrantyExpires *time.Time
}

type equipmentInput struct {
	SerialNumber    string  `json:"serialNumber" validate:"required,min=3"`
	Make            string  `json:"make" validate:"required,min=2"`
	Model           string  `json:"model" validate:"required,min=2"`
	Location        *string `json:"location" validate:"omitnil,min=1"`
	Notes           *string `json:"notes"`
	PurchasedDate   string  `json:"purchasedDate" validate:"omitempty,isodate"`
	WarrantyExpires string  `json:"warrantyExpires" validate:"omitempty,isodate"`
}

var equipmentMessages = messages{
	"serialNumber": {
		"required": "Serial number is required",
		"min":      "Serial number must be at least 3 characters",
	},
	"make": {
		"required": "Make is required",
		"min":      "Make must be at least 2 characters",
	},
	"model": {
		"required": "Model is required",
		"min":      "Model must be at least 2 characters",
	},
	"location": {
		"min": "Location cannot be empty if provided",
	},
	"purchasedDate": {
		"isodate": "Invalid date format",
	},
	"warrantyExpires": {
		"isodate":        "Invalid date format",
		"after_purchase": "Warranty expiration must be after purchase date",
	},
}

const (
	statusNotNumber = "Status must be a number"
	statusNotWhole  = "Status must be a whole number"
)

// warrantyAfterPurchase runs after the field rules. It only fires when both
// dates are present and well formed.
func warrantyAfterPurchase(sl validator.StructLevel) {
	in := sl.Current().Interface().(equipmentInput)
	if in.PurchasedDate == "" || in.WarrantyExpires == "" {
		return
	}

	purchased, err := time.Parse(DateLayout, in.PurchasedDate)
	if err != nil {
		return
	}
	warranty, err := time.Parse(DateLayout, in.WarrantyExpires)
	if err != nil {
		return
	}

	if !warranty.After(purchased) {
		sl.ReportError(in.WarrantyExpires, "warrantyExpires", "WarrantyExpires", "after_purchase", "")
	}
}

// ValidateEquipment trims and checks an equipment draft.
func ValidateEquipment(d Draft) (Equipment, error) {
	errs := Errors{}

	in := equipmentInput{
		SerialNumber: strings.TrimSpace(d.text("serialNumber", errs)),
		Make:         strings.TrimSpace(d.text("make", errs)),
		Model:        strings.TrimSpace(d.text("model", errs)),
		Location:     trimmed(d.optionalText("location", errs)),
		Notes:        trimmed(d.optionalText("notes", errs)),
	}
	if p := trimmed(d.optionalText("purchasedDate", errs)); p != nil {
		in.PurchasedDate = *p
	}
	if w := trimmed(d.optionalText("warrantyExpires", errs)); w != nil {
		in.WarrantyExpires = *w
	}
	status := d.number("statusId", statusNotNumber, statusNotWhole, errs)

	collect(in, equipmentMessages, errs)

	if err := errs.err(); err != nil {
		return Equipment{}, err
	}

	out := Equipment{
		SerialNumber: in.SerialNumber,
		Make:         in.Make,
		Model:        in.Model,
		Location:     in.Location,
		StatusID:     status,
		Notes:        in.Notes,
	}
	if in.PurchasedDate != "" {
		t, _ := time.Parse(DateLayout, in.PurchasedDate)
		out.PurchasedDate = &t
	}
	if in.WarrantyExpires != "" {
		t, _ := time.Parse(DateLayout, in.WarrantyExpires)
		out.WarrantyExpires = &t
	}
	return out, nil
}
