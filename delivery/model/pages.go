// Package model holds the data handed to the page templates.
package model

import "equipchain-web/delivery/ui"

// Layout is shared by every page: the title, the header's user area and
// the token every form posts back.
type Layout struct {
	Title     string
	UserEmail string
	CSRFToken string
}

func (l Layout) Authenticated() bool {
	return l.UserEmail != ""
}

type HomePage struct {
	Layout
}

type LoginPage struct {
	Layout
	Banner         string
	Email          ui.Input
	Password       ui.Input
	OrganizationID ui.Input
	Submit         ui.Button
}

type RegisterPage struct {
	Layout
	Banner          string
	Email           ui.Input
	Password        ui.Input
	ConfirmPassword ui.Input
	OrganizationID  ui.Input
	Submit          ui.Button
}

// EquipmentRow is one formatted line of the dashboard table.
type EquipmentRow struct {
	ID              string
	SerialNumber    string
	Make            string
	Model           string
	Location        string
	Status          ui.Badge
	PurchasedDate   string
	WarrantyExpires string
	ConfirmHref     string
}

type DashboardPage struct {
	Layout
	Banner      string
	Total       int
	Table       ui.Table
	Rows        []EquipmentRow
	Pagination  ui.Pagination
	Empty       ui.EmptyState
	Loading     ui.Skeleton
	Unavailable bool
	Modal       ui.Modal
	NewButton   ui.Button
}

type EquipmentFormPage struct {
	Layout
	Banner          string
	SerialNumber    ui.Input
	Make            ui.Input
	Model           ui.Input
	Location        ui.Input
	Status          ui.Select
	Notes           ui.Input
	PurchasedDate   ui.DateInput
	WarrantyExpires ui.DateInput
	Submit          ui.Button
}

type ErrorPage struct {
	Layout
	Reason string
}
