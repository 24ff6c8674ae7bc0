// Package ui holds the configuration of the presentational components the
// page templates render: buttons, badges, form fields, tables, modals,
// skeletons, empty states and pagination. Each type is plain data plus the
// derived class names and flags the templates need.
package ui
