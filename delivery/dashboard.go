package delivery

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"equipchain-web/delivery/model"
	"equipchain-web/delivery/ui"
	"equipchain-web/equipment"
)

const (
	msgListFailed   = "Equipment could not be loaded. Please try again."
	msgDeleteFailed = "Could not delete equipment."
)

var dashboardHeaders = []ui.TableHeader{
	{Label: "Serial Number"},
	{Label: "Make"},
	{Label: "Model"},
	{Label: "Location"},
	{Label: "Status"},
	{Label: "Purchased"},
	{Label: "Warranty"},
	{Label: ""},
}

func dashboardHref(page int) string {
	return "/dashboard?page=" + strconv.Itoa(page)
}

func pageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil {
		return 1
	}
	return page
}

func equipmentRow(rec equipment.Record, page int) model.EquipmentRow {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("confirm", rec.ID.String())

	row := model.EquipmentRow{
		ID:           rec.ID.String(),
		SerialNumber: rec.SerialNumber,
		Make:         rec.Make,
		Model:        rec.Model,
		Status:       ui.StatusBadge(rec.StatusID),
		ConfirmHref:  "/dashboard?" + q.Encode(),
	}
	if rec.Location != nil {
		row.Location = *rec.Location
	}
	if rec.PurchasedDate != nil {
		row.PurchasedDate = *rec.PurchasedDate
	}
	if rec.WarrantyExpires != nil {
		row.WarrantyExpires = *rec.WarrantyExpires
	}
	return row
}

// deleteModal asks to confirm deleting the record with id. It stays closed
// when id does not name a listed record.
func deleteModal(records []equipment.Record, id string, page int) ui.Modal {
	target, err := uuid.Parse(id)
	if err != nil {
		return ui.Modal{}
	}
	for _, rec := range records {
		if rec.ID != target {
			continue
		}
		return ui.Modal{
			Open:      true,
			Title:     "Delete equipment",
			Body:      "Delete " + rec.SerialNumber + " (" + rec.Make + " " + rec.Model + ")? This cannot be undone.",
			CloseHref: dashboardHref(page),
			ActionURL: "/dashboard/equipment/" + rec.ID.String() + "/delete",
			Actions: []ui.Button{
				{Label: "Delete", Type: "submit", Variant: ui.ButtonDanger},
			},
		}
	}
	return ui.Modal{}
}

// dashboardHandler lists the organization's equipment one page at a time.
func (h *HTTPEndpoint) dashboardHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	data := model.DashboardPage{
		Layout: h.layout(r, "Dashboard"),
		Table:  ui.Table{Headers: dashboardHeaders},
		Empty: ui.EmptyState{
			Title:      "No equipment yet",
			Message:    "Add your first piece of equipment to start tracking it.",
			Action:     "Add equipment",
			ActionHref: "/dashboard/equipment/new",
		},
		NewButton: ui.Button{Label: "Add equipment"},
	}
	if r.URL.Query().Get("error") == "delete" {
		data.Banner = msgDeleteFailed
	}

	token, ok := h.bearer(w, r)
	if !ok {
		return
	}

	records, err := h.app.Equipment().List(ctx, token)
	if errors.Is(err, equipment.ErrUnauthorized) {
		h.expireSession(w, r)
		return
	}
	if err != nil {
		h.app.Logger().Error(ctx, "failed to list equipment", "error", err)
		data.Banner = msgListFailed
		data.Unavailable = true
		data.Loading = ui.Skeleton{Count: 5, Height: "2.5rem"}
		h.render(w, r, http.StatusBadGateway, "dashboard", data)
		return
	}

	rows, page, pages := ui.Paginate(records, pageParam(r), h.app.PageSize())
	data.Total = len(records)
	for _, rec := range rows {
		data.Rows = append(data.Rows, equipmentRow(rec, page))
	}
	data.Pagination = ui.NewPagination(page, pages, dashboardHref)
	if id := r.URL.Query().Get("confirm"); id != "" {
		data.Modal = deleteModal(records, id, page)
		data.Modal.CSRFToken = data.CSRFToken
	}

	h.render(w, r, http.StatusOK, "dashboard", data)
}

// bearer returns the stored token. Without one the session is dropped and
// the user sent to the login page.
func (h *HTTPEndpoint) bearer(w http.ResponseWriter, r *http.Request) (string, bool) {
	token, err := h.app.Session().Token(r.Context())
	if err != nil {
		h.app.Logger().Warn(r.Context(), "no usable token for equipment request", "error", err)
		h.expireSession(w, r)
		return "", false
	}
	return token, true
}

// expireSession logs the user out after the API refused their token.
func (h *HTTPEndpoint) expireSession(w http.ResponseWriter, r *http.Request) {
	h.app.Logger().Info(r.Context(), "credentials rejected, logging out")
	h.app.Session().Logout(r.Context())
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
