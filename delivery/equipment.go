package delivery

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"equipchain-web/delivery/model"
	"equipchain-web/delivery/ui"
	"equipchain-web/equipment"
	"equipchain-web/validation"
)

const msgSaveFailed = "Could not save equipment. Please try again."

var equipmentFields = []string{
	"serialNumber",
	"make",
	"model",
	"location",
	"statusId",
	"notes",
	"purchasedDate",
	"warrantyExpires",
}

func (h *HTTPEndpoint) equipmentFormPage(r *http.Request, values url.Values, errs validation.Errors, banner string) model.EquipmentFormPage {
	input := func(label, name string, required bool) ui.Input {
		return ui.Input{
			Label:    label,
			Name:     name,
			Value:    values.Get(name),
			Error:    errs[name],
			Required: required,
		}
	}

	notes := input("Notes", "notes", false)
	notes.Placeholder = "Anything worth knowing about this item"

	return model.EquipmentFormPage{
		Layout:       h.layout(r, "New equipment"),
		Banner:       banner,
		SerialNumber: input("Serial Number", "serialNumber", true),
		Make:         input("Make", "make", true),
		Model:        input("Model", "model", true),
		Location:     input("Location", "location", false),
		Status: ui.Select{
			Label:    "Status",
			Name:     "statusId",
			Options:  ui.StatusOptions(),
			Selected: values.Get("statusId"),
			Error:    errs["statusId"],
		},
		Notes: notes,
		PurchasedDate: ui.DateInput{
			Label: "Purchased",
			Name:  "purchasedDate",
			Value: values.Get("purchasedDate"),
			Error: errs["purchasedDate"],
		},
		WarrantyExpires: ui.DateInput{
			Label: "Warranty expires",
			Name:  "warrantyExpires",
			Value: values.Get("warrantyExpires"),
			Error: errs["warrantyExpires"],
		},
		Submit: ui.Button{Label: "Save", Type: "submit"},
	}
}

func (h *HTTPEndpoint) equipmentNewHandler(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "equipment_form", h.equipmentFormPage(r, url.Values{}, nil, ""))
}

// equipmentCreateHandler validates the form and stores the record.
func (h *HTTPEndpoint) equipmentCreateHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Failed to parse form", http.StatusBadRequest)
		return
	}

	rec, err := validation.ValidateEquipment(draftFromForm(r.PostForm, equipmentFields...))
	if err != nil {
		errs, _ := fieldErrors(err)
		h.render(w, r, http.StatusUnprocessableEntity, "equipment_form", h.equipmentFormPage(r, r.PostForm, errs, ""))
		return
	}

	token, ok := h.bearer(w, r)
	if !ok {
		return
	}

	_, err = h.app.Equipment().Create(r.Context(), token, rec)
	if errors.Is(err, equipment.ErrUnauthorized) {
		h.expireSession(w, r)
		return
	}
	if err != nil {
		h.app.Logger().Error(r.Context(), "failed to create equipment", "serial_number", rec.SerialNumber, "error", err)
		h.render(w, r, http.StatusBadGateway, "equipment_form", h.equipmentFormPage(r, r.PostForm, nil, msgSaveFailed))
		return
	}

	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// equipmentDeleteHandler removes a record after the modal confirmation. A
// record that is already gone counts as deleted.
func (h *HTTPEndpoint) equipmentDeleteHandler(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		h.notFoundHandler(w, r)
		return
	}

	token, ok := h.bearer(w, r)
	if !ok {
		return
	}

	err = h.app.Equipment().Delete(r.Context(), token, id)
	switch {
	case errors.Is(err, equipment.ErrUnauthorized):
		h.expireSession(w, r)
		return
	case err != nil && !errors.Is(err, equipment.ErrNotFound):
		h.app.Logger().Error(r.Context(), "failed to delete equipment", "id", id, "error", err)
		http.Redirect(w, r, "/dashboard?error=delete", http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}
