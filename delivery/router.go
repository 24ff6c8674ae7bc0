package delivery

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires every page of the web shell. Only hosts from
// deps.AllowedHosts are served, form posts must carry the CSRF token and
// dashboard routes sit behind deps.SessionMiddleware.
func NewRouter(deps AppDependencies, templates *Templates) http.Handler {
	r := chi.NewRouter()

	h := &HTTPEndpoint{
		app:       deps,
		templates: templates,
	}

	// --- Global Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger(accessLog{log: deps.Logger()}))
	r.Use(middleware.Recoverer)
	r.Use(h.allowHosts(deps.AllowedHosts()))
	r.Use(h.csrfToken)

	// --- Static File Server ---
	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	// --- Public Routes ---
	r.Get("/", h.homeHandler)
	r.Get("/healthz", h.healthHandler)

	// --- Authentication Routes ---
	r.Group(func(r chi.Router) {
		r.Use(h.verifySameOrigin)
		r.Get("/login", h.loginHandler)
		r.Post("/login", h.loginSubmitHandler)
		r.Get("/register", h.registrationHandler)
		r.Post("/register", h.registrationSubmitHandler)
		r.Post("/logout", h.logoutHandler)
	})

	// --- Protected Routes ---
	r.Group(func(r chi.Router) {
		r.Use(h.verifySameOrigin)
		r.Use(deps.SessionMiddleware)
		r.Get("/dashboard", h.dashboardHandler)
		r.Get("/dashboard/equipment/new", h.equipmentNewHandler)
		r.Post("/dashboard/equipment", h.equipmentCreateHandler)
		r.Post("/dashboard/equipment/{id}/delete", h.equipmentDeleteHandler)
	})

	r.NotFound(h.notFoundHandler)
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		h.errorPage(w, r, http.StatusMethodNotAllowed, "Method not allowed.")
	})

	return r
}
