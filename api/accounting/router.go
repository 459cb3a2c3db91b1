package accounting

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"AcctEventSQL/api"
	"AcctEventSQL/api/constants"
)

// NewRouter wires the accounting endpoints. Static assets from staticDir,
// when it exists, are served for every other path.
func NewRouter(h *Handlers, staticDir string, maxBodyMB int) *mux.Router {
	router := mux.NewRouter()
	router.Use(api.AuditMiddleware, api.BodyLimitMiddleware(maxBodyMB))

	router.HandleFunc(constants.RouteExtract, h.Extract).Methods(http.MethodPost)
	router.HandleFunc(constants.RouteGenerateSQL, h.GenerateSQL).Methods(http.MethodPost)
	router.HandleFunc(constants.RouteDeriveKeys, h.DeriveKeys).Methods(http.MethodPost)
	router.HandleFunc(constants.RouteTemplate, h.Template).Methods(http.MethodGet)
	router.HandleFunc(constants.RouteHealth, h.Health).Methods(http.MethodGet)

	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		api.RespondWithError(w, http.StatusMethodNotAllowed, constants.ErrMethodNotAllowed)
	})

	if info, err := os.Stat(staticDir); staticDir != "" && err == nil && info.IsDir() {
		router.PathPrefix("/").Handler(http.FileServer(http.Dir(staticDir))).Methods(http.MethodGet, http.MethodHead)
	} else {
		router.NotFoundHandler = api.NotFoundHandler()
	}
	return router
}
