package handlers

import "net/http"

// StatusTest is a diagnostic endpoint reporting store connectivity.
func (a *App) StatusTest(w http.ResponseWriter, r *http.Request) {
	response := map[string]any{
		"backend":           "running",
		"store":             a.StoreKind,
		"connection_status": "connected",
	}
	if a.PingStore != nil {
		if err := a.PingStore(r.Context()); err != nil {
			response["connection_status"] = "not connected"
			a.Logger.Warn().Err(err).Msg("diagnostic store ping failed")
		}
	}
	a.json(w, http.StatusOK, response)
}
