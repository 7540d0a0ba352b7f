package handlers

import "net/http"

// ProvidersList serves the provider catalog with a configured-credential
// flag per credential-requiring provider.
func (a *App) ProvidersList(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]any{"providers": a.Providers.List()})
}
