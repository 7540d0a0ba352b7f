package providers

import (
	"os"
	"strings"

	"videogen/internal/domain"
)

// Provider describes one catalog entry: a named backend, whether it needs a
// credential, and which environment variable supplies it.
type Provider struct {
	Key                domain.Provider
	Name               string
	RequiresCredential bool
	EnvVar             string
}

// Info is the client-facing view of a provider. Configured is only set for
// credential-requiring providers and reflects environment credentials alone;
// request-scoped keys are per-call and never show up here.
type Info struct {
	Key        string `json:"key"`
	Name       string `json:"name"`
	Configured *bool  `json:"configured,omitempty"`
}

// Registry is the static catalog of video generation backends plus
// credential resolution.
type Registry struct {
	catalog   []Provider
	lookupEnv func(string) string
}

// NewRegistry builds the default catalog reading credentials from the
// process environment.
func NewRegistry() *Registry {
	return &Registry{
		catalog: []Provider{
			{Key: domain.ProviderGemini, Name: "Gemini AI"},
			{Key: domain.ProviderWan21, Name: "WAN 2.1"},
			{Key: domain.ProviderGrok, Name: "Grok AI"},
			{Key: domain.ProviderHailuo, Name: "Hailuo AI", RequiresCredential: true, EnvVar: "HAILUO_API_KEY"},
			{Key: domain.ProviderSora2, Name: "Sora 2", RequiresCredential: true, EnvVar: "SORA2_API_KEY"},
		},
		lookupEnv: os.Getenv,
	}
}

// WithEnvLookup overrides the environment accessor. Used by tests.
func (r *Registry) WithEnvLookup(lookup func(string) string) *Registry {
	r.lookupEnv = lookup
	return r
}

// List returns the catalog with a configured flag per credential-requiring
// provider.
func (r *Registry) List() []Info {
	infos := make([]Info, 0, len(r.catalog))
	for _, p := range r.catalog {
		info := Info{Key: string(p.Key), Name: p.Name}
		if p.RequiresCredential {
			configured := r.envCredential(p) != ""
			info.Configured = &configured
		}
		infos = append(infos, info)
	}
	return infos
}

// Lookup returns the catalog entry for a provider key.
func (r *Registry) Lookup(key domain.Provider) (Provider, bool) {
	for _, p := range r.catalog {
		if p.Key == key {
			return p, true
		}
	}
	return Provider{}, false
}

// Resolve returns the credential for a provider. Request-scoped keys take
// precedence over the environment. The resolved value must never be logged.
// For providers that require no credential it returns ok with an empty key.
func (r *Registry) Resolve(key domain.Provider, requestKeys map[string]string) (string, bool) {
	p, ok := r.Lookup(key)
	if !ok {
		return "", false
	}
	if v := strings.TrimSpace(requestKeys[string(key)]); v != "" {
		return v, true
	}
	if v := r.envCredential(p); v != "" {
		return v, true
	}
	return "", !p.RequiresCredential
}

func (r *Registry) envCredential(p Provider) string {
	if p.EnvVar == "" {
		return ""
	}
	return strings.TrimSpace(r.lookupEnv(p.EnvVar))
}
