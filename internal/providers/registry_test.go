package providers

import (
	"testing"

	"videogen/internal/domain"
)

func registryWithEnv(env map[string]string) *Registry {
	return NewRegistry().WithEnvLookup(func(key string) string { return env[key] })
}

func TestListFlagsCredentialProviders(t *testing.T) {
	r := registryWithEnv(map[string]string{"HAILUO_API_KEY": "secret"})

	infos := r.List()
	if len(infos) != 5 {
		t.Fatalf("len = %d, want 5", len(infos))
	}
	byKey := make(map[string]Info, len(infos))
	for _, info := range infos {
		byKey[info.Key] = info
	}

	if byKey["gemini"].Configured != nil {
		t.Fatalf("gemini needs no credential, configured flag must be absent")
	}
	if got := byKey["hailuo"].Configured; got == nil || !*got {
		t.Fatalf("hailuo configured = %v, want true", got)
	}
	if got := byKey["sora2"].Configured; got == nil || *got {
		t.Fatalf("sora2 configured = %v, want false", got)
	}
}

func TestLookup(t *testing.T) {
	r := registryWithEnv(nil)
	p, ok := r.Lookup(domain.ProviderSora2)
	if !ok || !p.RequiresCredential || p.EnvVar != "SORA2_API_KEY" {
		t.Fatalf("Lookup(sora2) = %+v, %v", p, ok)
	}
	if _, ok := r.Lookup("unknown"); ok {
		t.Fatalf("Lookup(unknown) must fail")
	}
}

func TestResolvePrecedence(t *testing.T) {
	r := registryWithEnv(map[string]string{"SORA2_API_KEY": "env-key"})

	// Request-scoped key wins over the environment.
	key, ok := r.Resolve(domain.ProviderSora2, map[string]string{"sora2": "request-key"})
	if !ok || key != "request-key" {
		t.Fatalf("Resolve() = %q, %v, want request-key", key, ok)
	}

	key, ok = r.Resolve(domain.ProviderSora2, nil)
	if !ok || key != "env-key" {
		t.Fatalf("Resolve() = %q, %v, want env-key", key, ok)
	}

	if _, ok := r.Resolve(domain.ProviderHailuo, nil); ok {
		t.Fatalf("hailuo without any key must not resolve")
	}
	if _, ok := r.Resolve(domain.ProviderHailuo, map[string]string{"hailuo": "k"}); !ok {
		t.Fatalf("request-scoped key must unblock hailuo")
	}

	// Credential-free providers always resolve.
	if _, ok := r.Resolve(domain.ProviderGemini, nil); !ok {
		t.Fatalf("gemini must resolve without credentials")
	}
}
