package secret

import (
	"context"
	"fmt"
	"testing"
)

// staticProvider resolves refs from a fixed map.
type staticProvider struct {
	name   string
	values map[string]string
}

func (p *staticProvider) Name() string { return p.name }

func (p *staticProvider) Resolve(_ context.Context, ref string) (string, error) {
	v, ok := p.values[ref]
	if !ok {
		return "", fmt.Errorf("unknown ref %q", ref)
	}
	return v, nil
}

func (p *staticProvider) Close() error { return nil }

func newTestResolver(strict bool) *Resolver {
	return NewResolver(strict, &staticProvider{
		name: "vault",
		values: map[string]string{
			"signing-key": "super-secret-signing-key",
			"empty":       "",
		},
	})
}

func TestResolver_ResolveValue(t *testing.T) {
	ctx := context.Background()
	r := newTestResolver(false)

	tests := []struct {
		name    string
		value   string
		want    string
		wantErr bool
	}{
		{"plain value passes through", "hello", "hello", false},
		{"full ref", "secretref:vault:signing-key", "super-secret-signing-key", false},
		{"inline ref", "Bearer secretref:vault:signing-key", "Bearer super-secret-signing-key", false},
		{"unknown provider", "secretref:aws:signing-key", "", true},
		{"unknown ref", "secretref:vault:missing", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.ResolveValue(ctx, tt.value)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ResolveValue(%q) = %q, want error", tt.value, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveValue(%q) error = %v", tt.value, err)
			}
			if got != tt.want {
				t.Errorf("ResolveValue(%q) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestResolver_StrictRejectsEmpty(t *testing.T) {
	ctx := context.Background()

	lenient := newTestResolver(false)
	if _, err := lenient.ResolveValue(ctx, "secretref:vault:empty"); err != nil {
		t.Errorf("lenient resolver error = %v, want nil", err)
	}

	strict := newTestResolver(true)
	if _, err := strict.ResolveValue(ctx, "secretref:vault:empty"); err == nil {
		t.Error("strict resolver accepted empty secret")
	}
}

func TestEnvProvider(t *testing.T) {
	t.Setenv("CATALOG_TEST_SECRET", "from-env")

	r := NewResolver(true, NewEnvProvider())
	got, err := r.ResolveValue(context.Background(), "secretref:env:CATALOG_TEST_SECRET")
	if err != nil {
		t.Fatalf("ResolveValue() error = %v", err)
	}
	if got != "from-env" {
		t.Errorf("ResolveValue() = %q, want from-env", got)
	}

	if _, err := r.ResolveValue(context.Background(), "secretref:env:CATALOG_TEST_UNSET"); err == nil {
		t.Error("unset variable resolved without error")
	}
}

func TestParseSecretRef(t *testing.T) {
	tests := []struct {
		value        string
		wantProvider string
		wantRef      string
		wantOK       bool
	}{
		{"secretref:env:KEY", "env", "KEY", true},
		{"secretref:vault:path/to/key", "vault", "path/to/key", true},
		{"secretref:env:", "", "", false},
		{"secretref::KEY", "", "", false},
		{"plain", "", "", false},
	}

	for _, tt := range tests {
		provider, ref, ok := ParseSecretRef(tt.value)
		if provider != tt.wantProvider || ref != tt.wantRef || ok != tt.wantOK {
			t.Errorf("ParseSecretRef(%q) = (%q, %q, %v), want (%q, %q, %v)",
				tt.value, provider, ref, ok, tt.wantProvider, tt.wantRef, tt.wantOK)
		}
	}
}
