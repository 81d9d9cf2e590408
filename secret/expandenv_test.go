package secret

import "testing"

func TestExpandEnvStrict(t *testing.T) {
	t.Setenv("CATALOG_EXPAND_SET", "value")

	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"no variables", "plain", "plain", false},
		{"set variable", "${CATALOG_EXPAND_SET}", "value", false},
		{"embedded", "pre-${CATALOG_EXPAND_SET}-post", "pre-value-post", false},
		{"missing variable", "${CATALOG_EXPAND_UNSET}", "", true},
		{"escaped dollar", "cost: $$5", "cost: $5", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExpandEnvStrict(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ExpandEnvStrict(%q) = %q, want error", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ExpandEnvStrict(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ExpandEnvStrict(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
