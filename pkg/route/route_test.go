package route

import (
	"strings"
	"testing"
)

func TestTemplateResolver_Resolve(t *testing.T) {
	tests := []struct {
		name    string
		route   string
		params  map[string]any
		want    string
		wantErr string
	}{
		{
			name:   "no placeholders",
			route:  "/api/items",
			params: nil,
			want:   "/api/items",
		},
		{
			name:   "single placeholder",
			route:  "/api/{collection}",
			params: map[string]any{"collection": "items"},
			want:   "/api/items",
		},
		{
			name:   "multiple placeholders",
			route:  "/api/{tenant}/{collection}",
			params: map[string]any{"tenant": "acme", "collection": "items"},
			want:   "/api/acme/items",
		},
		{
			name:   "numeric parameter",
			route:  "/api/items/{page}",
			params: map[string]any{"page": 2},
			want:   "/api/items/2",
		},
		{
			name:   "value is path escaped",
			route:  "/api/{name}",
			params: map[string]any{"name": "a b/c"},
			want:   "/api/a%20b%2Fc",
		},
		{
			name:   "extra parameters ignored",
			route:  "/api/items",
			params: map[string]any{"unused": 1},
			want:   "/api/items",
		},
		{
			name:    "missing parameter",
			route:   "/api/{collection}",
			params:  map[string]any{},
			wantErr: "unresolved route parameters: collection",
		},
		{
			name:    "one of two missing",
			route:   "/api/{tenant}/{collection}",
			params:  map[string]any{"tenant": "acme"},
			wantErr: "unresolved route parameters: collection",
		},
	}

	resolver := NewTemplateResolver("")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolver.Resolve(tt.route, tt.params)
			if tt.wantErr != "" {
				if err == nil {
					t.Fatalf("expected error %q, got none", tt.wantErr)
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("expected error %q, got %q", tt.wantErr, err.Error())
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTemplateResolver_CustomPattern(t *testing.T) {
	resolver := NewTemplateResolver(`:(\w+)`)

	got, err := resolver.Resolve("/api/:collection/:id", map[string]any{
		"collection": "items",
		"id":         7,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "/api/items/7" {
		t.Errorf("got %q, want /api/items/7", got)
	}
}

func TestTemplateResolver_InvalidPattern(t *testing.T) {
	resolver := NewTemplateResolver(`([`)

	_, err := resolver.Resolve("/api/items", nil)
	if err == nil {
		t.Fatal("expected an error for an invalid pattern")
	}
	if !strings.Contains(err.Error(), "invalid route parameter pattern") {
		t.Errorf("unexpected error: %v", err)
	}
}
