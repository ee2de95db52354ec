package freetext

import (
	"testing"

	"github.com/mestredagrelha/grelha/internal/reconcile"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Contra Filé", "contra file"},
		{"Frango c/ Bacon", "frango c bacon"},
		{"  Coração   de  Galinha ", "coracao de galinha"},
		{"produto_inexistente", "produtoinexistente"},
		{"!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Normalize(tt.in); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	reg := reconcile.DefaultCatalog()

	tests := []struct {
		phrase string
		wantID string
		found  bool
	}{
		{"queijo", "queijo", true},
		{"QUEIJO C/ MEL", "queijo_mel", true},
		{"mel", "queijo_mel", true},
		{"lingua", "lingua", true},
		{"Língua", "lingua", true},
		{"coracao", "coracao", true},
		{"contra", "contra_file", true},
		// Substring containment, first in registry order.
		{"frango", "frango_bacon", true},
		{"bacon", "frango_bacon", true},
		{"carne bacon", "carne_bacon", true},
		{"carne c bacon", "carne_bacon", true},
		{"picanha", "", false},
		{"", "", false},
		{"???", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.phrase, func(t *testing.T) {
			item, ok := Resolve(tt.phrase, reg)
			if ok != tt.found {
				t.Fatalf("Resolve(%q) found = %v, want %v", tt.phrase, ok, tt.found)
			}
			if item.ID != tt.wantID {
				t.Errorf("Resolve(%q) = %q, want %q", tt.phrase, item.ID, tt.wantID)
			}
		})
	}
}

func TestResolve_ByID(t *testing.T) {
	reg, _, err := reconcile.AddItem(reconcile.DefaultCatalog(), "Espeto Especial", 0)
	if err != nil {
		t.Fatalf("AddItem() error = %v", err)
	}
	reg[len(reg)-1].Name = "Especial da Casa"

	item, ok := Resolve("espeto especial", reg)
	if !ok || item.ID != "espeto_especial" {
		t.Errorf("expected match on id, got %+v, %v", item, ok)
	}
}
