package reconcile

import (
	"errors"
	"testing"

	"github.com/mestredagrelha/grelha/internal/models"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Espeto de Alho", "espeto_de_alho"},
		{"  Coração  ", "coracao"},
		{"Frango c/ Bacon", "frango_c_bacon"},
		{"Queijo   c/ Mel", "queijo_c_mel"},
		{"Kafta #1!", "kafta_1"},
		{"***", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.name); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestAddItem_DuplicateNamesGetSuffix(t *testing.T) {
	reg := DefaultCatalog()

	reg, first, err := AddItem(reg, "Espeto de Alho", 0)
	if err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	reg, second, err := AddItem(reg, "Espeto de Alho", 0)
	if err != nil {
		t.Fatalf("second add failed: %v", err)
	}
	_, third, err := AddItem(reg, "Espeto de Alho", 0)
	if err != nil {
		t.Fatalf("third add failed: %v", err)
	}

	if first.ID != "espeto_de_alho" {
		t.Errorf("first id = %q", first.ID)
	}
	if second.ID != "espeto_de_alho_1" {
		t.Errorf("second id = %q", second.ID)
	}
	if third.ID != "espeto_de_alho_2" {
		t.Errorf("third id = %q", third.ID)
	}
}

func TestAddItem_CollidesWithCatalog(t *testing.T) {
	_, item, err := AddItem(DefaultCatalog(), "Queijo", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.ID != "queijo_1" {
		t.Errorf("expected queijo_1, got %q", item.ID)
	}
	if item.Stock != 3 {
		t.Errorf("expected initial stock 3, got %d", item.Stock)
	}
}

func TestAddItem_Appends(t *testing.T) {
	reg := models.Registry{{ID: "misto", Name: "Misto"}}
	next, item, err := AddItem(reg, "Kafta", -4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(reg) != 1 {
		t.Error("AddItem modified its input")
	}
	if len(next) != 2 || next[1].ID != item.ID {
		t.Fatalf("expected item appended last, got %+v", next)
	}
	if item.Stock != 0 {
		t.Errorf("expected negative initial stock clamped to 0, got %d", item.Stock)
	}
}

func TestAddItem_EmptyName(t *testing.T) {
	_, _, err := AddItem(nil, "   ", 0)
	if !errors.Is(err, ErrEmptyName) {
		t.Errorf("expected ErrEmptyName, got %v", err)
	}
}

func TestAddItem_UnsluggableName(t *testing.T) {
	_, item, err := AddItem(nil, "???", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.ID != "item" {
		t.Errorf("expected fallback id, got %q", item.ID)
	}
}
