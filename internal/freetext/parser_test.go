package freetext

import (
	"errors"
	"testing"
)

func TestParseFragment(t *testing.T) {
	tests := []struct {
		fragment string
		want     Fragment
	}{
		{"2 espeto de queijo", Fragment{Name: "queijo", Quantity: 2}},
		{"dois queijo", Fragment{Name: "queijo", Quantity: 2}},
		{"três frango", Fragment{Name: "frango", Quantity: 3}},
		{"TRES frango", Fragment{Name: "frango", Quantity: 3}},
		{"duas unidades de Coração", Fragment{Name: "Coração", Quantity: 2}},
		{"10 de carne", Fragment{Name: "carne", Quantity: 10}},
		{"quatorze espetos misto", Fragment{Name: "misto", Quantity: 14}},
		{"catorze un cupim", Fragment{Name: "cupim", Quantity: 14}},
		{"5 pacotes de queijo", Fragment{Name: "queijo", Quantity: 50, Packs: true}},
		{"uma caixa de frango c/ bacon", Fragment{Name: "frango c/ bacon", Quantity: 10, Packs: true}},
		{"Queijo 2", Fragment{Name: "Queijo", Quantity: 2}},
		{"Frango c/ Bacon vinte", Fragment{Name: "Frango c/ Bacon", Quantity: 20}},
		{"zero cupim", Fragment{Name: "cupim", Quantity: 0}},
		{"2 un", Fragment{Name: "un", Quantity: 2}},
		{"3 de", Fragment{Name: "de", Quantity: 3}},
		{"  7   espetos   de   lingua  ", Fragment{Name: "lingua", Quantity: 7}},
	}

	for _, tt := range tests {
		t.Run(tt.fragment, func(t *testing.T) {
			got, err := ParseFragment(tt.fragment)
			if err != nil {
				t.Fatalf("ParseFragment(%q) error = %v", tt.fragment, err)
			}
			if got != tt.want {
				t.Errorf("ParseFragment(%q) = %+v, want %+v", tt.fragment, got, tt.want)
			}
		})
	}
}

func TestParseFragment_Unparseable(t *testing.T) {
	fragments := []string{
		"",
		"queijo",
		"7",
		"muito queijo",
		"queijo bastante",
		"99999999999999999999 queijo",
	}

	for _, f := range fragments {
		t.Run(f, func(t *testing.T) {
			if _, err := ParseFragment(f); !errors.Is(err, ErrUnparseable) {
				t.Errorf("ParseFragment(%q) error = %v, want ErrUnparseable", f, err)
			}
		})
	}
}

func TestParser_CustomLexicon(t *testing.T) {
	lex, err := DefaultLexicon().WithPackSize(12)
	if err != nil {
		t.Fatalf("WithPackSize() error = %v", err)
	}
	lex, err = lex.WithNumbers(map[string]int{"Dúzia": 12, "meia": 6})
	if err != nil {
		t.Fatalf("WithNumbers() error = %v", err)
	}
	p := NewParser(lex)

	tests := []struct {
		fragment string
		want     int
	}{
		{"duzia de misto", 12},
		{"meia queijo", 6},
		{"2 fardos de cupim", 24},
	}
	for _, tt := range tests {
		t.Run(tt.fragment, func(t *testing.T) {
			got, err := p.ParseFragment(tt.fragment)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Quantity != tt.want {
				t.Errorf("quantity = %d, want %d", got.Quantity, tt.want)
			}
		})
	}

	if _, ok := DefaultLexicon().Number("meia"); ok {
		t.Error("extending a lexicon must not change the default")
	}
}

func TestLexicon_Validation(t *testing.T) {
	if _, err := DefaultLexicon().WithPackSize(0); err == nil {
		t.Error("expected error for zero pack size")
	}
	if _, err := DefaultLexicon().WithNumbers(map[string]int{"x": -1}); err == nil {
		t.Error("expected error for negative number word")
	}
	if _, err := DefaultLexicon().WithNumbers(map[string]int{" ": 1}); err == nil {
		t.Error("expected error for empty number word")
	}
}

func TestLexicon_Lookups(t *testing.T) {
	lex := DefaultLexicon()
	if n, ok := lex.Number("Três"); !ok || n != 3 {
		t.Errorf("Number(Três) = %d, %v", n, ok)
	}
	if !lex.IsUnit("ESPETOS") {
		t.Error("expected ESPETOS to be a unit")
	}
	if !lex.IsPack("Embalagens") {
		t.Error("expected Embalagens to be a pack")
	}
	if lex.PackSize() != DefaultPackSize {
		t.Errorf("PackSize() = %d", lex.PackSize())
	}
	var zero Lexicon
	if zero.PackSize() != DefaultPackSize {
		t.Error("zero lexicon should fall back to the default pack size")
	}
}
