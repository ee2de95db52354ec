package freetext

import (
	"fmt"
	"maps"
)

// DefaultPackSize is how many units one pack word stands for.
const DefaultPackSize = 10

var defaultNumbers = map[string]int{
	"zero": 0, "um": 1, "uma": 1, "dois": 2, "duas": 2, "tres": 3,
	"quatro": 4, "cinco": 5, "seis": 6, "sete": 7, "oito": 8, "nove": 9,
	"dez": 10, "onze": 11, "doze": 12, "treze": 13, "catorze": 14, "quatorze": 14,
	"quinze": 15, "dezesseis": 16, "dezessete": 17, "dezoito": 18, "dezenove": 19,
	"vinte": 20,
}

var defaultUnits = []string{"espeto", "espetos", "espet", "espets", "unidade", "unidades", "unid", "un"}

var defaultPacks = []string{"pacote", "pacotes", "caixa", "caixas", "cx", "fardo", "fardos", "embalagem", "embalagens"}

// Lexicon holds the locale words the parser understands. Keys are stored
// folded (lower case, no accents).
type Lexicon struct {
	numbers  map[string]int
	units    map[string]struct{}
	packs    map[string]struct{}
	packSize int
}

// DefaultLexicon returns the Portuguese lexicon with a pack size of 10.
func DefaultLexicon() Lexicon {
	lex := Lexicon{
		numbers:  maps.Clone(defaultNumbers),
		units:    make(map[string]struct{}, len(defaultUnits)),
		packs:    make(map[string]struct{}, len(defaultPacks)),
		packSize: DefaultPackSize,
	}
	for _, w := range defaultUnits {
		lex.units[w] = struct{}{}
	}
	for _, w := range defaultPacks {
		lex.packs[w] = struct{}{}
	}
	return lex
}

// WithPackSize returns a copy of the lexicon using size units per pack.
func (l Lexicon) WithPackSize(size int) (Lexicon, error) {
	if size < 1 {
		return l, fmt.Errorf("pack size must be positive, got %d", size)
	}
	out := l.clone()
	out.packSize = size
	return out, nil
}

// WithNumbers returns a copy of the lexicon extended with extra number
// words. Existing words are overridden.
func (l Lexicon) WithNumbers(extra map[string]int) (Lexicon, error) {
	out := l.clone()
	for w, n := range extra {
		key := foldWord(w)
		if key == "" {
			return l, fmt.Errorf("empty number word")
		}
		if n < 0 {
			return l, fmt.Errorf("number word %q has negative value %d", w, n)
		}
		out.numbers[key] = n
	}
	return out, nil
}

// PackSize returns how many units a pack holds.
func (l Lexicon) PackSize() int {
	if l.packSize < 1 {
		return DefaultPackSize
	}
	return l.packSize
}

// Number looks up a number word.
func (l Lexicon) Number(word string) (int, bool) {
	n, ok := l.numbers[foldWord(word)]
	return n, ok
}

// IsUnit reports whether word is a unit noun ("espetos", "un").
func (l Lexicon) IsUnit(word string) bool {
	_, ok := l.units[foldWord(word)]
	return ok
}

// IsPack reports whether word is a pack noun ("pacote", "caixa").
func (l Lexicon) IsPack(word string) bool {
	_, ok := l.packs[foldWord(word)]
	return ok
}

func (l Lexicon) clone() Lexicon {
	out := Lexicon{
		numbers:  maps.Clone(l.numbers),
		units:    maps.Clone(l.units),
		packs:    maps.Clone(l.packs),
		packSize: l.packSize,
	}
	if out.numbers == nil {
		out.numbers = make(map[string]int)
	}
	return out
}
