// Package freetext turns loosely written Portuguese ("2 espeto de queijo,
// três frango") into item updates.
//
// Parsing and matching are separate steps: the Parser extracts a quantity
// and a raw name phrase, Resolve matches that phrase against the registry.
// ProcessBulk drives both for multi-clause input, and the Interpreter
// handles single sentences through an external language delegate.
package freetext

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrUnparseable is returned when a fragment has no recognizable quantity
// or no name.
var ErrUnparseable = errors.New("fragment not understood")

// connector is the optional word between quantity and name ("2 de queijo").
const connector = "de"

// Fragment is a parsed clause: a raw name phrase and a unit quantity.
type Fragment struct {
	Name     string
	Quantity int
	// Packs is set when the quantity was given in packs and has already
	// been multiplied by the pack size.
	Packs bool
}

// Parser extracts quantity and name from single clauses.
type Parser struct {
	lex Lexicon
}

// NewParser creates a parser over the given lexicon.
func NewParser(lex Lexicon) *Parser {
	return &Parser{lex: lex}
}

var defaultParser = NewParser(DefaultLexicon())

// ParseFragment parses a clause with the default lexicon.
func ParseFragment(fragment string) (Fragment, error) {
	return defaultParser.ParseFragment(fragment)
}

// Lexicon returns the parser's lexicon.
func (p *Parser) Lexicon() Lexicon {
	return p.lex
}

// ParseFragment accepts two shapes, tried in order:
//
//	<qty> [unit|pack] [de] <name...>
//	<name...> <qty>
//
// Unit and connector words are only skipped when a name remains after them,
// so "2 un" still reads as the name "un".
func (p *Parser) ParseFragment(fragment string) (Fragment, error) {
	tokens := strings.Fields(fragment)
	if len(tokens) < 2 {
		return Fragment{}, fmt.Errorf("%w: %q", ErrUnparseable, fragment)
	}

	if qty, ok := p.quantity(tokens[0]); ok {
		return p.quantityFirst(qty, tokens[1:], fragment)
	}

	last := len(tokens) - 1
	if qty, ok := p.quantity(tokens[last]); ok {
		return Fragment{Name: strings.Join(tokens[:last], " "), Quantity: qty}, nil
	}

	return Fragment{}, fmt.Errorf("%w: %q", ErrUnparseable, fragment)
}

func (p *Parser) quantityFirst(qty int, rest []string, fragment string) (Fragment, error) {
	frag := Fragment{Quantity: qty}

	if len(rest) > 1 {
		switch {
		case p.lex.IsPack(rest[0]):
			size := p.lex.PackSize()
			if qty > math.MaxInt32/size {
				return Fragment{}, fmt.Errorf("%w: quantity too large in %q", ErrUnparseable, fragment)
			}
			frag.Quantity = qty * size
			frag.Packs = true
			rest = rest[1:]
		case p.lex.IsUnit(rest[0]):
			rest = rest[1:]
		}
	}

	if len(rest) > 1 && foldWord(rest[0]) == connector {
		rest = rest[1:]
	}

	frag.Name = strings.Join(rest, " ")
	return frag, nil
}

// quantity reads a decimal integer or a number word.
func (p *Parser) quantity(tok string) (int, bool) {
	if isDigits(tok) {
		n, err := strconv.Atoi(tok)
		if err != nil || n > math.MaxInt32 {
			return 0, false
		}
		return n, true
	}
	return p.lex.Number(tok)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
