package freetext

import (
	"errors"
	"regexp"
	"strings"

	"github.com/mestredagrelha/grelha/internal/models"
	"github.com/mestredagrelha/grelha/internal/reconcile"
)

var clauseSeparators = regexp.MustCompile(`[.,;]+`)

// ErrZeroQuantity rejects a clause that names a known item with nothing to
// apply.
var ErrZeroQuantity = errors.New("zero quantity")

// Applied records one clause that reached the registry.
type Applied struct {
	Clause   string
	ItemID   string
	ItemName string
	Quantity int
}

// Rejection records a clause the engine refused.
type Rejection struct {
	Clause string
	Err    error
}

// BulkResult is the outcome of a bulk submission. Registry is always the
// latest state, even when some clauses failed.
type BulkResult struct {
	Registry   models.Registry
	Applied    []Applied
	Unresolved []string
	Rejected   []Rejection
}

// Failed returns every clause that did not change the registry, verbatim.
func (r BulkResult) Failed() []string {
	out := make([]string, 0, len(r.Unresolved)+len(r.Rejected))
	out = append(out, r.Unresolved...)
	for _, rej := range r.Rejected {
		out = append(out, rej.Clause)
	}
	return out
}

// SplitClauses splits text on runs of '.', ',' and ';', trimming clauses
// and dropping empty ones.
func SplitClauses(text string) []string {
	var out []string
	for _, part := range clauseSeparators.Split(text, -1) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ProcessBulk processes text with the default lexicon.
func ProcessBulk(text string, reg models.Registry, field models.Field) BulkResult {
	return defaultParser.ProcessBulk(text, reg, field)
}

// ProcessBulk parses, resolves and applies each clause of text to field in
// order. Quantities are always added. A clause that fails is recorded and
// the rest are still processed.
func (p *Parser) ProcessBulk(text string, reg models.Registry, field models.Field) BulkResult {
	res := BulkResult{Registry: reg}

	type step struct {
		clause string
		item   models.Item
		qty    int
		event  int
	}

	var (
		steps  []step
		events []reconcile.Event
	)
	for _, clause := range SplitClauses(text) {
		frag, err := p.ParseFragment(clause)
		if err != nil {
			res.Unresolved = append(res.Unresolved, clause)
			continue
		}

		item, ok := Resolve(frag.Name, reg)
		if !ok {
			res.Unresolved = append(res.Unresolved, clause)
			continue
		}

		st := step{clause: clause, item: item, qty: frag.Quantity, event: -1}
		if frag.Quantity != 0 {
			st.event = len(events)
			events = append(events, reconcile.Event{ItemID: item.ID, Field: field, Delta: frag.Quantity})
		}
		steps = append(steps, st)
	}

	next, errs := reconcile.ApplyAll(reg, events)
	res.Registry = next

	for _, st := range steps {
		var err error
		if st.event < 0 {
			err = ErrZeroQuantity
		} else {
			err = errs[st.event]
		}
		if err != nil {
			res.Rejected = append(res.Rejected, Rejection{Clause: st.clause, Err: err})
			continue
		}
		res.Applied = append(res.Applied, Applied{
			Clause:   st.clause,
			ItemID:   st.item.ID,
			ItemName: st.item.Name,
			Quantity: st.qty,
		})
	}

	return res
}
