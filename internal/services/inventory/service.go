// Package inventory provides the inventory controller: it owns the one
// registry, routes every mutation through the reconciliation engine and
// persists the result.
package inventory

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/mestredagrelha/grelha/internal/config"
	"github.com/mestredagrelha/grelha/internal/freetext"
	"github.com/mestredagrelha/grelha/internal/models"
	"github.com/mestredagrelha/grelha/internal/reconcile"
)

// Store persists the registry and the report contact. SaveItem writes the
// counters of one item already stored by SaveRegistry.
type Store interface {
	LoadRegistry(ctx context.Context) (models.Registry, error)
	SaveRegistry(ctx context.Context, reg models.Registry) error
	SaveItem(ctx context.Context, item models.Item) error
	LoadContact(ctx context.Context) (models.Contact, error)
	SaveContact(ctx context.Context, c models.Contact) error
}

// Options configures a Service. Zero values fall back to defaults.
type Options struct {
	// Catalog is the zeroed item list used at first run and by HardReset.
	Catalog models.Registry

	Parser      *freetext.Parser
	Interpreter *freetext.Interpreter
}

// Service provides inventory operations. It is safe for concurrent use.
type Service struct {
	mu      sync.Mutex
	store   Store
	catalog models.Registry
	parser  *freetext.Parser
	interp  *freetext.Interpreter
	asks    singleflight.Group

	reg     models.Registry
	contact models.Contact
}

// NewService creates a new inventory service. Call Load before use.
func NewService(store Store, opts Options) *Service {
	s := &Service{
		store:   store,
		catalog: opts.Catalog.Clone(),
		parser:  opts.Parser,
		interp:  opts.Interpreter,
	}
	if len(s.catalog) == 0 {
		s.catalog = reconcile.DefaultCatalog()
	}
	if s.parser == nil {
		s.parser = freetext.NewParser(freetext.DefaultLexicon())
	}
	if s.interp == nil {
		s.interp = freetext.NewInterpreter(nil, 0)
	}
	return s
}

// FromConfig builds a service from the inventory and delegate sections of
// cfg. delegate may be nil.
func FromConfig(cfg *config.Config, store Store, delegate freetext.Delegate) (*Service, error) {
	lex, err := freetext.DefaultLexicon().WithPackSize(cfg.Inventory.PackSize)
	if err != nil {
		return nil, fmt.Errorf("configuring lexicon: %w", err)
	}
	lex, err = lex.WithNumbers(cfg.Inventory.NumberWords)
	if err != nil {
		return nil, fmt.Errorf("configuring lexicon: %w", err)
	}

	entries := make([]reconcile.CatalogEntry, len(cfg.Inventory.Catalog))
	for i, c := range cfg.Inventory.Catalog {
		entries[i] = reconcile.CatalogEntry{ID: c.ID, Name: c.Name}
	}
	catalog, err := reconcile.NewCatalog(entries)
	if err != nil {
		return nil, fmt.Errorf("configuring catalog: %w", err)
	}

	return NewService(store, Options{
		Catalog:     catalog,
		Parser:      freetext.NewParser(lex),
		Interpreter: freetext.NewInterpreter(delegate, cfg.Delegate.Timeout()),
	}), nil
}

// Load reads the stored registry and contact. An empty store is seeded
// with the catalog.
func (s *Service) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	reg, err := s.store.LoadRegistry(ctx)
	if err != nil {
		return fmt.Errorf("loading registry: %w", err)
	}
	contact, err := s.store.LoadContact(ctx)
	if err != nil {
		return fmt.Errorf("loading contact: %w", err)
	}

	s.contact = contact
	if len(reg) == 0 {
		slog.Info("no stored inventory, starting from catalog", "items", len(s.catalog))
		s.reg = s.catalog.Clone()
		s.persist(ctx)
		return nil
	}

	s.reg = reg
	slog.Debug("inventory loaded", "items", len(reg))
	return nil
}

// Items returns a copy of the registry.
func (s *Service) Items() models.Registry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reg.Clone()
}

// Item returns one item.
func (s *Service) Item(id string) (models.Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reg.Get(id)
}

// Contact returns the report contact.
func (s *Service) Contact() models.Contact {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.contact
}

// PackSize is the stock added by AddPack.
func (s *Service) PackSize() int {
	return s.parser.Lexicon().PackSize()
}

// DelegateEnabled reports whether free-text interpretation is available.
func (s *Service) DelegateEnabled() bool {
	return s.interp.Enabled()
}

// Update applies one delta and returns the updated item.
func (s *Service) Update(ctx context.Context, id string, field models.Field, delta int) (models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.update(ctx, id, field, delta)
}

func (s *Service) update(ctx context.Context, id string, field models.Field, delta int) (models.Item, error) {
	next, err := reconcile.Apply(s.reg, id, field, delta)
	if err != nil {
		slog.Debug("update rejected", "item", id, "field", field, "delta", delta, "error", err)
		return models.Item{}, err
	}

	s.reg = next
	item, _ := s.reg.Get(id)
	s.persistItem(ctx, item)

	slog.Debug("update applied", "item", id, "field", field, "delta", delta, "stock", item.Stock)
	return item, nil
}

// AddPack adds one pack worth of stock to an item.
func (s *Service) AddPack(ctx context.Context, id string) (models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.update(ctx, id, models.FieldStock, s.parser.Lexicon().PackSize())
}

// AddItem appends a new item with the given initial stock.
func (s *Service) AddItem(ctx context.Context, name string, stock int) (models.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, item, err := reconcile.AddItem(s.reg, name, stock)
	if err != nil {
		return models.Item{}, err
	}

	s.reg = next
	s.persist(ctx)
	slog.Info("item added", "item", item.ID, "stock", item.Stock)
	return item, nil
}

// SoftReset zeroes sold and consumed, keeping stock.
func (s *Service) SoftReset(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reg = reconcile.SoftReset(s.reg)
	s.persist(ctx)
	slog.Info("period counters reset")
}

// HardReset restores the catalog with every counter at zero.
func (s *Service) HardReset(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reg = reconcile.HardReset(s.catalog)
	s.persist(ctx)
	slog.Info("inventory reset to catalog", "items", len(s.reg))
}

// ApplyBulk applies a comma/period/semicolon separated list of updates to
// the counter of channel. Clauses that fail are reported, not fatal.
func (s *Service) ApplyBulk(ctx context.Context, text string, channel models.Channel) (freetext.BulkResult, error) {
	if !channel.Valid() {
		return freetext.BulkResult{}, fmt.Errorf("invalid channel: %q", channel)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res := s.parser.ProcessBulk(text, s.reg, channel.Field())
	if len(res.Applied) > 0 {
		s.reg = res.Registry
		s.persist(ctx)
	}
	res.Registry = s.reg.Clone()

	slog.Debug("bulk applied", "channel", channel, "applied", len(res.Applied), "failed", len(res.Failed()))
	return res, nil
}

// Interpret asks the delegate to resolve text without applying it. The
// lock is not held during the call.
func (s *Service) Interpret(ctx context.Context, text string, channel models.Channel) (freetext.Resolution, error) {
	if !channel.Valid() {
		return freetext.Resolution{}, fmt.Errorf("invalid channel: %q", channel)
	}
	return s.interp.Interpret(ctx, s.Items(), text, channel)
}

// ApplyResolution applies a delegate answer to the counter of channel.
func (s *Service) ApplyResolution(ctx context.Context, res freetext.Resolution, channel models.Channel) (models.Item, error) {
	if !channel.Valid() {
		return models.Item{}, fmt.Errorf("invalid channel: %q", channel)
	}
	return s.Update(ctx, res.ItemID, channel.Field(), res.Quantity)
}

type askOutcome struct {
	res  freetext.Resolution
	item models.Item
}

// Ask interprets text and applies the result: exactly one update or none.
//
// Concurrent asks with the same channel and text join the first one and
// share its outcome, so one delegate answer is applied once per process.
// Separate processes are not coordinated.
func (s *Service) Ask(ctx context.Context, text string, channel models.Channel) (freetext.Resolution, models.Item, error) {
	key := string(channel) + "\x00" + strings.TrimSpace(text)
	v, err, shared := s.asks.Do(key, func() (any, error) {
		res, err := s.Interpret(ctx, text, channel)
		if err != nil {
			return askOutcome{res: res}, err
		}
		item, err := s.ApplyResolution(ctx, res, channel)
		return askOutcome{res: res, item: item}, err
	})
	if shared {
		slog.Debug("ask joined in-flight request", "channel", channel)
	}

	out, _ := v.(askOutcome)
	return out.res, out.item, err
}

// SetContact normalizes and stores the report phone. An empty phone clears
// it.
func (s *Service) SetContact(ctx context.Context, phone string) (models.Contact, error) {
	c := models.Contact{Phone: models.NormalizePhone(phone)}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.SaveContact(ctx, c); err != nil {
		return s.contact, fmt.Errorf("saving contact: %w", err)
	}
	s.contact = c
	return c, nil
}

// Replace swaps the whole registry, as on snapshot import.
func (s *Service) Replace(ctx context.Context, reg models.Registry) error {
	if err := reg.Validate(); err != nil {
		return fmt.Errorf("invalid registry: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.reg = reg.Clone()
	s.persist(ctx)
	slog.Info("inventory replaced", "items", len(reg))
	return nil
}

// persist saves the registry. A failure is logged and the in-memory state
// is kept. Callers hold mu.
func (s *Service) persist(ctx context.Context) {
	if err := s.store.SaveRegistry(ctx, s.reg.Clone()); err != nil {
		slog.Error("failed to persist inventory", "error", err)
	}
}

// persistItem saves one changed item, rewriting the whole registry when the
// row cannot be updated in place. Callers hold mu.
func (s *Service) persistItem(ctx context.Context, item models.Item) {
	err := s.store.SaveItem(ctx, item)
	if err == nil {
		return
	}
	slog.Warn("item update failed, saving full inventory", "item", item.ID, "error", err)
	s.persist(ctx)
}
