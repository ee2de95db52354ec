package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mestredagrelha/grelha/internal/config"
	"github.com/mestredagrelha/grelha/internal/freetext"
	"github.com/mestredagrelha/grelha/internal/repository"
	"github.com/mestredagrelha/grelha/internal/services/inventory"
	"github.com/mestredagrelha/grelha/internal/testutil"
)

// testNow is the frozen wall clock every test app sees.
var testNow = time.Date(2026, 3, 14, 21, 30, 0, 0, time.Local)

func testClock() time.Time { return testNow }

// newTestService creates a loaded service over a migrated in-memory
// database holding the fixture registry.
func newTestService(t *testing.T, delegate freetext.Delegate) *inventory.Service {
	t.Helper()

	db := testutil.NewTestDB(t)
	svc, err := inventory.FromConfig(config.Default(), repository.NewStore(db.DB.DB), delegate)
	if err != nil {
		t.Fatalf("creating service: %v", err)
	}

	ctx := context.Background()
	if err := svc.Load(ctx); err != nil {
		t.Fatalf("loading service: %v", err)
	}
	if err := svc.Replace(ctx, testutil.FixtureRegistry()); err != nil {
		t.Fatalf("seeding fixtures: %v", err)
	}
	return svc
}

// newTestApp creates an App over the fixture registry with no delegate.
// The window is set to 120x40 and marked ready.
func newTestApp(t *testing.T) *App {
	t.Helper()
	return newReadyApp(t, newTestService(t, nil))
}

// newTestAppWithDelegate is newTestApp with a stub language delegate.
func newTestAppWithDelegate(t *testing.T, delegate freetext.Delegate) *App {
	t.Helper()
	return newReadyApp(t, newTestService(t, delegate))
}

func newReadyApp(t *testing.T, svc *inventory.Service) *App {
	t.Helper()

	app := New(svc, config.Default(), testClock)

	// Simulate a window size message to make the app ready
	app.width = 120
	app.height = 40
	app.ready = true
	app.updateViewDimensions()

	return app
}

// keyMsg creates a tea.KeyMsg for a regular character key.
func keyMsg(key string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
}

// specialKeyMsg creates a tea.KeyMsg for a special key type.
func specialKeyMsg(keyType tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: keyType}
}

// typeText sends s one rune at a time.
func typeText(app *App, s string) {
	for _, r := range s {
		app.Update(keyMsg(string(r)))
	}
}

// press sends one key and runs the returned command, feeding its message
// back into the app. Batches and ticks are not followed.
func press(app *App, msg tea.KeyMsg) {
	_, cmd := app.Update(msg)
	if cmd == nil {
		return
	}
	if res, ok := cmd().(askResultMsg); ok {
		app.Update(res)
	}
}
