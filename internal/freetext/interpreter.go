package freetext

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/mestredagrelha/grelha/internal/models"
	"github.com/mestredagrelha/grelha/internal/util"
)

var (
	// ErrNotUnderstood is the single outcome callers surface when a
	// sentence could not be turned into an update.
	ErrNotUnderstood = errors.New("could not understand")

	// ErrDelegateUnavailable covers a missing delegate, a failed call and
	// a timeout.
	ErrDelegateUnavailable = errors.New("language delegate unavailable")

	// ErrDelegateMalformed covers responses without a known item or a
	// positive whole quantity.
	ErrDelegateMalformed = errors.New("language delegate response unusable")
)

// DefaultDelegateTimeout bounds a single delegate call.
const DefaultDelegateTimeout = 15 * time.Second

// maxDelegateQuantity guards against absurd model output.
const maxDelegateQuantity = 100000

// ItemRef names one item offered to the delegate.
type ItemRef struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

// Request is what the delegate receives.
type Request struct {
	RequestID      string    `json:"-"`
	AvailableItems []ItemRef `json:"availableItems"`
	ContextHint    string    `json:"contextHint"`
	FreeText       string    `json:"freeText"`
}

// Response is what the delegate returns. ItemID is nil when the delegate
// could not pick an item.
type Response struct {
	ItemID      *string `json:"itemId"`
	Quantity    float64 `json:"quantity"`
	SubTypeHint string  `json:"subType,omitempty"`
}

// Delegate understands one sentence. Implementations call external
// services; tests use stubs. An error wrapping ErrDelegateMalformed is
// reported as a bad answer, any other error as an unavailable delegate.
type Delegate interface {
	Understand(ctx context.Context, req Request) (Response, error)
}

// DelegateFunc adapts a function to the Delegate interface.
type DelegateFunc func(ctx context.Context, req Request) (Response, error)

// Understand calls f.
func (f DelegateFunc) Understand(ctx context.Context, req Request) (Response, error) {
	return f(ctx, req)
}

// Resolution is a validated delegate answer: one known item and a
// positive quantity. It is not applied yet.
type Resolution struct {
	RequestID   string
	ItemID      string
	ItemName    string
	Quantity    int
	SubTypeHint string
}

// Interpreter turns a single sentence into a Resolution through a
// Delegate. It never touches the registry it is given.
type Interpreter struct {
	delegate Delegate
	timeout  time.Duration
	group    singleflight.Group
}

// NewInterpreter creates an interpreter. A nil delegate is allowed; every
// call then fails with ErrDelegateUnavailable.
func NewInterpreter(delegate Delegate, timeout time.Duration) *Interpreter {
	if timeout <= 0 {
		timeout = DefaultDelegateTimeout
	}
	return &Interpreter{delegate: delegate, timeout: timeout}
}

// Enabled reports whether a delegate is configured.
func (in *Interpreter) Enabled() bool {
	return in != nil && in.delegate != nil
}

// Interpret asks the delegate which item and quantity text refers to.
// Identical sentences submitted while a call is in flight share its
// result. Only the interpretation is shared: a caller that applies the
// Resolution applies it independently of the others.
func (in *Interpreter) Interpret(ctx context.Context, reg models.Registry, text string, channel models.Channel) (Resolution, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Resolution{}, fmt.Errorf("%w: empty text", ErrNotUnderstood)
	}
	if !in.Enabled() {
		return Resolution{}, fmt.Errorf("%w: %w", ErrNotUnderstood, ErrDelegateUnavailable)
	}

	req := Request{
		RequestID:      util.NewRequestID(),
		AvailableItems: itemRefs(reg),
		ContextHint:    string(channel),
		FreeText:       text,
	}

	logger := slog.With("request_id", req.RequestID, "channel", channel)
	logger.Debug("delegate call started", "text", text)

	key := string(channel) + "\x00" + text
	ch := in.group.DoChan(key, func() (any, error) {
		callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), in.timeout)
		defer cancel()
		return in.delegate.Understand(callCtx, req)
	})

	var out singleflight.Result
	select {
	case out = <-ch:
	case <-ctx.Done():
		logger.Warn("delegate call abandoned", "error", ctx.Err())
		return Resolution{}, fmt.Errorf("%w: %w: %w", ErrNotUnderstood, ErrDelegateUnavailable, ctx.Err())
	}

	if out.Err != nil {
		logger.Warn("delegate call failed", "error", out.Err)
		if errors.Is(out.Err, ErrDelegateMalformed) {
			return Resolution{}, fmt.Errorf("%w: %w", ErrNotUnderstood, out.Err)
		}
		return Resolution{}, fmt.Errorf("%w: %w: %w", ErrNotUnderstood, ErrDelegateUnavailable, out.Err)
	}

	resp, _ := out.Val.(Response)
	res, err := validate(resp, reg)
	if err != nil {
		logger.Warn("delegate response rejected", "error", err)
		return Resolution{}, err
	}
	res.RequestID = req.RequestID

	logger.Debug("delegate call resolved", "item", res.ItemID, "quantity", res.Quantity, "shared", out.Shared)
	return res, nil
}

func validate(resp Response, reg models.Registry) (Resolution, error) {
	if resp.ItemID == nil || strings.TrimSpace(*resp.ItemID) == "" {
		return Resolution{}, fmt.Errorf("%w: %w: no item", ErrNotUnderstood, ErrDelegateMalformed)
	}

	id := strings.TrimSpace(*resp.ItemID)
	item, ok := reg.Get(id)
	if !ok {
		return Resolution{}, fmt.Errorf("%w: %w: unknown item %q", ErrNotUnderstood, ErrDelegateMalformed, id)
	}

	q := resp.Quantity
	if math.IsNaN(q) || q <= 0 || q != math.Trunc(q) || q > maxDelegateQuantity {
		return Resolution{}, fmt.Errorf("%w: %w: bad quantity %v", ErrNotUnderstood, ErrDelegateMalformed, q)
	}

	return Resolution{
		ItemID:      item.ID,
		ItemName:    item.Name,
		Quantity:    int(q),
		SubTypeHint: resp.SubTypeHint,
	}, nil
}

func itemRefs(reg models.Registry) []ItemRef {
	refs := make([]ItemRef, len(reg))
	for i, it := range reg {
		refs[i] = ItemRef{Name: it.Name, ID: it.ID}
	}
	return refs
}
