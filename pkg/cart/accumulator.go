// Package cart accumulates purchasable line items per session and keeps a
// durable snapshot of them.
package cart

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"up2you.app/storefront/pkg/models"
)

// Accumulator owns the lines of one cart. Mutations are serialized by mu and the
// whole line list is saved after each one. Snapshot faults are logged and never
// fail a call: the cart is not the system of record.
type Accumulator struct {
	mu     sync.Mutex
	key    string
	lines  []models.CartLine
	store  Snapshotter
	logger *slog.Logger
	now    func() time.Time
}

// Open restores the cart saved under key. A missing or corrupt snapshot yields an
// empty cart.
func Open(ctx context.Context, store Snapshotter, key string, logger *slog.Logger) *Accumulator {
	if logger == nil {
		logger = slog.Default()
	}
	a := &Accumulator{
		key:    key,
		store:  store,
		logger: logger.With("component", "cart", "key", key),
		now:    time.Now,
	}
	a.lines = a.load(ctx)
	return a
}

func (a *Accumulator) load(ctx context.Context) []models.CartLine {
	data, err := a.store.Load(ctx, a.key)
	if err != nil {
		if !errors.Is(err, ErrNoSnapshot) {
			a.logger.Warn("cart snapshot unreadable, starting empty", "error", err)
		}
		return []models.CartLine{}
	}

	var lines []models.CartLine
	if err := json.Unmarshal(data, &lines); err != nil {
		a.logger.Warn("cart snapshot corrupt, starting empty", "error", err)
		return []models.CartLine{}
	}

	// Drop anything that breaks the line invariants rather than failing the load.
	valid := make([]models.CartLine, 0, len(lines))
	seen := make(map[string]bool, len(lines))
	for _, line := range lines {
		if line.LineID == "" || line.Product.ID == "" || line.Quantity < 1 || seen[line.Product.ID] {
			continue
		}
		seen[line.Product.ID] = true
		valid = append(valid, line)
	}
	return valid
}

// saveTimeout bounds a snapshot write once it is detached from the caller.
const saveTimeout = 5 * time.Second

// persist saves the lines even if the caller's context is already cancelled, so
// an applied mutation is not lost to a dropped client connection.
func (a *Accumulator) persist(ctx context.Context) {
	data, err := json.Marshal(a.lines)
	if err != nil {
		a.logger.Error("failed to encode cart snapshot", "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), saveTimeout)
	defer cancel()
	if err := a.store.Save(ctx, a.key, data); err != nil {
		a.logger.Warn("failed to save cart snapshot", "error", err)
	}
}

// Add merges quantity into the line for product.ID, or starts a new line.
// Quantities below 1 count as 1. Stock is not checked.
func (a *Accumulator) Add(ctx context.Context, product models.ProductSnapshot, quantity int) models.CartLine {
	if quantity < 1 {
		quantity = 1
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	for i := range a.lines {
		if a.lines[i].Product.ID == product.ID {
			a.lines[i].Quantity += quantity
			line := a.lines[i]
			a.persist(ctx)
			return line
		}
	}

	line := models.CartLine{
		LineID:   models.NewLineID(product.ID, a.now().UnixMilli()),
		Product:  product,
		Quantity: quantity,
		IsBundle: product.IsBundle,
	}
	a.lines = append(a.lines, line)
	a.persist(ctx)
	return line
}

// Remove deletes the line. Unknown ids are ignored.
func (a *Accumulator) Remove(ctx context.Context, lineID string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.remove(ctx, lineID)
}

func (a *Accumulator) remove(ctx context.Context, lineID string) {
	kept := a.lines[:0]
	for _, line := range a.lines {
		if line.LineID != lineID {
			kept = append(kept, line)
		}
	}
	a.lines = kept
	a.persist(ctx)
}

// UpdateQuantity sets an absolute quantity; zero or less removes the line.
func (a *Accumulator) UpdateQuantity(ctx context.Context, lineID string, quantity int) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if quantity <= 0 {
		a.remove(ctx, lineID)
		return
	}
	for i := range a.lines {
		if a.lines[i].LineID == lineID {
			a.lines[i].Quantity = quantity
		}
	}
	a.persist(ctx)
}

// Clear empties the cart.
func (a *Accumulator) Clear(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.lines = []models.CartLine{}
	a.persist(ctx)
}

// Lines returns a copy of the current lines in insertion order.
func (a *Accumulator) Lines() []models.CartLine {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.copyLines()
}

func (a *Accumulator) copyLines() []models.CartLine {
	out := make([]models.CartLine, len(a.lines))
	copy(out, a.lines)
	return out
}

// Total is the sum of price * quantity over all lines.
func (a *Accumulator) Total() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return total(a.lines)
}

// ItemCount is the sum of quantities over all lines.
func (a *Accumulator) ItemCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return itemCount(a.lines)
}

// View returns lines and derived figures from one consistent read.
func (a *Accumulator) View(sessionID string) models.CartView {
	a.mu.Lock()
	defer a.mu.Unlock()
	return models.CartView{
		SessionID: sessionID,
		Items:     a.copyLines(),
		Total:     total(a.lines),
		ItemCount: itemCount(a.lines),
	}
}

func total(lines []models.CartLine) float64 {
	sum := 0.0
	for _, line := range lines {
		sum += line.Subtotal()
	}
	return sum
}

func itemCount(lines []models.CartLine) int {
	count := 0
	for _, line := range lines {
		count += line.Quantity
	}
	return count
}
