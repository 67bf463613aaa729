package cart

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	pkgerrors "github.com/barbarycoast/storefront-backend/pkg/errors"
	"github.com/barbarycoast/storefront-backend/pkg/kvstore"
	"github.com/barbarycoast/storefront-backend/pkg/logger"
	"github.com/barbarycoast/storefront-backend/pkg/metrics"
	"github.com/barbarycoast/storefront-backend/pkg/money"
	"github.com/shopspring/decimal"
)

// snapshotKey is the KV slot holding the serialized cart lines.
const snapshotKey = "cart_lines"

// Line is one cart entry. Quantity is always positive; a line at zero is
// removed instead of stored.
type Line struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// PricedLine joins a cart line against the catalog at read time.
type PricedLine struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// Snapshot is the immutable view handed to observers after each mutation.
type Snapshot struct {
	Lines     []Line `json:"lines"`
	ItemCount int    `json:"item_count"`
}

// PriceLookup resolves a product's unit price. Unknown products report ok=false.
type PriceLookup interface {
	Price(productID string) (decimal.Decimal, bool)
}

// Observer receives a cart snapshot after every successful mutation.
type Observer func(Snapshot)

// Service owns the in-memory cart and its best-effort persistence.
type Service interface {
	AddItem(ctx context.Context, productID string, quantity int) error
	UpdateQuantity(ctx context.Context, productID string, quantity int) error
	RemoveItem(ctx context.Context, productID string) error
	Clear(ctx context.Context) error
	ItemCount() int
	Lines() []Line
	PricedLines() ([]PricedLine, int)
	Total() decimal.Decimal
	Subscribe(observer Observer)
}

type service struct {
	store   kvstore.Store
	prices  PriceLookup
	log     *logger.Logger
	metrics *metrics.StorefrontMetrics

	mu        sync.RWMutex
	lines     []Line
	observers []Observer
}

// NewService restores any persisted cart snapshot and returns the aggregator.
// A corrupt or unreachable snapshot logs and starts empty.
func NewService(ctx context.Context, store kvstore.Store, prices PriceLookup, log *logger.Logger, m *metrics.StorefrontMetrics) (Service, error) {
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart service requires a kv store")
	}
	if prices == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart service requires a price lookup")
	}
	if log == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart service requires a logger")
	}

	svc := &service{store: store, prices: prices, log: log, metrics: m}
	svc.restore(ctx)
	return svc, nil
}

func (s *service) restore(ctx context.Context) {
	raw, ok, err := s.store.Get(ctx, snapshotKey)
	if err != nil {
		s.log.Warn(ctx, "cart snapshot load failed, starting empty: "+err.Error())
		return
	}
	if !ok {
		return
	}
	var lines []Line
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		s.log.Warn(ctx, "cart snapshot corrupt, starting empty: "+err.Error())
		return
	}
	kept := lines[:0]
	for _, line := range lines {
		if line.Quantity > 0 && strings.TrimSpace(line.ProductID) != "" {
			kept = append(kept, line)
		}
	}
	s.lines = kept
}

func (s *service) AddItem(ctx context.Context, productID string, quantity int) error {
	if strings.TrimSpace(productID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if quantity == 0 {
		quantity = 1
	}
	if quantity < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	s.mu.Lock()
	merged := false
	for i := range s.lines {
		if s.lines[i].ProductID == productID {
			s.lines[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		s.lines = append(s.lines, Line{ProductID: productID, Quantity: quantity})
	}
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.metrics.IncCartMutation("add_item")
	s.afterMutation(ctx, snapshot)
	return nil
}

func (s *service) UpdateQuantity(ctx context.Context, productID string, quantity int) error {
	if strings.TrimSpace(productID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	s.mu.Lock()
	idx := s.indexLocked(productID)
	if idx < 0 {
		s.mu.Unlock()
		return nil
	}
	if quantity <= 0 {
		s.lines = append(s.lines[:idx], s.lines[idx+1:]...)
	} else {
		s.lines[idx].Quantity = quantity
	}
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.metrics.IncCartMutation("update_quantity")
	s.afterMutation(ctx, snapshot)
	return nil
}

func (s *service) RemoveItem(ctx context.Context, productID string) error {
	if strings.TrimSpace(productID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	s.mu.Lock()
	idx := s.indexLocked(productID)
	if idx < 0 {
		s.mu.Unlock()
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not in cart")
	}
	s.lines[idx].Quantity--
	if s.lines[idx].Quantity <= 0 {
		s.lines = append(s.lines[:idx], s.lines[idx+1:]...)
	}
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.metrics.IncCartMutation("remove_item")
	s.afterMutation(ctx, snapshot)
	return nil
}

func (s *service) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.lines = nil
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	s.metrics.IncCartMutation("clear")
	s.afterMutation(ctx, snapshot)
	return nil
}

func (s *service) ItemCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, line := range s.lines {
		count += line.Quantity
	}
	return count
}

func (s *service) Lines() []Line {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyLines(s.lines)
}

// PricedLines joins the cart against the catalog. Lines referencing unknown
// products are skipped; the second return is how many were skipped.
func (s *service) PricedLines() ([]PricedLine, int) {
	lines := s.Lines()
	priced := make([]PricedLine, 0, len(lines))
	skipped := 0
	for _, line := range lines {
		unit, ok := s.prices.Price(line.ProductID)
		if !ok {
			skipped++
			continue
		}
		priced = append(priced, PricedLine{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: unit,
			LineTotal: money.Round2(unit.Mul(decimal.NewFromInt(int64(line.Quantity)))),
		})
	}
	return priced, skipped
}

func (s *service) Total() decimal.Decimal {
	priced, _ := s.PricedLines()
	total := decimal.Zero
	for _, line := range priced {
		total = total.Add(line.LineTotal)
	}
	return money.Round2(total)
}

func (s *service) Subscribe(observer Observer) {
	if observer == nil {
		return
	}
	s.mu.Lock()
	s.observers = append(s.observers, observer)
	s.mu.Unlock()
}

func (s *service) indexLocked(productID string) int {
	for i := range s.lines {
		if s.lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}

func (s *service) snapshotLocked() Snapshot {
	count := 0
	for _, line := range s.lines {
		count += line.Quantity
	}
	return Snapshot{Lines: copyLines(s.lines), ItemCount: count}
}

// afterMutation persists and notifies. Persistence is best-effort: a failed
// write is logged and the in-memory cart stays authoritative.
func (s *service) afterMutation(ctx context.Context, snapshot Snapshot) {
	raw, err := json.Marshal(snapshot.Lines)
	if err != nil {
		s.log.Error(ctx, "cart snapshot marshal failed", err)
	} else if err := s.store.Set(ctx, snapshotKey, string(raw)); err != nil {
		s.log.Warn(ctx, "cart snapshot persist failed: "+err.Error())
	}

	s.mu.RLock()
	observers := make([]Observer, len(s.observers))
	copy(observers, s.observers)
	s.mu.RUnlock()
	for _, observer := range observers {
		observer(snapshot)
	}
}

func copyLines(lines []Line) []Line {
	out := make([]Line, len(lines))
	copy(out, lines)
	return out
}
