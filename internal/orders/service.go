package orders

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/barbarycoast/storefront-backend/internal/catalog"
	"github.com/barbarycoast/storefront-backend/pkg/config"
	"github.com/barbarycoast/storefront-backend/pkg/enums"
	pkgerrors "github.com/barbarycoast/storefront-backend/pkg/errors"
	"github.com/barbarycoast/storefront-backend/pkg/kvstore"
	"github.com/barbarycoast/storefront-backend/pkg/logger"
	"github.com/barbarycoast/storefront-backend/pkg/metrics"
	"github.com/barbarycoast/storefront-backend/pkg/money"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	_ "embed"
)

//go:embed data/past_orders.json
var pastOrdersFixture []byte

const (
	activeKey = "active_order"
	pastKey   = "past_orders"

	orderNumberLength  = 6
	orderNumberCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// ProductCatalog is the slice of the catalog the lifecycle machine needs:
// name for the order line, price for the money math.
type ProductCatalog interface {
	Get(productID string) (*catalog.Product, error)
	Price(productID string) (decimal.Decimal, bool)
}

// Observer receives a copy of the order after every lifecycle change.
type Observer func(Order)

// Service is the single-active-order lifecycle machine.
type Service interface {
	CreateOrder(ctx context.Context, lines []LineInput) (Order, error)
	Advance(ctx context.Context, ticketID string) (Order, error)
	Regress(ctx context.Context, ticketID string) (Order, error)
	CompleteOrder(ctx context.Context, ticketID string) (Order, error)
	ActiveOrder() (Order, bool)
	PastOrders() []Order
	Subscribe(observer Observer)
}

type service struct {
	store    kvstore.Store
	products ProductCatalog
	taxes    config.TaxConfig
	log      *logger.Logger
	metrics  *metrics.StorefrontMetrics
	now      func() time.Time

	mu        sync.RWMutex
	active    *Order
	past      []Order
	observers []Observer
}

// NewService restores the active and archived slots from the KV store. The
// archive is seeded from the bundled fixture when the slot has never been
// written. Load failures degrade to empty state and are logged together.
func NewService(ctx context.Context, store kvstore.Store, products ProductCatalog, taxes config.TaxConfig, log *logger.Logger, m *metrics.StorefrontMetrics) (Service, error) {
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "orders service requires a kv store")
	}
	if products == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "orders service requires a product catalog")
	}
	if log == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "orders service requires a logger")
	}

	svc := &service{
		store:    store,
		products: products,
		taxes:    taxes,
		log:      log,
		metrics:  m,
		now:      time.Now,
	}
	svc.restore(ctx)
	return svc, nil
}

func (s *service) restore(ctx context.Context) {
	var loadErr error

	if raw, ok, err := s.store.Get(ctx, activeKey); err != nil {
		loadErr = multierr.Append(loadErr, fmt.Errorf("active slot: %w", err))
	} else if ok {
		var order Order
		if err := json.Unmarshal([]byte(raw), &order); err != nil {
			loadErr = multierr.Append(loadErr, fmt.Errorf("active slot decode: %w", err))
		} else {
			s.active = &order
		}
	}

	raw, ok, err := s.store.Get(ctx, pastKey)
	switch {
	case err != nil:
		loadErr = multierr.Append(loadErr, fmt.Errorf("past slot: %w", err))
	case ok:
		var past []Order
		if err := json.Unmarshal([]byte(raw), &past); err != nil {
			loadErr = multierr.Append(loadErr, fmt.Errorf("past slot decode: %w", err))
		} else {
			s.past = past
		}
	default:
		// never written: seed the archive from the bundled fixture
		var seeded []Order
		if err := json.Unmarshal(pastOrdersFixture, &seeded); err != nil {
			loadErr = multierr.Append(loadErr, fmt.Errorf("archive fixture decode: %w", err))
		} else {
			s.past = seeded
			s.persistPast(ctx)
		}
	}

	if loadErr != nil {
		s.log.Warn(ctx, "order snapshot restore degraded: "+loadErr.Error())
	}
}

func (s *service) CreateOrder(ctx context.Context, lines []LineInput) (Order, error) {
	if len(lines) == 0 {
		return Order{}, pkgerrors.New(pkgerrors.CodeValidation, "order requires at least one line")
	}
	for _, line := range lines {
		if line.Quantity <= 0 {
			return Order{}, pkgerrors.New(pkgerrors.CodeValidation, "line quantity must be positive").
				WithDetails(map[string]any{"product_id": line.ProductID})
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active != nil {
		return Order{}, pkgerrors.New(pkgerrors.CodeConflict, "an active order already exists").
			WithDetails(map[string]any{"ticket_id": s.active.TicketID})
	}

	items := make([]OrderItem, 0, len(lines))
	var unknown []string
	subTotal := decimal.Zero
	for _, line := range lines {
		product, err := s.products.Get(line.ProductID)
		if err != nil {
			unknown = append(unknown, line.ProductID)
			continue
		}
		lineSubtotal := money.Round2(product.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
		items = append(items, OrderItem{
			ProductID:    product.ProductID,
			ProductName:  product.ProductName,
			Quantity:     line.Quantity,
			UnitPrice:    product.Price,
			LineSubtotal: lineSubtotal,
			ExciseTax:    money.ApplyRate(lineSubtotal, s.taxes.ExciseRate),
			SalesTax:     money.ApplyRate(lineSubtotal, s.taxes.SalesRate),
			CityTax:      money.ApplyRate(lineSubtotal, s.taxes.CityRate),
			Discount:     decimal.Zero,
		})
		subTotal = subTotal.Add(lineSubtotal)
	}
	if len(unknown) > 0 {
		return Order{}, pkgerrors.New(pkgerrors.CodeValidation, "order references unknown products").
			WithDetails(map[string]any{"unknown_product_ids": unknown})
	}

	number, err := generateOrderNumber()
	if err != nil {
		return Order{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate order number")
	}

	now := s.now().UTC()
	taxTotal := money.ApplyRate(subTotal, s.taxes.ExciseRate+s.taxes.SalesRate)
	order := Order{
		TicketID:      uuid.NewString(),
		OrderNumber:   number,
		OrderType:     enums.OrderTypePickup,
		OrderStatus:   enums.OrderStatusAwaitingProcessing,
		PaymentStatus: enums.PaymentStatusUnpaid,
		DateCreated:   now,
		LastUpdatedAt: now,
		Items:         items,
		SubTotal:      money.Round2(subTotal),
		TaxTotal:      taxTotal,
		DiscountTotal: decimal.Zero,
		Total:         money.Round2(subTotal.Add(taxTotal)),
	}

	s.active = &order
	s.persistActive(ctx)
	s.metrics.IncOrderCreated()
	s.notifyLocked(order)
	return order.clone(), nil
}

func (s *service) Advance(ctx context.Context, ticketID string) (Order, error) {
	s.mu.Lock()

	active, err := s.activeMatchingLocked(ticketID)
	if err != nil {
		s.mu.Unlock()
		return Order{}, err
	}

	if active.OrderStatus == enums.OrderStatusPackedReady {
		s.mu.Unlock()
		// the final forward step is completion, with its archival side effects
		return s.CompleteOrder(ctx, ticketID)
	}

	next, ok := active.OrderStatus.Next()
	if !ok {
		s.mu.Unlock()
		return Order{}, pkgerrors.New(pkgerrors.CodeStateConflict, "order is already terminal").
			WithDetails(map[string]any{"order_status": active.OrderStatus})
	}

	active.OrderStatus = next
	active.LastUpdatedAt = s.now().UTC()
	s.persistActive(ctx)
	snapshot := active.clone()
	s.notifyLocked(snapshot)
	s.mu.Unlock()
	return snapshot, nil
}

func (s *service) Regress(ctx context.Context, ticketID string) (Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	active, err := s.activeMatchingLocked(ticketID)
	if err != nil {
		return Order{}, err
	}

	prev, ok := active.OrderStatus.Prev()
	if !ok {
		return Order{}, pkgerrors.New(pkgerrors.CodeStateConflict, "order is at the first status").
			WithDetails(map[string]any{"order_status": active.OrderStatus})
	}

	active.OrderStatus = prev
	active.LastUpdatedAt = s.now().UTC()
	s.persistActive(ctx)
	snapshot := active.clone()
	s.notifyLocked(snapshot)
	return snapshot, nil
}

func (s *service) CompleteOrder(ctx context.Context, ticketID string) (Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	active, err := s.activeMatchingLocked(ticketID)
	if err != nil {
		return Order{}, err
	}

	now := s.now().UTC()
	active.OrderStatus = enums.OrderStatusCompleted
	active.PaymentStatus = enums.PaymentStatusPaid
	active.LastUpdatedAt = now
	active.DateClosed = &now

	closed := active.clone()
	s.past = append([]Order{closed}, s.past...)
	s.active = nil

	s.removeActive(ctx)
	s.persistPast(ctx)
	s.metrics.IncOrderCompleted()
	s.notifyLocked(closed)
	return closed.clone(), nil
}

func (s *service) ActiveOrder() (Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.active == nil {
		return Order{}, false
	}
	return s.active.clone(), true
}

func (s *service) PastOrders() []Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneOrders(s.past)
}

func (s *service) Subscribe(observer Observer) {
	if observer == nil {
		return
	}
	s.mu.Lock()
	s.observers = append(s.observers, observer)
	s.mu.Unlock()
}

// activeMatchingLocked resolves the active order for a lifecycle mutation.
func (s *service) activeMatchingLocked(ticketID string) (*Order, error) {
	if s.active == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no active order")
	}
	if s.active.TicketID != ticketID {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "ticket does not match the active order").
			WithDetails(map[string]any{"active_ticket_id": s.active.TicketID})
	}
	return s.active, nil
}

func (s *service) persistActive(ctx context.Context) {
	raw, err := json.Marshal(s.active)
	if err != nil {
		s.log.Error(ctx, "active order marshal failed", err)
		return
	}
	if err := s.store.Set(ctx, activeKey, string(raw)); err != nil {
		s.log.Warn(ctx, "active order persist failed: "+err.Error())
	}
}

func (s *service) removeActive(ctx context.Context) {
	if err := s.store.Remove(ctx, activeKey); err != nil {
		s.log.Warn(ctx, "active order remove failed: "+err.Error())
	}
}

func (s *service) persistPast(ctx context.Context) {
	raw, err := json.Marshal(s.past)
	if err != nil {
		s.log.Error(ctx, "past orders marshal failed", err)
		return
	}
	if err := s.store.Set(ctx, pastKey, string(raw)); err != nil {
		s.log.Warn(ctx, "past orders persist failed: "+err.Error())
	}
}

func (s *service) notifyLocked(order Order) {
	for _, observer := range s.observers {
		observer(order.clone())
	}
}

// ProcessingTime renders elapsed time as "2h 15m", or "45m" under an hour.
// Closed orders measure to their close time, open orders to now.
func ProcessingTime(order Order, now time.Time) string {
	end := now
	if order.DateClosed != nil {
		end = *order.DateClosed
	}
	elapsed := end.Sub(order.DateCreated)
	if elapsed < 0 {
		elapsed = 0
	}
	hours := int(elapsed.Hours())
	minutes := int(elapsed.Minutes()) % 60
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

func generateOrderNumber() (string, error) {
	buf := make([]byte, orderNumberLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	out := make([]byte, orderNumberLength)
	for i, b := range buf {
		out[i] = orderNumberCharset[int(b)%len(orderNumberCharset)]
	}
	return string(out), nil
}
