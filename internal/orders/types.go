package orders

import (
	"time"

	"github.com/barbarycoast/storefront-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// LineInput is what callers hand to CreateOrder: a product reference and a
// positive quantity, normally the cart's lines at checkout.
type LineInput struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gt=0"`
}

// OrderItem is a priced order line with its tax breakdown pinned at creation.
type OrderItem struct {
	ProductID    string          `json:"product_id"`
	ProductName  string          `json:"product_name"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	LineSubtotal decimal.Decimal `json:"line_subtotal"`
	ExciseTax    decimal.Decimal `json:"excise_tax"`
	SalesTax     decimal.Decimal `json:"sales_tax"`
	CityTax      decimal.Decimal `json:"city_tax"`
	Discount     decimal.Decimal `json:"discount"`
}

// Order is the full lifecycle record. Monetary fields are frozen at creation;
// only status, payment and timestamps move afterwards.
type Order struct {
	TicketID      string              `json:"ticket_id"`
	OrderNumber   string              `json:"order_number"`
	OrderType     enums.OrderType     `json:"order_type"`
	OrderStatus   enums.OrderStatus   `json:"order_status"`
	PaymentStatus enums.PaymentStatus `json:"payment_status"`
	DateCreated   time.Time           `json:"date_created"`
	LastUpdatedAt time.Time           `json:"last_updated_at"`
	DateClosed    *time.Time          `json:"date_closed"`
	Items         []OrderItem         `json:"items"`
	SubTotal      decimal.Decimal     `json:"sub_total"`
	TaxTotal      decimal.Decimal     `json:"tax_total"`
	DiscountTotal decimal.Decimal     `json:"discount_total"`
	Total         decimal.Decimal     `json:"total"`
}

func (o Order) clone() Order {
	out := o
	out.Items = make([]OrderItem, len(o.Items))
	copy(out.Items, o.Items)
	if o.DateClosed != nil {
		closed := *o.DateClosed
		out.DateClosed = &closed
	}
	return out
}

func cloneOrders(orders []Order) []Order {
	out := make([]Order, len(orders))
	for i, order := range orders {
		out[i] = order.clone()
	}
	return out
}
