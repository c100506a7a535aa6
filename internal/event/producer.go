package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/utafrali/storefront/internal/domain"
	pkgkafka "github.com/utafrali/storefront/pkg/kafka"
)

// Kafka topic constants for storefront analytics events.
const (
	TopicCartItemAdded       = "storefront.cart.item_added"
	TopicCartItemRemoved     = "storefront.cart.item_removed"
	TopicCartQuantityUpdated = "storefront.cart.quantity_updated"
	TopicCartCleared         = "storefront.cart.cleared"
	TopicPreorderItemSet     = "storefront.preorder.item_set"
	TopicPreorderCleared     = "storefront.preorder.cleared"
	TopicOrderSubmitted      = "storefront.order.submitted"
)

// Aggregate type constants.
const (
	AggregateTypeCart     = "cart"
	AggregateTypePreorder = "preorder_cart"
	AggregateTypeOrder    = "order"
)

// SourceStorefront identifies events originating from this service.
const SourceStorefront = "storefront"

// CartMutationData is the payload for cart line mutation events. Quantity is
// the resulting quantity after the mutation (0 for removals).
type CartMutationData struct {
	SessionID  string `json:"session_id"`
	ProductID  string `json:"product_id"`
	VariantID  string `json:"variant_id,omitempty"`
	Name       string `json:"name,omitempty"`
	UnitPrice  int64  `json:"unit_price,omitempty"`
	Quantity   int    `json:"quantity"`
	ItemCount  int    `json:"item_count"`
	Subtotal   int64  `json:"subtotal"`
	GrandTotal int64  `json:"grand_total"`
}

// CartClearedData is the payload for a cart.cleared event.
type CartClearedData struct {
	SessionID string `json:"session_id"`
}

// OrderSubmittedData is the payload for an order.submitted event.
type OrderSubmittedData struct {
	SessionID      string `json:"session_id"`
	OrderID        string `json:"order_id"`
	CustomerSource string `json:"customer_source"`
	ItemCount      int    `json:"item_count"`
	GrandTotal     int64  `json:"grand_total"`
	Preorder       bool   `json:"preorder"`
}

// Producer publishes storefront analytics events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer for the storefront service.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishCartItemAdded publishes a cart.item_added event.
func (p *Producer) PublishCartItemAdded(ctx context.Context, cart *domain.Cart, item domain.CartItem) error {
	return p.publishCartMutation(ctx, TopicCartItemAdded, cart, item, item.Quantity)
}

// PublishCartItemRemoved publishes a cart.item_removed event.
func (p *Producer) PublishCartItemRemoved(ctx context.Context, cart *domain.Cart, item domain.CartItem) error {
	return p.publishCartMutation(ctx, TopicCartItemRemoved, cart, item, 0)
}

// PublishCartQuantityUpdated publishes a cart.quantity_updated event.
func (p *Producer) PublishCartQuantityUpdated(ctx context.Context, cart *domain.Cart, item domain.CartItem) error {
	return p.publishCartMutation(ctx, TopicCartQuantityUpdated, cart, item, item.Quantity)
}

func (p *Producer) publishCartMutation(ctx context.Context, topic string, cart *domain.Cart, item domain.CartItem, quantity int) error {
	data := CartMutationData{
		SessionID:  cart.SessionID,
		ProductID:  item.ProductID,
		VariantID:  item.VariantID,
		Name:       item.Name,
		UnitPrice:  item.UnitPrice,
		Quantity:   quantity,
		ItemCount:  cart.ItemCount(),
		Subtotal:   cart.Subtotal(),
		GrandTotal: cart.GrandTotal(),
	}

	event, err := pkgkafka.NewEvent(topic, cart.SessionID, AggregateTypeCart, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published cart mutation event",
		slog.String("topic", topic),
		slog.String("session_id", cart.SessionID),
		slog.String("product_id", item.ProductID),
		slog.Int("quantity", quantity),
	)

	return nil
}

// PublishCartCleared publishes a cart.cleared event.
func (p *Producer) PublishCartCleared(ctx context.Context, sessionID string) error {
	return p.publishCleared(ctx, TopicCartCleared, AggregateTypeCart, sessionID)
}

// PublishPreorderItemSet publishes a preorder.item_set event.
func (p *Producer) PublishPreorderItemSet(ctx context.Context, cart *domain.PreorderCart) error {
	if cart.Item == nil {
		return fmt.Errorf("preorder.item_set event requires an item")
	}

	data := CartMutationData{
		SessionID:  cart.SessionID,
		ProductID:  cart.Item.ProductID,
		VariantID:  cart.Item.VariantID,
		Name:       cart.Item.Name,
		UnitPrice:  cart.Item.UnitPrice,
		Quantity:   cart.Item.Quantity,
		ItemCount:  cart.ItemCount(),
		Subtotal:   cart.Subtotal(),
		GrandTotal: cart.GrandTotal(),
	}

	event, err := pkgkafka.NewEvent(TopicPreorderItemSet, cart.SessionID, AggregateTypePreorder, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create preorder.item_set event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicPreorderItemSet, event); err != nil {
		return fmt.Errorf("publish preorder.item_set event: %w", err)
	}

	return nil
}

// PublishPreorderCleared publishes a preorder.cleared event.
func (p *Producer) PublishPreorderCleared(ctx context.Context, sessionID string) error {
	return p.publishCleared(ctx, TopicPreorderCleared, AggregateTypePreorder, sessionID)
}

func (p *Producer) publishCleared(ctx context.Context, topic, aggregateType, sessionID string) error {
	data := CartClearedData{SessionID: sessionID}

	event, err := pkgkafka.NewEvent(topic, sessionID, aggregateType, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	return nil
}

// PublishOrderSubmitted publishes an order.submitted event.
func (p *Producer) PublishOrderSubmitted(ctx context.Context, data OrderSubmittedData) error {
	event, err := pkgkafka.NewEvent(TopicOrderSubmitted, data.SessionID, AggregateTypeOrder, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create order.submitted event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicOrderSubmitted, event); err != nil {
		return fmt.Errorf("publish order.submitted event: %w", err)
	}

	p.logger.DebugContext(ctx, "published order.submitted event",
		slog.String("session_id", data.SessionID),
		slog.String("order_id", data.OrderID),
	)

	return nil
}
