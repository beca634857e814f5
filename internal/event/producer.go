// Package event publishes session state changes to Kafka. The
// producer plugs into the store layer as an observer, so every cart
// and wishlist mutation fans out as a domain event.
package event

import (
	"context"
	"fmt"
	"log/slog"

	pkgkafka "github.com/storekit/storefront/pkg/kafka"

	"github.com/storekit/storefront/internal/store"
)

// Kafka topic constants for storefront domain events.
const (
	TopicCartUpdated     = "storefront.cart.updated"
	TopicCartCleared     = "storefront.cart.cleared"
	TopicWishlistUpdated = "storefront.wishlist.updated"
)

// Aggregate type constants.
const (
	AggregateTypeCart     = "cart"
	AggregateTypeWishlist = "wishlist"
)

// Source identifier for events originating from the storefront.
const SourceStorefront = "storefront"

// CartUpdatedData is the payload for a cart.updated event.
type CartUpdatedData struct {
	SessionID   string         `json:"session_id"`
	Items       []CartItemData `json:"items"`
	ItemCount   int            `json:"item_count"`
	TotalAmount int64          `json:"total_amount"`
}

// CartItemData is the item payload within cart events.
type CartItemData struct {
	ProductID int    `json:"product_id"`
	Title     string `json:"title"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
}

// CartClearedData is the payload for a cart.cleared event.
type CartClearedData struct {
	SessionID string `json:"session_id"`
}

// WishlistUpdatedData is the payload for a wishlist.updated event.
type WishlistUpdatedData struct {
	SessionID  string `json:"session_id"`
	ProductIDs []int  `json:"product_ids"`
	ItemCount  int    `json:"item_count"`
}

// Producer publishes storefront domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishCartUpdated publishes a cart.updated event from a cart snapshot.
func (p *Producer) PublishCartUpdated(ctx context.Context, sessionID string, snap store.CartSnapshot) error {
	items := make([]CartItemData, len(snap.Items))
	for i, item := range snap.Items {
		items[i] = CartItemData{
			ProductID: item.Product.ID,
			Title:     item.Product.Title,
			Price:     item.Product.Price,
			Quantity:  item.Quantity,
		}
	}

	data := CartUpdatedData{
		SessionID:   sessionID,
		Items:       items,
		ItemCount:   snap.ItemCount,
		TotalAmount: snap.TotalAmount,
	}

	event, err := pkgkafka.NewEvent(TopicCartUpdated, sessionID, AggregateTypeCart, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create cart.updated event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicCartUpdated, event); err != nil {
		return fmt.Errorf("publish cart.updated event: %w", err)
	}

	p.logger.DebugContext(ctx, "published cart.updated event",
		slog.String("session_id", sessionID),
		slog.Int("item_count", snap.ItemCount),
	)

	return nil
}

// PublishCartCleared publishes a cart.cleared event.
func (p *Producer) PublishCartCleared(ctx context.Context, sessionID string) error {
	data := CartClearedData{SessionID: sessionID}

	event, err := pkgkafka.NewEvent(TopicCartCleared, sessionID, AggregateTypeCart, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create cart.cleared event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicCartCleared, event); err != nil {
		return fmt.Errorf("publish cart.cleared event: %w", err)
	}

	p.logger.DebugContext(ctx, "published cart.cleared event",
		slog.String("session_id", sessionID),
	)

	return nil
}

// PublishWishlistUpdated publishes a wishlist.updated event from a snapshot.
func (p *Producer) PublishWishlistUpdated(ctx context.Context, sessionID string, snap store.WishlistSnapshot) error {
	ids := make([]int, len(snap.Products))
	for i, product := range snap.Products {
		ids[i] = product.ID
	}

	data := WishlistUpdatedData{
		SessionID:  sessionID,
		ProductIDs: ids,
		ItemCount:  snap.ItemCount,
	}

	event, err := pkgkafka.NewEvent(TopicWishlistUpdated, sessionID, AggregateTypeWishlist, SourceStorefront, data)
	if err != nil {
		return fmt.Errorf("create wishlist.updated event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicWishlistUpdated, event); err != nil {
		return fmt.Errorf("publish wishlist.updated event: %w", err)
	}

	p.logger.DebugContext(ctx, "published wishlist.updated event",
		slog.String("session_id", sessionID),
		slog.Int("item_count", snap.ItemCount),
	)

	return nil
}

// CartObserver adapts the producer to the store's observer hook. A
// mutation leaving the cart empty publishes cart.cleared; everything
// else publishes cart.updated. Publish failures are logged and
// swallowed so a Kafka outage never blocks a shopper's mutation.
func (p *Producer) CartObserver() store.CartObserver {
	return func(ctx context.Context, sessionID string, snap store.CartSnapshot) {
		var err error
		if snap.ItemCount == 0 {
			err = p.PublishCartCleared(ctx, sessionID)
		} else {
			err = p.PublishCartUpdated(ctx, sessionID, snap)
		}
		if err != nil {
			p.logger.ErrorContext(ctx, "failed to publish cart event",
				slog.String("session_id", sessionID),
				slog.String("error", err.Error()),
			)
		}
	}
}

// WishlistObserver adapts the producer to the store's observer hook.
func (p *Producer) WishlistObserver() store.WishlistObserver {
	return func(ctx context.Context, sessionID string, snap store.WishlistSnapshot) {
		if err := p.PublishWishlistUpdated(ctx, sessionID, snap); err != nil {
			p.logger.ErrorContext(ctx, "failed to publish wishlist event",
				slog.String("session_id", sessionID),
				slog.String("error", err.Error()),
			)
		}
	}
}
