package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	pkgkafka "github.com/qasimqz1/ecommerce/pkg/kafka"
	"github.com/qasimqz1/ecommerce/pkg/logger"

	"github.com/qasimqz1/ecommerce/internal/domain"
)

// Event types, also used as the envelope's event_type.
const (
	TypeCartUpdated     = "cart.updated"
	TypeCartCheckedOut  = "cart.checked_out"
	TypeWishlistUpdated = "wishlist.updated"
)

// Kafka topics.
var (
	TopicCartUpdated     = pkgkafka.Topic("cart", "updated")
	TopicCartCheckedOut  = pkgkafka.Topic("cart", "checked_out")
	TopicWishlistUpdated = pkgkafka.Topic("wishlist", "updated")
)

// Aggregate types.
const (
	AggregateTypeSession = "session"
	AggregateTypeProfile = "profile"
)

// SourceStorefront identifies events from this service.
const SourceStorefront = pkgkafka.DefaultSource

// Ref identifies the page session and browser profile an event belongs to.
type Ref struct {
	SessionID string
	ProfileID string
}

// LineData is a cart line within event payloads.
type LineData struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// CartUpdatedData is the payload of cart.updated.
type CartUpdatedData struct {
	SessionID string          `json:"session_id"`
	ProfileID string          `json:"profile_id"`
	Items     []LineData      `json:"items"`
	ItemCount int             `json:"item_count"`
	Total     decimal.Decimal `json:"total"`
}

// CartCheckedOutData is the payload of cart.checked_out.
type CartCheckedOutData struct {
	SessionID string          `json:"session_id"`
	ProfileID string          `json:"profile_id"`
	Items     []LineData      `json:"items"`
	ItemCount int             `json:"item_count"`
	Total     decimal.Decimal `json:"total"`
}

// WishlistUpdatedData is the payload of wishlist.updated.
type WishlistUpdatedData struct {
	ProfileID string   `json:"profile_id"`
	Names     []string `json:"names"`
	Count     int      `json:"count"`
}

// Publisher is what the storefront needs from an event sink.
type Publisher interface {
	PublishCartUpdated(ctx context.Context, ref Ref, cart *domain.Cart) error
	PublishCartCheckedOut(ctx context.Context, ref Ref, receipt domain.Receipt) error
	PublishWishlistUpdated(ctx context.Context, ref Ref, wishlist *domain.Wishlist) error
}

// Producer publishes storefront events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a Kafka-backed publisher.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{kafka: kafka, logger: logger}
}

func lines(items []domain.LineItem) []LineData {
	out := make([]LineData, len(items))
	for i, item := range items {
		out[i] = LineData{Name: item.Name, Price: item.Price, Quantity: item.Quantity}
	}
	return out
}

func (p *Producer) publish(ctx context.Context, topic, eventType string, agg pkgkafka.Aggregate, data any) error {
	event, err := pkgkafka.NewEvent(eventType, agg, data,
		pkgkafka.WithSource(SourceStorefront),
		pkgkafka.WithCorrelationID(logger.CorrelationIDFromContext(ctx)),
	)
	if err != nil {
		return fmt.Errorf("create %s event: %w", eventType, err)
	}
	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", eventType, err)
	}

	p.logger.DebugContext(ctx, "published storefront event",
		slog.String("event_type", eventType),
		slog.String("aggregate_type", agg.Type),
		slog.String("aggregate_id", agg.ID),
	)
	return nil
}

func sessionAggregate(ref Ref) pkgkafka.Aggregate {
	return pkgkafka.Aggregate{Type: AggregateTypeSession, ID: ref.SessionID}
}

func profileAggregate(ref Ref) pkgkafka.Aggregate {
	return pkgkafka.Aggregate{Type: AggregateTypeProfile, ID: ref.ProfileID}
}

// PublishCartUpdated publishes the full cart after a change.
func (p *Producer) PublishCartUpdated(ctx context.Context, ref Ref, cart *domain.Cart) error {
	data := CartUpdatedData{
		SessionID: ref.SessionID,
		ProfileID: ref.ProfileID,
		Items:     lines(cart.Items),
		ItemCount: cart.Count(),
		Total:     cart.Total(),
	}
	return p.publish(ctx, TopicCartUpdated, TypeCartUpdated, sessionAggregate(ref), data)
}

// PublishCartCheckedOut publishes a completed checkout.
func (p *Producer) PublishCartCheckedOut(ctx context.Context, ref Ref, receipt domain.Receipt) error {
	data := CartCheckedOutData{
		SessionID: ref.SessionID,
		ProfileID: ref.ProfileID,
		Items:     lines(receipt.Items),
		ItemCount: receipt.ItemCount,
		Total:     receipt.Total,
	}
	return p.publish(ctx, TopicCartCheckedOut, TypeCartCheckedOut, sessionAggregate(ref), data)
}

// PublishWishlistUpdated publishes the wishlist names after a change. The
// wishlist belongs to the profile, so that is the aggregate.
func (p *Producer) PublishWishlistUpdated(ctx context.Context, ref Ref, wishlist *domain.Wishlist) error {
	names := make([]string, 0, wishlist.Len())
	for _, e := range wishlist.Entries {
		names = append(names, e.Name)
	}
	data := WishlistUpdatedData{
		ProfileID: ref.ProfileID,
		Names:     names,
		Count:     len(names),
	}
	return p.publish(ctx, TopicWishlistUpdated, TypeWishlistUpdated, profileAggregate(ref), data)
}

// Noop discards every event. Used when no brokers are configured.
type Noop struct{}

func (Noop) PublishCartUpdated(context.Context, Ref, *domain.Cart) error { return nil }
func (Noop) PublishCartCheckedOut(context.Context, Ref, domain.Receipt) error { return nil }
func (Noop) PublishWishlistUpdated(context.Context, Ref, *domain.Wishlist) error { return nil }
