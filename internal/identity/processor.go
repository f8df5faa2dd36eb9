package identity

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/openpredict/market-api/internal/logger"
	"github.com/openpredict/market-api/internal/messaging"
	"github.com/openpredict/market-api/internal/store"
	"github.com/openpredict/market-api/internal/store/schema"
)

// Processor applies identity-provider lifecycle events to the local user
// store. Each delivery is handled independently; a failure affects only
// its own event.
type Processor struct {
	store     store.Store
	publisher messaging.Publisher
	now       func() time.Time
}

// NewProcessor creates an identity event processor. The publisher may be
// nil when no message bus is configured.
func NewProcessor(s store.Store, publisher messaging.Publisher) *Processor {
	return &Processor{
		store:     s,
		publisher: publisher,
		now:       time.Now,
	}
}

// Process handles one verified webhook delivery. Unknown event types are
// logged and accepted; known types are synced against the store and the
// failure, if any, is returned to the webhook boundary.
func (p *Processor) Process(ctx context.Context, deliveryID string, envelope *Envelope, raw []byte) error {
	eventType := ParseEventType(envelope.Type)
	if eventType == EventTypeUnknown {
		logger.InfoCtx(ctx, "Ignoring unhandled identity event", zap.String("type", envelope.Type))
		return nil
	}

	if envelope.Data.ID == "" {
		return fmt.Errorf("identity event %s missing provider user id", envelope.Type)
	}

	var err error
	switch eventType {
	case EventTypeUserCreated:
		err = p.handleUserCreated(ctx, &envelope.Data)
	case EventTypeUserUpdated:
		err = p.handleUserUpdated(ctx, &envelope.Data)
	case EventTypeUserDeleted:
		err = p.handleUserDeleted(ctx, &envelope.Data)
	}
	if err != nil {
		logger.ErrorCtx(ctx, err,
			zap.String("event_type", string(eventType)),
			zap.String("provider_user_id", envelope.Data.ID))
		return err
	}

	// Audit log and bus publication are best effort; the sync already
	// succeeded and the webhook must not fail because of them
	p.recordEvent(ctx, deliveryID, eventType, envelope.Data.ID, raw)
	p.publishEvent(ctx, deliveryID, eventType, envelope.Data.ID)

	logger.InfoCtx(ctx, "Processed identity event",
		zap.String("event_type", string(eventType)),
		zap.String("provider_user_id", envelope.Data.ID))
	return nil
}

func (p *Processor) handleUserCreated(ctx context.Context, data *ProviderUser) error {
	if data.CreatedAt == 0 || data.UpdatedAt == 0 {
		return fmt.Errorf("user.created payload missing timestamps")
	}

	user := &schema.User{
		ID:             uuid.NewString(),
		ProviderUserID: data.ID,
		Email:          data.PrimaryEmail(),
		FirstName:      data.FirstName,
		LastName:       data.LastName,
		ImageURL:       data.Image(),
		CreatedAt:      time.UnixMilli(data.CreatedAt),
		UpdatedAt:      time.UnixMilli(data.UpdatedAt),
	}

	return p.store.CreateUser(ctx, user)
}

func (p *Processor) handleUserUpdated(ctx context.Context, data *ProviderUser) error {
	if data.UpdatedAt == 0 {
		return fmt.Errorf("user.updated payload missing timestamp")
	}

	// Full overwrite, not a patch: fields absent from the payload null
	// their columns, so replaying the same event is idempotent
	return p.store.OverwriteUserByProviderID(ctx, data.ID, store.UserOverwrite{
		Email:     data.PrimaryEmail(),
		FirstName: data.FirstName,
		LastName:  data.LastName,
		ImageURL:  data.Image(),
		UpdatedAt: time.UnixMilli(data.UpdatedAt),
	})
}

func (p *Processor) handleUserDeleted(ctx context.Context, data *ProviderUser) error {
	// Soft delete: the row and its holdings, orders and transactions are retained
	return p.store.SoftDeleteUserByProviderID(ctx, data.ID, p.now())
}

func (p *Processor) recordEvent(ctx context.Context, deliveryID string, eventType EventType, providerUserID string, raw []byte) {
	event := &schema.IdentityEvent{
		EventID:        deliveryID,
		EventType:      string(eventType),
		ProviderUserID: providerUserID,
		Payload:        datatypes.JSON(raw),
		ReceivedAt:     p.now(),
	}
	if err := p.store.RecordIdentityEvent(ctx, event); err != nil {
		logger.WarnCtx(ctx, "Failed to record identity event",
			zap.Error(err),
			zap.String("event_id", deliveryID))
	}
}

func (p *Processor) publishEvent(ctx context.Context, deliveryID string, eventType EventType, providerUserID string) {
	if p.publisher == nil {
		return
	}

	// The delivery id carries through to the bus so a provider redelivery
	// keeps the same event id and the broker can deduplicate it
	eventID := deliveryID
	if eventID == "" {
		eventID = ulid.Make().String()
	}

	event := &messaging.UserEvent{
		EventID:        eventID,
		EventType:      string(eventType),
		ProviderUserID: providerUserID,
		Timestamp:      p.now(),
	}
	if err := p.publisher.PublishUserEvent(ctx, event); err != nil {
		logger.WarnCtx(ctx, "Failed to publish identity event",
			zap.Error(err),
			zap.String("event_type", string(eventType)))
	}
}
