package identity

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openpredict/market-api/internal/domain"
	"github.com/openpredict/market-api/internal/logger"
	"github.com/openpredict/market-api/internal/messaging"
	"github.com/openpredict/market-api/internal/store"
	"github.com/openpredict/market-api/internal/store/schema"
)

func TestMain(m *testing.M) {
	if err := logger.Initialize(logger.Config{Debug: true}); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// fakeStore records identity mutations in memory, keyed by provider user id
type fakeStore struct {
	store.Store

	users     map[string]*schema.User
	events    []*schema.IdentityEvent
	recordErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{users: map[string]*schema.User{}}
}

func (f *fakeStore) CreateUser(_ context.Context, user *schema.User) error {
	f.users[user.ProviderUserID] = user
	return nil
}

func (f *fakeStore) OverwriteUserByProviderID(_ context.Context, providerUserID string, overwrite store.UserOverwrite) error {
	user, ok := f.users[providerUserID]
	if !ok {
		return domain.ErrUserNotFound
	}
	user.Email = overwrite.Email
	user.FirstName = overwrite.FirstName
	user.LastName = overwrite.LastName
	user.ImageURL = overwrite.ImageURL
	user.UpdatedAt = overwrite.UpdatedAt
	return nil
}

func (f *fakeStore) SoftDeleteUserByProviderID(_ context.Context, providerUserID string, deletedAt time.Time) error {
	user, ok := f.users[providerUserID]
	if !ok {
		return domain.ErrUserNotFound
	}
	user.DeletedAt = &deletedAt
	return nil
}

func (f *fakeStore) RecordIdentityEvent(_ context.Context, event *schema.IdentityEvent) error {
	if f.recordErr != nil {
		return f.recordErr
	}
	f.events = append(f.events, event)
	return nil
}

// fakePublisher collects published events
type fakePublisher struct {
	events []*messaging.UserEvent
	err    error
}

func (f *fakePublisher) PublishUserEvent(_ context.Context, event *messaging.UserEvent) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event)
	return nil
}

func (f *fakePublisher) Close() {}

func strPtr(s string) *string { return &s }

func createdEnvelope(id string) *Envelope {
	return &Envelope{
		Type: string(EventTypeUserCreated),
		Data: ProviderUser{
			ID: id,
			EmailAddresses: []EmailAddress{
				{ID: "em_2", EmailAddress: "second@example.com"},
				{ID: "em_1", EmailAddress: "primary@example.com"},
			},
			PrimaryEmailAddressID: "em_1",
			FirstName:             strPtr("Grace"),
			LastName:              strPtr("Hopper"),
			ImageURL:              "https://img.example.com/grace.png",
			CreatedAt:             1760000000000,
			UpdatedAt:             1760000000000,
		},
	}
}

func TestProcessorUserCreated(t *testing.T) {
	ctx := context.Background()

	t.Run("creates the user with resolved email and image", func(t *testing.T) {
		fs := newFakeStore()
		pub := &fakePublisher{}
		p := NewProcessor(fs, pub)

		err := p.Process(ctx, "msg_1", createdEnvelope("user_abc"), []byte(`{"type":"user.created"}`))
		require.NoError(t, err)

		user := fs.users["user_abc"]
		require.NotNil(t, user)
		assert.NotEmpty(t, user.ID)
		assert.Equal(t, "primary@example.com", user.Email)
		require.NotNil(t, user.FirstName)
		assert.Equal(t, "Grace", *user.FirstName)
		require.NotNil(t, user.ImageURL)
		assert.Equal(t, "https://img.example.com/grace.png", *user.ImageURL)
		assert.True(t, user.CreatedAt.Equal(time.UnixMilli(1760000000000)))
	})

	t.Run("falls back to the first email when the primary id matches nothing", func(t *testing.T) {
		fs := newFakeStore()
		p := NewProcessor(fs, nil)

		envelope := createdEnvelope("user_abc")
		envelope.Data.PrimaryEmailAddressID = "em_missing"

		require.NoError(t, p.Process(ctx, "msg_1", envelope, nil))
		assert.Equal(t, "second@example.com", fs.users["user_abc"].Email)
	})

	t.Run("rejects a payload without timestamps", func(t *testing.T) {
		fs := newFakeStore()
		p := NewProcessor(fs, nil)

		envelope := createdEnvelope("user_abc")
		envelope.Data.CreatedAt = 0

		err := p.Process(ctx, "msg_1", envelope, nil)
		assert.Error(t, err)
		assert.Empty(t, fs.users)
	})

	t.Run("records the audit row and publishes on success", func(t *testing.T) {
		fs := newFakeStore()
		pub := &fakePublisher{}
		p := NewProcessor(fs, pub)

		raw := []byte(`{"type":"user.created","data":{"id":"user_abc"}}`)
		require.NoError(t, p.Process(ctx, "msg_1", createdEnvelope("user_abc"), raw))

		require.Len(t, fs.events, 1)
		assert.Equal(t, "msg_1", fs.events[0].EventID)
		assert.Equal(t, "user.created", fs.events[0].EventType)
		assert.Equal(t, raw, []byte(fs.events[0].Payload))

		require.Len(t, pub.events, 1)
		assert.Equal(t, "user.created", pub.events[0].EventType)
		assert.Equal(t, "user_abc", pub.events[0].ProviderUserID)
		assert.Equal(t, "msg_1", pub.events[0].EventID)
	})

	t.Run("bus event id falls back when the delivery id is absent", func(t *testing.T) {
		fs := newFakeStore()
		pub := &fakePublisher{}
		p := NewProcessor(fs, pub)

		require.NoError(t, p.Process(ctx, "", createdEnvelope("user_abc"), nil))

		require.Len(t, pub.events, 1)
		assert.NotEmpty(t, pub.events[0].EventID)
	})

	t.Run("audit and publish failures do not fail the event", func(t *testing.T) {
		fs := newFakeStore()
		fs.recordErr = errors.New("audit table unavailable")
		pub := &fakePublisher{err: errors.New("bus down")}
		p := NewProcessor(fs, pub)

		err := p.Process(ctx, "msg_1", createdEnvelope("user_abc"), nil)
		assert.NoError(t, err)
		assert.NotNil(t, fs.users["user_abc"])
	})
}

func TestProcessorUserUpdated(t *testing.T) {
	ctx := context.Background()

	t.Run("overwrites every synced field", func(t *testing.T) {
		fs := newFakeStore()
		p := NewProcessor(fs, nil)
		require.NoError(t, p.Process(ctx, "msg_1", createdEnvelope("user_abc"), nil))

		envelope := &Envelope{
			Type: string(EventTypeUserUpdated),
			Data: ProviderUser{
				ID:             "user_abc",
				EmailAddresses: []EmailAddress{{ID: "em_9", EmailAddress: "new@example.com"}},
				UpdatedAt:      1760000060000,
			},
		}
		require.NoError(t, p.Process(ctx, "msg_2", envelope, nil))

		user := fs.users["user_abc"]
		assert.Equal(t, "new@example.com", user.Email)
		assert.Nil(t, user.FirstName)
		assert.Nil(t, user.LastName)
		assert.Nil(t, user.ImageURL)
		assert.True(t, user.UpdatedAt.Equal(time.UnixMilli(1760000060000)))
	})

	t.Run("replaying the same event is idempotent", func(t *testing.T) {
		fs := newFakeStore()
		p := NewProcessor(fs, nil)
		require.NoError(t, p.Process(ctx, "msg_1", createdEnvelope("user_abc"), nil))

		envelope := &Envelope{
			Type: string(EventTypeUserUpdated),
			Data: ProviderUser{
				ID:        "user_abc",
				FirstName: strPtr("Grace"),
				UpdatedAt: 1760000060000,
			},
		}
		require.NoError(t, p.Process(ctx, "msg_2", envelope, nil))
		before := *fs.users["user_abc"]

		require.NoError(t, p.Process(ctx, "msg_2", envelope, nil))
		assert.Equal(t, before, *fs.users["user_abc"])
	})

	t.Run("unknown user propagates not found", func(t *testing.T) {
		fs := newFakeStore()
		p := NewProcessor(fs, nil)

		envelope := &Envelope{
			Type: string(EventTypeUserUpdated),
			Data: ProviderUser{ID: "user_missing", UpdatedAt: 1760000060000},
		}
		err := p.Process(ctx, "msg_1", envelope, nil)
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}

func TestProcessorUserDeleted(t *testing.T) {
	ctx := context.Background()

	t.Run("soft deletes the user", func(t *testing.T) {
		fs := newFakeStore()
		p := NewProcessor(fs, nil)
		p.now = func() time.Time { return time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC) }
		require.NoError(t, p.Process(ctx, "msg_1", createdEnvelope("user_abc"), nil))

		// Deletion payloads carry only the id, no timestamps
		envelope := &Envelope{
			Type: string(EventTypeUserDeleted),
			Data: ProviderUser{ID: "user_abc"},
		}
		require.NoError(t, p.Process(ctx, "msg_2", envelope, nil))

		user := fs.users["user_abc"]
		require.NotNil(t, user.DeletedAt)
		assert.Equal(t, time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC), *user.DeletedAt)
	})

	t.Run("unknown user propagates not found", func(t *testing.T) {
		fs := newFakeStore()
		p := NewProcessor(fs, nil)

		envelope := &Envelope{
			Type: string(EventTypeUserDeleted),
			Data: ProviderUser{ID: "user_missing"},
		}
		err := p.Process(ctx, "msg_1", envelope, nil)
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}

func TestProcessorUnknownAndInvalid(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown event types are accepted and ignored", func(t *testing.T) {
		fs := newFakeStore()
		p := NewProcessor(fs, nil)

		envelope := &Envelope{Type: "session.created", Data: ProviderUser{ID: "user_abc"}}
		assert.NoError(t, p.Process(ctx, "msg_1", envelope, nil))
		assert.Empty(t, fs.users)
		assert.Empty(t, fs.events)
	})

	t.Run("missing provider user id is an error", func(t *testing.T) {
		fs := newFakeStore()
		p := NewProcessor(fs, nil)

		envelope := &Envelope{Type: string(EventTypeUserCreated)}
		assert.Error(t, p.Process(ctx, "msg_1", envelope, nil))
	})
}
