package store

import (
	"context"
	"time"

	"github.com/openpredict/market-api/internal/domain"
	"github.com/openpredict/market-api/internal/store/schema"
)

// QuestionFilter holds the filtering, sorting and pagination inputs for
// question listing queries
type QuestionFilter struct {
	// Page is the 1-based page number
	Page int
	// Limit is the page size
	Limit int
	// Category filters by exact category match when non-empty
	Category string
	// Status filters by market lifecycle state
	Status domain.QuestionStatus
	// Search matches title or description by case-insensitive containment
	Search string
	// SortBy is the API-level sort field (createdAt, resolutionDate, title, category)
	SortBy string
	// SortDesc sorts descending when true
	SortDesc bool
}

// QuestionWithHolderCounts pairs a question row with its per-side holder counts
type QuestionWithHolderCounts struct {
	Question   *schema.Question
	YesHolders int64
	NoHolders  int64
}

// UserOverwrite carries the full-overwrite field set applied on a
// user.updated event. Nil optional fields null the columns; this is a
// replace, not a patch.
type UserOverwrite struct {
	Email     string
	FirstName *string
	LastName  *string
	ImageURL  *string
	UpdatedAt time.Time
}

// Store defines the interface for database operations
type Store interface {
	// CreateUser inserts a new user record synced from the identity provider
	CreateUser(ctx context.Context, user *schema.User) error
	// OverwriteUserByProviderID replaces a user's synced fields, matching by
	// provider user id. Returns domain.ErrUserNotFound when no row matches.
	OverwriteUserByProviderID(ctx context.Context, providerUserID string, overwrite UserOverwrite) error
	// SoftDeleteUserByProviderID marks a user deleted without removing the row.
	// Returns domain.ErrUserNotFound when no row matches.
	SoftDeleteUserByProviderID(ctx context.Context, providerUserID string, deletedAt time.Time) error
	// GetUserByProviderID retrieves a user by the identity provider's id.
	// Returns domain.ErrUserNotFound when no row matches.
	GetUserByProviderID(ctx context.Context, providerUserID string) (*schema.User, error)
	// RecordIdentityEvent appends a processed webhook delivery to the audit log
	RecordIdentityEvent(ctx context.Context, event *schema.IdentityEvent) error

	// ListQuestions retrieves a page of questions with creator and token
	// summaries plus per-side holder counts, and the total matching count
	ListQuestions(ctx context.Context, filter QuestionFilter) ([]*QuestionWithHolderCounts, int64, error)
	// GetQuestionByID retrieves a question with creator, tokens, holdings
	// (including holder users) and any market resolution.
	// Returns domain.ErrQuestionNotFound when no row matches.
	GetQuestionByID(ctx context.Context, id string) (*schema.Question, error)

	// GetBuyTransactionsSince retrieves BUY transactions for a question with
	// creation time at or after the lower bound, ordered ascending
	GetBuyTransactionsSince(ctx context.Context, questionID string, since time.Time) ([]schema.Transaction, error)
	// GetPendingOrders retrieves PENDING orders with remaining quantity for a
	// question, including order owners, pre-sorted by token side then price
	GetPendingOrders(ctx context.Context, questionID string) ([]schema.P2POrder, error)
}
