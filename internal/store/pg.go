package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/openpredict/market-api/internal/domain"
	"github.com/openpredict/market-api/internal/store/schema"
)

type pgStore struct {
	db *gorm.DB
}

// NewPGStore creates a new PostgreSQL store instance
func NewPGStore(db *gorm.DB) Store {
	return &pgStore{db: db}
}

// Migrate creates or updates the database schema for all models
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&schema.User{},
		&schema.Question{},
		&schema.YesToken{},
		&schema.NoToken{},
		&schema.YesTokenHolding{},
		&schema.NoTokenHolding{},
		&schema.Transaction{},
		&schema.P2POrder{},
		&schema.MarketResolution{},
		&schema.IdentityEvent{},
	)
}

// ConfigureConnectionPool configures the connection pool settings for a GORM
// database connection. Zero values fall back to defaults: 20 open, 5 idle,
// 5 minute lifetime, 10 minute idle time.
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if maxOpenConns == 0 {
		maxOpenConns = 20
	}
	if maxIdleConns == 0 {
		maxIdleConns = 5
	}
	if connMaxLifetime == 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime == 0 {
		connMaxIdleTime = 10 * time.Minute
	}
	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

func (s *pgStore) CreateUser(ctx context.Context, user *schema.User) error {
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (s *pgStore) OverwriteUserByProviderID(ctx context.Context, providerUserID string, overwrite UserOverwrite) error {
	// Full overwrite: absent optional fields null the columns, so the update
	// map always carries every synced column
	result := s.db.WithContext(ctx).Model(&schema.User{}).
		Where("provider_user_id = ?", providerUserID).
		Updates(map[string]interface{}{
			"email":      overwrite.Email,
			"first_name": overwrite.FirstName,
			"last_name":  overwrite.LastName,
			"image_url":  overwrite.ImageURL,
			"updated_at": overwrite.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to overwrite user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (s *pgStore) SoftDeleteUserByProviderID(ctx context.Context, providerUserID string, deletedAt time.Time) error {
	result := s.db.WithContext(ctx).Model(&schema.User{}).
		Where("provider_user_id = ?", providerUserID).
		Updates(map[string]interface{}{
			"deleted_at": deletedAt,
			"updated_at": deletedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to soft delete user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (s *pgStore) GetUserByProviderID(ctx context.Context, providerUserID string) (*schema.User, error) {
	var user schema.User
	err := s.db.WithContext(ctx).
		Where("provider_user_id = ?", providerUserID).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (s *pgStore) RecordIdentityEvent(ctx context.Context, event *schema.IdentityEvent) error {
	if err := s.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("failed to record identity event: %w", err)
	}
	return nil
}

// sortColumn maps API-level sort fields onto real columns. Unknown fields
// fall back to creation time so client input never reaches the ORDER BY raw.
func sortColumn(sortBy string) string {
	switch sortBy {
	case "resolutionDate":
		return "resolution_date"
	case "title":
		return "title"
	case "category":
		return "category"
	default:
		return "created_at"
	}
}

func (s *pgStore) ListQuestions(ctx context.Context, filter QuestionFilter) ([]*QuestionWithHolderCounts, int64, error) {
	query := s.db.WithContext(ctx).Model(&schema.Question{}).
		Where("status = ?", filter.Status)

	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ?", pattern, pattern)
	}

	// Count total before pagination
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count questions: %w", err)
	}

	direction := "ASC"
	if filter.SortDesc {
		direction = "DESC"
	}

	var questions []schema.Question
	err := query.
		Preload("Creator").
		Preload("YesToken").
		Preload("NoToken").
		Order(fmt.Sprintf("%s %s", sortColumn(filter.SortBy), direction)).
		Limit(filter.Limit).
		Offset((filter.Page - 1) * filter.Limit).
		Find(&questions).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list questions: %w", err)
	}

	if len(questions) == 0 {
		return []*QuestionWithHolderCounts{}, total, nil
	}

	questionIDs := make([]string, len(questions))
	for i := range questions {
		questionIDs[i] = questions[i].ID
	}

	yesCounts, err := s.countHoldersByQuestion(ctx, &schema.YesTokenHolding{}, questionIDs)
	if err != nil {
		return nil, 0, err
	}
	noCounts, err := s.countHoldersByQuestion(ctx, &schema.NoTokenHolding{}, questionIDs)
	if err != nil {
		return nil, 0, err
	}

	results := make([]*QuestionWithHolderCounts, len(questions))
	for i := range questions {
		results[i] = &QuestionWithHolderCounts{
			Question:   &questions[i],
			YesHolders: yesCounts[questions[i].ID],
			NoHolders:  noCounts[questions[i].ID],
		}
	}

	return results, total, nil
}

type holderCountRow struct {
	QuestionID string
	Count      int64
}

func (s *pgStore) countHoldersByQuestion(ctx context.Context, model interface{}, questionIDs []string) (map[string]int64, error) {
	var rows []holderCountRow
	err := s.db.WithContext(ctx).Model(model).
		Select("question_id, COUNT(*) AS count").
		Where("question_id IN ?", questionIDs).
		Group("question_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count holders: %w", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.QuestionID] = row.Count
	}
	return counts, nil
}

func (s *pgStore) GetQuestionByID(ctx context.Context, id string) (*schema.Question, error) {
	// The id column is a uuid; a malformed id cannot match any row and
	// would otherwise surface as a cast error instead of not-found
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrQuestionNotFound
	}

	var question schema.Question
	err := s.db.WithContext(ctx).
		Preload("Creator").
		Preload("YesToken").
		Preload("NoToken").
		Preload("YesTokenHoldings.User").
		Preload("NoTokenHoldings.User").
		Preload("MarketResolution").
		Where("id = ?", id).
		First(&question).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrQuestionNotFound
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}
	return &question, nil
}

func (s *pgStore) GetBuyTransactionsSince(ctx context.Context, questionID string, since time.Time) ([]schema.Transaction, error) {
	if _, err := uuid.Parse(questionID); err != nil {
		return []schema.Transaction{}, nil
	}

	var transactions []schema.Transaction
	err := s.db.WithContext(ctx).
		Where("question_id = ? AND type = ? AND created_at >= ?", questionID, domain.TransactionTypeBuy, since).
		Order("created_at ASC").
		Find(&transactions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get buy transactions: %w", err)
	}
	return transactions, nil
}

func (s *pgStore) GetPendingOrders(ctx context.Context, questionID string) ([]schema.P2POrder, error) {
	if _, err := uuid.Parse(questionID); err != nil {
		return []schema.P2POrder{}, nil
	}

	var orders []schema.P2POrder
	err := s.db.WithContext(ctx).
		Preload("User").
		Where("question_id = ? AND status = ? AND remaining_quantity > 0", questionID, domain.OrderStatusPending).
		Order("token_type ASC").
		Order("price_per_token DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get pending orders: %w", err)
	}
	return orders, nil
}
