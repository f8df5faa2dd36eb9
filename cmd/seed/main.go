// Command seed populates a development database with a small set of
// markets, traders, orders, transactions and holdings.
package main

import (
	"flag"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/openpredict/market-api/internal/config"
	"github.com/openpredict/market-api/internal/domain"
	"github.com/openpredict/market-api/internal/logger"
	"github.com/openpredict/market-api/internal/store"
	"github.com/openpredict/market-api/internal/store/schema"
)

var (
	configFile = flag.String("config", "", "Path to configuration file")
	envPath    = flag.String("env", "config/", "Path to environment files")
)

type questionFixture struct {
	title              string
	description        string
	category           string
	imageURL           string
	resolutionDate     time.Time
	constantValue      int64
	totalYesTokens     int64
	totalNoTokens      int64
	initialTokenSupply int64
	initialTokenPrice  string
}

var questionFixtures = []questionFixture{
	{
		title:              "Will Bitcoin reach $100,000 by end of 2025?",
		description:        "This market will resolve to YES if Bitcoin (BTC) reaches or exceeds $100,000 USD on any major exchange by December 31, 2025. Resolution based on CoinGecko, CoinMarketCap, or major exchange data.",
		category:           "crypto",
		imageURL:           "https://example.com/bitcoin-image.jpg",
		resolutionDate:     time.Date(2025, 12, 31, 23, 59, 59, 0, time.UTC),
		constantValue:      10000,
		totalYesTokens:     8000,
		totalNoTokens:      5000,
		initialTokenSupply: 10000,
		initialTokenPrice:  "1.00",
	},
	{
		title:              "Will AI replace 50% of software developers by 2030?",
		description:        "This market resolves to YES if credible studies show that AI has automated at least 50% of traditional software development roles by 2030. Resolution based on industry reports from major consulting firms.",
		category:           "technology",
		imageURL:           "https://example.com/ai-image.jpg",
		resolutionDate:     time.Date(2030, 12, 31, 23, 59, 59, 0, time.UTC),
		constantValue:      5000,
		totalYesTokens:     2500,
		totalNoTokens:      7500,
		initialTokenSupply: 5000,
		initialTokenPrice:  "1.00",
	},
	{
		title:              "Will the next US President be a Democrat?",
		description:        "This market will resolve to YES if the candidate who wins the 2028 US Presidential Election is from the Democratic Party. Resolution based on official election results.",
		category:           "politics",
		imageURL:           "https://example.com/election-image.jpg",
		resolutionDate:     time.Date(2028, 11, 15, 23, 59, 59, 0, time.UTC),
		constantValue:      20000,
		totalYesTokens:     10000,
		totalNoTokens:      10000,
		initialTokenSupply: 10000,
		initialTokenPrice:  "2.00",
	},
	{
		title:              "Will Messi win the 2026 World Cup?",
		description:        "This market resolves to YES if Lionel Messi is part of the Argentina squad that wins the 2026 FIFA World Cup. Resolution based on official FIFA results.",
		category:           "sports",
		imageURL:           "https://example.com/messi-image.jpg",
		resolutionDate:     time.Date(2026, 7, 31, 23, 59, 59, 0, time.UTC),
		constantValue:      15000,
		totalYesTokens:     12000,
		totalNoTokens:      3000,
		initialTokenSupply: 7500,
		initialTokenPrice:  "2.00",
	},
	{
		title:              "Will global temperature rise exceed 1.5°C by 2030?",
		description:        "This market resolves to YES if global average temperature rise exceeds 1.5°C above pre-industrial levels by 2030, based on IPCC or NASA data.",
		category:           "environment",
		imageURL:           "https://example.com/climate-image.jpg",
		resolutionDate:     time.Date(2030, 12, 31, 23, 59, 59, 0, time.UTC),
		constantValue:      8000,
		totalYesTokens:     6000,
		totalNoTokens:      4000,
		initialTokenSupply: 4000,
		initialTokenPrice:  "2.00",
	},
}

func main() {
	flag.Parse()

	config.ChdirRepoRoot()
	cfg, err := config.LoadSeedConfig(*configFile, *envPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	if err := logger.Initialize(logger.Config{Debug: cfg.Debug}); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Flush(2 * time.Second)

	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := store.Migrate(db); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	if err := seed(db); err != nil {
		logger.Fatal("Seeding failed", zap.Error(err))
	}
	logger.Info("Database seeding completed",
		zap.Int("questions", len(questionFixtures)))
}

func seed(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		// Wipe market data; users last since everything references them
		for _, model := range []any{
			&schema.Transaction{}, &schema.P2POrder{},
			&schema.YesTokenHolding{}, &schema.NoTokenHolding{},
			&schema.YesToken{}, &schema.NoToken{},
			&schema.MarketResolution{}, &schema.Question{},
			&schema.IdentityEvent{}, &schema.User{},
		} {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
				return fmt.Errorf("failed to wipe table: %w", err)
			}
		}

		users, err := seedUsers(tx)
		if err != nil {
			return err
		}

		questions, err := seedQuestions(tx, users)
		if err != nil {
			return err
		}

		if err := seedOrders(tx, users, questions); err != nil {
			return err
		}
		if err := seedTransactions(tx, users, questions); err != nil {
			return err
		}
		return seedHoldings(tx, users, questions)
	})
}

func seedUsers(tx *gorm.DB) ([]schema.User, error) {
	now := time.Now()
	fixtures := []struct {
		provider, email, first, last string
	}{
		{"user_seed_admin", "admin@predictionmarket.com", "Admin", "User"},
		{"user_seed_moderator", "moderator@predictionmarket.com", "Market", "Moderator"},
		{"user_seed_alice", "alice@example.com", "Alice", "Nguyen"},
		{"user_seed_bob", "bob@example.com", "Bob", "Okafor"},
		{"user_seed_carol", "carol@example.com", "Carol", "Silva"},
	}

	users := make([]schema.User, 0, len(fixtures))
	for _, f := range fixtures {
		first, last := f.first, f.last
		user := schema.User{
			ID:             uuid.NewString(),
			ProviderUserID: f.provider,
			Email:          f.email,
			FirstName:      &first,
			LastName:       &last,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := tx.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("failed to create user %s: %w", f.provider, err)
		}
		users = append(users, user)
	}
	return users, nil
}

func seedQuestions(tx *gorm.DB, users []schema.User) ([]schema.Question, error) {
	now := time.Now()
	questions := make([]schema.Question, 0, len(questionFixtures))

	for i, f := range questionFixtures {
		constant := decimal.NewFromInt(f.constantValue)
		yesPrice := domain.SpotPrice(constant, f.totalYesTokens)
		noPrice := domain.SpotPrice(constant, f.totalNoTokens)

		imageURL := f.imageURL
		question := schema.Question{
			ID:                 uuid.NewString(),
			Title:              f.title,
			Description:        f.description,
			Category:           f.category,
			ImageURL:           &imageURL,
			ResolutionDate:     f.resolutionDate,
			ConstantValue:      constant,
			TotalYesTokens:     f.totalYesTokens,
			TotalNoTokens:      f.totalNoTokens,
			CurrentYesPrice:    yesPrice,
			CurrentNoPrice:     noPrice,
			InitialTokenSupply: f.initialTokenSupply,
			InitialTokenPrice:  decimal.RequireFromString(f.initialTokenPrice),
			Status:             domain.QuestionStatusActive,
			CreatedByID:        users[i%2].ID,
			CreatedAt:          now,
			UpdatedAt:          now,
		}
		if err := tx.Create(&question).Error; err != nil {
			return nil, fmt.Errorf("failed to create question %q: %w", f.title, err)
		}

		// Volume is simulated as 80% of each side's own circulating value.
		// The original fixtures priced NO volume off the YES side; that
		// looked like a copy-paste slip, so each side uses its own numbers.
		yesVolume := yesPrice.Mul(decimal.NewFromInt(f.totalYesTokens)).Mul(decimal.NewFromFloat(0.8))
		noVolume := noPrice.Mul(decimal.NewFromInt(f.totalNoTokens)).Mul(decimal.NewFromFloat(0.8))

		yesToken := schema.YesToken{
			ID:                uuid.NewString(),
			QuestionID:        question.ID,
			CurrentPrice:      yesPrice,
			AvailableSupply:   f.initialTokenSupply - f.totalYesTokens,
			CirculatingSupply: f.totalYesTokens,
			TotalVolume:       yesVolume,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		if err := tx.Create(&yesToken).Error; err != nil {
			return nil, fmt.Errorf("failed to create YES token: %w", err)
		}

		noToken := schema.NoToken{
			ID:                uuid.NewString(),
			QuestionID:        question.ID,
			CurrentPrice:      noPrice,
			AvailableSupply:   f.initialTokenSupply - f.totalNoTokens,
			CirculatingSupply: f.totalNoTokens,
			TotalVolume:       noVolume,
			CreatedAt:         now,
			UpdatedAt:         now,
		}
		if err := tx.Create(&noToken).Error; err != nil {
			return nil, fmt.Errorf("failed to create NO token: %w", err)
		}

		questions = append(questions, question)
	}

	return questions, nil
}

func seedOrders(tx *gorm.DB, users []schema.User, questions []schema.Question) error {
	now := time.Now()
	expires := func(days int) *time.Time {
		t := now.AddDate(0, 0, days)
		return &t
	}

	orders := []schema.P2POrder{
		{
			UserID: users[2].ID, QuestionID: questions[0].ID,
			OrderType: domain.OrderTypeSell, TokenType: domain.TokenTypeYes,
			Quantity: 100, PricePerToken: decimal.RequireFromString("1.30"),
			TotalAmount: decimal.RequireFromString("130.00"), RemainingQuantity: 100,
			Status: domain.OrderStatusPending, ExpiresAt: expires(7),
		},
		{
			UserID: users[3].ID, QuestionID: questions[0].ID,
			OrderType: domain.OrderTypeBuy, TokenType: domain.TokenTypeNo,
			Quantity: 50, PricePerToken: decimal.RequireFromString("1.95"),
			TotalAmount: decimal.RequireFromString("97.50"), RemainingQuantity: 50,
			Status: domain.OrderStatusPending, ExpiresAt: expires(3),
		},
		{
			UserID: users[4].ID, QuestionID: questions[1].ID,
			OrderType: domain.OrderTypeSell, TokenType: domain.TokenTypeNo,
			Quantity: 200, PricePerToken: decimal.RequireFromString("0.70"),
			TotalAmount: decimal.RequireFromString("140.00"), RemainingQuantity: 200,
			Status: domain.OrderStatusPending, ExpiresAt: expires(5),
		},
	}

	for i := range orders {
		orders[i].ID = uuid.NewString()
		orders[i].CreatedAt = now
		orders[i].UpdatedAt = now
		if err := tx.Create(&orders[i]).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
	}
	return nil
}

func seedTransactions(tx *gorm.DB, users []schema.User, questions []schema.Question) error {
	now := time.Now()

	transactions := []schema.Transaction{
		{
			UserID: users[2].ID, QuestionID: questions[0].ID,
			Type: domain.TransactionTypeBuy, Source: domain.TransactionSourcePlatformMint,
			TokenType: domain.TokenTypeYes, Quantity: 500,
			PricePerToken: decimal.RequireFromString("1.20"),
			TotalAmount:   decimal.RequireFromString("600.00"),
			CreatedAt:     now.AddDate(0, 0, -2),
		},
		{
			UserID: users[3].ID, QuestionID: questions[0].ID,
			Type: domain.TransactionTypeBuy, Source: domain.TransactionSourcePlatformMint,
			TokenType: domain.TokenTypeNo, Quantity: 300,
			PricePerToken: decimal.RequireFromString("1.90"),
			TotalAmount:   decimal.RequireFromString("570.00"),
			CreatedAt:     now.AddDate(0, 0, -1),
		},
		{
			UserID: users[4].ID, QuestionID: questions[1].ID,
			Type: domain.TransactionTypeBuy, Source: domain.TransactionSourcePlatformMint,
			TokenType: domain.TokenTypeNo, Quantity: 1000,
			PricePerToken: decimal.RequireFromString("0.65"),
			TotalAmount:   decimal.RequireFromString("650.00"),
			CreatedAt:     now.AddDate(0, 0, -3),
		},
	}

	for i := range transactions {
		transactions[i].ID = uuid.NewString()
		if err := tx.Create(&transactions[i]).Error; err != nil {
			return fmt.Errorf("failed to create transaction: %w", err)
		}
	}
	return nil
}

func seedHoldings(tx *gorm.DB, users []schema.User, questions []schema.Question) error {
	now := time.Now()

	yesHoldings := []schema.YesTokenHolding{
		{
			UserID: users[2].ID, QuestionID: questions[0].ID,
			Quantity: 500, AverageBuyPrice: decimal.RequireFromString("1.20"),
			TotalInvested: decimal.RequireFromString("600.00"), AvailableForSale: 100,
		},
		{
			UserID: users[3].ID, QuestionID: questions[2].ID,
			Quantity: 250, AverageBuyPrice: decimal.RequireFromString("1.95"),
			TotalInvested: decimal.RequireFromString("487.50"), AvailableForSale: 50,
		},
	}
	for i := range yesHoldings {
		yesHoldings[i].ID = uuid.NewString()
		yesHoldings[i].CreatedAt = now
		yesHoldings[i].UpdatedAt = now
		if err := tx.Create(&yesHoldings[i]).Error; err != nil {
			return fmt.Errorf("failed to create YES holding: %w", err)
		}
	}

	noHoldings := []schema.NoTokenHolding{
		{
			UserID: users[3].ID, QuestionID: questions[0].ID,
			Quantity: 300, AverageBuyPrice: decimal.RequireFromString("1.90"),
			TotalInvested: decimal.RequireFromString("570.00"), AvailableForSale: 0,
		},
		{
			UserID: users[4].ID, QuestionID: questions[1].ID,
			Quantity: 1000, AverageBuyPrice: decimal.RequireFromString("0.65"),
			TotalInvested: decimal.RequireFromString("650.00"), AvailableForSale: 200,
		},
	}
	for i := range noHoldings {
		noHoldings[i].ID = uuid.NewString()
		noHoldings[i].CreatedAt = now
		noHoldings[i].UpdatedAt = now
		if err := tx.Create(&noHoldings[i]).Error; err != nil {
			return fmt.Errorf("failed to create NO holding: %w", err)
		}
	}

	return nil
}
