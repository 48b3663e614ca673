package main

import (
	"context"
	"fmt"
	stdlog "log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"

	"github.com/rpupo63/portfolio-blog/api"
	"github.com/rpupo63/portfolio-blog/config"
	"github.com/rpupo63/portfolio-blog/database"
	"github.com/rpupo63/portfolio-blog/models"
	"github.com/rpupo63/portfolio-blog/services"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: Error loading .env file: %v\n", err)
	}

	c := config.New()
	setupLogging(c)
	log.Info().Msg("Initializing app...")

	if path := config.GetString(c, "SSM_PARAMETER_PATH", ""); path != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := config.LoadSSM(ctx, c, path)
		cancel()
		if err != nil {
			log.Fatal().Err(err).Str("path", path).Msg("Error loading parameters from SSM")
		}
		setupLogging(c)
	}

	db, err := openDatabase(c)
	if err != nil {
		log.Fatal().Err(err).Msg("Error connecting to database")
	}

	// Test database connection
	var result int
	if err := db.Raw("SELECT 1").Scan(&result).Error; err != nil {
		log.Fatal().Err(err).Msg("Error testing database connection")
	}

	// If generating models, run generation and exit
	if config.GetBool(c, "GENERATE_MODELS", false) {
		log.Info().Msg("Generating models and query helpers...")
		if err := models.GenerateModels(db); err != nil {
			log.Fatal().Err(err).Msg("Error generating models")
		}
		return
	}

	// If generating column mismatch report, run report and exit
	if config.GetBool(c, "GENERATE_COLUMN_REPORT", false) {
		log.Info().Msg("Generating column mismatch report...")
		if _, err := models.GenerateColumnMismatchReport(db); err != nil {
			log.Fatal().Err(err).Msg("Error generating column report")
		}
		return
	}

	currentDB := database.New(db)
	if config.GetBool(c, "AUTO_MIGRATE", true) {
		if err := currentDB.Migrate(); err != nil {
			log.Fatal().Err(err).Msg("Error migrating database")
		}
	}

	deps, notifier, err := buildDependencies(c)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing dependencies")
	}

	errChannel := make(chan error)
	defer close(errChannel)

	server, err := api.NewServer(currentDB, c, deps)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing server")
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	log.Info().Msgf("Closing server: %v", fatalErr)

	server.ShutdownGracefully(30 * time.Second)

	drainCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := notifier.Close(drainCtx); err != nil {
		log.Warn().Err(err).Msg("Pending notifications were dropped")
	}
}

// setupLogging configures the global zerolog logger from LOG_LEVEL and LOG_FORMAT.
func setupLogging(c map[string]string) {
	level, err := zerolog.ParseLevel(strings.ToLower(config.GetString(c, "LOG_LEVEL", "info")))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if strings.ToLower(config.GetString(c, "LOG_FORMAT", "console")) == "console" {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
		return
	}
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
}

// buildDSN builds the primary connection string based on DB_TYPE.
func buildDSN(c map[string]string) (string, error) {
	if url := config.GetString(c, "DATABASE_URL", ""); url != "" {
		return url, nil
	}

	dbType := config.GetString(c, "DB_TYPE", "postgres")
	switch dbType {
	case "supa":
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=require",
			config.GetString(c, "SUPABASE_DB_HOST", ""),
			config.GetString(c, "SUPABASE_DB_USER", ""),
			config.GetString(c, "SUPABASE_DB_PASSWORD", ""),
			config.GetString(c, "SUPABASE_DB_NAME", ""),
			config.GetString(c, "SUPABASE_DB_PORT", "5432"),
		), nil
	case "postgres":
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
			config.GetString(c, "DB_HOST", "localhost"),
			config.GetString(c, "DB_USER", "postgres"),
			config.GetString(c, "DB_PASSWORD", ""),
			config.GetString(c, "DB_NAME", "blog"),
			config.GetString(c, "DB_PORT", "5432"),
			config.GetString(c, "DB_SSLMODE", "disable"),
		), nil
	default:
		return "", fmt.Errorf("unsupported DB_TYPE %q", dbType)
	}
}

func openDatabase(c map[string]string) (*gorm.DB, error) {
	connStr, err := buildDSN(c)
	if err != nil {
		return nil, err
	}

	newLogger := logger.New(
		stdlog.New(os.Stdout, "\r\n", stdlog.LstdFlags),
		logger.Config{
			SlowThreshold:             2 * time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  connStr,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		PrepareStmt: false,
		Logger:      newLogger,
		NowFunc:     func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, err
	}

	if replicas := config.GetList(c, "DB_REPLICA_DSN", nil); len(replicas) > 0 {
		dialectors := make([]gorm.Dialector, 0, len(replicas))
		for _, dsn := range replicas {
			dialectors = append(dialectors, postgres.New(postgres.Config{DSN: dsn, PreferSimpleProtocol: true}))
		}
		err := db.Use(dbresolver.Register(dbresolver.Config{
			Replicas: dialectors,
			Policy:   dbresolver.RandomPolicy{},
		}))
		if err != nil {
			return nil, fmt.Errorf("register read replicas: %w", err)
		}
		log.Info().Int("replicas", len(dialectors)).Msg("Read replicas registered")
	}

	return db, nil
}

// buildDependencies wires the notifier, profanity classifier and media
// resolver. The returned notifier must be closed on shutdown.
func buildDependencies(c map[string]string) (api.Dependencies, *services.AsyncNotifier, error) {
	notifier := services.NewAsyncNotifier(services.NewNotifier(c), 30*time.Second)

	var extra []string
	if path := config.GetString(c, "PROFANITY_WORDLIST", ""); path != "" {
		words, err := services.LoadWordList(path)
		if err != nil {
			return api.Dependencies{}, nil, err
		}
		extra = words
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	media, err := services.NewMediaResolver(ctx, c)
	if err != nil {
		return api.Dependencies{}, nil, err
	}

	return api.Dependencies{
		Notifier:   notifier,
		Classifier: services.NewWordListClassifier(extra...),
		Media:      media,
	}, notifier, nil
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
