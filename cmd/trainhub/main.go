package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alexanderramin/trainhub/internal/catalog"
	"github.com/alexanderramin/trainhub/internal/cli"
	"github.com/alexanderramin/trainhub/internal/db"
	"github.com/alexanderramin/trainhub/internal/intelligence"
	"github.com/alexanderramin/trainhub/internal/llm"
	"github.com/alexanderramin/trainhub/internal/repository"
	"github.com/alexanderramin/trainhub/internal/service"
	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const defaultAddr = ":8080"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env is fine; real environment variables still apply.
	_ = godotenv.Load()

	log, err := newLogger(os.Getenv("TRAINHUB_LOG_LEVEL"))
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	dbPath, err := databasePath()
	if err != nil {
		return err
	}

	cat, err := loadCatalog(os.Getenv("TRAINHUB_CATALOG"))
	if err != nil {
		return err
	}

	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	planRepo := repository.NewSQLitePlanRepo(database)
	uow := db.NewSQLiteUnitOfWork(database)
	useCases := service.NewZapUseCaseObserver(log)

	// Generators stay nil unless the LLM is enabled; services then report
	// ErrGeneratorUnavailable and every manual edit keeps working.
	var (
		planGen intelligence.PlanGenerator
		quizGen intelligence.QuizGenerator
		advisor intelligence.ToolAdvisor
	)
	llmCfg := llm.LoadConfig()
	if llmCfg.Enabled {
		var observer llm.Observer = llm.NewZapObserver(log)
		if llmCfg.LogCalls {
			observer = llm.NewLogObserver(os.Stderr)
		}
		client, err := llm.NewClient(context.Background(), llmCfg, observer)
		if err != nil {
			return fmt.Errorf("connecting to %s: %w", llmCfg.Provider, err)
		}
		if closer, ok := client.(io.Closer); ok {
			defer closer.Close()
		}
		planGen = intelligence.NewPlanGenerator(client)
		quizGen = intelligence.NewQuizGenerator(client)
		advisor = intelligence.NewToolAdvisor(client)
		log.Debug("llm enabled",
			zap.String("provider", string(llmCfg.Provider)),
			zap.String("model", llmCfg.Model))
	}

	addr := os.Getenv("TRAINHUB_ADDR")
	if addr == "" {
		addr = defaultAddr
	}

	app := &cli.App{
		Plans:    service.NewPlanService(planRepo, uow, cat, planGen, useCases),
		Quizzes:  service.NewQuizService(quizGen, useCases),
		Advice:   service.NewAdviceService(cat, advisor, useCases),
		Catalog:  cat,
		Logger:   log,
		Addr:     addr,
		Location: time.Local,
	}

	// Detect interactive terminal for forms, spinners and the editor.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(app).Execute()
}

// databasePath returns TRAINHUB_DB or ~/.trainhub/trainhub.db, creating the
// parent directory.
func databasePath() (string, error) {
	dbPath := os.Getenv("TRAINHUB_DB")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("finding home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".trainhub", "trainhub.db")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return "", fmt.Errorf("creating data directory: %w", err)
	}
	return dbPath, nil
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default()
	}
	cat, err := catalog.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading catalog %s: %w", path, err)
	}
	return cat, nil
}

// newLogger builds a console logger on stderr so command output on stdout
// stays clean. Level defaults to warn.
func newLogger(level string) (*zap.Logger, error) {
	lvl := zapcore.WarnLevel
	if level != "" {
		if err := lvl.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(level)))); err != nil {
			return nil, fmt.Errorf("invalid TRAINHUB_LOG_LEVEL %q: %w", level, err)
		}
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.DisableStacktrace = true
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout(time.TimeOnly)
	return cfg.Build()
}
