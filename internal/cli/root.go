package cli

import (
	"time"

	"github.com/alexanderramin/trainhub/internal/catalog"
	"github.com/alexanderramin/trainhub/internal/service"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// App holds references to all services and settings used by CLI commands.
type App struct {
	Plans   service.PlanService
	Quizzes service.QuizService
	Advice  service.AdviceService
	Catalog *catalog.Catalog
	Logger  *zap.Logger

	// Addr is the default listen address for serve.
	Addr string
	// Location interprets calendar export dates given without an offset.
	Location *time.Location
	// IsInteractive reports whether stdin is a terminal. Forms, the editor
	// and spinners only run when it returns true.
	IsInteractive func() bool
	// Now is the clock used for relative timestamps. Nil means time.Now.
	Now func() time.Time
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) logger() *zap.Logger {
	if a.Logger == nil {
		return zap.NewNop()
	}
	return a.Logger
}

// NewRootCmd creates the top-level "trainhub" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "trainhub",
		Short:         "Session planner and toolbox for pharmacy trainers",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newActivityCmd(app),
		newToolCmd(app),
		newPlanCmd(app),
		newQuizCmd(app),
		newServeCmd(app),
	)

	return root
}
