package cmd

import (
	"context"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/quocvuong92/nimbuscode/internal/api"
	"github.com/quocvuong92/nimbuscode/internal/config"
	"github.com/quocvuong92/nimbuscode/internal/display"
	clierrors "github.com/quocvuong92/nimbuscode/internal/errors"
	"github.com/quocvuong92/nimbuscode/internal/logging"
)

// ClientFactory creates the API client for a resolved config
type ClientFactory func(cfg *config.Config, logger *logging.Logger) (api.AIClient, error)

// App holds the application state
type App struct {
	cfg       *config.Config
	store     *config.Store
	fileCfg   *config.FileConfig
	logger    *logging.Logger
	newClient ClientFactory

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	// workDir receives extracted code blocks; empty means the current directory
	workDir string

	exitCode int
}

// NewApp creates a new App instance bound to the process's standard streams
func NewApp() *App {
	return &App{
		cfg:       config.NewConfig(),
		logger:    logging.NewCLI(false, os.Stderr),
		newClient: api.NewClient,
		stdin:     os.Stdin,
		stdout:    os.Stdout,
		stderr:    os.Stderr,
	}
}

// Execute runs the root command and exits with its status
func Execute() {
	// A missing .env is the normal case
	_ = godotenv.Load()

	app := NewApp()
	os.Exit(app.Run(context.Background(), os.Args[1:]))
}

// Run parses args, dispatches the selected subcommand and returns the exit code
func (app *App) Run(ctx context.Context, args []string) int {
	rootCmd := app.newRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetIn(app.stdin)
	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	app.exitCode = clierrors.ExitOK
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		display.ShowError(app.stderr, err.Error())
		return clierrors.ExitFailure
	}
	return app.exitCode
}

func (app *App) newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "nimbuscode",
		Short: "An AI coding assistant for the terminal, backed by OpenRouter's free models",
		Long: `NimbusCode sends coding questions, generation requests and source files to
chat models on OpenRouter and prints the reply.

The API key is taken from --api-key, then OPENROUTER_API_KEY, then the
config file written by 'nimbuscode config --api-key'.

Examples:
  nimbuscode config --api-key sk-or-...
  nimbuscode ask "What is a goroutine leak?"
  nimbuscode generate --language go "an LRU cache"
  nimbuscode improve main.py --save main_improved.py
  nimbuscode explain server.go -r
  nimbuscode cloud --provider gcp "deploy a Flask API"
  nimbuscode mobile --platform ios "a habit tracker"
  nimbuscode interactive
  nimbuscode models`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			app.logger = logging.NewCLI(app.cfg.Verbose, app.stderr)
			if app.store != nil {
				app.store.SetLogger(app.logger)
			}
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&app.cfg.Verbose, "verbose", "v", false, "Log requests and diagnostics to stderr")
	rootCmd.PersistentFlags().BoolVarP(&app.cfg.Render, "render", "r", false, "Render markdown with colors and formatting")
	rootCmd.PersistentFlags().BoolVarP(&app.cfg.Copy, "copy", "c", false, "Copy the response to the clipboard")

	rootCmd.AddCommand(app.newConfigCmd())
	for _, cmd := range app.newPromptCmds() {
		rootCmd.AddCommand(cmd)
	}
	rootCmd.AddCommand(app.newInteractiveCmd())
	rootCmd.AddCommand(app.newModelsCmd())

	return rootCmd
}

// configStore returns the config store, creating the default one on first use
func (app *App) configStore() (*config.Store, error) {
	if app.store != nil {
		return app.store, nil
	}
	store, err := config.NewDefaultStore()
	if err != nil {
		return nil, clierrors.NewConfigError("cannot locate config directory", err)
	}
	store.SetLogger(app.logger)
	app.store = store
	return store, nil
}

// fileConfig loads the persisted config once per invocation
func (app *App) fileConfig() *config.FileConfig {
	if app.fileCfg != nil {
		return app.fileCfg
	}
	store, err := app.configStore()
	if err != nil {
		app.logger.Warn("config file unavailable", logging.Fields{"error": err.Error()})
		app.fileCfg = &config.FileConfig{}
		return app.fileCfg
	}
	app.fileCfg = store.Load()
	return app.fileCfg
}

// stdoutFile and stderrFile expose the streams as files for terminal checks
func (app *App) stdoutFile() *os.File {
	f, _ := app.stdout.(*os.File)
	return f
}

func (app *App) stderrFile() *os.File {
	f, _ := app.stderr.(*os.File)
	return f
}

func (app *App) stdinIsTerminal() bool {
	f, ok := app.stdin.(*os.File)
	return ok && display.IsTerminal(f)
}
