package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jask/manttest/internal/app"
	"github.com/jask/manttest/internal/config"
	"github.com/jask/manttest/internal/database"
	"github.com/jask/manttest/internal/database/repository"
	"github.com/jask/manttest/internal/logging"
	"github.com/jask/manttest/internal/login"
	"github.com/jask/manttest/internal/mainstore"
	"github.com/jask/manttest/internal/prefs"
	"github.com/jask/manttest/internal/secrets"
	"github.com/jask/manttest/internal/service"
	"github.com/jask/manttest/internal/tui"
)

const signingKeyName = "session"

var (
	cfgPath string
	verbose bool

	cfg    config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "manttest",
	Short: "MantTest terminal shell",
	Long: `MantTest starts on a login screen and switches to the application
once a registered user signs in. Logging out returns to the login screen.

Run without arguments to start the interactive shell.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("config: %w", err)
		}
		logger, err = logging.New(cfg.Log, verbose)
		if err != nil {
			return err
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runShell(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "config file (default $HOME/.config/manttest/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.AddCommand(userCmd, keyCmd, configCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

// openStore prepares the database and returns it with an auth service bound to it.
func openStore(ctx context.Context) (*sql.DB, *service.AuthService, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("mkdir db dir: %w", err)
	}
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("open db: %w", err)
	}
	if err := database.RunMigrationsWithDB(db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("migrate: %w", err)
	}

	secret := []byte(cfg.Auth.JWTSecret)
	if len(secret) == 0 {
		if secret, err = secrets.SigningKey(signingKeyName); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("signing key: %w", err)
		}
	}
	auth, err := service.NewAuthService(repository.NewUserRepo(db), secret, cfg.Auth.TokenTTL)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	// no seed user without an explicit password
	if cfg.Auth.SeedUser != "" && cfg.Auth.SeedPassword != "" {
		err := database.SeedDefaults(ctx, db, func() ([]repository.User, error) {
			u, err := auth.NewUser(cfg.Auth.SeedUser, cfg.Auth.SeedPassword)
			if err != nil {
				return nil, fmt.Errorf("seed user: %w", err)
			}
			logger.Info("seeding first user", zap.String("username", u.Username))
			return []repository.User{u}, nil
		})
		if err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("seed defaults: %w", err)
		}
	}
	return db, auth, nil
}

func runShell(ctx context.Context) error {
	db, auth, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	loginOpts := []login.Option{login.WithTimeout(cfg.Auth.Timeout)}
	appOpts := []app.Option{app.WithHeading(cfg.UI.Heading)}
	storeOpts := []mainstore.Option{mainstore.OnEffectError(func(err error) {
		logger.Error("main store reaction disabled", zap.Error(err))
	})}
	last, err := prefs.LoadSession()
	if err != nil {
		logger.Warn("load session prefs", zap.Error(err))
	} else if last.LastUsername != "" {
		loginOpts = append(loginOpts, login.WithUsername(last.LastUsername))
	}
	if resumed, ok := resumeSession(auth, last, logger, append(appOpts, app.WithLogger(logger.Named("app")))...); ok {
		storeOpts = append(storeOpts, mainstore.WithInit(resumed))
	}

	newMain := mainstore.Define(mainstore.Services{
		Login:        auth,
		Logger:       logger,
		LoginOptions: loginOpts,
		AppOptions:   appOpts,
	})
	store := newMain(storeOpts...)
	defer store.Close()
	tracked := trackSession(store, logger)
	defer tracked.Unsubscribe()

	shell := tui.New(store)
	defer shell.Close()

	logger.Info("shell started", zap.String("store_id", store.ID().String()))
	if _, err := tea.NewProgram(shell, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("shell: %w", err)
	}
	logger.Info("shell stopped")
	return nil
}
