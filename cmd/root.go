package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kamal-hamza/lx-assets/internal/adapters/repository"
	"github.com/kamal-hamza/lx-assets/internal/core/services"
	"github.com/kamal-hamza/lx-assets/internal/metrics"
	"github.com/kamal-hamza/lx-assets/pkg/config"
	"github.com/kamal-hamza/lx-assets/pkg/logging"
	"github.com/kamal-hamza/lx-assets/pkg/ui"
	"github.com/kamal-hamza/lx-assets/pkg/workspace"
)

var (
	// Global flags
	flagRoot        string
	flagConfig      string
	flagVerbose     bool
	flagMetricsFile string
	flagPolicy      string

	// Global state
	appConfig    *config.Config
	appWorkspace *workspace.Workspace
	appLogger    = zap.NewNop()
	appMetrics   *metrics.Metrics

	// Repositories
	manifestRepo *repository.FileManifestRepository

	// Services
	registrarService *services.RegistrarService
	importService    *services.ImportService
	listService      *services.ListService
	verifyService    *services.VerifyService
	statsService     *services.StatsService
)

// commands that work without an initialized asset tree
var noWorkspaceCommands = map[string]bool{
	"init":       true,
	"version":    true,
	"config":     true,
	"env":        true,
	"help":       true,
	"completion": true,
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "lxa",
	Short: "LXA - Versioned analysis asset registrar",
	Long: ui.StyleTitle.Render("LXA") + " - Analysis Asset Registrar\n\n" +
		"Saves figures, tables, data snapshots, models and summaries under a\n" +
		"deterministic, versioned layout and keeps a manifest of every artifact.",
	SilenceUsage:       true,
	PersistentPreRunE:  initializeApp,
	PersistentPostRunE: finalizeApp,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagRoot, "root", "", "Asset tree root (default from config, then ./assets)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file path")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log debug output to stderr")
	rootCmd.PersistentFlags().StringVar(&flagMetricsFile, "metrics-file", "", "Write prometheus metrics to this textfile on exit")
	rootCmd.PersistentFlags().StringVar(&flagPolicy, "policy", "", "Duplicate key policy: overwrite, reject or bump")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(saveCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(findCmd)
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(publishCmd)
	rootCmd.AddCommand(envCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// initializeApp loads config, builds the logger and wires services
func initializeApp(cmd *cobra.Command, args []string) error {
	cfgPath := flagConfig
	if cfgPath == "" {
		p, err := workspace.DefaultConfigPath()
		if err != nil {
			return err
		}
		cfgPath = p
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Println(ui.FormatError("Failed to load config"))
		return err
	}
	appConfig = cfg
	ui.SetTheme(cfg.ColorTheme)

	level := cfg.LogLevel
	if flagVerbose {
		level = "debug"
	}
	logger, err := logging.New(level, cfg.LogFormat)
	if err != nil {
		return err
	}
	appLogger = logger

	root := cfg.Root
	if flagRoot != "" {
		root = flagRoot
	}
	ws, err := workspace.New(root)
	if err != nil {
		return fmt.Errorf("failed to resolve workspace: %w", err)
	}
	ws.ConfigPath = cfgPath
	appWorkspace = ws

	if noWorkspaceCommands[cmd.Name()] {
		return nil
	}

	if !appWorkspace.Exists() {
		fmt.Println(ui.FormatError("Asset tree not initialized at " + appWorkspace.RootPath))
		fmt.Println(ui.FormatInfo("Run 'lxa init' to create it"))
		return fmt.Errorf("workspace not initialized")
	}

	policyName := cfg.DuplicatePolicy
	if flagPolicy != "" {
		policyName = flagPolicy
	}
	policy, err := services.ParseDuplicatePolicy(policyName)
	if err != nil {
		return err
	}

	if flagMetricsFile == "" {
		flagMetricsFile = cfg.MetricsFile
	}
	if flagMetricsFile != "" {
		appMetrics = metrics.New()
	}

	manifestRepo = repository.NewFileManifestRepository(appWorkspace)
	manifestRepo.SetLockTimeout(time.Duration(cfg.LockTimeoutMS) * time.Millisecond)

	registrarService = services.NewRegistrarService(appWorkspace, manifestRepo,
		services.WithDuplicatePolicy(policy),
		services.WithLogger(appLogger),
		services.WithMetrics(appMetrics),
	)
	importService = services.NewImportService(registrarService, cfg.DefaultSection)
	listService = services.NewListService(manifestRepo)
	verifyService = services.NewVerifyService(appWorkspace, manifestRepo, manifestRepo)
	statsService = services.NewStatsService(manifestRepo)

	appLogger.Debug("workspace ready",
		zap.String("root", appWorkspace.RootPath),
		zap.String("config", cfgPath),
		zap.String("policy", string(policy)))
	return nil
}

// finalizeApp flushes metrics and logs
func finalizeApp(cmd *cobra.Command, args []string) error {
	defer func() { _ = appLogger.Sync() }()

	if appMetrics != nil && flagMetricsFile != "" {
		if err := appMetrics.WriteTextfile(flagMetricsFile); err != nil {
			appLogger.Warn("failed to write metrics textfile", zap.String("path", flagMetricsFile), zap.Error(err))
		}
	}
	return nil
}

// getContext returns a context for operations
func getContext() context.Context {
	return context.Background()
}
