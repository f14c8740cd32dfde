package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pterm/pterm"

	"github.com/apifold/openapi-bridge/internal/config"
	"github.com/apifold/openapi-bridge/internal/logger"
	"github.com/apifold/openapi-bridge/internal/parser"
	"github.com/apifold/openapi-bridge/internal/requester"
	"github.com/apifold/openapi-bridge/internal/routemap"
	"github.com/apifold/openapi-bridge/internal/server"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
)

func main() {
	Execute()
}

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "openapi-bridge",
	Short: "Serve an OpenAPI surface as MCP tools",
	Long: `OpenAPI Bridge turns an OpenAPI/Swagger definition into a running MCP server.
Filter options select which routes are exposed; the rest of the API stays hidden.`,
	Run: runServer,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	// Place version check in PreRun to ensure flags are parsed first
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		versionFlag, _ := cmd.Flags().GetBool("version")
		if versionFlag {
			pterm.Info.Println(config.GetVersionInfo())
			os.Exit(0)
		}
	}

	if err := rootCmd.Execute(); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}

func init() {
	config.InitFlags()
	rootCmd.PersistentFlags().AddFlagSet(pflag.CommandLine)
	rootCmd.PersistentFlags().BoolP("version", "v", false, "Show version information")
}

func runServer(cmd *cobra.Command, args []string) {
	cfg, err := config.Load()
	if err != nil {
		pterm.Error.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Every filter problem is reported before exiting, not just the first
	if problems := routemap.ValidateFilterOptions(cfg.Filter); len(problems) > 0 {
		for _, p := range problems {
			pterm.Error.Println(p)
		}
		os.Exit(1)
	}

	if err := logger.InitLogger(&cfg.Logging); err != nil {
		pterm.Error.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var srv *server.Server
	app := fx.New(
		fx.Supply(cfg),
		fx.Provide(func(c *config.Config) *config.EndpointConfig { return &c.EndpointConfig }),
		parser.Module,
		requester.Module,
		server.Module,
		fx.Populate(&srv),
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger.GetLogger()}
		}),
	)
	if err := app.Err(); err != nil {
		pterm.Error.Printf("Failed to start: %v\n", err)
		os.Exit(1)
	}

	if err := srv.Start(ctx); err != nil {
		pterm.Error.Printf("Server error: %v\n", err)
		os.Exit(1)
	}
}
