package main

import (
	"os"
	"runtime/debug"

	"github.com/pterm/pterm"

	"github.com/apifold/openapi-bridge/internal/config"
	"github.com/apifold/openapi-bridge/internal/inspect"
	"github.com/apifold/openapi-bridge/internal/parser"
	"github.com/apifold/openapi-bridge/internal/routemap"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func main() {
	Execute()
}

var (
	specSource   string
	methods      string
	includePaths string
	excludePaths string
	includeTags  string
	excludeTags  string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "bridge-inspector",
	Short: "Preview how filter options classify an OpenAPI surface",
	Long: `Bridge Inspector is a CLI tool that previews the MCP tool set an OpenAPI
definition would produce under the given filter options, before starting the server.
It shows every route with its disposition and the rule responsible for it.`,
	Run: runTUI,
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
	rootCmd.PersistentFlags().StringVar(&specSource, "spec-source", "", "Path or URL of the OpenAPI document")
	rootCmd.PersistentFlags().StringVar(&methods, "methods", "", "Comma-separated HTTP methods to include")
	rootCmd.PersistentFlags().StringVar(&includePaths, "include-paths", "", "Comma-separated path patterns to include")
	rootCmd.PersistentFlags().StringVar(&excludePaths, "exclude-paths", "", "Comma-separated path patterns to exclude")
	rootCmd.PersistentFlags().StringVar(&includeTags, "include-tags", "", "Comma-separated tags to include")
	rootCmd.PersistentFlags().StringVar(&excludeTags, "exclude-tags", "", "Comma-separated tags to exclude")
	rootCmd.PersistentFlags().BoolP("version", "v", false, "Show version information")
}

// runTUI is the main function that runs the TUI
func runTUI(cmd *cobra.Command, args []string) {
	defer func() {
		if r := recover(); r != nil {
			pterm.Error.Printf("\nCaught panic: %v\n", r)
			pterm.Error.Printf("%s\n", debug.Stack())
			os.Exit(2)
		}
	}()

	if specSource == "" {
		pterm.Error.Println("OpenAPI document is required, you must supply it with --spec-source")
		os.Exit(1)
	}

	cfg := &config.Config{
		SpecSource: specSource,
		Filter: config.FilterConfig{
			Methods:      methods,
			IncludePaths: includePaths,
			ExcludePaths: excludePaths,
			IncludeTags:  includeTags,
			ExcludeTags:  excludeTags,
		},
	}

	// Every filter problem is reported before exiting, not just the first
	if problems := routemap.ValidateFilterOptions(cfg.Filter); len(problems) > 0 {
		for _, p := range problems {
			pterm.Error.Println(p)
		}
		os.Exit(1)
	}

	specParser := parser.NewSpecParser(cfg)
	if err := specParser.Init(specSource); err != nil {
		pterm.Error.Printf("Error parsing OpenAPI document: %v\n", err)
		os.Exit(1)
	}

	decisions := specParser.GetDecisions()
	if len(decisions) == 0 {
		pterm.Warning.Println("The document defines no operations")
		os.Exit(0)
	}

	p := tea.NewProgram(inspect.NewAppModel(decisions), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		pterm.Error.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}

	tools := 0
	for _, d := range decisions {
		if d.Outcome == routemap.OutcomeTool {
			tools++
		}
	}
	pterm.Info.Printfln("Classification complete. Exposing %s tools out of %s routes.",
		pterm.LightGreen(tools),
		pterm.White(len(decisions)))
}
