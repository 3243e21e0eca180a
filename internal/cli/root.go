package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/cexpand/internal/config"
)

var (
	cfgFile string
	verbose bool
)

// errUnsafeCall makes the process exit non-zero after the diagnostic was printed.
var errUnsafeCall = errors.New("call cannot be expanded")

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cexpand",
	Short: "cexpand - locate C and C++ calls for inline expansion",
	Long: `cexpand finds the function call under a cursor in a C or C++ file, decides
whether it can be expanded in place, and reports everything needed to inline
it: the call range, its arguments and assignee, the callee's declaration and
the definition body, searched across the project when necessary.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errUnsafeCall) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initLogging)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is <root>/.cexpand/config.yml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func initLogging() {
	log.SetFlags(0)
	log.SetOutput(os.Stderr)
}

// loadConfig reads the configuration for a project root, honoring --config.
func loadConfig(rootDir string) (*config.Config, error) {
	var opts []config.LoaderOption
	if cfgFile != "" {
		opts = append(opts, config.WithConfigFile(cfgFile))
	}

	cfg, err := config.NewLoader(rootDir, opts...).Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if verbose {
		log.Printf("Loaded configuration for %s", rootDir)
	}
	return cfg, nil
}
