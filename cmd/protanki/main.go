// Command protanki runs the game protocol server and its reference client.
package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/Assasans/protanki-server/internal/config"
	"github.com/Assasans/protanki-server/internal/util"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
)

const banner = `
                 __              __   _ 
    ____  _____ / /_____ _____  / /__(_)
   / __ \/ ___// __/ __ '/ __ \/ //_/ / 
  / /_/ / /   / /_/ /_/ / / / / ,< / /  
 / .___/_/    \__/\__,_/_/ /_/_/|_/_/   
/_/  v%s
`

type rootOptions struct {
	configDir string
}

func main() {
	// Console-only until a command loads the configured log settings.
	if err := util.InitLogger(util.LogConfig{Level: "info", Console: true, App: "protanki"}); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	opts := &rootOptions{}
	rootCmd := &cobra.Command{
		Use:           "protanki",
		Short:         "Game protocol server and reference client",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.configDir, "config-dir", config.DefaultConfigDir, "directory holding config.json")

	rootCmd.AddCommand(
		serveCmd(opts),
		connectCmd(opts),
		packetsCmd(),
		setupCmd(opts),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "protanki %s (%s) %s/%s %s\n",
				version, commit, runtime.GOOS, runtime.GOARCH, runtime.Version())
		},
	}
}

// loadConfig loads the configuration and applies its log settings.
func loadConfig(dir, app string) (*config.Config, error) {
	cfg, err := config.Load(dir)
	if err != nil {
		return nil, err
	}

	logging := cfg.GetApplicationData().Logging
	if err := util.InitLogger(util.LogConfig{
		Level:      logging.Level,
		Directory:  logging.Directory,
		MaxBackups: logging.MaxBackups,
		Console:    logging.Console,
		App:        app,
	}); err != nil {
		return nil, err
	}
	return cfg, nil
}
