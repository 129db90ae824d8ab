package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/josephlewis42/unox/commands"
	"github.com/josephlewis42/unox/core/config"
	"github.com/josephlewis42/unox/core/logger"
	"github.com/spf13/cobra"
)

// EnvConfig names the configuration directory when --config isn't given.
const EnvConfig = "UNOX_CONFIG"

var (
	cfgPath  string
	logLevel string

	// Set up by the root command before any subcommand runs.
	appConfig *config.Configuration
	appLogger *log.Logger
)

// exitStatusError carries a tool's non-zero exit status back to Execute.
type exitStatusError int

func (e exitStatusError) Error() string {
	return fmt.Sprintf("exit status %d", int(e))
}

func loadConfig() (*config.Configuration, error) {
	configuration, err := config.Load(cfgPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		appLogger.Debug("No configuration found, using defaults", "path", cfgPath)
		configuration = config.Default()
	case err != nil:
		return nil, err
	}

	if err := configuration.ValidateToolNames(commands.IsBuiltin); err != nil {
		return nil, err
	}
	return configuration, nil
}

// flagChanged reports whether a persistent root flag was set. Tools disable
// their own flag parsing so the root's flag set is the source of truth.
func flagChanged(cmd *cobra.Command, name string) bool {
	flag := cmd.Root().PersistentFlags().Lookup(name)
	return flag != nil && flag.Changed
}

// resolveLogLevel picks the level from the flag, then the environment,
// then the configuration.
func resolveLogLevel(cmd *cobra.Command, configured string) string {
	if flagChanged(cmd, "log-level") {
		return logLevel
	}
	if env := os.Getenv(logger.EnvLogLevel); env != "" {
		return env
	}
	return configured
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "unox",
	Short: "Unix text utilities",
	Long: `A suite of Unix text and file utilities: cut, tail, uniq and friends.

Run a tool with: unox TOOL [ARGS...]`,
	TraverseChildren: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// A missing .env file is fine.
		_ = godotenv.Load()

		if !flagChanged(cmd, "config") {
			if env := os.Getenv(EnvConfig); env != "" {
				cfgPath = env
			}
		}

		var err error
		appLogger, err = logger.New(cmd.ErrOrStderr(), resolveLogLevel(cmd, ""))
		if err != nil {
			return err
		}

		appConfig, err = loadConfig()
		if err != nil {
			return err
		}

		level, err := logger.ParseLevel(resolveLogLevel(cmd, appConfig.LogLevel))
		if err != nil {
			return err
		}
		appLogger.SetLevel(level)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()

	var status exitStatusError
	switch {
	case errors.As(err, &status):
		os.Exit(int(status))
	case err != nil:
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", ".", "configuration directory or config.yaml path, defaults to $"+EnvConfig)
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "diagnostic log level: debug, info, warn or error")
}
