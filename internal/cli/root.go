package cli

import (
	"fmt"
	"os"

	"github.com/ppiankov/theyify/internal/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const version = "theyify v0.2.0"

var (
	cfgFile   string
	verbose   bool
	configErr error
	logger    = zap.NewNop()
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "theyify",
	Short: "Theyify - singular they rewrite heuristic and evaluator",
	Long: `Theyify rewrites binary pronoun constructions ("he/she", "his/her",
"him/her", "his/hers") into singular they forms with a fixed rule chain,
then scores the output against human-written gold sentences.

The rule chain is deterministic:
  1. Normalize (lowercase, strip <<< >>> markers, collapse double spaces)
  2. Substitute pronouns
  3. Correct verb agreement after "they" (first matching rule wins)
  4. Score by exact match`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(logLevel())
		l, err := config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = l
		if used := viper.ConfigFileUsed(); used != "" {
			logger.Debug("using config file", zap.String("path", used))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// logLevel is debug when --verbose is set or output.verbose is true in the
// config file, warn otherwise
func logLevel() zapcore.Level {
	if verbose || viper.GetBool("output.verbose") {
		return zapcore.DebugLevel
	}
	return zapcore.WarnLevel
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.theyify/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in the config file. Environment variables are not
// consulted; runs depend only on flags and the config file.
func initConfig() {
	configErr = nil

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		viper.AddConfigPath(home + "/.theyify")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// A missing default config is fine; an explicit one must load
	if err := viper.ReadInConfig(); err != nil && cfgFile != "" {
		configErr = fmt.Errorf("read config %s: %w", cfgFile, err)
	}
}

// loadConfig returns the defaults overlaid with the config file
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()

	if configErr != nil {
		return nil, configErr
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return cfg, nil
}
