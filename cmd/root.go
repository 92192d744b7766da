// =============================================================================
// Extension Request Processor - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands are attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (extensions)
//   ├── processCmd (extensions process)
//   └── versionCmd (extensions version)
//
// CONFIGURATION:
//   Settings are layered, highest precedence first:
//   1. Command-line flags
//   2. EXTENSIONS_* environment variables (e.g. EXTENSIONS_OUTPUT_DIR,
//      EXTENSIONS_COLUMNS_EMAIL)
//   3. The YAML config file (--config, ./extensions.yaml, or
//      $HOME/.extensions.yaml)
//   4. Built-in defaults
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ginjaninja78/extension-requests/internal/config"
	"github.com/ginjaninja78/extension-requests/internal/logging"
	"github.com/ginjaninja78/extension-requests/pkg/utils"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the configuration file given with --config.
var cfgFile string

// verbose enables debug logging.
var verbose bool

// quiet limits logging to errors.
var quiet bool

// settings holds the layered configuration of the current invocation.
var settings *viper.Viper

// configUsed is the config file that was read, empty when none existed.
var configUsed string

// logger is built once the configuration is known.
var logger = zap.NewNop()

const (
	envPrefix         = "EXTENSIONS"
	localConfigFile   = "extensions.yaml"
	defaultConfigFile = "~/.extensions.yaml"
)

// Configuration keys. They match the YAML keys of config.Config.
const (
	keyOutputDir     = "output_dir"
	keyAdjust        = "adjust_to_sunday"
	keyDryRun        = "dry_run"
	keyProcessedCopy = "write_processed_copy"
	keyLogLevel      = "log_level"
	keyEncoding      = "input_encoding"
	keyEmailCol      = "columns.email"
	keyNameCol       = "columns.name"
	keyAssignmentCol = "columns.assignment"
	keyDateCol       = "columns.date"
	keyDoneCol       = "columns.done"
)

// flagKeys maps command-line flags to the configuration key they override.
var flagKeys = map[string]string{
	"output-dir":        keyOutputDir,
	"dry-run":           keyDryRun,
	"encoding":          keyEncoding,
	"email-column":      keyEmailCol,
	"name-column":       keyNameCol,
	"assignment-column": keyAssignmentCol,
	"date-column":       keyDateCol,
	"done-column":       keyDoneCol,
}

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "extensions",
	Short: "Extension Request Processor - Turn due-date extension requests into per-assignment CSV files",
	Long: `Extension Request Processor reads the responses of a due-date extension
request form (a Microsoft Forms export, pasted rows, or the clipboard) and
turns them into one upload-ready CSV file per assignment.

Key Features:
  - Comma- or tab-separated input, detected automatically
  - One request per student and assignment (the latest date wins)
  - Due dates moved to the end of the week (Sunday)
  - Rows already handled in an earlier run are skipped
  - A processed copy of the input with handled rows marked
  - A failure report and a run summary

Example Usage:
  extensions process -f responses.csv         # Process an exported file
  extensions process --clipboard              # Process copied spreadsheet rows
  extensions process < responses.tsv          # Process pasted/piped data
  extensions process -f responses.csv --dry-run`,

	SilenceUsage:  true,
	SilenceErrors: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig(cmd.Flags())
	},

	Run: func(cmd *cobra.Command, args []string) {
		// If no subcommand is provided, print the help message.
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command and exits with status 1 on error.
// This is called by main.main().
func Execute() {
	err := rootCmd.Execute()
	_ = logger.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"",
		"config file (default is ./extensions.yaml, then $HOME/.extensions.yaml)",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&quiet,
		"quiet",
		"q",
		false,
		"Only log errors",
	)
}

// initConfig loads the config file, layers environment variables and flags
// over it, and builds the logger.
func initConfig(flags *pflag.FlagSet) error {
	path, optional, err := configFilePath()
	if err != nil {
		return err
	}

	fileConfig, err := config.Load(path, optional)
	if err != nil {
		return err
	}

	settings = newSettings(fileConfig)
	for flag, key := range flagKeys {
		if f := flags.Lookup(flag); f != nil {
			if err := settings.BindPFlag(key, f); err != nil {
				return fmt.Errorf("failed to bind --%s: %w", flag, err)
			}
		}
	}

	logger, err = logging.New(logging.Config{
		Level:   settings.GetString(keyLogLevel),
		Verbose: verbose,
		Quiet:   quiet,
	})
	if err != nil {
		return err
	}

	configUsed = ""
	if utils.FileExists(path) {
		configUsed = path
		logger.Debug("loaded config file", zap.String("path", path))
	}
	return nil
}

// configFilePath picks the config file. Only an explicit --config must exist.
func configFilePath() (string, bool, error) {
	if cfgFile != "" {
		path, err := homedir.Expand(cfgFile)
		if err != nil {
			return "", false, fmt.Errorf("invalid config path: %w", err)
		}
		return path, false, nil
	}

	if utils.FileExists(localConfigFile) {
		return localConfigFile, true, nil
	}

	path, err := homedir.Expand(defaultConfigFile)
	if err != nil {
		// No home directory; fall back to the working directory.
		return filepath.Join(".", localConfigFile), true, nil
	}
	return path, true, nil
}

// newSettings returns a viper instance whose defaults are the values of
// fileConfig and which reads EXTENSIONS_* environment variables.
func newSettings(fileConfig *config.Config) *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault(keyOutputDir, fileConfig.OutputDir)
	v.SetDefault(keyAdjust, fileConfig.Adjust())
	v.SetDefault(keyDryRun, fileConfig.DryRun)
	v.SetDefault(keyProcessedCopy, fileConfig.ProcessedCopy())
	v.SetDefault(keyLogLevel, fileConfig.LogLevel)
	v.SetDefault(keyEncoding, fileConfig.InputEncoding)
	v.SetDefault(keyEmailCol, fileConfig.Columns.Email)
	v.SetDefault(keyNameCol, fileConfig.Columns.Name)
	v.SetDefault(keyAssignmentCol, fileConfig.Columns.Assignment)
	v.SetDefault(keyDateCol, fileConfig.Columns.Date)
	v.SetDefault(keyDoneCol, fileConfig.Columns.Done)
	return v
}

// effectiveConfig reads the layered settings back into a validated Config.
func effectiveConfig(v *viper.Viper) (*config.Config, error) {
	adjust := v.GetBool(keyAdjust)
	processedCopy := v.GetBool(keyProcessedCopy)

	cfg := &config.Config{
		OutputDir:          v.GetString(keyOutputDir),
		AdjustToSunday:     &adjust,
		DryRun:             v.GetBool(keyDryRun),
		WriteProcessedCopy: &processedCopy,
		LogLevel:           strings.ToLower(v.GetString(keyLogLevel)),
		InputEncoding:      strings.ToLower(v.GetString(keyEncoding)),
		Columns: config.ColumnConfig{
			Email:      v.GetString(keyEmailCol),
			Name:       v.GetString(keyNameCol),
			Assignment: v.GetString(keyAssignmentCol),
			Date:       v.GetString(keyDateCol),
			Done:       v.GetString(keyDoneCol),
		},
	}

	if expanded, err := homedir.Expand(cfg.OutputDir); err == nil {
		cfg.OutputDir = expanded
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
