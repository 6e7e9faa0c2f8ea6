package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/duckyhq/ducky/constants/lipgloss"
	"github.com/duckyhq/ducky/providers"
)

// Config represents the structure of the configuration file.
type Config struct {
	Version                string                      `mapstructure:"version"`
	Theme                  string                      `mapstructure:"theme"`
	ScanIntervalSeconds    int                         `mapstructure:"scan_interval_seconds"`
	MaxConcurrentPipelines int                         `mapstructure:"max_concurrent_pipelines"`
	SnapshotDir            string                      `mapstructure:"snapshot_dir"`
	AIProviderConfig       *providers.AIProviderConfig `mapstructure:"ai_provider_config"`
}

// DefaultConfig values
var DefaultConfig = Config{
	Version:                "0.1.0",
	Theme:                  "dracula",
	ScanIntervalSeconds:    10,
	MaxConcurrentPipelines: 1,
	SnapshotDir:            "",
	AIProviderConfig: &providers.AIProviderConfig{
		Provider:              "openai",
		BaseURL:               "https://api.openai.com/v1",
		Model:                 "gpt-4o",
		Temperature:           nil,
		MaxTokens:             0,
		ApiKey:                "",
		RequestTimeoutSeconds: 60,
	},
}

// cfgFile holds the path to the configuration file (set via CLI)
var cfgFile string

// LoadConfigs initializes the configuration from file, flags, and environment variables, and returns the final config.
func LoadConfigs(rootCmd *cobra.Command, cwd string) *Config {
	var config *Config

	setDefaults()

	viper.SetEnvPrefix("DUCKY")
	viper.AutomaticEnv()
	bindEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Error reading config file: %v", err)))
			os.Exit(1)
		}
	} else {
		viper.SetConfigName("ducky-config")
		viper.AddConfigPath(cwd)

		viper.SetConfigType("yaml")
		if err := viper.ReadInConfig(); err != nil {
			viper.SetConfigType("json")
			if err := viper.ReadInConfig(); err != nil {
				fmt.Println(lipgloss.Yellow.Render("No configuration file found, using defaults"))
			}
		}
	}

	bindFlags(rootCmd)

	if err := viper.Unmarshal(&config); err != nil {
		fmt.Println(lipgloss.Red.Render(fmt.Sprintf("Unable to decode into struct: %v", err)))
		os.Exit(1)
	}

	if config.SnapshotDir == "" {
		config.SnapshotDir = defaultSnapshotDir()
	}

	return config
}

// defaultSnapshotDir resolves the per-user snapshot location.
func defaultSnapshotDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".ducky"
	}
	return filepath.Join(home, ".ducky", "snapshots")
}

// setDefaults sets all default configuration values
func setDefaults() {
	viper.SetDefault("version", DefaultConfig.Version)
	viper.SetDefault("theme", DefaultConfig.Theme)
	viper.SetDefault("scan_interval_seconds", DefaultConfig.ScanIntervalSeconds)
	viper.SetDefault("max_concurrent_pipelines", DefaultConfig.MaxConcurrentPipelines)
	viper.SetDefault("snapshot_dir", DefaultConfig.SnapshotDir)
	viper.SetDefault("ai_provider_config.provider", DefaultConfig.AIProviderConfig.Provider)
	viper.SetDefault("ai_provider_config.base_url", DefaultConfig.AIProviderConfig.BaseURL)
	viper.SetDefault("ai_provider_config.model", DefaultConfig.AIProviderConfig.Model)
	viper.SetDefault("ai_provider_config.temperature", DefaultConfig.AIProviderConfig.Temperature)
	viper.SetDefault("ai_provider_config.max_tokens", DefaultConfig.AIProviderConfig.MaxTokens)
	viper.SetDefault("ai_provider_config.api_key", DefaultConfig.AIProviderConfig.ApiKey)
	viper.SetDefault("ai_provider_config.request_timeout_seconds", DefaultConfig.AIProviderConfig.RequestTimeoutSeconds)
}

// bindEnv explicitly binds environment variables to configuration keys
func bindEnv() {
	_ = viper.BindEnv("theme", "DUCKY_THEME")
	_ = viper.BindEnv("scan_interval_seconds", "DUCKY_SCAN_INTERVAL_SECONDS")
	_ = viper.BindEnv("max_concurrent_pipelines", "DUCKY_MAX_CONCURRENT_PIPELINES")
	_ = viper.BindEnv("snapshot_dir", "DUCKY_SNAPSHOT_DIR")
	_ = viper.BindEnv("ai_provider_config.provider", "DUCKY_PROVIDER")
	_ = viper.BindEnv("ai_provider_config.base_url", "DUCKY_BASE_URL")
	_ = viper.BindEnv("ai_provider_config.model", "DUCKY_MODEL")
	_ = viper.BindEnv("ai_provider_config.temperature", "DUCKY_TEMPERATURE")
	_ = viper.BindEnv("ai_provider_config.api_key", "DUCKY_API_KEY")
	_ = viper.BindEnv("ai_provider_config.request_timeout_seconds", "DUCKY_REQUEST_TIMEOUT_SECONDS")
}

// bindFlags binds the CLI flags to configuration values.
func bindFlags(rootCmd *cobra.Command) {
	_ = viper.BindPFlag("theme", rootCmd.PersistentFlags().Lookup("theme"))
	_ = viper.BindPFlag("scan_interval_seconds", rootCmd.PersistentFlags().Lookup("scan_interval"))
	_ = viper.BindPFlag("max_concurrent_pipelines", rootCmd.PersistentFlags().Lookup("max_pipelines"))
	_ = viper.BindPFlag("snapshot_dir", rootCmd.PersistentFlags().Lookup("snapshot_dir"))
	_ = viper.BindPFlag("ai_provider_config.provider", rootCmd.PersistentFlags().Lookup("provider"))
	_ = viper.BindPFlag("ai_provider_config.base_url", rootCmd.PersistentFlags().Lookup("base_url"))
	_ = viper.BindPFlag("ai_provider_config.model", rootCmd.PersistentFlags().Lookup("model"))
	_ = viper.BindPFlag("ai_provider_config.temperature", rootCmd.PersistentFlags().Lookup("temperature"))
	_ = viper.BindPFlag("ai_provider_config.api_key", rootCmd.PersistentFlags().Lookup("api_key"))
}

// InitFlags initializes the flags for the root command.
func InitFlags(rootCmd *cobra.Command) {
	// Use PersistentFlags so that these flags are available in all subcommands
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Specifies the path to a configuration file (JSON or YAML) that contains all the settings for the application.")

	rootCmd.PersistentFlags().String("theme", DefaultConfig.Theme, "Set customize theme for highlighted output. (e.g., 'dracula', 'light', 'dark')")
	rootCmd.PersistentFlags().Int("scan_interval", DefaultConfig.ScanIntervalSeconds, "Seconds between project scans while watching.")
	rootCmd.PersistentFlags().Int("max_pipelines", DefaultConfig.MaxConcurrentPipelines, "Maximum number of review pipelines running at once across all projects.")
	rootCmd.PersistentFlags().String("snapshot_dir", DefaultConfig.SnapshotDir, "Directory holding the project snapshot store (default: ~/.ducky/snapshots).")

	rootCmd.Flags().BoolP("version", "v", false, "Specifies the version of the application.")

	rootCmd.PersistentFlags().String("provider", DefaultConfig.AIProviderConfig.Provider, "The name of the AI provider (e.g., 'openai', 'azure', 'ollama')")
	rootCmd.PersistentFlags().String("base_url", DefaultConfig.AIProviderConfig.BaseURL, "The base URL of AI Provider (e.g., default is 'https://api.openai.com/v1').")
	rootCmd.PersistentFlags().String("model", DefaultConfig.AIProviderConfig.Model, "The name of the model used for chat completions, such as 'gpt-4o'.")
	rootCmd.PersistentFlags().Float32("temperature", 0, "Adjusts the AI model's creativity (0-1, default 0.2).")
	rootCmd.PersistentFlags().String("api_key", DefaultConfig.AIProviderConfig.ApiKey, "The API key used to authenticate with the AI service provider.")
}
