package cmd

import (
	"errors"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "maganghub-seeker"

	defaultDataDir = "data"
)

type Config struct {
	DataDir   string         `mapstructure:"data-dir"`
	UserAgent string         `mapstructure:"user-agent"`
	TokenFile string         `mapstructure:"token-file"`
	Fetch     *FetchConfig   `mapstructure:"fetch"`
	Profile   *ProfileConfig `mapstructure:"profile"`
	AI        *AIConfig      `mapstructure:"ai"`
}

type FetchConfig struct {
	KodeProvinsi int    `mapstructure:"kode-provinsi"`
	PageSize     int    `mapstructure:"page-size"`
	MaxPages     int    `mapstructure:"max-pages"`
	Delay        string `mapstructure:"delay"`
}

// ProfileConfig describes the applicant used for AI fit evaluation.
type ProfileConfig struct {
	Name         string `mapstructure:"name"`
	Jenjang      string `mapstructure:"jenjang"`
	ProgramStudi string `mapstructure:"program-studi"`
	Summary      string `mapstructure:"summary"`
}

type AIConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Provider        string        `mapstructure:"provider"`
	MinimumFitScore float64       `mapstructure:"minimum-fit-score"`
	Gemini          *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "maganghub-seeker is a simple cli for fetching MagangHub internship vacancies and searching them locally",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("token-file", "MAGANGHUB_TOKEN_FILE"); err != nil {
		log.Fatalf("binding MAGANGHUB_TOKEN_FILE environment variable: %v", err)
	}
	if err := viper.BindEnv("ai.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is maganghub-seeker.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Config needed only for the fetch and search commands.
	if fetchCmd.CalledAs() == "" && searchCmd.CalledAs() == "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// The config file is optional unless explicitly requested: every setting
	// has a flag or default. A file that exists but does not parse is fatal.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config == nil {
		config = &Config{}
	}
	if config.DataDir == "" {
		config.DataDir = defaultDataDir
	}

	return config, nil
}
