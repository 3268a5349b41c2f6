package config

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type ServerConfig struct {
	Port        string `mapstructure:"port"`
	PostgresURL string `mapstructure:"postgres_url"`
	AdminSecret string `mapstructure:"admin_secret"`
}

type RetrievalConfig struct {
	Provider      string  `mapstructure:"provider"` // openai | gemini
	APIKey        string  `mapstructure:"api_key"`
	Model         string  `mapstructure:"model"`
	Limit         int     `mapstructure:"limit"`
	MinSimilarity float64 `mapstructure:"min_similarity"`
	RerankTimeout int     `mapstructure:"rerank_timeout_ms"`
	RerankRetries int     `mapstructure:"rerank_retries"`
	MapboxToken   string  `mapstructure:"mapbox_token"`
}

// PlannerConfig carries every tunable the scheduler honors. Duration
// defaults follow the per-type rule only; there is no per-POI guessing.
type PlannerConfig struct {
	LocalityThresholdKm float64        `mapstructure:"locality_threshold_km"`
	SlotBudgets         map[string]int `mapstructure:"slot_budgets"`      // minutes of attraction time per slot
	DurationDefaults    map[string]int `mapstructure:"duration_defaults"` // minutes per POI type
	MaxItemsPerSlot     int            `mapstructure:"max_items_per_slot"`
	InterestMissPenalty float64        `mapstructure:"interest_miss_penalty"`
}

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Retrieval RetrievalConfig `mapstructure:"retrieval"`
	Planner   PlannerConfig   `mapstructure:"planner"`
}

func setDefaults() {
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("retrieval.provider", "gemini")
	viper.SetDefault("retrieval.limit", 40)
	viper.SetDefault("retrieval.min_similarity", 0.7)
	viper.SetDefault("retrieval.rerank_timeout_ms", 3000)
	viper.SetDefault("retrieval.rerank_retries", 2)
	viper.SetDefault("planner.locality_threshold_km", 3.0)
	viper.SetDefault("planner.slot_budgets", map[string]int{
		"morning":   180,
		"afternoon": 180,
		"evening":   120,
	})
	viper.SetDefault("planner.duration_defaults", map[string]int{
		"attraction":  90,
		"restaurant":  75,
		"shop":        40,
		"event_venue": 120,
	})
	viper.SetDefault("planner.max_items_per_slot", 3)
	viper.SetDefault("planner.interest_miss_penalty", 0.25)
}

// Load reads config.yaml (optional) with env-var overrides; a local .env
// is honored the way the rest of the service expects.
func Load(cfgFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("TABIJI")
	setDefaults()

	viper.BindEnv("server.postgres_url", "POSTGRES_URL")
	viper.BindEnv("server.port", "PORT")
	viper.BindEnv("server.admin_secret", "ADMIN_JWT_SECRET")
	viper.BindEnv("retrieval.provider", "AI_PROVIDER")
	viper.BindEnv("retrieval.api_key", "AI_API_KEY")
	viper.BindEnv("retrieval.model", "AI_MODEL")
	viper.BindEnv("retrieval.mapbox_token", "MAPBOX_ACCESS_TOKEN")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		log.Printf("No config file found, using defaults and environment")
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	return &cfg, nil
}
