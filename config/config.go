package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"shirokane/database"
)

// Config holds all application configuration
type Config struct {
	// Discord configuration
	DiscordToken string
	GuildID      string // Primary Discord guild ID

	// Database configuration
	DatabaseURL  string
	DatabaseName string

	// Leveling configuration
	XPPerMessageMin int64         // Lower bound of the random xp award per message
	XPPerMessageMax int64         // Upper bound of the random xp award per message
	XPCooldown      time.Duration // Minimum gap between awards for the same user
	RoleRewardsPath string        // Path to the TOML file mapping levels to role IDs
	LevelUpChannelID string       // Channel for level-up announcements; empty means reply in place

	// Chat configuration
	BlackboxBaseURL string // Base URL of the conversational AI proxy
	BlackboxAPIKey  string
	ChatMemoryLimit int // Messages of history kept per user

	// Image generation configuration
	StableHordeBaseURL string
	StableHordeAPIKey  string
	GenerationTimeout  time.Duration // Overall bound on submit-poll-download

	// Lookup API configuration
	JikanBaseURL     string // Anime database API
	HenrikDevBaseURL string // Valorant stats API
	HenrikDevAPIKey  string

	// Environment
	Environment string // "development" or "production"
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // Protects instance for test setup
)

// Get returns the global configuration instance
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	// If instance is already set (e.g., by tests), return it
	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			// In test environment, use a default test config instead of panicking
			if os.Getenv("GO_TEST") == "1" || os.Getenv("ENVIRONMENT") == "test" {
				instance = NewTestConfig()
				instance.DiscordToken = "test-token"
			} else {
				panic(fmt.Sprintf("failed to load config: %v", err))
			}
		}
	})
	return instance
}

// GetDatabaseURL constructs the full database URL by combining base URL and database name
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{
		// Discord
		DiscordToken: os.Getenv("DISCORD_TOKEN"),
		GuildID:      os.Getenv("GUILD_ID"),

		// Database
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DatabaseName: os.Getenv("DATABASE_NAME"),

		// Leveling defaults
		XPPerMessageMin:  15,
		XPPerMessageMax:  25,
		XPCooldown:       60 * time.Second,
		RoleRewardsPath:  getEnvWithDefault("ROLE_REWARDS_PATH", "rewards.toml"),
		LevelUpChannelID: os.Getenv("LEVEL_UP_CHANNEL_ID"),

		// Chat
		BlackboxBaseURL: getEnvWithDefault("BLACKBOX_BASE_URL", "https://www.blackbox.ai"),
		BlackboxAPIKey:  os.Getenv("BLACKBOX_API_KEY"),
		ChatMemoryLimit: 20,

		// Image generation
		StableHordeBaseURL: getEnvWithDefault("STABLE_HORDE_BASE_URL", "https://stablehorde.net/api/v2"),
		StableHordeAPIKey:  getEnvWithDefault("STABLE_HORDE_API_KEY", "0000000000"),
		GenerationTimeout:  3 * time.Minute,

		// Lookup APIs
		JikanBaseURL:     getEnvWithDefault("JIKAN_BASE_URL", "https://api.jikan.moe/v4"),
		HenrikDevBaseURL: getEnvWithDefault("HENRIKDEV_BASE_URL", "https://api.henrikdev.xyz"),
		HenrikDevAPIKey:  os.Getenv("HENRIKDEV_API_KEY"),

		// Environment
		Environment: os.Getenv("ENVIRONMENT"),
	}

	// Override defaults if environment variables are set
	if cooldown := os.Getenv("XP_COOLDOWN_SECONDS"); cooldown != "" {
		if seconds, err := strconv.Atoi(cooldown); err == nil && seconds >= 0 {
			config.XPCooldown = time.Duration(seconds) * time.Second
		}
	}
	if timeout := os.Getenv("GENERATION_TIMEOUT_SECONDS"); timeout != "" {
		if seconds, err := strconv.Atoi(timeout); err == nil && seconds > 0 {
			config.GenerationTimeout = time.Duration(seconds) * time.Second
		}
	}
	if limit := os.Getenv("CHAT_MEMORY_LIMIT"); limit != "" {
		if parsed, err := strconv.Atoi(limit); err == nil && parsed > 0 {
			config.ChatMemoryLimit = parsed
		}
	}

	// Set default environment if not specified
	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		// Validate required configuration
		if config.DiscordToken == "" {
			return nil, fmt.Errorf("DISCORD_TOKEN is required")
		}
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
		if config.DatabaseName != "" && strings.TrimSpace(config.DatabaseName) == "" {
			return nil, fmt.Errorf("DATABASE_NAME cannot be empty when provided")
		}
	}

	if config.XPPerMessageMin > config.XPPerMessageMax {
		return nil, fmt.Errorf("xp award range is inverted: min %d > max %d",
			config.XPPerMessageMin, config.XPPerMessageMax)
	}

	return config, nil
}

// getEnvWithDefault returns the environment variable value or a default if not set
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Test helpers - only use in tests

// SetTestConfig overrides the global config instance for testing
// This should only be called from test files
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig resets the global config instance and sync.Once for testing
// This should only be called from test files
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a minimal config suitable for unit tests
func NewTestConfig() *Config {
	return &Config{
		Environment:        "test",
		XPPerMessageMin:    15,
		XPPerMessageMax:    25,
		XPCooldown:         60 * time.Second,
		ChatMemoryLimit:    20,
		GenerationTimeout:  3 * time.Minute,
		StableHordeAPIKey:  "0000000000",
		StableHordeBaseURL: "https://stablehorde.net/api/v2",
	}
}
