package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type SlackConfig struct {
	// SigningSecrets holds one signing secret per bot identity sharing the
	// webhook endpoint. A request is accepted when it matches any of them.
	SigningSecrets []string
	BotToken       string
	OviBotToken    string // optional, falls back to BotToken
	ErrorsChannel  string
	BotFather      string // admin user that receives full-detail error reports
	// SkipVerification disables the signature gate. Development only: with
	// this flag on, anyone can forge webhook requests.
	SkipVerification bool
}

// IsConfigured returns true if all required Slack configuration is present
func (c SlackConfig) IsConfigured() bool {
	return len(c.SigningSecrets) > 0 &&
		c.BotToken != "" &&
		c.ErrorsChannel != "" &&
		c.BotFather != ""
	// Note: the ovi bot token is optional, VM replies fall back to BotToken
}

type BrokerConfig struct {
	// BrokerURL is a redis URI, e.g. redis://localhost:6379/0. The broker
	// carries both the task queue and the task results.
	BrokerURL string
}

// IsConfigured returns true if all required broker configuration is present
func (c BrokerConfig) IsConfigured() bool {
	return c.BrokerURL != ""
}

type OviConfig struct {
	BaseURL string
}

// IsConfigured returns true if the remote VM API endpoint is present
func (c OviConfig) IsConfigured() bool {
	return c.BaseURL != ""
}

type SubteConfig struct {
	ClientID     string
	ClientSecret string
}

// IsConfigured returns true if all required transit API credentials are present
func (c SubteConfig) IsConfigured() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

type SkillsConfig struct {
	HolidaysAPIURL string
	SubteAPIURL    string
	HoypidoAPIURL  string
	DolarAPIURL    string
}

type RoomsConfig struct {
	OAuthClientID     string
	OAuthClientSecret string
}

// IsConfigured returns true if all required calendar OAuth configuration is present
func (c RoomsConfig) IsConfigured() bool {
	return c.OAuthClientID != "" && c.OAuthClientSecret != ""
}

type AppConfig struct {
	// Core configuration (always required)
	DatabaseURL        string
	DatabaseSchema     string
	Port               string // Optional with default "8080"
	CORSAllowedOrigins string // Optional with default "*"
	Environment        string
	UseStrictConfig    bool // If true, error when any integration is not fully configured

	// Integration configurations (grouped)
	SlackConfig  SlackConfig
	BrokerConfig BrokerConfig
	OviConfig    OviConfig
	SubteConfig  SubteConfig
	SkillsConfig SkillsConfig
	RoomsConfig  RoomsConfig
}

func LoadConfig() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Println("⚠️ Could not load .env file, continuing with system env vars")
	}

	// Core required configuration
	databaseURL, err := getEnvRequired("DB_URL")
	if err != nil {
		return nil, err
	}

	databaseSchema, err := getEnvRequired("DB_SCHEMA")
	if err != nil {
		return nil, err
	}

	config := &AppConfig{
		// Core configuration
		DatabaseURL:        databaseURL,
		DatabaseSchema:     databaseSchema,
		Port:               getEnvWithDefault("PORT", "8080"),
		CORSAllowedOrigins: getEnvWithDefault("CORS_ALLOWED_ORIGINS", "*"),
		Environment:        getEnvWithDefault("ENVIRONMENT", "dev"),
		UseStrictConfig:    getEnvWithDefault("USE_STRICT_CONFIG", "true") == "true",

		SlackConfig: SlackConfig{
			SigningSecrets:   splitNonEmpty(os.Getenv("SLACK_SIGNING_SECRETS")),
			BotToken:         os.Getenv("BOT_TOKEN"),
			OviBotToken:      os.Getenv("OVIBOT_TOKEN"),
			ErrorsChannel:    os.Getenv("ERRORS_CHANNEL"),
			BotFather:        os.Getenv("BOT_FATHER"),
			SkipVerification: os.Getenv("SKIP_SIGNATURE_VERIFICATION") == "true",
		},

		BrokerConfig: BrokerConfig{
			BrokerURL: os.Getenv("BROKER_URL"),
		},

		OviConfig: OviConfig{
			BaseURL: os.Getenv("OVI_API_URL"),
		},

		SubteConfig: SubteConfig{
			ClientID:     os.Getenv("CABA_CLI_ID"),
			ClientSecret: os.Getenv("CABA_SECRET"),
		},

		SkillsConfig: SkillsConfig{
			HolidaysAPIURL: getEnvWithDefault("HOLIDAYS_API_URL", "https://nolaborables.com.ar/api/v2/feriados"),
			SubteAPIURL:    getEnvWithDefault("SUBTE_API_URL", "https://apitransporte.buenosaires.gob.ar/subtes/serviceAlerts"),
			HoypidoAPIURL:  getEnvWithDefault("HOYPIDO_API_URL", "https://api.hoypido.com/company/onapsis/menus"),
			DolarAPIURL:    getEnvWithDefault("DOLAR_API_URL", "https://api.ambro.dev/dolar/rates"),
		},

		RoomsConfig: RoomsConfig{
			OAuthClientID:     os.Getenv("ROOMS_OAUTH_CLIENT_ID"),
			OAuthClientSecret: os.Getenv("ROOMS_OAUTH_CLIENT_SECRET"),
		},
	}

	// The bypass kills the trust boundary of the whole gateway, so it must
	// never survive into a production configuration.
	if config.SlackConfig.SkipVerification && config.Environment != "dev" {
		return nil, fmt.Errorf("SKIP_SIGNATURE_VERIFICATION is only allowed when ENVIRONMENT=dev")
	}

	// Log which integrations are configured
	if config.SlackConfig.IsConfigured() {
		log.Printf("✅ Slack integration configured with %d signing secret(s)", len(config.SlackConfig.SigningSecrets))
	} else {
		log.Printf("⚠️ Slack integration not configured - Slack features will be disabled")
		if config.UseStrictConfig {
			return nil, fmt.Errorf("slack integration is not fully configured (USE_STRICT_CONFIG=true)")
		}
	}

	if config.BrokerConfig.IsConfigured() {
		log.Printf("✅ Task broker configured")
	} else {
		log.Printf("⚠️ Task broker not configured - async tasks will be disabled")
		if config.UseStrictConfig {
			return nil, fmt.Errorf("task broker is not fully configured (USE_STRICT_CONFIG=true)")
		}
	}

	if config.OviConfig.IsConfigured() {
		log.Printf("✅ Remote VM API configured")
	} else {
		log.Printf("⚠️ Remote VM API not configured - VM management will be disabled")
		if config.UseStrictConfig {
			return nil, fmt.Errorf("remote VM API is not fully configured (USE_STRICT_CONFIG=true)")
		}
	}

	if config.SubteConfig.IsConfigured() {
		log.Printf("✅ Transit API configured")
	} else {
		log.Printf("⚠️ Transit API not configured - /subte will be disabled")
	}

	if config.RoomsConfig.IsConfigured() {
		log.Printf("✅ Rooms calendar OAuth configured")
	} else {
		log.Printf("⚠️ Rooms calendar OAuth not configured - room lookup will be disabled")
	}

	return config, nil
}

func getEnvRequired(key string) (string, error) {
	value := os.Getenv(key)
	if value == "" {
		return "", fmt.Errorf("%s is not set", key)
	}
	return value, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitNonEmpty(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
