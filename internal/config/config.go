package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string `mapstructure:"PORT"`
	Env         string `mapstructure:"ENV"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	DBMaxConns  int32  `mapstructure:"DB_MAX_CONNS"`
	DBMinConns  int32  `mapstructure:"DB_MIN_CONNS"`

	ClassifierURL string `mapstructure:"CLASSIFIER_URL"`
	MatchingURL   string `mapstructure:"MATCHING_URL"`
	GeocodeURL    string `mapstructure:"GEOCODE_URL"`

	MQTTBrokerURL   string `mapstructure:"MQTT_BROKER_URL"`
	MQTTTopicPrefix string `mapstructure:"MQTT_TOPIC_PREFIX"`

	AuthIssuer   string `mapstructure:"AUTH_ISSUER"`
	AuthAudience string `mapstructure:"AUTH_AUDIENCE"`
	AuthJWKSURL  string `mapstructure:"AUTH_JWKS_URL"`

	CORSOrigins []string `mapstructure:"CORS_ORIGINS"`

	// Default ambulance position before the first GPS fix (central Chennai).
	DefaultLat float64 `mapstructure:"DEFAULT_LAT"`
	DefaultLng float64 `mapstructure:"DEFAULT_LNG"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("CLASSIFIER_URL", "http://127.0.0.1:5001")
	v.SetDefault("MATCHING_URL", "http://127.0.0.1:5001")
	v.SetDefault("GEOCODE_URL", "https://nominatim.openstreetmap.org")
	v.SetDefault("MQTT_BROKER_URL", "tcp://localhost:1883")
	v.SetDefault("MQTT_TOPIC_PREFIX", "ambulances")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("DEFAULT_LAT", 13.0827)
	v.SetDefault("DEFAULT_LNG", 80.2707)

	// Bind env vars explicitly so Unmarshal picks them up
	for _, key := range []string{
		"PORT", "ENV", "DATABASE_URL", "DB_MAX_CONNS", "DB_MIN_CONNS",
		"CLASSIFIER_URL", "MATCHING_URL", "GEOCODE_URL",
		"MQTT_BROKER_URL", "MQTT_TOPIC_PREFIX",
		"AUTH_ISSUER", "AUTH_AUDIENCE", "AUTH_JWKS_URL",
		"CORS_ORIGINS", "DEFAULT_LAT", "DEFAULT_LNG",
	} {
		v.BindEnv(key)
	}

	// Try reading .env, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		if origins := v.GetString("CORS_ORIGINS"); origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the server is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate checks that the configuration is safe to run. Outside development,
// real JWT authentication must be configured.
func (c *Config) Validate() error {
	if !c.IsDev() && c.AuthIssuer == "" {
		return fmt.Errorf("AUTH_ISSUER must be set when ENV=%q; refusing to start without authentication", c.Env)
	}
	if c.DefaultLat < -90 || c.DefaultLat > 90 {
		return fmt.Errorf("DEFAULT_LAT %v out of range", c.DefaultLat)
	}
	if c.DefaultLng < -180 || c.DefaultLng > 180 {
		return fmt.Errorf("DEFAULT_LNG %v out of range", c.DefaultLng)
	}
	return nil
}
