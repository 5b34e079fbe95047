package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"risiko-server/internal/shared/utils"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Auth      AuthConfig
	Frontend  FrontendConfig
	Logging   LoggingConfig
	RateLimit RateLimitConfig
	Game      GameConfig
	Admin     AdminConfig
}

type ServerConfig struct {
	Port         string
	URL          string
	Environment  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type DatabaseConfig struct {
	Driver          string
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	SQLitePath      string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	Enabled  bool
	URL      string
	Host     string
	Port     string
	Password string
	DB       int
	Channel  string
}

type AuthConfig struct {
	JWTSecret       string
	TokenExpiration time.Duration
	Issuer          string
	CookieSecure    bool
	CookieSameSite  string
}

type FrontendConfig struct {
	URL string
	// ExtraOrigins are further browser origins allowed to call the API and
	// open game streams
	ExtraOrigins []string
	CORSDebug    bool
}

// Origins lists the frontend URL followed by the extra origins
func (f FrontendConfig) Origins() []string {
	origins := make([]string, 0, 1+len(f.ExtraOrigins))
	if f.URL != "" {
		origins = append(origins, f.URL)
	}
	return append(origins, f.ExtraOrigins...)
}

type LoggingConfig struct {
	Level      string
	Format     string
	JSONFormat bool
}

type RateLimitConfig struct {
	Enabled           bool
	RequestsPerSecond float64
	BurstSize         int
	TrustProxy        bool
}

// GameConfig holds creation bounds, creation defaults and the rules new games are created with
type GameConfig struct {
	GridRows            int
	GridCols            int
	MinPlanets          int
	MaxPlanets          int
	DefaultPlanets      int
	MaxGalaxies         int
	DefaultGalaxies     int
	MaxPlayers          int
	StartingShips       int
	StartingProduction  int
	StartingDefense     float64
	PirateFraction      float64
	PirateGarrison      int
	MinLaunchShips      int
	ETAPolicy           string
	CombatPolicy        string
	RestoreOnStartup    bool
	PersistenceTimeout  time.Duration
	BroadcastBufferSize int
}

type AdminConfig struct {
	Username string
}

var GlobalConfig *Config

func Init() error {
	if err := godotenv.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "No .env file found, using system environment variables")
	}

	config, err := Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	GlobalConfig = config
	return nil
}

// Load reads the configuration from the environment and validates it
func Load() (*Config, error) {
	config := &Config{
		Server:    loadServerConfig(),
		Database:  loadDatabaseConfig(),
		Redis:     loadRedisConfig(),
		Auth:      loadAuthConfig(),
		Frontend:  loadFrontendConfig(),
		Logging:   loadLoggingConfig(),
		RateLimit: loadRateLimitConfig(),
		Game:      loadGameConfig(),
		Admin:     loadAdminConfig(),
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Port:         utils.GetEnv("SERVER_PORT", "8080"),
		URL:          utils.GetEnv("SERVER_URL", "http://localhost:8080"),
		Environment:  utils.GetEnv("ENVIRONMENT", "development"),
		ReadTimeout:  utils.GetEnvSeconds("SERVER_READ_TIMEOUT_SECONDS", 15),
		WriteTimeout: utils.GetEnvSeconds("SERVER_WRITE_TIMEOUT_SECONDS", 15),
		IdleTimeout:  utils.GetEnvSeconds("SERVER_IDLE_TIMEOUT_SECONDS", 60),
	}
}

func loadDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Driver:          strings.ToLower(utils.GetEnv("DB_DRIVER", "postgres")),
		Host:            utils.GetEnv("DB_HOST", "localhost"),
		Port:            utils.GetEnv("DB_PORT", "5432"),
		User:            utils.GetEnv("DB_USER", "postgres"),
		Password:        utils.GetEnv("DB_PASSWORD", "postgres"),
		Name:            utils.GetEnv("DB_NAME", "risiko"),
		SSLMode:         utils.GetEnv("DB_SSLMODE", "disable"),
		SQLitePath:      utils.GetEnv("DB_SQLITE_PATH", "risiko.db"),
		MaxOpenConns:    utils.GetEnvInt("DB_MAX_OPEN_CONNS", 25),
		MaxIdleConns:    utils.GetEnvInt("DB_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime: time.Duration(utils.GetEnvInt("DB_CONN_MAX_LIFETIME_MINUTES", 5)) * time.Minute,
	}
}

func loadRedisConfig() RedisConfig {
	return RedisConfig{
		Enabled:  utils.GetEnvBool("REDIS_ENABLED", false),
		URL:      utils.GetEnv("REDIS_URL", ""),
		Host:     utils.GetEnv("REDIS_HOST", "localhost"),
		Port:     utils.GetEnv("REDIS_PORT", "6379"),
		Password: utils.GetEnv("REDIS_PASSWORD", ""),
		DB:       utils.GetEnvInt("REDIS_DB", 0),
		Channel:  utils.GetEnv("REDIS_CHANNEL", "risiko:games"),
	}
}

func loadAuthConfig() AuthConfig {
	return AuthConfig{
		JWTSecret:       utils.GetEnv("JWT_SECRET", ""),
		TokenExpiration: time.Duration(utils.GetEnvInt("JWT_EXPIRATION_HOURS", 3)) * time.Hour,
		Issuer:          utils.GetEnv("JWT_ISSUER", "risiko-server"),
		CookieSecure:    utils.GetEnvBool("COOKIE_SECURE", false),
		CookieSameSite:  strings.ToLower(utils.GetEnv("COOKIE_SAME_SITE", "lax")),
	}
}

func loadFrontendConfig() FrontendConfig {
	var extra []string
	for _, origin := range strings.Split(utils.GetEnv("FRONTEND_EXTRA_ORIGINS", ""), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			extra = append(extra, origin)
		}
	}

	return FrontendConfig{
		URL:          utils.GetEnv("FRONTEND_URL", "http://localhost:3000"),
		ExtraOrigins: extra,
		CORSDebug:    utils.GetEnv("CORS_DEBUG", "") == "true",
	}
}

func loadLoggingConfig() LoggingConfig {
	environment := utils.GetEnv("ENVIRONMENT", "development")

	return LoggingConfig{
		Level:      utils.GetEnv("LOG_LEVEL", "debug"),
		Format:     utils.GetEnv("LOG_FORMAT", "text"),
		JSONFormat: environment == "production" || utils.GetEnv("LOG_FORMAT", "text") == "json",
	}
}

func loadRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Enabled:           utils.GetEnvBool("RATE_LIMIT_ENABLED", true),
		RequestsPerSecond: utils.GetEnvFloat("RATE_LIMIT_REQUESTS_PER_SECOND", 10),
		BurstSize:         utils.GetEnvInt("RATE_LIMIT_BURST_SIZE", 20),
		TrustProxy:        utils.GetEnvBool("RATE_LIMIT_TRUST_PROXY", false),
	}
}

func loadGameConfig() GameConfig {
	return GameConfig{
		GridRows:            utils.GetEnvInt("GAME_GRID_ROWS", 40),
		GridCols:            utils.GetEnvInt("GAME_GRID_COLS", 15),
		MinPlanets:          utils.GetEnvInt("GAME_MIN_PLANETS", 1),
		MaxPlanets:          utils.GetEnvInt("GAME_MAX_PLANETS", 600),
		DefaultPlanets:      utils.GetEnvInt("GAME_DEFAULT_PLANETS", 80),
		MaxGalaxies:         utils.GetEnvInt("GAME_MAX_GALAXIES", 10),
		DefaultGalaxies:     utils.GetEnvInt("GAME_DEFAULT_GALAXIES", 1),
		MaxPlayers:          utils.GetEnvInt("GAME_MAX_PLAYERS", 8),
		StartingShips:       utils.GetEnvInt("GAME_STARTING_SHIPS", 250),
		StartingProduction:  utils.GetEnvInt("GAME_STARTING_PRODUCTION", 10),
		StartingDefense:     utils.GetEnvFloat("GAME_STARTING_DEFENSE", 1.0),
		PirateFraction:      utils.GetEnvFloat("GAME_PIRATE_FRACTION", 0.35),
		PirateGarrison:      utils.GetEnvInt("GAME_PIRATE_GARRISON", 15),
		MinLaunchShips:      utils.GetEnvInt("GAME_MIN_LAUNCH_SHIPS", 5),
		ETAPolicy:           strings.ToLower(utils.GetEnv("GAME_ETA_POLICY", "round")),
		CombatPolicy:        strings.ToLower(utils.GetEnv("GAME_COMBAT_POLICY", "raw")),
		RestoreOnStartup:    utils.GetEnvBool("GAME_RESTORE_ON_STARTUP", true),
		PersistenceTimeout:  utils.GetEnvSeconds("GAME_PERSISTENCE_TIMEOUT_SECONDS", 5),
		BroadcastBufferSize: utils.GetEnvInt("GAME_BROADCAST_BUFFER_SIZE", 16),
	}
}

func loadAdminConfig() AdminConfig {
	return AdminConfig{
		Username: utils.GetEnv("ADMIN_USERNAME", "admin"),
	}
}

func (c *Config) validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters long")
	}

	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}

	switch c.Database.Driver {
	case "postgres":
		if c.Database.Host == "" {
			return fmt.Errorf("DB_HOST is required")
		}
		if c.Database.Name == "" {
			return fmt.Errorf("DB_NAME is required")
		}
	case "sqlite":
		if c.Database.SQLitePath == "" {
			return fmt.Errorf("DB_SQLITE_PATH is required")
		}
	default:
		return fmt.Errorf("DB_DRIVER must be postgres or sqlite, got %q", c.Database.Driver)
	}

	return c.Game.validate()
}

func (g GameConfig) validate() error {
	if g.GridRows < 1 || g.GridCols < 1 {
		return fmt.Errorf("GAME_GRID_ROWS and GAME_GRID_COLS must be positive")
	}

	if g.MinPlanets < 1 || g.MaxPlanets < g.MinPlanets {
		return fmt.Errorf("GAME_MIN_PLANETS must be positive and not above GAME_MAX_PLANETS")
	}

	if g.MaxPlanets > g.GridRows*g.GridCols {
		return fmt.Errorf("GAME_MAX_PLANETS (%d) exceeds grid capacity %d", g.MaxPlanets, g.GridRows*g.GridCols)
	}

	if g.DefaultPlanets < g.MinPlanets || g.DefaultPlanets > g.MaxPlanets {
		return fmt.Errorf("GAME_DEFAULT_PLANETS must lie within the planet bounds")
	}

	if g.MaxGalaxies < 1 || g.DefaultGalaxies < 1 || g.DefaultGalaxies > g.MaxGalaxies {
		return fmt.Errorf("GAME_DEFAULT_GALAXIES must lie within 1..GAME_MAX_GALAXIES")
	}

	if g.MaxPlayers < 1 {
		return fmt.Errorf("GAME_MAX_PLAYERS must be positive")
	}

	if g.StartingDefense < 0.5 || g.StartingDefense > 1.0 {
		return fmt.Errorf("GAME_STARTING_DEFENSE must lie within 0.5..1.0")
	}

	if g.PirateFraction < 0 || g.PirateFraction > 1 {
		return fmt.Errorf("GAME_PIRATE_FRACTION must lie within 0..1")
	}

	if g.StartingShips < 0 || g.PirateGarrison < 0 || g.StartingProduction < 1 || g.MinLaunchShips < 0 {
		return fmt.Errorf("ship counts must be non-negative and production positive")
	}

	if g.ETAPolicy != "round" && g.ETAPolicy != "ceil" {
		return fmt.Errorf("GAME_ETA_POLICY must be round or ceil, got %q", g.ETAPolicy)
	}

	if g.CombatPolicy != "raw" && g.CombatPolicy != "defense" {
		return fmt.Errorf("GAME_COMBAT_POLICY must be raw or defense, got %q", g.CombatPolicy)
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
