package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

var (
	ErrConfigFileNotFound    = errors.New("could not find config file in any config path")
	ErrConfigVersionMissing  = errors.New("config file is missing version field")
	ErrConfigVersionMismatch = errors.New("config file version mismatch")
	ErrUnknownBackend        = errors.New("unknown registry backend")
)

// RepositoryVersion is the repository version tag for config file references.
const RepositoryVersion = "v0.3.0"

// Current version of the config file.
const (
	CurrentCommonVersion = 1
	CurrentBotVersion    = 1
)

// Registry backends.
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Config represents the entire application configuration.
type Config struct {
	Common CommonConfig `koanf:"common"`
	Bot    BotConfig    `koanf:"bot"`
}

// CommonConfig contains configuration shared between the bot and the registry CLI.
type CommonConfig struct {
	// Version of the common config.
	Version    int        `koanf:"version"`
	Debug      Debug      `koanf:"debug"`
	Telemetry  Telemetry  `koanf:"telemetry"`
	Registry   Registry   `koanf:"registry"`
	PostgreSQL PostgreSQL `koanf:"postgresql"`
	Redis      Redis      `koanf:"redis"`
	Lookup     Lookup     `koanf:"lookup"`
}

// Debug contains debug-related configuration.
type Debug struct {
	// Log level (debug, info, warn, error).
	LogLevel string `koanf:"log_level"`
	// Maximum log sessions to keep.
	MaxLogsToKeep int `koanf:"max_logs_to_keep"`
	// Also write logs to stderr.
	Console bool `koanf:"console"`
}

// Telemetry contains tracing configuration.
type Telemetry struct {
	// Uptrace DSN. Tracing export is disabled when empty.
	UptraceDSN string `koanf:"uptrace_dsn"`
	// Service name reported to the tracing backend.
	ServiceName string `koanf:"service_name"`
}

// Registry selects and configures the ban registry storage.
type Registry struct {
	// Backend is one of sqlite, postgres or redis.
	Backend string `koanf:"backend"`
	// Path to the SQLite database file.
	SQLitePath string `koanf:"sqlite_path"`
	// Number of pooled SQLite connections.
	SQLitePoolSize int `koanf:"sqlite_pool_size"`
	// Key prefix used by the Redis backend.
	RedisPrefix string `koanf:"redis_prefix"`
}

// PostgreSQL contains database connection configuration.
type PostgreSQL struct {
	// Database hostname.
	Host string `koanf:"host"`
	// Database port.
	Port int `koanf:"port"`
	// Database username.
	User string `koanf:"user"`
	// Database password.
	Password string `koanf:"password"`
	// Database name.
	DBName string `koanf:"db_name"`
	// Maximum open connections.
	MaxOpenConns int `koanf:"max_open_conns"`
	// Maximum idle connections.
	MaxIdleConns int `koanf:"max_idle_conns"`
	// Connection lifetime in minutes.
	MaxLifetime int `koanf:"max_lifetime"`
	// Idle timeout in minutes.
	MaxIdleTime int `koanf:"max_idle_time"`
}

// Redis contains Redis connection configuration.
type Redis struct {
	// Redis hostname.
	Host string `koanf:"host"`
	// Redis port.
	Port int `koanf:"port"`
	// Redis username.
	Username string `koanf:"username"`
	// Redis password.
	Password string `koanf:"password"`
}

// Lookup configures the external account lookup service.
type Lookup struct {
	// Base URL the escaped display name is appended to.
	BaseURL string `koanf:"base_url"`
	// Request timeout in milliseconds.
	RequestTimeout int `koanf:"request_timeout"`
	// Format string for the profile converter link, %s is the canonical ID.
	ProfileLink string `koanf:"profile_link"`
	// Consecutive failures before the circuit breaker opens.
	BreakerMaxRequests uint32 `koanf:"breaker_max_requests"`
	// Circuit breaker open-state duration in milliseconds.
	BreakerTimeout int `koanf:"breaker_timeout"`
}

// BotConfig contains Discord bot specific configuration.
type BotConfig struct {
	// Version of the bot config.
	Version  int      `koanf:"version"`
	Discord  Discord  `koanf:"discord"`
	Roles    Roles    `koanf:"roles"`
	Channels Channels `koanf:"channels"`
	Commands Commands `koanf:"commands"`
	Ban      Ban      `koanf:"ban"`
	Passive  Passive  `koanf:"passive"`
}

// Discord contains Discord bot configuration.
type Discord struct {
	// Discord bot token for authentication.
	Token string `koanf:"token"`
	// Guild the bot moderates.
	GuildID uint64 `koanf:"guild_id"`
}

// Roles maps privilege tiers to guild role IDs.
type Roles struct {
	Moderator       uint64 `koanf:"moderator"`
	JuniorModerator uint64 `koanf:"junior_moderator"`
}

// Channels contains the IDs of channels the bot writes to.
type Channels struct {
	// Channel receiving audit records.
	ModActionLog uint64 `koanf:"mod_action_log"`
	// Channel receiving ban list announcements.
	BannedList uint64 `koanf:"banned_list"`
}

// Commands configures the text command surface.
type Commands struct {
	// Prefix for moderation commands.
	Prefix string `koanf:"prefix"`
	// First token of a passive warn message.
	WarnTrigger string `koanf:"warn_trigger"`
}

// Ban configures the ban notification.
type Ban struct {
	// Server name used in the ban notice.
	ServerName string `koanf:"server_name"`
	// Appeal invite sent after the ban notice.
	AppealLink string `koanf:"appeal_link"`
	// Footer for ban list announcements.
	ListFooter string `koanf:"list_footer"`
}

// Passive configures the passive warn trigger.
type Passive struct {
	// Seconds between passive replies.
	CooldownSeconds int `koanf:"cooldown_seconds"`
	// Reply pool for unauthorized warn attempts.
	Responses []string `koanf:"responses"`
}

// DefaultSearchPaths lists the directories searched for config files.
func DefaultSearchPaths() ([]string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get home directory: %w", err)
	}

	return []string{
		".sentinel",
		homeDir + "/.sentinel/config",
		"/etc/sentinel/config",
		"/app/config",
		"config",
		".",
	}, nil
}

// LoadConfig loads the configuration from the default search paths.
// Returns the config along with the used config directory.
func LoadConfig() (*Config, string, error) {
	paths, err := DefaultSearchPaths()
	if err != nil {
		return nil, "", err
	}

	return LoadConfigFrom(paths)
}

// LoadConfigFrom loads common.toml and bot.toml from the first path holding each file.
// Each file is mounted under its own name, so both may use the same section names.
func LoadConfigFrom(configPaths []string) (*Config, string, error) {
	k := koanf.New(".")

	var usedConfigPath string

	configFiles := []string{"common", "bot"}
	for _, configName := range configFiles {
		configLoaded := false

		for _, path := range configPaths {
			configPath := fmt.Sprintf("%s/%s.toml", path, configName)

			sub := koanf.New(".")
			if err := sub.Load(file.Provider(configPath), toml.Parser()); err != nil {
				continue
			}

			if err := k.MergeAt(sub, configName); err != nil {
				return nil, "", fmt.Errorf("failed to merge %s.toml: %w", configName, err)
			}

			configLoaded = true

			if usedConfigPath == "" {
				usedConfigPath = path
			}

			break
		}

		if !configLoaded {
			return nil, "", fmt.Errorf("%w: %s.toml", ErrConfigFileNotFound, configName)
		}
	}

	var config Config
	if err := k.Unmarshal("", &config); err != nil {
		return nil, "", fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := checkConfigVersion("common", config.Common.Version, CurrentCommonVersion); err != nil {
		return nil, "", err
	}

	if err := checkConfigVersion("bot", config.Bot.Version, CurrentBotVersion); err != nil {
		return nil, "", err
	}

	config.applyDefaults()

	switch config.Common.Registry.Backend {
	case BackendSQLite, BackendPostgres, BackendRedis:
	default:
		return nil, "", fmt.Errorf("%w: %q", ErrUnknownBackend, config.Common.Registry.Backend)
	}

	return &config, usedConfigPath, nil
}

// applyDefaults fills in values left unset in the config files.
func (c *Config) applyDefaults() {
	if c.Common.Debug.LogLevel == "" {
		c.Common.Debug.LogLevel = "info"
	}

	if c.Common.Debug.MaxLogsToKeep <= 0 {
		c.Common.Debug.MaxLogsToKeep = 10
	}

	if c.Common.Telemetry.ServiceName == "" {
		c.Common.Telemetry.ServiceName = "sentinel"
	}

	if c.Common.Registry.Backend == "" {
		c.Common.Registry.Backend = BackendSQLite
	}

	if c.Common.Registry.SQLitePath == "" {
		c.Common.Registry.SQLitePath = "data/banned_members.db"
	}

	if c.Common.Registry.SQLitePoolSize <= 0 {
		c.Common.Registry.SQLitePoolSize = 4
	}

	if c.Common.Registry.RedisPrefix == "" {
		c.Common.Registry.RedisPrefix = "banlist:"
	}

	if c.Common.Lookup.BaseURL == "" {
		c.Common.Lookup.BaseURL = "https://api.mojang.com/users/profiles/minecraft/"
	}

	if c.Common.Lookup.RequestTimeout <= 0 {
		c.Common.Lookup.RequestTimeout = 5000
	}

	if c.Common.Lookup.ProfileLink == "" {
		c.Common.Lookup.ProfileLink = "https://mcuuid.net/?q=%s"
	}

	if c.Common.Lookup.BreakerMaxRequests == 0 {
		c.Common.Lookup.BreakerMaxRequests = 5
	}

	if c.Common.Lookup.BreakerTimeout <= 0 {
		c.Common.Lookup.BreakerTimeout = 30000
	}

	if c.Bot.Commands.Prefix == "" {
		c.Bot.Commands.Prefix = "+"
	}

	if c.Bot.Commands.WarnTrigger == "" {
		c.Bot.Commands.WarnTrigger = "!warn"
	}

	if c.Bot.Ban.ListFooter == "" {
		c.Bot.Ban.ListFooter = "SBU Banned List"
	}

	if c.Bot.Passive.CooldownSeconds <= 0 {
		c.Bot.Passive.CooldownSeconds = 60
	}

	if len(c.Bot.Passive.Responses) == 0 {
		c.Bot.Passive.Responses = []string{
			"https://tenor.com/view/clown-pennywise-ten-10-gif-25962140",
			"https://tenor.com/view/clown-nose-joker-funny-dropped-gif-23619188",
			"https://tenor.com/view/" +
				"clown-detector-bitcoin-rd_btc-my-clown-detector-is-off-the-charts-strike_memes-gif-22298893",
			"https://tenor.com/view/mr-rogers-nightmare-clown-gif-5401671",
		}
	}
}

// checkConfigVersion checks if the config file version is correct.
func checkConfigVersion(name string, current, expected int) error {
	if current == 0 {
		return fmt.Errorf("%w: %s.toml", ErrConfigVersionMissing, name)
	}

	if current != expected {
		return fmt.Errorf(
			"%w: %s.toml (got: %d, expected: %d)\n"+
				"Please update your config file from: https://github.com/sbu-community/sentinel/tree/%s/config/%s.toml",
			ErrConfigVersionMismatch,
			name,
			current,
			expected,
			RepositoryVersion,
			name,
		)
	}

	return nil
}
