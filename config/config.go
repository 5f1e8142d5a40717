package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

const (
	ProviderGmail = "gmail"
	ProviderIMAP  = "imap"

	ConsoleAuto = "auto"
	ConsoleLine = "line"
	ConsoleTUI  = "tui"

	DefaultConfigFile = "inboxpilot.yaml"
	DefaultEnvFile    = ".env"
)

// Defaults applied before the config file and environment.
const (
	DefaultModel            = "gemini-2.0-flash"
	DefaultBaseURL          = "https://generativelanguage.googleapis.com/v1beta/openai/"
	DefaultGeneratorTimeout = 60
	DefaultReplyLanguage    = "Turkish"
	DefaultReplyMaxWords    = 200
	DefaultCheckInterval    = 300
	DefaultMaxEmails        = 5
	DefaultLogLevel         = "INFO"
	DefaultLogFile          = "email_ai.log"
	DefaultCredentialsFile  = "credentials/credentials.json"
	DefaultTokenFile        = "token.json"
	DefaultIMAPAddress      = "imap.gmail.com:993"
	DefaultSMTPAddress      = "smtp.gmail.com:465"
	DefaultFiltersFile      = "config/filters.json"
	DefaultJournalPath      = "data/inboxpilot.db"
)

type MailboxConfig struct {
	Address  string `yaml:"address"`
	Provider string `yaml:"provider"`
}

type GeneratorConfig struct {
	APIKey         string `yaml:"api_key"`
	Model          string `yaml:"model"`
	BaseURL        string `yaml:"base_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	ReplyLanguage  string `yaml:"reply_language"`
	MaxWords       int    `yaml:"max_words"`
}

type PollConfig struct {
	IntervalSeconds int `yaml:"interval_seconds"`
	MaxEmails       int `yaml:"max_emails"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

type GmailConfig struct {
	CredentialsFile string `yaml:"credentials_file"`
	TokenFile       string `yaml:"token_file"`
}

type IMAPConfig struct {
	IMAPAddress string `yaml:"imap_address"`
	SMTPAddress string `yaml:"smtp_address"`
	AppPassword string `yaml:"app_password"`
}

// Config is the process-wide, read-only configuration. It is built once at
// startup and passed by value into each component.
type Config struct {
	Mailbox     MailboxConfig   `yaml:"mailbox"`
	Generator   GeneratorConfig `yaml:"generator"`
	Poll        PollConfig      `yaml:"poll"`
	Log         LogConfig       `yaml:"log"`
	Gmail       GmailConfig     `yaml:"gmail"`
	IMAP        IMAPConfig      `yaml:"imap"`
	FiltersFile string          `yaml:"filters_file"`
	JournalPath string          `yaml:"journal_path"`
	ConsoleMode string          `yaml:"console_mode"`
}

// Default returns a Config populated with default values only.
func Default() Config {
	return Config{
		Mailbox: MailboxConfig{Provider: ProviderGmail},
		Generator: GeneratorConfig{
			Model:          DefaultModel,
			BaseURL:        DefaultBaseURL,
			TimeoutSeconds: DefaultGeneratorTimeout,
			ReplyLanguage:  DefaultReplyLanguage,
			MaxWords:       DefaultReplyMaxWords,
		},
		Poll: PollConfig{IntervalSeconds: DefaultCheckInterval, MaxEmails: DefaultMaxEmails},
		Log:  LogConfig{Level: DefaultLogLevel, File: DefaultLogFile},
		Gmail: GmailConfig{
			CredentialsFile: DefaultCredentialsFile,
			TokenFile:       DefaultTokenFile,
		},
		IMAP:        IMAPConfig{IMAPAddress: DefaultIMAPAddress, SMTPAddress: DefaultSMTPAddress},
		FiltersFile: DefaultFiltersFile,
		JournalPath: DefaultJournalPath,
		ConsoleMode: ConsoleAuto,
	}
}

// Load builds the configuration: defaults, then the YAML file at configPath,
// then the dotenv file at envPath, then the process environment. Missing
// files are skipped; a malformed file is an error. Load does not validate.
func Load(configPath, envPath string) (Config, error) {
	cfg := Default()

	if configPath != "" {
		if err := loadFile(configPath, &cfg); err != nil {
			return cfg, err
		}
	}

	if envPath != "" {
		// godotenv never overrides variables already set in the environment.
		if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
			return cfg, fmt.Errorf("loading %s: %w", envPath, err)
		}
	}

	overrideFromEnv(&cfg)
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	return nil
}

func overrideFromEnv(cfg *Config) {
	cfg.Mailbox.Address = getEnv("GMAIL_ADDRESS", cfg.Mailbox.Address)
	cfg.Mailbox.Provider = strings.ToLower(getEnv("MAILBOX_PROVIDER", cfg.Mailbox.Provider))

	cfg.Generator.APIKey = getEnv("GEMINI_API_KEY", cfg.Generator.APIKey)
	cfg.Generator.Model = getEnv("GEMINI_MODEL", cfg.Generator.Model)
	cfg.Generator.BaseURL = getEnv("GEMINI_BASE_URL", cfg.Generator.BaseURL)
	cfg.Generator.TimeoutSeconds = getEnvInt("GENERATOR_TIMEOUT", cfg.Generator.TimeoutSeconds)
	cfg.Generator.ReplyLanguage = getEnv("REPLY_LANGUAGE", cfg.Generator.ReplyLanguage)
	cfg.Generator.MaxWords = getEnvInt("REPLY_MAX_WORDS", cfg.Generator.MaxWords)

	cfg.Poll.IntervalSeconds = getEnvInt("CHECK_INTERVAL", cfg.Poll.IntervalSeconds)
	cfg.Poll.MaxEmails = getEnvInt("MAX_EMAILS_PER_CHECK", cfg.Poll.MaxEmails)

	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.File = getEnvAllowEmpty("LOG_FILE", cfg.Log.File)

	cfg.Gmail.CredentialsFile = getEnv("CREDENTIALS_FILE", cfg.Gmail.CredentialsFile)
	cfg.Gmail.TokenFile = getEnv("TOKEN_FILE", cfg.Gmail.TokenFile)

	cfg.IMAP.IMAPAddress = getEnv("IMAP_ADDRESS", cfg.IMAP.IMAPAddress)
	cfg.IMAP.SMTPAddress = getEnv("SMTP_ADDRESS", cfg.IMAP.SMTPAddress)
	cfg.IMAP.AppPassword = getEnv("MAIL_APP_PASSWORD", cfg.IMAP.AppPassword)

	cfg.FiltersFile = getEnv("FILTERS_FILE", cfg.FiltersFile)
	cfg.JournalPath = getEnvAllowEmpty("JOURNAL_PATH", cfg.JournalPath)
	cfg.ConsoleMode = strings.ToLower(getEnv("CONSOLE_MODE", cfg.ConsoleMode))
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAllowEmpty is getEnv for settings where an explicit empty value
// disables the feature.
func getEnvAllowEmpty(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}

// getEnvInt gets an environment variable as an integer or returns a default
// value. A malformed integer is kept as -1 so Validate reports it.
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return -1
	}
	return intValue
}

// Validate reports every missing or malformed setting in a single error.
func (c Config) Validate() error {
	var missing, invalid []string

	if c.Mailbox.Address == "" {
		missing = append(missing, "GMAIL_ADDRESS")
	} else if !strings.Contains(c.Mailbox.Address, "@") {
		invalid = append(invalid, "GMAIL_ADDRESS: invalid email format")
	}

	if c.Generator.APIKey == "" {
		missing = append(missing, "GEMINI_API_KEY")
	} else if len(c.Generator.APIKey) < 20 || !strings.HasPrefix(c.Generator.APIKey, "AIza") {
		invalid = append(invalid, "GEMINI_API_KEY: invalid API key format")
	}

	switch c.Mailbox.Provider {
	case ProviderGmail:
		if _, err := os.Stat(c.Gmail.CredentialsFile); err != nil {
			missing = append(missing, "credentials file: "+c.Gmail.CredentialsFile)
		}
	case ProviderIMAP:
		if c.IMAP.AppPassword == "" {
			missing = append(missing, "MAIL_APP_PASSWORD")
		}
		if c.IMAP.IMAPAddress == "" {
			missing = append(missing, "IMAP_ADDRESS")
		}
		if c.IMAP.SMTPAddress == "" {
			missing = append(missing, "SMTP_ADDRESS")
		}
	default:
		invalid = append(invalid, fmt.Sprintf("MAILBOX_PROVIDER: unknown provider %q", c.Mailbox.Provider))
	}

	if c.Poll.IntervalSeconds <= 0 {
		invalid = append(invalid, "CHECK_INTERVAL: must be a positive number of seconds")
	}
	if c.Poll.MaxEmails < 1 || c.Poll.MaxEmails > 500 {
		invalid = append(invalid, "MAX_EMAILS_PER_CHECK: must be between 1 and 500")
	}
	if c.Generator.TimeoutSeconds <= 0 {
		invalid = append(invalid, "GENERATOR_TIMEOUT: must be a positive number of seconds")
	}
	if c.Generator.MaxWords <= 0 {
		invalid = append(invalid, "REPLY_MAX_WORDS: must be positive")
	}
	if c.Generator.Model == "" {
		missing = append(missing, "GEMINI_MODEL")
	}

	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		invalid = append(invalid, fmt.Sprintf("LOG_LEVEL: unknown level %q", c.Log.Level))
	}

	switch c.ConsoleMode {
	case ConsoleAuto, ConsoleLine, ConsoleTUI:
	default:
		invalid = append(invalid, fmt.Sprintf("CONSOLE_MODE: unknown mode %q", c.ConsoleMode))
	}

	var parts []string
	if len(missing) > 0 {
		parts = append(parts, "missing required configuration: "+strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		parts = append(parts, "invalid configuration: "+strings.Join(invalid, ", "))
	}
	if len(parts) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(parts, "; "))
	}
	return nil
}

// CheckInterval is the poll interval as a duration.
func (c Config) CheckInterval() time.Duration {
	return time.Duration(c.Poll.IntervalSeconds) * time.Second
}

// GeneratorTimeout is the per-request generator timeout as a duration.
func (c Config) GeneratorTimeout() time.Duration {
	return time.Duration(c.Generator.TimeoutSeconds) * time.Second
}

// Safe returns the configuration without secrets, for logging.
func (c Config) Safe() map[string]any {
	return map[string]any{
		"gmail_address":  c.Mailbox.Address,
		"provider":       c.Mailbox.Provider,
		"check_interval": c.Poll.IntervalSeconds,
		"max_emails":     c.Poll.MaxEmails,
		"log_level":      c.Log.Level,
		"model":          c.Generator.Model,
		"reply_language": c.Generator.ReplyLanguage,
		"journal_path":   c.JournalPath,
		"console_mode":   c.ConsoleMode,
	}
}
