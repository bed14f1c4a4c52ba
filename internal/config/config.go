package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/awfufu/go-statbot/internal/llm"
	"github.com/awfufu/go-statbot/internal/router"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

const (
	ModeDefault  = "default"
	ModeSharding = "sharding"
)

var (
	ErrMissingBotName = errors.New("bot.name is required")
	ErrUnknownMode    = errors.New("unknown bot mode")
	ErrUnknownDriver  = errors.New("unknown database driver")
	ErrMissingDSN     = errors.New("database.dsn is required for postgres")
	ErrMissingAPIKey  = errors.New("no api key for the selected service")
)

type Config struct {
	// NapCat
	HttpRemote  string `yaml:"http_remote"` // forward HTTP address
	HttpListen  string `yaml:"http_listen"` // reverse HTTP listen address
	AccessToken string `yaml:"access_token,omitempty"`

	Bot       BotConfig                 `yaml:"bot"`
	Database  DatabaseConfig            `yaml:"database"`
	Rcon      RconConfig                `yaml:"rcon"`
	Log       LogConfig                 `yaml:"log"`
	Suppliers map[string]SupplierConfig `yaml:"suppliers,omitempty"`
}

type BotConfig struct {
	Name            string   `yaml:"name"` // mention marker, "@" is added when missing
	ID              uint64   `yaml:"id"`
	AutoReplyPrefix string   `yaml:"auto_reply_prefix"`
	AliasWhitelist  []string `yaml:"alias_whitelist"`
	RoomWhitelist   []string `yaml:"room_whitelist"`
	SystemAccount   string   `yaml:"system_account"`
	Mode            string   `yaml:"mode"`
	Service         string   `yaml:"service"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"` // sqlite or postgres
	Path   string `yaml:"path"`
	DSN    string `yaml:"dsn,omitempty"`
}

type RconConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	Command  string `yaml:"command"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type SupplierConfig struct {
	BaseURL        string `yaml:"base_url"`
	APIKey         string `yaml:"api_key"`
	DefaultModel   string `yaml:"default_model"`
	Prompt         string `yaml:"prompt,omitempty"`
	Proxy          string `yaml:"proxy,omitempty"`
	TimeoutSeconds int    `yaml:"timeout_seconds,omitempty"`
}

// envOverrides are read after the yaml file. Unset variables leave the
// file values alone.
type envOverrides struct {
	BotName         *string `envconfig:"BOT_NAME"`
	AutoReplyPrefix *string `envconfig:"AUTO_REPLY_PREFIX"`
	AliasWhitelist  *string `envconfig:"ALIAS_WHITELIST"`
	RoomWhitelist   *string `envconfig:"ROOM_WHITELIST"`
	ServiceType     *string `envconfig:"SERVICE_TYPE"`
	BotMode         *string `envconfig:"BOT_MODE"`
	OpenAIKey       *string `envconfig:"OPENAI_API_KEY"`
	KimiKey         *string `envconfig:"KIMI_API_KEY"`
}

// Load reads the yaml file at path, then a .env file, then the environment.
// A missing yaml or .env file is not an error.
func Load(path string, envFiles ...string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("解析配置文件失败: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("读取 %s 失败: %w", file, err)
		}
	}

	var env envOverrides
	if err := envconfig.Process("", &env); err != nil {
		return nil, fmt.Errorf("读取环境变量失败: %w", err)
	}
	cfg.applyEnv(&env)
	cfg.setDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(env *envOverrides) {
	if env.BotName != nil {
		c.Bot.Name = *env.BotName
	}
	if env.AutoReplyPrefix != nil {
		c.Bot.AutoReplyPrefix = *env.AutoReplyPrefix
	}
	if env.AliasWhitelist != nil {
		c.Bot.AliasWhitelist = strings.Split(*env.AliasWhitelist, ",")
	}
	if env.RoomWhitelist != nil {
		c.Bot.RoomWhitelist = strings.Split(*env.RoomWhitelist, ",")
	}
	if env.ServiceType != nil {
		c.Bot.Service = *env.ServiceType
	}
	if env.BotMode != nil {
		c.Bot.Mode = *env.BotMode
	}
	if env.OpenAIKey != nil {
		c.setSupplierKey(llm.GPT, *env.OpenAIKey)
	}
	if env.KimiKey != nil {
		c.setSupplierKey(llm.Kimi, *env.KimiKey)
	}
}

func (c *Config) setSupplierKey(kind llm.ServiceKind, key string) {
	if c.Suppliers == nil {
		c.Suppliers = make(map[string]SupplierConfig)
	}
	s := c.Suppliers[kind.String()]
	s.APIKey = key
	c.Suppliers[kind.String()] = s
}

func (c *Config) setDefaults() {
	// NapCat 默认值
	if c.HttpRemote == "" {
		c.HttpRemote = "http://127.0.0.1:3000"
	}
	if c.HttpListen == "" {
		c.HttpListen = "0.0.0.0:3001"
	}

	c.Bot.Name = strings.TrimSpace(c.Bot.Name)
	if c.Bot.Name != "" && !strings.HasPrefix(c.Bot.Name, "@") {
		c.Bot.Name = "@" + c.Bot.Name
	}
	c.Bot.AliasWhitelist = normalizeList(c.Bot.AliasWhitelist)
	c.Bot.RoomWhitelist = normalizeList(c.Bot.RoomWhitelist)
	if c.Bot.SystemAccount == "" {
		c.Bot.SystemAccount = router.DefaultSystemAccount
	}
	if c.Bot.Mode == "" {
		c.Bot.Mode = ModeDefault
	}
	if c.Bot.Service == "" {
		c.Bot.Service = llm.GPT.String()
	}

	if c.Database.Driver == "" {
		c.Database.Driver = "sqlite"
	}
	if c.Database.Path == "" {
		c.Database.Path = "db/bot.db"
	}

	if c.Rcon.Command == "" {
		c.Rcon.Command = "list"
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// normalizeList trims entries and drops blanks and duplicates.
func normalizeList(items []string) []string {
	items = lo.Map(items, func(s string, _ int) string {
		return strings.TrimSpace(s)
	})
	return lo.Uniq(lo.Compact(items))
}

func (c *Config) Validate() error {
	if c.Bot.Name == "" {
		return ErrMissingBotName
	}
	kind, err := llm.ParseServiceKind(c.Bot.Service)
	if err != nil {
		return fmt.Errorf("bot.service: %w", err)
	}
	switch c.Bot.Mode {
	case ModeDefault, ModeSharding:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMode, c.Bot.Mode)
	}
	switch c.Database.Driver {
	case "sqlite":
	case "postgres":
		if c.Database.DSN == "" {
			return ErrMissingDSN
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDriver, c.Database.Driver)
	}
	if _, ok := c.LLMSuppliers()[kind]; !ok {
		return fmt.Errorf("%w: suppliers.%s.api_key", ErrMissingAPIKey, kind)
	}
	return nil
}

// Router builds the immutable routing configuration.
func (c *Config) Router() *router.Config {
	kind, _ := llm.ParseServiceKind(c.Bot.Service)
	return &router.Config{
		BotName:        c.Bot.Name,
		Prefix:         c.Bot.AutoReplyPrefix,
		AliasWhitelist: lo.Keyify(c.Bot.AliasWhitelist),
		RoomWhitelist:  lo.Keyify(c.Bot.RoomWhitelist),
		Service:        kind,
		SystemAccount:  c.Bot.SystemAccount,
	}
}

// LLMSuppliers returns the completion suppliers that carry an API key.
// Entries with unknown names are skipped.
func (c *Config) LLMSuppliers() map[llm.ServiceKind]llm.Supplier {
	out := make(map[llm.ServiceKind]llm.Supplier)
	for name, s := range c.Suppliers {
		kind, err := llm.ParseServiceKind(name)
		if err != nil || s.APIKey == "" {
			continue
		}
		out[kind] = llm.Supplier{
			BaseURL: s.BaseURL,
			APIKey:  s.APIKey,
			Model:   s.DefaultModel,
			Prompt:  s.Prompt,
			Proxy:   s.Proxy,
			Timeout: time.Duration(s.TimeoutSeconds) * time.Second,
		}
	}
	return out
}
