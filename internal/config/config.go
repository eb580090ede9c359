package config

import (
	"os"
	"path"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Public  Public
	Private Private
}

// Public holds settings safe to ship in version control.
type Public struct {
	Port                     int      `yaml:"port"`
	LogLevel                 string   `yaml:"log_level"`
	LogJSON                  bool     `yaml:"log_json"`
	AllowedOrigins           []string `yaml:"allowed_origins"`
	SecureCookies            bool     `yaml:"secure_cookies"`
	JwtTTLSeconds            int      `yaml:"jwt_ttl_seconds"`
	DuplicateWindowSeconds   int      `yaml:"duplicate_window_seconds"` // ingestion duplicate guard
	IngestBaseURL            string   `yaml:"ingest_base_url"`          // base url the push receiver forwards to
	GenaiModel               string   `yaml:"genai_model"`
	TranscriptLanguage       string   `yaml:"transcript_language"`
	GmailAccount             string   `yaml:"gmail_account"` // fallback when a push carries no address
}

// Private holds secrets. Every field can be overridden from the environment
// so deployments don't need a private.yaml on disk.
type Private struct {
	Pg           Pg     `yaml:"pg"`
	JwtKey       string `yaml:"jwt_key"`
	AuthSecret   string `yaml:"auth_secret"` // shared secret for the trusted sso callback
	GoogleAPIKey string `yaml:"google_api_key"`
	Gmail        Gmail  `yaml:"gmail"`
}

type Pg struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Dbname   string `yaml:"dbname"`
}

type Gmail struct {
	ClientId     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	RedirectURI  string `yaml:"redirect_uri"`
	RefreshToken string `yaml:"refresh_token"`
}

// Configured reports whether every credential needed for the push receiver
// is present. A partially configured integration counts as absent.
func (g *Gmail) Configured() bool {
	return g.ClientId != "" && g.ClientSecret != "" && g.RedirectURI != "" && g.RefreshToken != ""
}

func (c *Config) JwtTTL() time.Duration {
	return time.Duration(c.Public.JwtTTLSeconds) * time.Second
}

func (c *Config) DuplicateWindow() time.Duration {
	if c.Public.DuplicateWindowSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.Public.DuplicateWindowSeconds) * time.Second
}

func mustLoadPath(configPath string, output interface{}) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		panic("can't read config file")
	}
	if err := yaml.Unmarshal(configFile, output); err != nil {
		panic("can't unmarshal config file")
	}
}

func loadPath(configPath string, output interface{}) error {
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(configFile, output)
}

// MustLoad reads public.yaml (required) and private.yaml (optional, secrets
// may come from the environment instead) from configFolder.
func MustLoad(configFolder string) *Config {
	var public Public
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)

	var private Private
	_ = loadPath(path.Join(configFolder, "private.yaml"), &private)

	cfg := &Config{public, private}
	cfg.applyEnv()
	return cfg
}

func (c *Config) applyEnv() {
	setIfPresent := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setIfPresent(&c.Private.JwtKey, "JWT_KEY")
	setIfPresent(&c.Private.AuthSecret, "AUTH_SECRET")
	setIfPresent(&c.Private.GoogleAPIKey, "GOOGLE_API_KEY")
	setIfPresent(&c.Private.Gmail.ClientId, "GOOGLE_CLIENT_ID_GMAIL")
	setIfPresent(&c.Private.Gmail.ClientSecret, "GOOGLE_CLIENT_SECRET_GMAIL")
	setIfPresent(&c.Private.Gmail.RedirectURI, "GOOGLE_REDIRECT_URI_GMAIL")
	setIfPresent(&c.Private.Gmail.RefreshToken, "GOOGLE_REFRESH_TOKEN_GMAIL")
	setIfPresent(&c.Private.Pg.Host, "PG_HOST")
	setIfPresent(&c.Private.Pg.User, "PG_USER")
	setIfPresent(&c.Private.Pg.Password, "PG_PASSWORD")
	setIfPresent(&c.Private.Pg.Dbname, "PG_DBNAME")
	if v := os.Getenv("PG_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			panic("PG_PORT is not a number: " + v)
		}
		c.Private.Pg.Port = port
	}
}
