package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"

	"github.com/go-sql-driver/mysql"
	"github.com/spf13/viper"
)

type Config struct {
	Database Database `json:"database" mapstructure:"database"`
	Seed     uint64   `json:"seed" mapstructure:"seed"` // 0 picks a random seed
}

type Database struct {
	Provider string `json:"provider" mapstructure:"provider"`
	Host     string `json:"host" mapstructure:"host"`
	Port     int    `json:"port" mapstructure:"port"`
	Name     string `json:"name" mapstructure:"name"`
	User     string `json:"user" mapstructure:"user"`
	Password string `json:"password" mapstructure:"password"`
	SSLMode  string `json:"sslmode" mapstructure:"sslmode"`
	Schema   string `json:"schema" mapstructure:"schema"`
	Path     string `json:"path" mapstructure:"path"` // sqlite only
}

var envBindings = map[string]string{
	"database.provider": "DB_PROVIDER",
	"database.host":     "DB_HOST",
	"database.port":     "DB_PORT",
	"database.name":     "DB_NAME",
	"database.user":     "DB_USER",
	"database.password": "DB_PASSWORD",
	"database.sslmode":  "DB_SSLMODE",
	"database.schema":   "DB_SCHEMA",
	"database.path":     "DB_PATH",
	"seed":              "SEED",
}

var supportedProviders = []string{"postgresql", "postgres", "mysql", "sqlite", "sqlite3"}

func bindEnv(v *viper.Viper) {
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	v.SetDefault("database.provider", "postgresql")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "require")
	v.SetDefault("database.schema", "rushmore")
	v.SetDefault("database.path", "rushmore.db")
	v.SetDefault("seed", 0)
}

// Load reads the connection settings from the environment. A .env file is
// expected to have been loaded into the process environment beforehand.
func Load() (*Config, error) {
	v := viper.GetViper()
	bindEnv(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	supported := false
	for _, provider := range supportedProviders {
		if c.Database.Provider == provider {
			supported = true
			break
		}
	}
	if !supported {
		return fmt.Errorf("unsupported database provider: %s. Supported providers: %v", c.Database.Provider, supportedProviders)
	}

	if c.IsSQLite() {
		if c.Database.Path == "" {
			return fmt.Errorf("DB_PATH cannot be empty for provider %s", c.Database.Provider)
		}
		return nil
	}

	if c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is not set")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("DB_NAME is not set")
	}
	if c.Database.User == "" {
		return fmt.Errorf("DB_USER is not set")
	}
	if c.Database.Port <= 0 || c.Database.Port > 65535 {
		return fmt.Errorf("invalid DB_PORT: %d", c.Database.Port)
	}

	return nil
}

func (c *Config) IsSQLite() bool {
	return c.Database.Provider == "sqlite" || c.Database.Provider == "sqlite3"
}

// DSN builds the driver connection string for the configured provider.
func (c *Config) DSN() string {
	db := c.Database
	addr := net.JoinHostPort(db.Host, strconv.Itoa(db.Port))

	switch db.Provider {
	case "mysql":
		mc := mysql.NewConfig()
		mc.User = db.User
		mc.Passwd = db.Password
		mc.Net = "tcp"
		mc.Addr = addr
		mc.DBName = db.Name
		mc.ParseTime = true
		mc.TLSConfig = mysqlTLS(db.SSLMode)
		return mc.FormatDSN()
	case "sqlite", "sqlite3":
		return "file:" + db.Path + "?_pragma=foreign_keys(1)"
	default:
		u := url.URL{
			Scheme:   "postgres",
			User:     url.UserPassword(db.User, db.Password),
			Host:     addr,
			Path:     "/" + db.Name,
			RawQuery: url.Values{"sslmode": {db.SSLMode}}.Encode(),
		}
		return u.String()
	}
}

// mysqlTLS maps libpq sslmode names onto the mysql driver's tls parameter.
func mysqlTLS(sslMode string) string {
	switch sslMode {
	case "disable":
		return "false"
	case "allow", "prefer":
		return "preferred"
	case "verify-ca", "verify-full":
		return "true"
	default:
		return "skip-verify"
	}
}
