package config

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/solenergy/solenergy.com/internal/email/emailaddr"
	"github.com/spf13/viper"
)

var Config Configuration

type Configuration struct {
	Server    ServerParams    `mapstructure:"server"`
	Solenergy SolenergyParams `mapstructure:"solenergy"`
	Email     EmailParams     `mapstructure:"email"`
	Resend    ResendParams    `mapstructure:"resend"`
	Store     StoreParams     `mapstructure:"store"`
	Db        DbParams        `mapstructure:"postgres"`
	Supabase  SupabaseParams  `mapstructure:"supabase"`
	Mixpanel  MixpanelParams  `mapstructure:"mixpanel"`
}

type ServerParams struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	/* deadline for all downstream calls made while serving one request */
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

type SolenergyParams struct {
	OrganizationID string `mapstructure:"organization_id"`
	SiteName       string `mapstructure:"site_name"`
	SiteURL        string `mapstructure:"site_url"`
	Phone          string `mapstructure:"phone"`
	WhatsApp       string `mapstructure:"whatsapp"`
}

type EmailParams struct {
	From    string      `mapstructure:"from"`
	Admin   string      `mapstructure:"admin"`
	ReplyTo string      `mapstructure:"reply_to"`
	Queue   QueueParams `mapstructure:"queue"`
}

type QueueParams struct {
	Enabled    bool          `mapstructure:"enabled"`
	Period     time.Duration `mapstructure:"period"`
	MaxRetries int32         `mapstructure:"max_retries"`
	BatchSize  int32         `mapstructure:"batch_size"`
}

type ResendParams struct {
	ApiKey string `mapstructure:"api_key"`
}

const (
	StoreBackendPostgres = "postgres"
	StoreBackendSupabase = "supabase"
)

type StoreParams struct {
	Backend string `mapstructure:"backend"`
}

type DbParams struct {
	Host     string `mapstructure:"host"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Port     int    `mapstructure:"port"`
	SslMode  string `mapstructure:"sslmode"`
}

type SupabaseParams struct {
	URL        string `mapstructure:"url"`
	ServiceKey string `mapstructure:"service_key"`
}

type MixpanelParams struct {
	Token string `mapstructure:"token"`
}

var defaults = map[string]any{
	"server.port":             8080,
	"server.read_timeout":     10 * time.Second,
	"server.write_timeout":    30 * time.Second,
	"server.shutdown_timeout": 15 * time.Second,
	"server.request_timeout":  20 * time.Second,

	"solenergy.organization_id": "",
	"solenergy.site_name":       "Solenergy",
	"solenergy.site_url":        "https://solenergy.co.za",
	"solenergy.phone":           "",
	"solenergy.whatsapp":        "",

	"email.from":              "",
	"email.admin":             "",
	"email.reply_to":          "",
	"email.queue.enabled":     false,
	"email.queue.period":      time.Minute,
	"email.queue.max_retries": 5,
	"email.queue.batch_size":  50,

	/* never defaulted to a working key: absence is a configuration error */
	"resend.api_key": "",

	"store.backend": StoreBackendPostgres,

	"postgres.host":     "localhost",
	"postgres.name":     "solenergy",
	"postgres.user":     "solenergy",
	"postgres.password": "",
	"postgres.port":     5432,
	"postgres.sslmode":  "disable",

	"supabase.url":         "",
	"supabase.service_key": "",

	"mixpanel.token": "",
}

/* LoadConfig reads an optional yaml file at path and lets environment
 * variables override every key, e.g. `email.admin` ← EMAIL_ADMIN. A `.env`
 * file in the working directory is loaded first when present. */
func LoadConfig(path string) error {
	_ = godotenv.Load()

	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return fmt.Errorf("read config: %w", err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("stat config: %w", err)
		}
	}

	var c Configuration
	if err := v.Unmarshal(&c); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return err
	}
	Config = c
	return nil
}

func (c *Configuration) Validate() error {
	var missing []string
	if c.Solenergy.OrganizationID == "" {
		missing = append(missing, "solenergy.organization_id")
	}
	if c.Email.From == "" {
		missing = append(missing, "email.from")
	}
	if c.Email.Admin == "" {
		missing = append(missing, "email.admin")
	}
	switch c.Store.Backend {
	case StoreBackendPostgres:
	case StoreBackendSupabase:
		if c.Supabase.URL == "" {
			missing = append(missing, "supabase.url")
		}
		if c.Supabase.ServiceKey == "" {
			missing = append(missing, "supabase.service_key")
		}
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	if c.Email.Queue.Enabled {
		if c.Store.Backend != StoreBackendPostgres {
			return fmt.Errorf("email queue requires the postgres backend")
		}
		if c.Email.Queue.Period <= 0 {
			return fmt.Errorf("email queue: no period")
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf(
			"missing required config: %s", strings.Join(missing, ", "),
		)
	}
	for key, addr := range map[string]string{
		"email.from": c.Email.From, "email.admin": c.Email.Admin,
	} {
		if _, err := emailaddr.Parse(addr); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}
	return nil
}

func (params DbParams) ConnString() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s port=%d dbname=%s sslmode=%s",
		params.Host,
		params.User,
		params.Password,
		params.Port,
		params.Name,
		params.SslMode,
	)
}

func (params DbParams) Connect() (*sql.DB, error) {
	db, err := sql.Open("postgres", params.ConnString())
	if err != nil {
		return nil, err
	}
	return db, nil
}
