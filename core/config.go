package core

import (
	"fmt"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const defaultLeadWebhook = "https://hook.us2.make.com/3tsoiux2mb2pvmd9jh74mf45yfmvljlu"

type (
	ServerConfig struct {
		Host            string
		Port            int
		ShutdownTimeout time.Duration
	}

	Config struct {
		Env      string // DEV (local; default), TEST, PROD
		Debug    bool
		TestMode bool
		AppName  string
		Build    string
		WorkDir  string

		DataDir      string // demo dataset root: <grade>/<subject>/<assignment>.csv
		SettingsPath string
		EnvFile      string // credential source imported once into the settings document
		AppDataDir   string // leads backup lives here
		LeadBackup   bool   // false keeps undelivered leads in memory only

		LeadWebhookURL     string
		LeadWebhookTimeout time.Duration
		SalesEmail         string
		FromEmail          string
		FromName           string

		RollbarToken   string
		SendgridAPIKey string

		Server ServerConfig
	}
)

// NewConfig builds the app Config from defaults, an optional `config/.env.<env>` file and the environment.
// workDir defaults to the current working directory.
func NewConfig(workDir string) (*Config, error) {
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "getting working directory")
		}
		workDir = wd
	}

	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("appName", "GradeSpark Community")
	v.SetDefault("build", "dev")
	v.SetDefault("dataDir", filepath.Join(workDir, "demo_data"))
	v.SetDefault("settingsPath", filepath.Join(workDir, "settings.json"))
	v.SetDefault("envFile", filepath.Join(workDir, ".env"))
	v.SetDefault("appDataDir", defaultAppDataDir())
	v.SetDefault("leadBackup", true)
	v.SetDefault("leadWebhook", defaultLeadWebhook)
	v.SetDefault("leadWebhookTimeout", 5*time.Second)
	v.SetDefault("salesEmail", "")
	v.SetDefault("fromEmail", "noreply@localhost")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("sendgridApiKey", "")
	v.SetDefault("serverHost", "127.0.0.1")
	v.SetDefault("serverPort", 8765)
	v.SetDefault("serverShutdownTimeout", 10*time.Second)

	env := strings.ToUpper(os.Getenv("ENV"))
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(workDir, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			return nil, errors.Wrapf(err, "loading %s", dotEnvPath)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "stat %s", dotEnvPath)
	}
	v.AutomaticEnv()
	_ = v.BindEnv("leadWebhook", "GRADESPARK_LEAD_WEBHOOK")

	return &Config{
		Env:                env,
		Debug:              v.GetBool("debug"),
		TestMode:           v.GetBool("testMode"),
		AppName:            v.GetString("appName"),
		Build:              v.GetString("build"),
		WorkDir:            workDir,
		DataDir:            v.GetString("dataDir"),
		SettingsPath:       v.GetString("settingsPath"),
		EnvFile:            v.GetString("envFile"),
		AppDataDir:         v.GetString("appDataDir"),
		LeadBackup:         v.GetBool("leadBackup"),
		LeadWebhookURL:     v.GetString("leadWebhook"),
		LeadWebhookTimeout: v.GetDuration("leadWebhookTimeout"),
		SalesEmail:         v.GetString("salesEmail"),
		FromEmail:          v.GetString("fromEmail"),
		FromName:           v.GetString("appName"),
		RollbarToken:       v.GetString("rollbarToken"),
		SendgridAPIKey:     v.GetString("sendgridApiKey"),
		Server: ServerConfig{
			Host:            v.GetString("serverHost"),
			Port:            v.GetInt("serverPort"),
			ShutdownTimeout: v.GetDuration("serverShutdownTimeout"),
		},
	}, nil
}

func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

func (c *Config) DefaultFromEmail() mail.Address {
	return mail.Address{Name: c.FromName, Address: c.FromEmail}
}

// defaultAppDataDir is the per-user writable location, falling back to ~/.gradespark.
func defaultAppDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil && dir != "" {
		return filepath.Join(dir, "GradeSpark")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".gradespark")
	}
	return ".gradespark"
}
