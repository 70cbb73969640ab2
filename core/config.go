package core

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kat-co/vala"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

type (
	Config struct {
		AppName   string
		Env       string // DEV (default) | TEST | QA | PROD
		Debug     bool
		TestMode  bool
		Build     string
		SecretKey string

		API     APIConfig
		Web     WebConfig
		Storage StorageConfig
		Rollbar RollbarConfig
	}

	// APIConfig describes the backend REST collaborator.
	APIConfig struct {
		BaseURL      string
		Timeout      time.Duration
		RequestsPerS float64 // client-side politeness limit
	}

	WebConfig struct {
		Addr               string
		ShutdownTimeout    time.Duration
		SessionCookieName  string
		SessionMaxAge      time.Duration
		DisableRequestLogs bool
	}

	StorageConfig struct {
		Path string // sqlite file; empty means in-memory
	}

	RollbarConfig struct {
		Token string
	}
)

// NewConfig loads defaults, an optional config/.env.<env> file and
// environment overrides (prefixed with the env name, e.g. DEV_SECRETKEY).
func NewConfig() (*Config, error) {
	v := viper.New()
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("appName", "AcademyOS")
	v.SetDefault("build", "dev")
	v.SetDefault("secretKey", "o2g$x1y8@w#rme-k+q5c(h7u^z&d0s*b4j9f6a3l!pv)nt_i%e")
	v.SetDefault("apiBaseURL", "http://localhost:5000/api")
	v.SetDefault("apiTimeout", 15*time.Second)
	v.SetDefault("apiRequestsPerS", 20.0)
	v.SetDefault("webAddr", ":3000")
	v.SetDefault("webShutdownTimeout", 5*time.Second)
	v.SetDefault("sessionCookieName", "academyos_session")
	v.SetDefault("sessionMaxAge", 7*24*time.Hour)
	v.SetDefault("storagePath", filepath.Join(".", "academyos.db"))

	env := strings.ToUpper(os.Getenv("ENV"))
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join("config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err = godotenv.Load(dotEnvPath); err != nil {
			return nil, errors.Wrapf(err, "loading %s", dotEnvPath)
		}
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "checking %s", dotEnvPath)
	}
	v.AutomaticEnv()

	conf := &Config{
		AppName:   v.GetString("appName"),
		Env:       env,
		Debug:     v.GetBool("debug"),
		TestMode:  v.GetBool("testMode"),
		Build:     v.GetString("build"),
		SecretKey: v.GetString("secretKey"),
		API: APIConfig{
			BaseURL:      v.GetString("apiBaseURL"),
			Timeout:      v.GetDuration("apiTimeout"),
			RequestsPerS: v.GetFloat64("apiRequestsPerS"),
		},
		Web: WebConfig{
			Addr:               v.GetString("webAddr"),
			ShutdownTimeout:    v.GetDuration("webShutdownTimeout"),
			SessionCookieName:  v.GetString("sessionCookieName"),
			SessionMaxAge:      v.GetDuration("sessionMaxAge"),
			DisableRequestLogs: v.GetBool("disableRequestLogs"),
		},
		Storage: StorageConfig{Path: v.GetString("storagePath")},
		Rollbar: RollbarConfig{Token: v.GetString("rollbarToken")},
	}
	if err := conf.check(); err != nil {
		return nil, err
	}
	return conf, nil
}

func (c *Config) check() error {
	return vala.BeginValidation().Validate(
		vala.StringNotEmpty(c.AppName, "appName"),
		vala.StringNotEmpty(c.SecretKey, "secretKey"),
		vala.StringNotEmpty(c.API.BaseURL, "apiBaseURL"),
		vala.Not(vala.Equals(c.API.Timeout, time.Duration(0), "apiTimeout")),
	).Check()
}
