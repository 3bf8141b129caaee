package core

import (
	"fmt"
	"log"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		Env      string // DEV (default), TEST, QA, PROD
		Debug    bool
		TestMode bool
		AppName  string
		Build    string
		WorkDir  string

		DefaultFromEmail mail.Address
		SendgridAPIKey   string
		RollbarToken     string

		Server    ServerConfig
		Database  DatabaseConfig
		Redis     RedisConfig
		Mojo      MojoConfig
		LLM       LLMConfig
		Scheduler SchedulerConfig
		Analytics AnalyticsConfig
	}

	ServerConfig struct {
		Host            string
		Addr            string
		DebugAddr       string
		ShutdownTimeout time.Duration
	}

	DatabaseConfig struct {
		Engine        string
		Name          string
		Host          string
		Port          string
		User          string
		Password      string
		AdminUser     string
		AdminPassword string
		DisableTLS    bool
	}

	RedisConfig struct {
		Addr      string
		Password  string
		ReportTTL time.Duration
	}

	MojoConfig struct {
		BaseURL string
		Token   string
		Timeout time.Duration
	}

	LLMConfig struct {
		BaseURL string
		APIKey  string
		Model   string
		Timeout time.Duration
	}

	SchedulerConfig struct {
		Tick                 time.Duration
		GradingCheckInterval time.Duration
		DrainTimeout         time.Duration
	}

	AnalyticsConfig struct {
		TrendThreshold      float64
		LowAttendancePct    float64
		OverdueAlertCount   int
		GradingDeadlineDays int
		AlertWindowDays     int
		ReportWindowDays    int
	}
)

func (c DatabaseConfig) Address() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// NewConfig loads the app configuration from defaults, an optional
// config/.env.<env> file and environment variables (prefixed with the env name).
func NewConfig() *Config {
	conf := viper.New()

	// defaults
	conf.SetTypeByDefaultValue(true)
	conf.SetDefault("debug", true)
	conf.SetDefault("appName", "Edusight")
	conf.SetDefault("build", "dev")
	conf.SetDefault("defaultFromEmail", "noreply@localhost")
	conf.SetDefault("serverHost", "localhost")
	conf.SetDefault("serverAddr", ":8000")
	conf.SetDefault("serverDebugAddr", ":4000")
	conf.SetDefault("serverShutdownTimeout", 5*time.Second)
	conf.SetDefault("dbEngine", "postgres")
	conf.SetDefault("dbName", "edusight")
	conf.SetDefault("dbHost", "localhost")
	conf.SetDefault("dbPort", "5432")
	conf.SetDefault("dbUser", "")
	conf.SetDefault("dbPassword", "")
	conf.SetDefault("dbAdminUser", "")
	conf.SetDefault("dbAdminPassword", "")
	conf.SetDefault("dbDisableTLS", true)
	conf.SetDefault("redisAddr", "localhost:6379")
	conf.SetDefault("redisPassword", "")
	conf.SetDefault("redisReportTTL", 15*time.Minute)
	conf.SetDefault("mojoBaseURL", "https://mojo.education/api")
	conf.SetDefault("mojoAPIToken", "")
	conf.SetDefault("mojoTimeout", 30*time.Second)
	conf.SetDefault("llmBaseURL", "http://localhost:8001/v1")
	conf.SetDefault("llmAPIKey", "")
	conf.SetDefault("llmModel", "deepseek-chat")
	conf.SetDefault("llmTimeout", 60*time.Second)
	conf.SetDefault("schedulerTick", time.Minute)
	conf.SetDefault("schedulerDrainTimeout", 30*time.Second)
	conf.SetDefault("gradingCheckInterval", 10*time.Minute)
	conf.SetDefault("trendThreshold", 0.5)
	conf.SetDefault("lowAttendancePct", 75.0)
	conf.SetDefault("overdueAlertCount", 3)
	conf.SetDefault("gradingDeadlineDays", 3)
	conf.SetDefault("alertWindowDays", 14)
	conf.SetDefault("reportWindowDays", 30)

	env := strings.ToUpper(os.Getenv("ENV"))
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		conf.SetDefault("testMode", true)
	}
	conf.SetEnvPrefix(env)

	wd := Getwd()

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}
	conf.AutomaticEnv()

	return &Config{
		Env:      env,
		Debug:    conf.GetBool("debug"),
		TestMode: conf.GetBool("testMode"),
		AppName:  conf.GetString("appName"),
		Build:    conf.GetString("build"),
		WorkDir:  wd,

		DefaultFromEmail: mail.Address{Name: conf.GetString("appName"), Address: conf.GetString("defaultFromEmail")},
		SendgridAPIKey:   conf.GetString("sendgridAPIKey"),
		RollbarToken:     conf.GetString("rollbarToken"),

		Server: ServerConfig{
			Host:            conf.GetString("serverHost"),
			Addr:            conf.GetString("serverAddr"),
			DebugAddr:       conf.GetString("serverDebugAddr"),
			ShutdownTimeout: conf.GetDuration("serverShutdownTimeout"),
		},
		Database: DatabaseConfig{
			Engine:        conf.GetString("dbEngine"),
			Name:          conf.GetString("dbName"),
			Host:          conf.GetString("dbHost"),
			Port:          conf.GetString("dbPort"),
			User:          conf.GetString("dbUser"),
			Password:      conf.GetString("dbPassword"),
			AdminUser:     conf.GetString("dbAdminUser"),
			AdminPassword: conf.GetString("dbAdminPassword"),
			DisableTLS:    conf.GetBool("dbDisableTLS"),
		},
		Redis: RedisConfig{
			Addr:      conf.GetString("redisAddr"),
			Password:  conf.GetString("redisPassword"),
			ReportTTL: conf.GetDuration("redisReportTTL"),
		},
		Mojo: MojoConfig{
			BaseURL: conf.GetString("mojoBaseURL"),
			Token:   conf.GetString("mojoAPIToken"),
			Timeout: conf.GetDuration("mojoTimeout"),
		},
		LLM: LLMConfig{
			BaseURL: conf.GetString("llmBaseURL"),
			APIKey:  conf.GetString("llmAPIKey"),
			Model:   conf.GetString("llmModel"),
			Timeout: conf.GetDuration("llmTimeout"),
		},
		Scheduler: SchedulerConfig{
			Tick:                 conf.GetDuration("schedulerTick"),
			GradingCheckInterval: conf.GetDuration("gradingCheckInterval"),
			DrainTimeout:         conf.GetDuration("schedulerDrainTimeout"),
		},
		Analytics: AnalyticsConfig{
			TrendThreshold:      conf.GetFloat64("trendThreshold"),
			LowAttendancePct:    conf.GetFloat64("lowAttendancePct"),
			OverdueAlertCount:   conf.GetInt("overdueAlertCount"),
			GradingDeadlineDays: conf.GetInt("gradingDeadlineDays"),
			AlertWindowDays:     conf.GetInt("alertWindowDays"),
			ReportWindowDays:    conf.GetInt("reportWindowDays"),
		},
	}
}

// NewTestConfig returns a Config suitable for unit tests: no external
// collaborators, short scheduler tick.
func NewTestConfig() *Config {
	return &Config{
		Env:              "TEST",
		Debug:            true,
		TestMode:         true,
		AppName:          "Edusight",
		Build:            "test",
		WorkDir:          Getwd(),
		DefaultFromEmail: mail.Address{Name: "Edusight", Address: "noreply@localhost"},
		Server:           ServerConfig{Host: "localhost", Addr: ":0", ShutdownTimeout: time.Second},
		Scheduler: SchedulerConfig{
			Tick:                 10 * time.Millisecond,
			GradingCheckInterval: 10 * time.Minute,
			DrainTimeout:         time.Second,
		},
		Analytics: AnalyticsConfig{
			TrendThreshold:      0.5,
			LowAttendancePct:    75,
			OverdueAlertCount:   3,
			GradingDeadlineDays: 3,
			AlertWindowDays:     14,
			ReportWindowDays:    30,
		},
	}
}
