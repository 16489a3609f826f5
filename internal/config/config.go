package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"MarketLens/internal/model"
)

// Config holds all application configuration.
type Config struct {
	DataSource struct {
		Provider  string  `yaml:"provider" validate:"oneof=yahoo vstrader csv mock"`
		BaseURL   string  `yaml:"base_url" validate:"required_if=Provider vstrader,omitempty,url"`
		APIKey    string  `yaml:"api_key"`
		Symbol    string  `yaml:"symbol" validate:"required"`
		CSVPath   string  `yaml:"csv_path" validate:"required_if=Provider csv"`
		MockPrice float64 `yaml:"mock_price" validate:"gte=0"`
	} `yaml:"data_source"`
	Schedule struct {
		RefreshCron string `yaml:"refresh_cron" validate:"required,cronspec"`
		RunOnStart  bool   `yaml:"run_on_start"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Log struct {
		Level string `yaml:"level" validate:"oneof=debug info warn error"`
		Human bool   `yaml:"human"`
	} `yaml:"log"`
	Indicators struct {
		History     int    `yaml:"history" validate:"gte=2"`
		SMA         int    `yaml:"sma" validate:"gt=1,lte=500"`
		EMA         int    `yaml:"ema" validate:"gt=1,lte=500"`
		RSI         int    `yaml:"rsi" validate:"gt=1"`
		ATR         int    `yaml:"atr" validate:"gt=1"`
		StdDev      int    `yaml:"stddev" validate:"gt=2"`
		Stochastics int    `yaml:"stochastics" validate:"gt=1"`
		Momentum    int    `yaml:"momentum" validate:"gt=1"`
		RangeBars   int    `yaml:"range_bars" validate:"gte=0"`
		WeekAnchor  string `yaml:"week_anchor" validate:"weekday"`
	} `yaml:"indicators"`
	Styles struct {
		RulesFile string `yaml:"rules_file"`
	} `yaml:"styles"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if len(data) > 0 {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("LENS_PROVIDER"); v != "" {
		c.DataSource.Provider = v
	}
	if v := os.Getenv("LENS_SYMBOL"); v != "" {
		c.DataSource.Symbol = v
	}
	if v := os.Getenv("VSTRADER_BASE_URL"); v != "" {
		c.DataSource.BaseURL = v
	}
	if v := os.Getenv("VSTRADER_API_KEY"); v != "" {
		c.DataSource.APIKey = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		c.Proxy = v
	}
	if v := os.Getenv("CRON_REFRESH"); v != "" {
		c.Schedule.RefreshCron = v
	}
	if v := os.Getenv("RUN_ON_START"); v != "" {
		if on, err := strconv.ParseBool(v); err == nil {
			c.Schedule.RunOnStart = on
		}
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		c.Database.SQLitePath = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = strings.ToLower(v)
	}
	if v := os.Getenv("STYLE_RULES_FILE"); v != "" {
		c.Styles.RulesFile = v
	}
}

func (c *Config) applyDefaults() {
	def := model.DefaultWindows()

	if c.DataSource.Provider == "" {
		c.DataSource.Provider = "yahoo"
		if c.DataSource.BaseURL != "" {
			c.DataSource.Provider = "vstrader"
		}
	}
	if c.DataSource.Symbol == "" {
		c.DataSource.Symbol = "SPX500"
	}
	if c.DataSource.MockPrice == 0 {
		c.DataSource.MockPrice = 5000
	}
	if c.Schedule.RefreshCron == "" {
		c.Schedule.RefreshCron = "0 0 22 * * 1-5"
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "data/market_lens.db"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}

	ind := &c.Indicators
	setDefault(&ind.History, def.History)
	setDefault(&ind.SMA, def.SMA)
	setDefault(&ind.EMA, def.EMA)
	setDefault(&ind.RSI, def.RSI)
	setDefault(&ind.ATR, def.ATR)
	setDefault(&ind.StdDev, def.StdDev)
	setDefault(&ind.Stochastics, def.Stochastics)
	setDefault(&ind.Momentum, def.Momentum)
	setDefault(&ind.RangeBars, def.RangeBars)
	if ind.WeekAnchor == "" {
		ind.WeekAnchor = strings.ToLower(def.WeekAnchor.String())
	}
}

func setDefault(v *int, def int) {
	if *v == 0 {
		*v = def
	}
}

// Windows converts the indicator section into collector lookbacks.
func (c *Config) Windows() model.Windows {
	anchor, _ := ParseWeekday(c.Indicators.WeekAnchor)
	return model.Windows{
		History:     c.Indicators.History,
		SMA:         c.Indicators.SMA,
		EMA:         c.Indicators.EMA,
		RSI:         c.Indicators.RSI,
		ATR:         c.Indicators.ATR,
		StdDev:      c.Indicators.StdDev,
		Stochastics: c.Indicators.Stochastics,
		Momentum:    c.Indicators.Momentum,
		RangeBars:   c.Indicators.RangeBars,
		WeekAnchor:  anchor,
	}
}

// StyleRules returns the contents of the configured rules file, or "" when
// none is set.
func (c *Config) StyleRules() (string, error) {
	if c.Styles.RulesFile == "" {
		return "", nil
	}
	data, err := os.ReadFile(c.Styles.RulesFile)
	if err != nil {
		return "", fmt.Errorf("read style rules: %w", err)
	}
	return string(data), nil
}

// ParseWeekday accepts full or three-letter English day names in any case.
func ParseWeekday(name string) (time.Weekday, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for d := time.Sunday; d <= time.Saturday; d++ {
		full := strings.ToLower(d.String())
		if name == full || name == full[:3] {
			return d, true
		}
	}
	return time.Friday, false
}
