package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v2"
)

type SysConfig struct {
	Appid    string `yaml:"appid" json:"appid"`
	Location string `yaml:"location" json:"location"`
	Workdir  string `yaml:"workdir" json:"workdir"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type WebConfig struct {
	Host   string `yaml:"host" json:"host"`
	Port   int    `yaml:"port" json:"port"`
	Secret string `yaml:"secret" json:"secret"`
}

// DatabaseConfig describes the optional relational registry backend.
// When Host is empty the account registry falls back to the in-memory
// fixture-seeded implementation.
type DatabaseConfig struct {
	Type     string `yaml:"type" json:"type"`
	Host     string `yaml:"host" json:"host"`
	Port     int    `yaml:"port" json:"port"`
	Name     string `yaml:"name" json:"name"`
	User     string `yaml:"user" json:"user"`
	Passwd   string `yaml:"passwd" json:"passwd"`
	MaxConn  int    `yaml:"max_conn" json:"max_conn"`
	IdleConn int    `yaml:"idle_conn" json:"idle_conn"`
}

type LoggerConfig struct {
	Mode       string `yaml:"mode" json:"mode"`
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

// ShopConfig carries storefront tuning values.
type ShopConfig struct {
	FixtureDir    string `yaml:"fixture_dir" json:"fixture_dir"`
	StoreFile     string `yaml:"store_file" json:"store_file"`
	TrackInterval int    `yaml:"track_interval" json:"track_interval"` // seconds between simulated carrier steps
	DeliveryDays  int    `yaml:"delivery_days" json:"delivery_days"`
	// NotifyRetentionDays enables the daily notification retention job when
	// set above zero. Zero keeps every principal's log forever.
	NotifyRetentionDays int `yaml:"notify_retention_days" json:"notify_retention_days"`
}

type AppConfig struct {
	System   SysConfig      `yaml:"system" json:"system"`
	Web      WebConfig      `yaml:"web" json:"web"`
	Database DatabaseConfig `yaml:"database" json:"database"`
	Logger   LoggerConfig   `yaml:"logger" json:"logger"`
	Shop     ShopConfig     `yaml:"shop" json:"shop"`
}

func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		System: SysConfig{
			Appid:    "Shopizen",
			Location: "Asia/Kolkata",
			Workdir:  "/var/shopizen",
			Debug:    true,
		},
		Web: WebConfig{
			Host:   "0.0.0.0",
			Port:   1816,
			Secret: "9b6de5cc-0731-4bf1-xpsh-0f568ac9da37",
		},
		Database: DatabaseConfig{
			Type:     "postgres",
			Host:     "",
			Port:     5432,
			Name:     "shopizen",
			User:     "postgres",
			MaxConn:  100,
			IdleConn: 10,
		},
		Logger: LoggerConfig{
			Mode:       "development",
			FileEnable: false,
			Filename:   "/var/shopizen/shopizen.log",
		},
		Shop: ShopConfig{
			FixtureDir:    "fixtures",
			StoreFile:     "shopizen.db",
			TrackInterval: 4,
			DeliveryDays:  7,
		},
	}
}

// LoadConfig reads the YAML config file and applies environment overrides.
// A missing file yields the defaults.
func LoadConfig(cfile string) *AppConfig {
	cfg := DefaultAppConfig()
	if cfile != "" {
		if data, err := os.ReadFile(cfile); err == nil {
			_ = yaml.Unmarshal(data, cfg)
		}
	}
	setEnvString("SHOPIZEN_SYSTEM_WORKDIR", &cfg.System.Workdir)
	setEnvBool("SHOPIZEN_SYSTEM_DEBUG", &cfg.System.Debug)
	setEnvString("SHOPIZEN_WEB_HOST", &cfg.Web.Host)
	setEnvInt("SHOPIZEN_WEB_PORT", &cfg.Web.Port)
	setEnvString("SHOPIZEN_WEB_SECRET", &cfg.Web.Secret)
	setEnvString("SHOPIZEN_DB_HOST", &cfg.Database.Host)
	setEnvInt("SHOPIZEN_DB_PORT", &cfg.Database.Port)
	setEnvString("SHOPIZEN_DB_NAME", &cfg.Database.Name)
	setEnvString("SHOPIZEN_DB_USER", &cfg.Database.User)
	setEnvString("SHOPIZEN_DB_PWD", &cfg.Database.Passwd)
	setEnvString("SHOPIZEN_SHOP_FIXTURE_DIR", &cfg.Shop.FixtureDir)
	return cfg
}

// StorePath resolves the embedded store file under the workdir unless an
// absolute path was configured.
func (c *AppConfig) StorePath() string {
	if filepath.IsAbs(c.Shop.StoreFile) {
		return c.Shop.StoreFile
	}
	return filepath.Join(c.System.Workdir, c.Shop.StoreFile)
}

func setEnvString(name string, val *string) {
	if v := os.Getenv(name); v != "" {
		*val = v
	}
}

func setEnvInt(name string, val *int) {
	if v := os.Getenv(name); v != "" {
		*val = cast.ToInt(v)
	}
}

func setEnvBool(name string, val *bool) {
	if v := os.Getenv(name); v != "" {
		*val = cast.ToBool(v)
	}
}
