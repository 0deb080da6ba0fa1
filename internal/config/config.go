package config

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Env        string           `yaml:"env" env-default:"development"` // environment
	HTTPServer HTTPServerConfig `yaml:"http_server"`
	Database   DatabaseConfig   `yaml:"database"`
	JWT        JWTConfig        `yaml:"jwt"`
	Migrations MigrationsConfig `yaml:"migrations"`
	Orders     OrdersConfig     `yaml:"orders"`
}

// HTTPServerConfig структура http сервера
type HTTPServerConfig struct {
	Address     string        `yaml:"address" env-default:"localhost:8080"`
	Timeout     time.Duration `yaml:"timeout" env-default:"4s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// DatabaseConfig структура по работе с БД
type DatabaseConfig struct {
	Host     string `yaml:"host" env-default:"localhost"`
	Port     int    `yaml:"port" env-default:"5432"`
	User     string `yaml:"user" env-required:"true"`
	Password string `yaml:"-" env:"DB_PASSWORD" env-required:"true"`
	Name     string `yaml:"name" env-required:"true"`
}

// DSN собирает строку подключения для обычных SQL запросов
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		d.User, d.Password, d.Host, d.Port, d.Name)
}

// JWTConfig настройка jwt
type JWTConfig struct {
	Secret   string `yaml:"-" env:"JWT_SECRET" env-required:"true"`
	TokenTTL int    `yaml:"token_ttl" env-default:"60"`
}

type MigrationsConfig struct {
	Path string `yaml:"path" env-default:"./migrations"`
}

// OrdersConfig настройки оформления заказов.
// Суммы задаются строками и разбираются в decimal, чтобы не терять копейки.
type OrdersConfig struct {
	ShippingCost string `yaml:"shipping_cost" env-default:"0"`
	TaxRate      string `yaml:"tax_rate" env-default:"0"`
	// PermissiveTransitions разрешает любые переходы статусов, в том числе назад
	PermissiveTransitions bool `yaml:"permissive_transitions" env-default:"false"`
	ReserveStock          bool `yaml:"reserve_stock" env-default:"false"`
	PageSize              int  `yaml:"page_size" env-default:"10"`
}

// Pricing возвращает стоимость доставки и ставку налога
func (o OrdersConfig) Pricing() (shipping decimal.Decimal, taxRate decimal.Decimal, err error) {
	shipping, err = decimal.NewFromString(o.ShippingCost)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("invalid orders.shipping_cost %q: %w", o.ShippingCost, err)
	}
	taxRate, err = decimal.NewFromString(o.TaxRate)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("invalid orders.tax_rate %q: %w", o.TaxRate, err)
	}
	if shipping.IsNegative() || taxRate.IsNegative() {
		return decimal.Zero, decimal.Zero, fmt.Errorf("orders pricing must not be negative")
	}
	return shipping, taxRate, nil
}

// MustLoad - если не загружаем - паникуем
func MustLoad() *Config {
	configPath := fetchConfigPath()
	if configPath == "" {
		log.Fatal("CONFIG_PATH not exists")
	}
	return MustLoadByPath(configPath)
}

func fetchConfigPath() string {
	var path string

	flag.StringVar(&path, "config", "", "path to config file")
	flag.Parse()

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	return path
}

func MustLoadByPath(configPath string) *Config {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file not found: " + configPath)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("can't read config file %s: %v", configPath, err)
	}

	if _, _, err := cfg.Orders.Pricing(); err != nil {
		panic(err)
	}
	if cfg.Orders.PageSize <= 0 {
		cfg.Orders.PageSize = 10
	}

	return &cfg
}
