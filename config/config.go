package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	configFileEnvName = "SHOP_CONFIG_FILE"
	envPrefix         = "SHOP"
)

const (
	DriverMongo  = "mongodb"
	DriverMemory = "memory"
)

type storage struct {
	Driver   string `mapstructure:"driver"`
	URI      string `mapstructure:"uri"`
	Database string `mapstructure:"database"`
}

type tlsFiles struct {
	CAFile   string `mapstructure:"ca_file"`
	CertFile string `mapstructure:"cert_file"`
	KeyFile  string `mapstructure:"key_file"`
}

// Enabled reports whether all three files are set.
func (t tlsFiles) Enabled() bool {
	return t.CAFile != "" && t.CertFile != "" && t.KeyFile != ""
}

type topics struct {
	Orders       string `mapstructure:"orders"`
	Products     string `mapstructure:"products"`
	ProductSales string `mapstructure:"product_sales"`
}

type groups struct {
	OrderSplitter string `mapstructure:"order_splitter"`
	ProductSales  string `mapstructure:"product_sales"`
}

type broker struct {
	Enabled            bool     `mapstructure:"enabled"`
	SeedBrokers        []string `mapstructure:"seed_brokers"`
	SchemaRegistryURLs []string `mapstructure:"schema_registry_urls"`
	TLS                tlsFiles `mapstructure:"tls"`
	Topics             topics   `mapstructure:"topics"`
	Groups             groups   `mapstructure:"groups"`
}

type Config struct {
	LogLevel        slog.Level    `mapstructure:"log_level"`
	HTTPServerAddr  string        `mapstructure:"http_server_addr"`
	HandlerTimeout  time.Duration `mapstructure:"handler_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	Storage         storage       `mapstructure:"storage"`
	Broker          broker        `mapstructure:"broker"`
}

var defaults = map[string]any{
	"log_level":                    "info",
	"http_server_addr":             ":8000",
	"handler_timeout":              "10s",
	"shutdown_timeout":             "5s",
	"storage.driver":               DriverMongo,
	"storage.uri":                  "mongodb://localhost:27017",
	"storage.database":             "shop",
	"broker.enabled":               false,
	"broker.seed_brokers":          []string{},
	"broker.schema_registry_urls":  []string{},
	"broker.tls.ca_file":           "",
	"broker.tls.cert_file":         "",
	"broker.tls.key_file":          "",
	"broker.topics.orders":         "orders",
	"broker.topics.products":       "products",
	"broker.topics.product_sales":  "product-sales",
	"broker.groups.order_splitter": "order-splitter",
	"broker.groups.product_sales":  "product-sales-agg",
}

func Load() Config {
	cfg, err := LoadFile(getConfigFilepath())
	if err != nil {
		die(err)
	}
	return cfg
}

// LoadFile reads the YAML file at path and applies SHOP_ prefixed
// environment overrides, e.g. SHOP_STORAGE_URI.
func LoadFile(path string) (Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return Config{}, err
	}

	var cfg Config
	err := v.UnmarshalExact(&cfg, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.TextUnmarshallerHookFunc(),
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return Config{}, err
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	var errs []error

	switch c.Storage.Driver {
	case DriverMongo:
		if c.Storage.URI == "" {
			errs = append(errs, errors.New("storage.uri: required"))
		}
		if c.Storage.Database == "" {
			errs = append(errs, errors.New("storage.database: required"))
		}
	case DriverMemory:
	default:
		errs = append(errs, fmt.Errorf(
			"storage.driver: unknown driver %q", c.Storage.Driver,
		))
	}

	if c.Broker.Enabled {
		if len(c.Broker.SeedBrokers) == 0 {
			errs = append(errs, errors.New("broker.seed_brokers: required"))
		}
		if len(c.Broker.SchemaRegistryURLs) == 0 {
			errs = append(errs, errors.New("broker.schema_registry_urls: required"))
		}
	}

	return errors.Join(errs...)
}

func getConfigFilepath() string {
	cmdLine := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	arg := cmdLine.String("config", "/config.yaml", "config file")
	_ = cmdLine.Parse(os.Args[1:])
	env, ok := os.LookupEnv(configFileEnvName)
	if ok {
		return env
	}
	return *arg
}

func die(err error) {
	fmt.Printf("failed to load config file: %v\n", err)
	os.Exit(2)
}

func (c Config) Print() {
	tamplate := `
	General:
	LogLevel=%q
	HTTPServerAddr=%q
	HandlerTimeout=%s
	ShutdownTimeout=%s

	StorageConfig:
	Driver=%q
	Database=%q

	BrokerConfig:
	Enabled=%t
	SeedBrokers=%q
	SchemaRegistryURLs=%q
	TLS=%t
	Topics:
		Orders=%q
		Products=%q
		ProductSales=%q
	Groups:
		OrderSplitter=%q
		ProductSales=%q

`
	fmt.Println("Loaded config:")
	fmt.Printf(
		strings.TrimLeft(tamplate, "\n"),
		c.LogLevel,
		c.HTTPServerAddr,
		c.HandlerTimeout,
		c.ShutdownTimeout,
		c.Storage.Driver,
		c.Storage.Database,
		c.Broker.Enabled,
		c.Broker.SeedBrokers,
		c.Broker.SchemaRegistryURLs,
		c.Broker.TLS.Enabled(),
		c.Broker.Topics.Orders,
		c.Broker.Topics.Products,
		c.Broker.Topics.ProductSales,
		c.Broker.Groups.OrderSplitter,
		c.Broker.Groups.ProductSales,
	)
}
