package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the service configuration
type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	Redis         RedisConfig
	Elasticsearch ElasticsearchConfig
	ServiceBus    ServiceBusConfig
	NewRelic      NewRelicConfig
	Serial        SerialConfig
}

// ServerConfig holds the HTTP server configuration
type ServerConfig struct {
	Port int
	Mode string // debug, release, test
}

// DatabaseConfig holds the database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	Debug    bool
}

// RedisConfig holds the Redis configuration
type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Password string
	DB       int
}

// ElasticsearchConfig holds the Elasticsearch configuration
type ElasticsearchConfig struct {
	Enabled  bool
	URLs     []string
	Username string
	Password string
	Index    string
}

// ServiceBusConfig holds the Azure Service Bus configuration
type ServiceBusConfig struct {
	ConnectionString string
	ERPQueueName     string
}

// NewRelicConfig holds the New Relic configuration
type NewRelicConfig struct {
	AppName    string
	LicenseKey string
	Enabled    bool
}

// SerialConfig holds serial-number generation settings
type SerialConfig struct {
	Prefix         string
	SequenceWidth  int
	SuggestionSize int
}

// InitConfig initializes the configuration using Viper
func InitConfig(cfgFile string) error {
	setDefaults()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
		viper.AddConfigPath("/etc/serial-service")
		viper.SetConfigName("config")
	}

	// SERIAL_SERVER_PORT overrides server.port, and so on
	viper.SetEnvPrefix("SERIAL")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return nil
}

// setDefaults sets default values for configuration
func setDefaults() {
	viper.SetDefault("server.port", 8093)
	viper.SetDefault("server.mode", "debug")

	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "serial")
	viper.SetDefault("database.password", "serial")
	viper.SetDefault("database.dbname", "serial_service_db")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("database.debug", false)

	viper.SetDefault("redis.enabled", false)
	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)

	viper.SetDefault("elasticsearch.enabled", false)
	viper.SetDefault("elasticsearch.urls", []string{"http://localhost:9200"})
	viper.SetDefault("elasticsearch.index", "serial-units")

	viper.SetDefault("servicebus.erp_queue_name", "serial-lifecycle-events")

	viper.SetDefault("newrelic.appname", "Serial Service Local")
	viper.SetDefault("newrelic.enabled", false)

	viper.SetDefault("serial.prefix", "SN")
	viper.SetDefault("serial.sequence_width", 6)
	viper.SetDefault("serial.suggestion_size", 5)
}

// Load loads the configuration
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: viper.GetInt("server.port"),
			Mode: viper.GetString("server.mode"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("database.host"),
			Port:     viper.GetInt("database.port"),
			User:     viper.GetString("database.user"),
			Password: viper.GetString("database.password"),
			DBName:   viper.GetString("database.dbname"),
			SSLMode:  viper.GetString("database.sslmode"),
			Debug:    viper.GetBool("database.debug"),
		},
		Redis: RedisConfig{
			Enabled:  viper.GetBool("redis.enabled"),
			Host:     viper.GetString("redis.host"),
			Port:     viper.GetInt("redis.port"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
		},
		Elasticsearch: ElasticsearchConfig{
			Enabled:  viper.GetBool("elasticsearch.enabled"),
			URLs:     viper.GetStringSlice("elasticsearch.urls"),
			Username: viper.GetString("elasticsearch.username"),
			Password: viper.GetString("elasticsearch.password"),
			Index:    viper.GetString("elasticsearch.index"),
		},
		ServiceBus: ServiceBusConfig{
			ConnectionString: viper.GetString("servicebus.connection_string"),
			ERPQueueName:     viper.GetString("servicebus.erp_queue_name"),
		},
		NewRelic: NewRelicConfig{
			AppName:    viper.GetString("newrelic.appname"),
			LicenseKey: viper.GetString("newrelic.licensekey"),
			Enabled:    viper.GetBool("newrelic.enabled"),
		},
		Serial: SerialConfig{
			Prefix:         viper.GetString("serial.prefix"),
			SequenceWidth:  viper.GetInt("serial.sequence_width"),
			SuggestionSize: viper.GetInt("serial.suggestion_size"),
		},
	}

	if cfg.Serial.SequenceWidth <= 0 {
		return nil, fmt.Errorf("serial.sequence_width must be positive, got %d", cfg.Serial.SequenceWidth)
	}

	return cfg, nil
}
