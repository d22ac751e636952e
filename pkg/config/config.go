package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "/etc/testlinkctl"
	ConfigFileName    = "testlinkctl.yml"

	// XMLRPCPath is the path of TestLink's XML-RPC endpoint relative to the
	// web root. The login page probe is derived from it.
	XMLRPCPath = "/lib/api/xmlrpc/v1/xmlrpc.php"
	LoginPath  = "/login.php"
)

// Config holds all testlinkctl settings.
type Config struct {
	// TestLinkURL is the full URL of the TestLink XML-RPC endpoint
	TestLinkURL string `yaml:"testlink_url" json:"testlink_url"`

	// APIKey is the pre-shared 32-character devKey seeded into the admin
	// account and sent on every outbound API call
	APIKey string `yaml:"api_key" json:"api_key"`

	// BindAddress and Port are the facade's listen address
	BindAddress string `yaml:"bind_address" json:"bind_address"`
	Port        string `yaml:"port" json:"port"`

	// Database connection settings for the TestLink database
	DBHost     string `yaml:"db_host" json:"db_host"`
	DBPort     string `yaml:"db_port" json:"db_port"`
	DBUser     string `yaml:"db_user" json:"db_user"`
	DBPassword string `yaml:"db_password" json:"db_password"`
	DBName     string `yaml:"db_name" json:"db_name"`

	// TablePrefix is prepended to every TestLink table name
	TablePrefix string `yaml:"table_prefix" json:"table_prefix"`

	// AppContainer and DBContainer are the container names of the TestLink
	// web tier and its database on the shared network
	AppContainer string `yaml:"app_container" json:"app_container"`
	DBContainer  string `yaml:"db_container" json:"db_container"`

	// SchemaFile and DataFile are paths inside the app container holding the
	// installer SQL used for first-time seeding
	SchemaFile string `yaml:"schema_file" json:"schema_file"`
	DataFile   string `yaml:"data_file" json:"data_file"`

	// ProbeIntervalSeconds is the fixed delay between readiness attempts;
	// ProbeRetries bounds the wait
	ProbeIntervalSeconds int `yaml:"probe_interval_seconds" json:"probe_interval_seconds"`
	ProbeRetries         int `yaml:"probe_retries" json:"probe_retries"`

	// DemoMode serves canned data without contacting TestLink
	DemoMode bool `yaml:"demo_mode" json:"demo_mode"`

	// ComposeFile is used by the stack lifecycle commands
	ComposeFile string `yaml:"compose_file" json:"compose_file"`

	// sources tracks where each value came from
	sources map[string]string

	// configFilePath is the path to the config file
	configFilePath string
}

// Attribute represents a configuration attribute with its value and source
type Attribute struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

// Global singleton config
var (
	globalConfig *Config
	configMu     sync.RWMutex
)

// Get returns the global configuration, loading it if necessary
func Get() *Config {
	configMu.RLock()
	if globalConfig != nil {
		configMu.RUnlock()
		return globalConfig
	}
	configMu.RUnlock()

	configMu.Lock()
	defer configMu.Unlock()

	if globalConfig == nil {
		cfg, err := Load()
		if err != nil {
			globalConfig = newDefault()
		} else {
			globalConfig = cfg
		}
	}
	return globalConfig
}

// Reload reloads the configuration from file and environment
func Reload() error {
	cfg, err := Load()
	if err != nil {
		return err
	}

	configMu.Lock()
	globalConfig = cfg
	configMu.Unlock()
	return nil
}

// newDefault returns a config with default values. The defaults target the
// local compose stack and are meant to be overridden everywhere else.
func newDefault() *Config {
	return &Config{
		TestLinkURL:          "http://localhost" + XMLRPCPath,
		APIKey:               "",
		BindAddress:          "0.0.0.0",
		Port:                 "8012",
		DBHost:               "localhost",
		DBPort:               "3306",
		DBUser:               "testlink",
		DBPassword:           "testlink",
		DBName:               "testlink",
		TablePrefix:          "",
		AppContainer:         "testlink",
		DBContainer:          "testlink-db",
		SchemaFile:           "/var/www/html/install/sql/mysql/testlink_create_tables.sql",
		DataFile:             "/var/www/html/install/sql/mysql/testlink_create_default_data.sql",
		ProbeIntervalSeconds: 2,
		ProbeRetries:         90,
		DemoMode:             false,
		ComposeFile:          "docker-compose.yml",
		sources:              make(map[string]string),
	}
}

// Load loads configuration from file and environment variables.
// Environment variables take precedence over file values.
func Load() (*Config, error) {
	config := newDefault()

	for _, name := range attributeNames() {
		config.sources[name] = "default"
	}

	configPath := os.Getenv("TESTLINKCTL_CONFIG_PATH")
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	config.configFilePath = filepath.Join(configPath, ConfigFileName)

	if data, err := os.ReadFile(config.configFilePath); err == nil {
		var fileConfig Config
		if err := yaml.Unmarshal(data, &fileConfig); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", config.configFilePath, err)
		}
		config.applyFileConfig(&fileConfig)
	}

	config.applyEnvConfig()

	return config, nil
}

func attributeNames() []string {
	return []string{
		"testlink_url", "api_key", "bind_address", "port",
		"db_host", "db_port", "db_user", "db_password", "db_name",
		"table_prefix", "app_container", "db_container",
		"schema_file", "data_file",
		"probe_interval_seconds", "probe_retries",
		"demo_mode", "compose_file",
	}
}

func (c *Config) applyFileConfig(file *Config) {
	set := func(name string, dst *string, val string) {
		if val != "" {
			*dst = val
			c.sources[name] = "file"
		}
	}
	set("testlink_url", &c.TestLinkURL, file.TestLinkURL)
	set("api_key", &c.APIKey, file.APIKey)
	set("bind_address", &c.BindAddress, file.BindAddress)
	set("port", &c.Port, file.Port)
	set("db_host", &c.DBHost, file.DBHost)
	set("db_port", &c.DBPort, file.DBPort)
	set("db_user", &c.DBUser, file.DBUser)
	set("db_password", &c.DBPassword, file.DBPassword)
	set("db_name", &c.DBName, file.DBName)
	set("table_prefix", &c.TablePrefix, file.TablePrefix)
	set("app_container", &c.AppContainer, file.AppContainer)
	set("db_container", &c.DBContainer, file.DBContainer)
	set("schema_file", &c.SchemaFile, file.SchemaFile)
	set("data_file", &c.DataFile, file.DataFile)
	set("compose_file", &c.ComposeFile, file.ComposeFile)
	if file.ProbeIntervalSeconds != 0 {
		c.ProbeIntervalSeconds = file.ProbeIntervalSeconds
		c.sources["probe_interval_seconds"] = "file"
	}
	if file.ProbeRetries != 0 {
		c.ProbeRetries = file.ProbeRetries
		c.sources["probe_retries"] = "file"
	}
	if file.DemoMode {
		c.DemoMode = true
		c.sources["demo_mode"] = "file"
	}
}

func (c *Config) applyEnvConfig() {
	set := func(name, env string, dst *string) {
		if val := os.Getenv(env); val != "" {
			*dst = val
			c.sources[name] = "environment"
		}
	}
	set("testlink_url", "TESTLINK_URL", &c.TestLinkURL)
	set("api_key", "TESTLINK_API_KEY", &c.APIKey)
	set("bind_address", "API_HOST", &c.BindAddress)
	set("port", "API_PORT", &c.Port)
	set("db_host", "DB_HOST", &c.DBHost)
	set("db_port", "DB_PORT", &c.DBPort)
	set("db_user", "DB_USER", &c.DBUser)
	set("db_password", "DB_PASSWORD", &c.DBPassword)
	set("db_name", "DB_NAME", &c.DBName)
	set("table_prefix", "DB_TABLE_PREFIX", &c.TablePrefix)
	set("app_container", "TESTLINK_CONTAINER", &c.AppContainer)
	set("db_container", "DB_CONTAINER", &c.DBContainer)
	set("schema_file", "TESTLINK_SCHEMA_FILE", &c.SchemaFile)
	set("data_file", "TESTLINK_DATA_FILE", &c.DataFile)
	set("compose_file", "COMPOSE_FILE", &c.ComposeFile)
	if val := os.Getenv("PROBE_INTERVAL_SECONDS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.ProbeIntervalSeconds = i
			c.sources["probe_interval_seconds"] = "environment"
		}
	}
	if val := os.Getenv("PROBE_RETRIES"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.ProbeRetries = i
			c.sources["probe_retries"] = "environment"
		}
	}
	if val := os.Getenv("DEMO_MODE"); val != "" {
		c.DemoMode = val == "true" || val == "1"
		c.sources["demo_mode"] = "environment"
	}
}

// ConfigFilePath returns the path to the config file
func (c *Config) ConfigFilePath() string {
	return c.configFilePath
}

// Source returns the source of a configuration attribute
func (c *Config) Source(name string) string {
	if c.sources == nil {
		return "default"
	}
	if s, ok := c.sources[name]; ok {
		return s
	}
	return "default"
}

// LoginURL derives the TestLink login page URL from the XML-RPC endpoint.
// Used by the readiness prober and the connectivity fallback check.
func (c *Config) LoginURL() string {
	if strings.Contains(c.TestLinkURL, XMLRPCPath) {
		return strings.Replace(c.TestLinkURL, XMLRPCPath, LoginPath, 1)
	}
	return strings.TrimSuffix(c.TestLinkURL, "/") + LoginPath
}

// DSN returns the MySQL connection string for the TestLink database.
func (c *Config) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

// Table returns a table name with the configured prefix applied.
func (c *Config) Table(name string) string {
	return c.TablePrefix + name
}

// ProbeInterval returns the probe interval as a duration
func (c *Config) ProbeInterval() time.Duration {
	return time.Duration(c.ProbeIntervalSeconds) * time.Second
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.TestLinkURL == "" {
		return fmt.Errorf("testlink_url is required")
	}
	if !c.DemoMode && c.APIKey == "" {
		return fmt.Errorf("api_key is required (set TESTLINK_API_KEY)")
	}
	if c.APIKey != "" && len(c.APIKey) != 32 {
		return fmt.Errorf("api_key must be exactly 32 characters, got %d", len(c.APIKey))
	}
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("invalid port: %s", c.Port)
	}
	if c.ProbeIntervalSeconds <= 0 {
		return fmt.Errorf("probe_interval_seconds must be positive")
	}
	// Unbounded waits hang forever when the stack never comes up, so a
	// zero retry budget is rejected instead of meaning "retry forever".
	if c.ProbeRetries <= 0 {
		return fmt.Errorf("probe_retries must be positive")
	}
	return nil
}

// Attributes returns all configuration attributes with their values and sources
func (c *Config) Attributes() []Attribute {
	return []Attribute{
		{Name: "testlink_url", Value: c.TestLinkURL, Source: c.Source("testlink_url")},
		{Name: "api_key", Value: maskSecret(c.APIKey), Source: c.Source("api_key")},
		{Name: "bind_address", Value: c.BindAddress, Source: c.Source("bind_address")},
		{Name: "port", Value: c.Port, Source: c.Source("port")},
		{Name: "db_host", Value: c.DBHost, Source: c.Source("db_host")},
		{Name: "db_port", Value: c.DBPort, Source: c.Source("db_port")},
		{Name: "db_user", Value: c.DBUser, Source: c.Source("db_user")},
		{Name: "db_password", Value: maskSecret(c.DBPassword), Source: c.Source("db_password")},
		{Name: "db_name", Value: c.DBName, Source: c.Source("db_name")},
		{Name: "table_prefix", Value: c.TablePrefix, Source: c.Source("table_prefix")},
		{Name: "app_container", Value: c.AppContainer, Source: c.Source("app_container")},
		{Name: "db_container", Value: c.DBContainer, Source: c.Source("db_container")},
		{Name: "schema_file", Value: c.SchemaFile, Source: c.Source("schema_file")},
		{Name: "data_file", Value: c.DataFile, Source: c.Source("data_file")},
		{Name: "probe_interval_seconds", Value: strconv.Itoa(c.ProbeIntervalSeconds), Source: c.Source("probe_interval_seconds")},
		{Name: "probe_retries", Value: strconv.Itoa(c.ProbeRetries), Source: c.Source("probe_retries")},
		{Name: "demo_mode", Value: strconv.FormatBool(c.DemoMode), Source: c.Source("demo_mode")},
		{Name: "compose_file", Value: c.ComposeFile, Source: c.Source("compose_file")},
	}
}

// FormatText returns a text representation of the configuration
func (c *Config) FormatText() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Config file: %s\n\n", c.configFilePath))
	sb.WriteString(fmt.Sprintf("%-28s %-50s %s\n", "NAME", "VALUE", "SOURCE"))
	sb.WriteString(fmt.Sprintf("%-28s %-50s %s\n", "----", "-----", "------"))

	for _, attr := range c.Attributes() {
		value := attr.Value
		if value == "" {
			value = "(not set)"
		}
		sb.WriteString(fmt.Sprintf("%-28s %-50s %s\n", attr.Name, value, attr.Source))
	}
	return sb.String()
}

// FormatJSON returns a JSON representation of the configuration
func (c *Config) FormatJSON() (string, error) {
	result := map[string]interface{}{
		"config_file": c.configFilePath,
		"attributes":  c.Attributes(),
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func maskSecret(s string) string {
	if len(s) <= 4 {
		if s == "" {
			return ""
		}
		return "****"
	}
	return s[:4] + strings.Repeat("*", len(s)-4)
}
