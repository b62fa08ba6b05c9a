package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/solheim-lab/mpscara/pkg/core"
)

// FileName is the JSON configuration file looked up in the config directory.
const FileName = "mpscara.cfg.json"

// ErrEmptyTargets is returned when the target list names no files.
var ErrEmptyTargets = errors.New("no target files configured")

// ConfigurationError reports a configuration value that is present but unusable.
type ConfigurationError struct {
	Key    string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration %s: %s", e.Key, e.Reason)
}

// MissingInputError reports a required input file that could not be found.
type MissingInputError struct {
	Path string
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("file %q is missing, please read the included instructions and try again", e.Path)
}

// OutputConfig controls where and how translated files are written.
type OutputConfig struct {
	Dir            string `json:"dir" mapstructure:"dir"`
	Suffix         string `json:"suffix" mapstructure:"suffix"`
	Extension      string `json:"extension" mapstructure:"extension"`
	Compress       bool   `json:"compress" mapstructure:"compress"`
	HeaderTemplate string `json:"headerTemplate" mapstructure:"headerTemplate"`
}

// MemoryConfig holds in-memory/JSON storage backend settings
type MemoryConfig struct {
	OutputDir      string `json:"outputDir" mapstructure:"outputDir"`
	CompressOutput bool   `json:"compressOutput" mapstructure:"compressOutput"`
}

// SQLiteConfig holds SQLite storage backend settings
type SQLiteConfig struct {
	Path string `json:"path" mapstructure:"path"`
}

// DBConfig holds Postgres connection settings
type DBConfig struct {
	Host     string `json:"host" mapstructure:"host"`
	Port     string `json:"port" mapstructure:"port"`
	Username string `json:"username" mapstructure:"username"`
	Password string `json:"password" mapstructure:"password"`
	Database string `json:"database" mapstructure:"database"`
}

// StorageConfig selects and configures the run ledger backend
type StorageConfig struct {
	Type   string       `json:"type" mapstructure:"type"`
	Memory MemoryConfig `json:"memory" mapstructure:"memory"`
	SQLite SQLiteConfig `json:"sqlite" mapstructure:"sqlite"`
	DB     DBConfig     `json:"db" mapstructure:"db"`
}

// InfluxConfig holds InfluxDB metrics settings
type InfluxConfig struct {
	Enabled    bool   `json:"enabled" mapstructure:"enabled"`
	Host       string `json:"host" mapstructure:"host"`
	Port       string `json:"port" mapstructure:"port"`
	Protocol   string `json:"protocol" mapstructure:"protocol"`
	Token      string `json:"token" mapstructure:"token"`
	Org        string `json:"org" mapstructure:"org"`
	Bucket     string `json:"bucket" mapstructure:"bucket"`
	BackupPath string `json:"backupPath" mapstructure:"backupPath"`
}

// OTelConfig holds OpenTelemetry settings
type OTelConfig struct {
	Enabled     bool   `json:"enabled" mapstructure:"enabled"`
	ServiceName string `json:"serviceName" mapstructure:"serviceName"`
}

func setDefaults() {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logsDir", "./mpscaralogs")

	viper.SetDefault("machine.name", "MPSCARA")
	viper.SetDefault("machine.upperArm", 0.0)
	viper.SetDefault("machine.forearm", 0.0)
	viper.SetDefault("machine.innerRadius", 90.0)
	viper.SetDefault("machine.handed", "L")
	viper.SetDefault("machine.quality", 2.0)
	viper.SetDefault("machine.maxSpeed", 1400.0)

	viper.SetDefault("targets", []string{})

	viper.SetDefault("output.dir", "")
	viper.SetDefault("output.suffix", "_MPSCARA")
	viper.SetDefault("output.extension", ".g")
	viper.SetDefault("output.compress", false)
	viper.SetDefault("output.headerTemplate", "")

	viper.SetDefault("translation.modalFeedrate", false)

	viper.SetDefault("storage.type", "memory")
	viper.SetDefault("storage.memory.outputDir", "./runs")
	viper.SetDefault("storage.memory.compressOutput", false)
	viper.SetDefault("storage.sqlite.path", "./mpscara.db")

	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", "5432")
	viper.SetDefault("db.username", "postgres")
	viper.SetDefault("db.password", "postgres")
	viper.SetDefault("db.database", "mpscara")

	viper.SetDefault("influx.enabled", false)
	viper.SetDefault("influx.host", "localhost")
	viper.SetDefault("influx.port", "8086")
	viper.SetDefault("influx.protocol", "http")
	viper.SetDefault("influx.token", "")
	viper.SetDefault("influx.org", "mpscara")
	viper.SetDefault("influx.bucket", "translations")
	viper.SetDefault("influx.backupPath", "./mpscaralogs/influx_backup.log.gz")

	viper.SetDefault("graylog.enabled", false)
	viper.SetDefault("graylog.address", "localhost:12201")

	viper.SetDefault("otel.enabled", false)
	viper.SetDefault("otel.serviceName", "mpscara")
}

// Load reads configuration and sets default values.
// configDir is the directory containing either mpscara.cfg.json or the
// settings.txt/targets.txt pair.
func Load(configDir string) error {
	setDefaults()

	jsonPath := filepath.Join(configDir, FileName)
	if _, err := os.Stat(jsonPath); err == nil {
		viper.SetConfigFile(jsonPath)
		viper.SetConfigType("json")
		if err := viper.ReadInConfig(); err != nil {
			return fmt.Errorf("error reading config file: %v", err)
		}
		return nil
	}

	return loadLegacy(configDir)
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// GetInt returns an int config value.
func GetInt(key string) int {
	return viper.GetInt(key)
}

// GetBool returns a bool config value.
func GetBool(key string) bool {
	return viper.GetBool(key)
}

// GetMachine builds and validates the machine geometry.
func GetMachine() (core.Machine, error) {
	handed, err := core.ParseHandedness(viper.GetString("machine.handed"))
	if err != nil {
		return core.Machine{}, &ConfigurationError{Key: "machine.handed", Reason: err.Error()}
	}

	m := core.Machine{
		Name:            strings.TrimSpace(viper.GetString("machine.name")),
		UpperArm:        viper.GetFloat64("machine.upperArm"),
		Forearm:         viper.GetFloat64("machine.forearm"),
		Handed:          handed,
		YOffset:         viper.GetFloat64("machine.innerRadius"),
		ChordTolerance:  viper.GetFloat64("machine.quality"),
		MaxAngularSpeed: viper.GetFloat64("machine.maxSpeed"),
	}
	if err := m.Validate(); err != nil {
		var fe *core.FieldError
		if errors.As(err, &fe) {
			return core.Machine{}, &ConfigurationError{Key: "machine." + fe.Field, Reason: fe.Reason}
		}
		return core.Machine{}, err
	}
	return m, nil
}

// GetTargets returns the non-blank target names in list order.
func GetTargets() ([]string, error) {
	var targets []string
	for _, t := range viper.GetStringSlice("targets") {
		if t = strings.TrimSpace(t); t != "" {
			targets = append(targets, t)
		}
	}
	if len(targets) == 0 {
		return nil, ErrEmptyTargets
	}
	return targets, nil
}

// GetOutputConfig returns output settings.
func GetOutputConfig() OutputConfig {
	return OutputConfig{
		Dir:            viper.GetString("output.dir"),
		Suffix:         viper.GetString("output.suffix"),
		Extension:      viper.GetString("output.extension"),
		Compress:       viper.GetBool("output.compress"),
		HeaderTemplate: viper.GetString("output.headerTemplate"),
	}
}

// GetStorageConfig returns storage backend settings.
func GetStorageConfig() StorageConfig {
	return StorageConfig{
		Type: viper.GetString("storage.type"),
		Memory: MemoryConfig{
			OutputDir:      viper.GetString("storage.memory.outputDir"),
			CompressOutput: viper.GetBool("storage.memory.compressOutput"),
		},
		SQLite: SQLiteConfig{
			Path: viper.GetString("storage.sqlite.path"),
		},
		DB: DBConfig{
			Host:     viper.GetString("db.host"),
			Port:     viper.GetString("db.port"),
			Username: viper.GetString("db.username"),
			Password: viper.GetString("db.password"),
			Database: viper.GetString("db.database"),
		},
	}
}

// GetInfluxConfig returns InfluxDB settings.
func GetInfluxConfig() InfluxConfig {
	return InfluxConfig{
		Enabled:    viper.GetBool("influx.enabled"),
		Host:       viper.GetString("influx.host"),
		Port:       viper.GetString("influx.port"),
		Protocol:   viper.GetString("influx.protocol"),
		Token:      viper.GetString("influx.token"),
		Org:        viper.GetString("influx.org"),
		Bucket:     viper.GetString("influx.bucket"),
		BackupPath: viper.GetString("influx.backupPath"),
	}
}

// GetOTelConfig returns OpenTelemetry settings.
func GetOTelConfig() OTelConfig {
	return OTelConfig{
		Enabled:     viper.GetBool("otel.enabled"),
		ServiceName: viper.GetString("otel.serviceName"),
	}
}
