// Package configmanager loads the typed Dashboard configuration.
//
// Configuration priority: defaults < dashdock.yaml < DASHDOCK_* environment
// variables < command-line flags. The loaded config is constructed once and
// passed by reference to the subsystems that need it.
package configmanager

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"time"

	"github.com/dashdock/dashdock/pkg/apis/dashboard/v1alpha1"
	"github.com/dashdock/dashdock/pkg/ui/notify"
	"github.com/dashdock/dashdock/pkg/ui/timer"
	"github.com/dashdock/dashdock/pkg/utils/envvar"
	mapstructure "github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

const (
	// ConfigFileName is the base name of the dashdock configuration file.
	ConfigFileName = "dashdock"
	// ConfigFileType is the configuration file format.
	ConfigFileType = "yaml"
	// EnvPrefix is the prefix for environment variable overrides (e.g.
	// DASHDOCK_SPEC_SERVER_PORT).
	EnvPrefix = "DASHDOCK"
)

// ErrInvalidPort is returned when the configured port is outside the valid TCP range.
var ErrInvalidPort = errors.New("server port must be between 1 and 65535")

// maxTCPPort is the highest valid TCP port number.
const maxTCPPort = 65535

// ConfigManager loads dashdock configuration with viper layering.
type ConfigManager struct {
	Viper        *viper.Viper
	Config       *v1alpha1.Dashboard
	Writer       io.Writer
	configLoaded bool
}

// NewConfigManager creates a configuration manager writing notifications to writer.
func NewConfigManager(writer io.Writer) *ConfigManager {
	return &ConfigManager{
		Viper:  InitializeViper(),
		Config: v1alpha1.NewDashboard(),
		Writer: writer,
	}
}

// NewCommandConfigManager constructs a ConfigManager bound to the provided Cobra
// command: it registers the shared configuration flags and binds them into viper.
func NewCommandConfigManager(cmd *cobra.Command) *ConfigManager {
	manager := NewConfigManager(cmd.OutOrStdout())
	manager.AddFlags(cmd)

	return manager
}

// InitializeViper creates a viper instance configured for dashdock file and
// environment lookups.
func InitializeViper() *viper.Viper {
	viperInstance := viper.New()
	viperInstance.SetConfigName(ConfigFileName)
	viperInstance.SetConfigType(ConfigFileType)
	viperInstance.AddConfigPath(".")
	viperInstance.SetEnvPrefix(EnvPrefix)
	viperInstance.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viperInstance.AutomaticEnv()

	return viperInstance
}

// AddFlags registers the shared configuration flags on the command and binds
// them to their viper keys.
func (m *ConfigManager) AddFlags(cmd *cobra.Command) {
	flags := cmd.Flags()

	flags.String("name", "", "Dashboard name (container name defaults to this)")
	flags.String("image", "", "Image repository name")
	flags.String("tag", "", "Image tag")
	flags.String("context", "", "Build context directory")
	flags.String("manifest", "", "Dependency manifest path relative to the context")
	flags.String("entrypoint", "", "Dashboard script the server runs")
	flags.Int("port", 0, "TCP port the dashboard binds and publishes")
	flags.Bool("enable-cors", false, "Enable the dashboard server's CORS protection")
	flags.Duration("ready-timeout", 0, "Startup window for the readiness probe")

	bindings := map[string]string{
		"metadata.name":            "name",
		"spec.image.name":          "image",
		"spec.image.tag":           "tag",
		"spec.build.context":       "context",
		"spec.build.manifest":      "manifest",
		"spec.build.entrypoint":    "entrypoint",
		"spec.server.port":         "port",
		"spec.server.enableCORS":   "enable-cors",
		"spec.server.readyTimeout": "ready-timeout",
	}

	for key, flagName := range bindings {
		flag := flags.Lookup(flagName)
		if flag == nil {
			continue
		}

		err := m.Viper.BindPFlag(key, flag)
		if err != nil {
			notify.Warningf(m.Writer, "failed to bind flag '%s': %v", flagName, err)
		}
	}
}

// LoadConfig loads the configuration from file, environment, and flags.
// Returns the cached config on repeated calls.
func (m *ConfigManager) LoadConfig(tmr timer.Timer) (*v1alpha1.Dashboard, error) {
	if m.configLoaded {
		return m.Config, nil
	}

	err := m.readConfigFile()
	if err != nil {
		return nil, err
	}

	err = m.unmarshalConfig()
	if err != nil {
		return nil, err
	}

	m.applyDefaults()
	m.expandRuntimeEnv()

	err = m.validate()
	if err != nil {
		return nil, err
	}

	m.configLoaded = true

	if m.Viper.ConfigFileUsed() != "" {
		notify.WriteMessage(notify.Message{
			Type:    notify.SuccessType,
			Content: "config loaded from '%s'",
			Args:    []any{m.Viper.ConfigFileUsed()},
			Timer:   tmr,
			Writer:  m.Writer,
		})
	}

	return m.Config, nil
}

// readConfigFile reads dashdock.yaml when present. A missing file is not an
// error; flags, environment, and defaults still apply.
func (m *ConfigManager) readConfigFile() error {
	err := m.Viper.ReadInConfig()
	if err != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if errors.As(err, &notFoundErr) {
			return nil
		}

		return fmt.Errorf("failed to read config file: %w", err)
	}

	return nil
}

// unmarshalConfig decodes viper state into the typed Dashboard config.
func (m *ConfigManager) unmarshalConfig() error {
	err := m.Viper.Unmarshal(m.Config, func(config *mapstructure.DecoderConfig) {
		config.TagName = "json"
		config.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			stringToMetaDurationHookFunc(),
			mapstructure.StringToTimeDurationHookFunc(),
		)
	})
	if err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return nil
}

// applyDefaults restores identity fields and fills zero values the unmarshal
// may have cleared.
func (m *ConfigManager) applyDefaults() {
	m.Config.Kind = v1alpha1.Kind
	m.Config.APIVersion = v1alpha1.APIVersion

	defaults := v1alpha1.NewSpec()

	if m.Config.Name == "" {
		m.Config.Name = v1alpha1.DefaultName
	}

	if m.Config.Spec.Image.Name == "" {
		m.Config.Spec.Image.Name = defaults.Image.Name
	}

	if m.Config.Spec.Image.Tag == "" {
		m.Config.Spec.Image.Tag = defaults.Image.Tag
	}

	if m.Config.Spec.Image.Base == "" {
		m.Config.Spec.Image.Base = defaults.Image.Base
	}

	if m.Config.Spec.Build.Context == "" {
		m.Config.Spec.Build.Context = defaults.Build.Context
	}

	if m.Config.Spec.Build.Dockerfile == "" {
		m.Config.Spec.Build.Dockerfile = defaults.Build.Dockerfile
	}

	if m.Config.Spec.Build.Manifest == "" {
		m.Config.Spec.Build.Manifest = defaults.Build.Manifest
	}

	if m.Config.Spec.Build.AppDir == "" {
		m.Config.Spec.Build.AppDir = defaults.Build.AppDir
	}

	if m.Config.Spec.Build.Entrypoint == "" {
		m.Config.Spec.Build.Entrypoint = defaults.Build.Entrypoint
	}

	if m.Config.Spec.Server.Port == 0 {
		m.Config.Spec.Server.Port = defaults.Server.Port
	}

	if m.Config.Spec.Server.ReadyTimeout.Duration == 0 {
		m.Config.Spec.Server.ReadyTimeout = defaults.Server.ReadyTimeout
	}

	if m.Config.Spec.Runtime.RestartPolicy == "" {
		m.Config.Spec.Runtime.RestartPolicy = defaults.Runtime.RestartPolicy
	}

	if m.Config.Spec.Runtime.Env == nil {
		m.Config.Spec.Runtime.Env = map[string]string{}
	}
}

// expandRuntimeEnv expands ${VAR} placeholders in configured env values.
func (m *ConfigManager) expandRuntimeEnv() {
	for key, value := range m.Config.Spec.Runtime.Env {
		m.Config.Spec.Runtime.Env[key] = envvar.Expand(value)
	}
}

// validate checks invariants the rest of the launcher relies on.
func (m *ConfigManager) validate() error {
	port := m.Config.Spec.Server.Port
	if port < 1 || port > maxTCPPort {
		return fmt.Errorf("%w: got %d", ErrInvalidPort, port)
	}

	return nil
}

// stringToMetaDurationHookFunc decodes "10s" style strings into metav1.Duration.
func stringToMetaDurationHookFunc() mapstructure.DecodeHookFunc {
	return mapstructure.DecodeHookFuncType(
		func(from reflect.Type, to reflect.Type, data any) (any, error) {
			if to != reflect.TypeOf(metav1.Duration{}) {
				return data, nil
			}

			switch value := data.(type) {
			case string:
				parsed, err := time.ParseDuration(value)
				if err != nil {
					return nil, fmt.Errorf("failed to parse duration %q: %w", value, err)
				}

				return metav1.Duration{Duration: parsed}, nil
			case time.Duration:
				return metav1.Duration{Duration: value}, nil
			default:
				return data, nil
			}
		},
	)
}
