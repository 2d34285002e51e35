// Package config assembles an engine.Config from, lowest precedence first, built-in
// defaults, a YAML file, a dotenv file and the process environment.
package config

import (
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/vkngwrapper/gameengine/engine"
)

// Environment keys.
const (
	KeyApplicationName   = "APPLICATION_NAME"
	KeyEnabledLayers     = "ENABLED_LAYERS"
	KeyEnabledExtensions = "ENABLED_EXTENSIONS"
	KeySeverityMask      = "DIAGNOSTICS_SEVERITY_MASK"
	KeyCategoryMask      = "DIAGNOSTICS_CATEGORY_MASK"
	KeyClearColor        = "CLEAR_COLOR"
	KeyLogLevel          = "LOG_LEVEL"
	KeyEnablePortability = "ENABLE_PORTABILITY"
)

// Keys lists every environment key Load reads.
var Keys = []string{
	KeyApplicationName,
	KeyEnabledLayers,
	KeyEnabledExtensions,
	KeySeverityMask,
	KeyCategoryMask,
	KeyClearColor,
	KeyLogLevel,
	KeyEnablePortability,
}

// File is the YAML layout. Absent keys leave the lower precedence value alone.
type File struct {
	ApplicationName   *string   `yaml:"applicationName"`
	EnabledLayers     *[]string `yaml:"enabledLayers"`
	EnabledExtensions *[]string `yaml:"enabledExtensions"`
	DeviceExtensions  *[]string `yaml:"deviceExtensions"`
	Diagnostics       struct {
		Severities *[]string `yaml:"severities"`
		Categories *[]string `yaml:"categories"`
	} `yaml:"diagnostics"`
	ClearColor        *[]float32 `yaml:"clearColor"`
	LogLevel          *string    `yaml:"logLevel"`
	EnablePortability *bool      `yaml:"enablePortability"`
}

func invalid(format string, args ...interface{}) error {
	return errors.Mark(errors.Newf(format, args...), engine.ErrConfiguration)
}

func invalidWrap(err error, format string, args ...interface{}) error {
	return errors.Mark(errors.Wrapf(err, format, args...), engine.ErrConfiguration)
}

// Load returns the merged configuration. Either path may be empty to skip that
// source; a path that is given but cannot be read is an error.
func Load(yamlPath, envPath string) (engine.Config, error) {
	config := engine.DefaultConfig()

	if yamlPath != "" {
		file, err := ReadFile(yamlPath)
		if err != nil {
			return config, err
		}
		if err := file.apply(&config); err != nil {
			return config, errors.Wrapf(err, "apply %s", yamlPath)
		}
	}

	values, err := environment(envPath)
	if err != nil {
		return config, err
	}
	if err := applyEnvironment(&config, values); err != nil {
		return config, err
	}

	if _, err := logrus.ParseLevel(config.LogLevel); err != nil {
		return config, invalidWrap(err, "log level")
	}
	return config, nil
}

func ReadFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, invalidWrap(err, "open config file")
	}
	defer f.Close()

	return Decode(f)
}

// Decode parses a YAML document. Unknown keys are rejected; an empty document is
// valid and changes nothing.
func Decode(r io.Reader) (*File, error) {
	var file File
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil && err != io.EOF {
		return nil, invalidWrap(err, "parse config file")
	}
	return &file, nil
}

func (f *File) apply(config *engine.Config) error {
	if f.ApplicationName != nil {
		config.ApplicationName = *f.ApplicationName
	}
	if f.EnabledLayers != nil {
		config.EnabledLayers = *f.EnabledLayers
	}
	if f.EnabledExtensions != nil {
		config.EnabledExtensions = *f.EnabledExtensions
	}
	if f.DeviceExtensions != nil {
		config.DeviceExtensions = *f.DeviceExtensions
	}
	if f.Diagnostics.Severities != nil {
		mask, err := engine.ParseSeverityMask(*f.Diagnostics.Severities)
		if err != nil {
			return err
		}
		config.SeverityMask = mask
	}
	if f.Diagnostics.Categories != nil {
		mask, err := engine.ParseCategoryMask(*f.Diagnostics.Categories)
		if err != nil {
			return err
		}
		config.CategoryMask = mask
	}
	if f.ClearColor != nil {
		color, err := clearColor(*f.ClearColor)
		if err != nil {
			return err
		}
		config.ClearColor = color
	}
	if f.LogLevel != nil {
		config.LogLevel = *f.LogLevel
	}
	if f.EnablePortability != nil {
		config.EnablePortability = *f.EnablePortability
	}
	return nil
}

// environment returns the recognized keys from the dotenv file at envPath, overlaid
// with the process environment. A .env file that was not named is never read, and
// nothing is written back to the process environment.
func environment(envPath string) (map[string]string, error) {
	values := make(map[string]string)

	if envPath != "" {
		file, err := godotenv.Read(envPath)
		if err != nil {
			return nil, invalidWrap(err, "load %s", envPath)
		}
		for _, key := range Keys {
			if value, ok := file[key]; ok {
				values[key] = value
			}
		}
	}

	for _, key := range Keys {
		if value, ok := os.LookupEnv(key); ok {
			values[key] = value
		}
	}
	return values, nil
}

// splitList splits a comma separated value. An empty value is an empty list.
func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

func applyEnvironment(config *engine.Config, values map[string]string) error {
	lookup := func(key string) (string, bool) {
		value, ok := values[key]
		return value, ok
	}

	if value, ok := lookup(KeyApplicationName); ok && value != "" {
		config.ApplicationName = value
	}

	// An empty value is meaningful here: it disables every layer.
	if value, ok := lookup(KeyEnabledLayers); ok {
		config.EnabledLayers = splitList(value)
	}
	if value, ok := lookup(KeyEnabledExtensions); ok {
		config.EnabledExtensions = splitList(value)
	}

	if value, ok := lookup(KeySeverityMask); ok {
		mask, err := engine.ParseSeverityMask(splitList(value))
		if err != nil {
			return errors.Wrapf(err, "%s", KeySeverityMask)
		}
		config.SeverityMask = mask
	}
	if value, ok := lookup(KeyCategoryMask); ok {
		mask, err := engine.ParseCategoryMask(splitList(value))
		if err != nil {
			return errors.Wrapf(err, "%s", KeyCategoryMask)
		}
		config.CategoryMask = mask
	}

	if value, ok := lookup(KeyClearColor); ok && value != "" {
		var components []float32
		for _, item := range splitList(value) {
			component, err := strconv.ParseFloat(item, 32)
			if err != nil {
				return invalidWrap(err, "%s", KeyClearColor)
			}
			components = append(components, float32(component))
		}
		color, err := clearColor(components)
		if err != nil {
			return errors.Wrapf(err, "%s", KeyClearColor)
		}
		config.ClearColor = color
	}

	if value, ok := lookup(KeyLogLevel); ok && value != "" {
		config.LogLevel = value
	}

	if value, ok := lookup(KeyEnablePortability); ok && value != "" {
		enabled, err := strconv.ParseBool(value)
		if err != nil {
			return invalidWrap(err, "%s", KeyEnablePortability)
		}
		config.EnablePortability = enabled
	}

	return nil
}

// clearColor accepts RGB, with alpha defaulting to opaque, or RGBA.
func clearColor(components []float32) (mgl32.Vec4, error) {
	switch len(components) {
	case 3:
		return mgl32.Vec4{components[0], components[1], components[2], 1}, nil
	case 4:
		return mgl32.Vec4{components[0], components[1], components[2], components[3]}, nil
	}
	return mgl32.Vec4{}, invalid("clear color needs 3 or 4 components, got %d", len(components))
}
