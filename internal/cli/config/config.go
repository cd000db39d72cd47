package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/stackvity/enum-converter/pkg/converter"
	"github.com/stackvity/enum-converter/pkg/converter/generator"
)

const (
	EnvPrefix         = "ENUMCONVERTER"
	DefaultConfigName = "enum-converter"
)

// Configuration keys.
const (
	KeySeparateFileForEachType    = "separateFileForEachType"
	KeyExperimentalEnumGeneration = "experimentalEnumGeneration"
	KeyDefaultSourceLanguage      = "defaultSourceLanguage"
	KeyDefaultTargetLanguage      = "defaultTargetLanguage"
	KeyConcurrency                = "concurrency"
	KeyIgnore                     = "ignore"
	KeyChangedOnly                = "changedOnly"
	KeyOutputFormat               = "outputFormat"
	KeyDefaultEncoding            = "defaultEncoding"
	KeyWatchDebounce              = "watch.debounce"
)

// ErrUnknownKey indicates a configuration key that Set does not recognise.
var ErrUnknownKey = errors.New("unknown configuration key")

// Kind is the value type of a configuration key.
type Kind string

const (
	KindBool     Kind = "bool"
	KindInt      Kind = "int"
	KindString   Kind = "string"
	KindList     Kind = "list"
	KindDuration Kind = "duration"
)

// Key describes one configuration key.
type Key struct {
	Name        string
	Kind        Kind
	Default     any
	Description string
}

// Keys lists every supported configuration key in display order.
var Keys = []Key{
	{KeySeparateFileForEachType, KindBool, converter.DefaultSeparateFileForEachType, "write one file per enum instead of one per source file"},
	{KeyExperimentalEnumGeneration, KindBool, converter.DefaultExperimentalEnumGeneration, "emit substitute constructs for shapes the target cannot express"},
	{KeyDefaultSourceLanguage, KindString, "", "source language used when --source-language is empty"},
	{KeyDefaultTargetLanguage, KindString, "", "target language used when --target-language is empty"},
	{KeyConcurrency, KindInt, converter.DefaultConcurrency, "number of files processed in parallel (0 = number of CPUs)"},
	{KeyIgnore, KindList, []string{}, "gitignore-style patterns excluded from the scan"},
	{KeyChangedOnly, KindBool, converter.DefaultChangedOnly, "only convert files Git reports as changed"},
	{KeyOutputFormat, KindString, string(converter.DefaultOutputFormat), "final report format (text, json)"},
	{KeyDefaultEncoding, KindString, "", "encoding assumed when detection is uncertain"},
	{KeyWatchDebounce, KindDuration, converter.DefaultWatchDebounceString, "delay before regenerating after a change in watch mode"},
}

// flagKeys maps command-line flag names onto configuration keys.
var flagKeys = map[string]string{
	"separate":         KeySeparateFileForEachType,
	"experimental":     KeyExperimentalEnumGeneration,
	"concurrency":      KeyConcurrency,
	"ignore":           KeyIgnore,
	"changed-only":     KeyChangedOnly,
	"output-format":    KeyOutputFormat,
	"default-encoding": KeyDefaultEncoding,
	"watch-debounce":   KeyWatchDebounce,
}

// LookupKey returns the description of a configuration key.
func LookupKey(name string) (Key, bool) {
	i := slices.IndexFunc(Keys, func(k Key) bool { return strings.EqualFold(k.Name, name) })
	if i < 0 {
		return Key{}, false
	}
	return Keys[i], true
}

// Settings wraps the merged viper configuration. It implements
// generator.FeatureToggle so the experimental switch is read every time a
// converter asks, and Reload picks up edits to the config file between runs.
type Settings struct {
	mu     sync.RWMutex
	v      *viper.Viper
	logger *slog.Logger
}

var _ generator.FeatureToggle = (*Settings)(nil)

// ExperimentalEnumGeneration implements generator.FeatureToggle.
func (s *Settings) ExperimentalEnumGeneration() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.v.GetBool(KeyExperimentalEnumGeneration)
}

// WatchDebounce returns the watch debounce, falling back to the default for
// unparsable values.
func (s *Settings) WatchDebounce() time.Duration {
	s.mu.RLock()
	raw := s.v.GetString(KeyWatchDebounce)
	s.mu.RUnlock()
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		return converter.DefaultWatchDebounceDuration
	}
	return d
}

// ConfigFileUsed returns the path of the loaded configuration file, if any.
func (s *Settings) ConfigFileUsed() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.v.ConfigFileUsed()
}

// AllSettings returns the effective value of every known key.
func (s *Settings) AllSettings() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]any, len(Keys))
	for _, k := range Keys {
		out[k.Name] = s.v.Get(k.Name)
	}
	return out
}

// Reload re-reads the configuration file. Without a file it is a no-op.
func (s *Settings) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.v.ConfigFileUsed() == "" {
		return nil
	}
	if err := s.v.ReadInConfig(); err != nil {
		return fmt.Errorf("error re-reading config file '%s': %w", s.v.ConfigFileUsed(), err)
	}
	s.logger.Debug("Configuration reloaded", slog.String("path", s.v.ConfigFileUsed()))
	return nil
}

// Load reads defaults, the config file, environment and the flags bound in
// flags into a Settings. flags may be nil.
func Load(cfgFile string, flags *pflag.FlagSet, logger *slog.Logger) (*Settings, error) {
	v := viper.New()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(DefaultConfigName)
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", DefaultConfigName))
		} else {
			logger.Debug("No home directory, searching the working directory only", slog.String("error", err.Error()))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) && cfgFile == "" {
			logger.Debug("No configuration file found, using defaults/env/flags.")
		} else {
			configFileUsed := cfgFile
			if configFileUsed == "" {
				configFileUsed = fmt.Sprintf("searched locations for %s.yaml/json/toml", DefaultConfigName)
			}
			logger.Error("Error reading configuration file", slog.String("path", configFileUsed), slog.String("error", err.Error()))
			return nil, fmt.Errorf("error reading config file '%s': %w", configFileUsed, err)
		}
	} else {
		logger.Debug("Using configuration file", slog.String("path", v.ConfigFileUsed()))
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for flagName, key := range flagKeys {
			flag := flags.Lookup(flagName)
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, fmt.Errorf("error binding flag '--%s': %w", flagName, err)
			}
		}
	}

	return &Settings{v: v, logger: logger}, nil
}

func setDefaults(v *viper.Viper) {
	for _, k := range Keys {
		v.SetDefault(k.Name, k.Default)
	}
}

// NewLogHandler returns the stderr text handler used by the CLI.
func NewLogHandler(verbose bool) slog.Handler {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
}

// LoadAndValidate loads configuration from all sources and turns it into
// converter.Options. The source and target directories and languages come
// from the "source", "target", "source-language" and "target-language"
// flags, with the languages falling back to the configured defaults.
// Validation of paths and languages is left to converter.NewEngine.
func LoadAndValidate(cfgFile string, verbose bool, flags *pflag.FlagSet) (converter.Options, *Settings, *slog.Logger, error) {
	var opts converter.Options
	handler := NewLogHandler(verbose)
	logger := slog.New(handler).With(slog.String("component", "config"))

	settings, err := Load(cfgFile, flags, logger)
	if err != nil {
		return opts, nil, logger, err
	}
	v := settings.v

	opts.SourcePath = flagString(flags, "source")
	opts.TargetPath = flagString(flags, "target")
	opts.SourceLanguage = flagString(flags, "source-language")
	if strings.TrimSpace(opts.SourceLanguage) == "" {
		opts.SourceLanguage = v.GetString(KeyDefaultSourceLanguage)
	}
	opts.TargetLanguage = flagString(flags, "target-language")
	if strings.TrimSpace(opts.TargetLanguage) == "" {
		opts.TargetLanguage = v.GetString(KeyDefaultTargetLanguage)
	}

	opts.Logger = handler

	if err := settings.Apply(&opts); err != nil {
		logger.Error(err.Error())
		return opts, settings, logger, err
	}

	logger.Debug("Configuration loading and validation complete",
		slog.String("configFile", opts.ConfigFilePath),
		slog.Bool("verbose", verbose),
		slog.String("sourceLanguage", opts.SourceLanguage),
		slog.String("targetLanguage", opts.TargetLanguage))
	return opts, settings, logger, nil
}

// Apply copies the run settings into opts and validates them. Paths,
// languages and injected dependencies are left alone, so watch mode can apply
// a reloaded file onto the options it started with. On error opts is
// unchanged.
func (s *Settings) Apply(opts *converter.Options) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v := s.v

	next := *opts
	next.SeparateFileForEachType = v.GetBool(KeySeparateFileForEachType)
	next.Concurrency = v.GetInt(KeyConcurrency)
	next.IgnorePatterns = v.GetStringSlice(KeyIgnore)
	next.ChangedOnly = v.GetBool(KeyChangedOnly)
	next.DefaultEncoding = v.GetString(KeyDefaultEncoding)
	next.OutputFormat = converter.OutputFormat(strings.ToLower(v.GetString(KeyOutputFormat)))
	next.ConfigFilePath = v.ConfigFileUsed()
	next.FeatureToggle = s

	if err := validate(next, v); err != nil {
		return err
	}
	*opts = next
	return nil
}

func validate(opts converter.Options, v *viper.Viper) error {
	if !opts.OutputFormat.IsValid() {
		return fmt.Errorf("%w: invalid value '%s' for key '%s' (flag --output-format). Allowed: %v",
			converter.ErrConfigValidation, opts.OutputFormat, KeyOutputFormat, []converter.OutputFormat{converter.OutputFormatText, converter.OutputFormatJSON})
	}
	if opts.Concurrency < 0 {
		return fmt.Errorf("%w: invalid value '%d' for key '%s' (flag --concurrency). Must be >= 0",
			converter.ErrConfigValidation, opts.Concurrency, KeyConcurrency)
	}
	raw := v.GetString(KeyWatchDebounce)
	if d, err := time.ParseDuration(raw); err != nil || d < 0 {
		return fmt.Errorf("%w: invalid value '%s' for key '%s'", converter.ErrConfigValidation, raw, KeyWatchDebounce)
	}
	return nil
}

func flagString(flags *pflag.FlagSet, name string) string {
	if flags == nil || flags.Lookup(name) == nil {
		return ""
	}
	value, _ := flags.GetString(name)
	return value
}

// Set persists one key into the configuration file and returns the path it
// wrote. Without cfgFile the file found by the usual search is updated, or
// enum-converter.yaml is created in the working directory.
func Set(cfgFile, key, value string) (string, error) {
	k, ok := LookupKey(key)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownKey, key)
	}
	parsed, err := parseValue(k, value)
	if err != nil {
		return "", fmt.Errorf("%w: invalid value %q for key '%s': %w", converter.ErrConfigValidation, value, k.Name, err)
	}

	v := viper.New()
	path := cfgFile
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(DefaultConfigName)
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("error reading config file: %w", err)
		}
	}
	if used := v.ConfigFileUsed(); used != "" {
		path = used
	}
	if path == "" {
		path = DefaultConfigName + ".yaml"
	}

	v.Set(k.Name, parsed)
	if err := v.WriteConfigAs(path); err != nil {
		return "", fmt.Errorf("error writing config file '%s': %w", path, err)
	}
	return path, nil
}

func parseValue(k Key, value string) (any, error) {
	switch k.Kind {
	case KindBool:
		return strconv.ParseBool(value)
	case KindInt:
		n, err := strconv.Atoi(value)
		if err == nil && n < 0 {
			return nil, errors.New("must be >= 0")
		}
		return n, err
	case KindDuration:
		if _, err := time.ParseDuration(value); err != nil {
			return nil, err
		}
		return value, nil
	case KindList:
		var items []string
		for _, item := range strings.Split(value, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		return items, nil
	default:
		if k.Name == KeyOutputFormat && !converter.OutputFormat(value).IsValid() {
			return nil, errors.New("allowed: text, json")
		}
		return value, nil
	}
}
