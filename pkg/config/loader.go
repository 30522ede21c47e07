package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/annexfs/pkg/errors"
	"github.com/arthur-debert/annexfs/pkg/logging"
	"github.com/arthur-debert/annexfs/pkg/paths"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// EnvPrefix prefixes every configuration environment variable.
	EnvPrefix = "ANNEXFS_"
	// EnvConfigFile names the config file, bypassing the XDG search.
	EnvConfigFile = EnvPrefix + "CONFIG"
)

// searchNames are tried in order under every XDG config directory.
var searchNames = []string{
	"annexfs/config.yaml",
	"annexfs/config.yml",
	"annexfs/config.toml",
}

// LoadOptions selects the config file and carries flag overrides.
type LoadOptions struct {
	// ConfigFile is an explicit config file path. It must exist.
	ConfigFile string
	// Overrides are applied after every other layer, keyed like the config
	// file. Empty string values are ignored.
	Overrides map[string]interface{}
}

// Load merges all configuration layers into a Config. The result is not
// validated.
func Load(opts LoadOptions) (*Config, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, yaml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load built-in defaults")
	}

	// 2. Config file
	path, err := findConfigFile(opts.ConfigFile)
	if err != nil {
		return nil, err
	}
	if path != "" {
		parser, err := parserFor(path)
		if err != nil {
			return nil, err
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad, "failed to load config file %s", path)
		}
		logger.Debug().Str("path", path).Msg("Loaded config file")
	}

	// 3. Env vars
	err = k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		if s == EnvConfigFile {
			return ""
		}
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load env vars")
	}

	// 4. Flag overrides
	overrides := make(map[string]interface{})
	for key, val := range opts.Overrides {
		if s, ok := val.(string); ok && s == "" {
			continue
		}
		overrides[key] = val
	}
	if err := k.Load(confmap.Provider(overrides, "."), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to apply overrides")
	}

	// 5. Unmarshal
	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				trimSpaceHookFunc(),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to unmarshal configuration")
	}
	cfg.Source = path

	logger.Debug().
		Str("root", cfg.Root).
		Str("id_policy", cfg.IDPolicy).
		Int("reserve_attempts", cfg.ReserveAttempts).
		Msg("Configuration loaded")
	return &cfg, nil
}

// findConfigFile returns the config file to load, or "" when none exists.
// An explicitly named file that is missing is an error.
func findConfigFile(explicit string) (string, error) {
	if explicit == "" {
		explicit = os.Getenv(EnvConfigFile)
	}
	if explicit != "" {
		path := paths.ExpandHome(explicit)
		if _, err := os.Stat(path); err != nil {
			return "", errors.Wrapf(err, errors.ErrConfigLoad, "config file %s not found", explicit)
		}
		return path, nil
	}

	for _, name := range searchNames {
		if path, err := xdg.SearchConfigFile(name); err == nil {
			return path, nil
		}
	}
	return "", nil
}

// parserFor picks the koanf parser by file extension.
func parserFor(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	case ".toml":
		return toml.Parser(), nil
	default:
		return nil, errors.Newf(errors.ErrConfigLoad, "unsupported config file format %q (want .yaml, .yml or .toml)", filepath.Ext(path))
	}
}

func trimSpaceHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
		if f.Kind() == reflect.String && t.Kind() == reflect.String {
			return strings.TrimSpace(reflect.ValueOf(data).String()), nil
		}
		return data, nil
	}
}
