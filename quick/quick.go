package quick

import (
	"fmt"
	"os"
	"strings"

	"github.com/LixenWraith/logwriter"
	"github.com/rs/zerolog"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of the environment variables read on lazy initialization,
// e.g. LOGWRITER_DIRECTORY or LOGWRITER_MAX_FILE_SIZE.
const EnvPrefix = "LOGWRITER"

// configKeys are the recognized keys, matching the mapstructure tags of logwriter.Config.
var configKeys = []string{
	"directory",
	"file_name",
	"max_file_size",
	"max_files",
	"serialize_rotation",
	"diagnostics",
}

// keyAliases maps alternative spellings onto configKeys.
var keyAliases = map[string]string{
	"dir":              "directory",
	"log_directory":    "directory",
	"logdirectory":     "directory",
	"filename":         "file_name",
	"default_log_file": "file_name",
	"defaultlogfile":   "file_name",
	"maxfilesize":      "max_file_size",
	"max_size":         "max_file_size",
	"maxfiles":         "max_files",
}

// newViper returns a viper instance bound to the EnvPrefix environment variables.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	for _, key := range configKeys {
		// BindEnv only fails when called without a key.
		if err := v.BindEnv(key); err != nil {
			panic(err)
		}
	}
	return v
}

// config parses "key=value" statements on top of the environment.
// Keys are case-insensitive; statements override environment values.
func config(args ...string) (*logwriter.Config, error) {
	v := newViper()
	for _, arg := range args {
		key, value, err := parseKeyValue(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid config format: %s", arg)
		}
		canonical, err := canonicalKey(key)
		if err != nil {
			return nil, err
		}
		v.Set(canonical, value)
	}
	return decode(v)
}

// loadEnv reads the configuration from the environment only.
func loadEnv() (*logwriter.Config, error) {
	return decode(newViper())
}

// parseKeyValue splits a configuration string into key and value parts.
// Input format must be "key=value". Leading and trailing spaces are removed from both parts.
func parseKeyValue(arg string) (string, string, error) {
	key, value, ok := strings.Cut(strings.TrimSpace(arg), "=")
	if !ok || strings.TrimSpace(key) == "" {
		return "", "", fmt.Errorf("invalid format")
	}
	return strings.TrimSpace(key), strings.TrimSpace(value), nil
}

func canonicalKey(key string) (string, error) {
	key = strings.ToLower(key)
	if alias, ok := keyAliases[key]; ok {
		return alias, nil
	}
	for _, k := range configKeys {
		if k == key {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown config key: %s", key)
}

// decode converts the values set in v into a Config. Unset keys stay zero so that
// logwriter.New applies its defaults.
func decode(v *viper.Viper) (*logwriter.Config, error) {
	cfg := &logwriter.Config{}

	if v.IsSet("directory") {
		cfg.Directory = v.GetString("directory")
	}
	if v.IsSet("file_name") {
		cfg.FileName = v.GetString("file_name")
	}
	if v.IsSet("max_file_size") {
		raw := strings.TrimSpace(v.GetString("max_file_size"))
		if n, err := cast.ToInt64E(raw); err == nil {
			if n < 0 {
				return nil, fmt.Errorf("invalid max_file_size value: %s", raw)
			}
			cfg.MaxFileSize = n
		} else if hasSizeSuffix(raw) {
			cfg.MaxFileSize = int64(v.GetSizeInBytes("max_file_size"))
		} else {
			return nil, fmt.Errorf("invalid max_file_size value: %s", raw)
		}
	}
	if v.IsSet("max_files") {
		n, err := cast.ToInt64E(v.GetString("max_files"))
		if err != nil {
			return nil, fmt.Errorf("invalid max_files value: %s", v.GetString("max_files"))
		}
		cfg.MaxFiles = n
	}
	if v.IsSet("serialize_rotation") {
		b, err := cast.ToBoolE(v.GetString("serialize_rotation"))
		if err != nil {
			return nil, fmt.Errorf("invalid serialize_rotation value: %s", v.GetString("serialize_rotation"))
		}
		cfg.SerializeRotation = b
	}
	if v.IsSet("diagnostics") {
		diag, err := diagnostics(v.GetString("diagnostics"))
		if err != nil {
			return nil, err
		}
		cfg.Diagnostics = diag
	}
	return cfg, nil
}

// hasSizeSuffix reports whether s is a number followed by a kb, mb or gb unit.
func hasSizeSuffix(s string) bool {
	s = strings.ToLower(s)
	for _, unit := range []string{"kb", "mb", "gb"} {
		if num, ok := strings.CutSuffix(s, unit); ok {
			_, err := cast.ToUint64E(strings.TrimSpace(num))
			return err == nil
		}
	}
	return false
}

// diagnostics builds the zerolog logger that receives failed log calls.
func diagnostics(target string) (*zerolog.Logger, error) {
	var l zerolog.Logger
	switch strings.ToLower(target) {
	case "", "off", "none":
		return nil, nil
	case "stderr", "console":
		l = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	case "stdout":
		l = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	case "json":
		l = zerolog.New(os.Stderr).With().Timestamp().Logger()
	default:
		return nil, fmt.Errorf("invalid diagnostics target: %s", target)
	}
	return &l, nil
}
