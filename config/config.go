// Package config loads a charsniff run configuration from defaults, an
// optional config file, CHARSNIFF_* environment variables and command-line
// flags, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"xdao.co/charsniff/runner"
	"xdao.co/charsniff/sniff"
)

// EnvPrefix prefixes every environment override, e.g. CHARSNIFF_MIN_CHAR_CODE.
const EnvPrefix = "CHARSNIFF"

// Config keys. Flags use the same names with dashes.
const (
	KeyFiles                  = "files"
	KeyAbc                    = "abc"
	KeyNoAbc                  = "no_abc"
	KeyMinCharCode            = "min_char_code"
	KeyMaxCharCode            = "max_char_code"
	KeyCharset                = "charset"
	KeyValidateUTF8           = "validate_utf8"
	KeyIgnoreAbcForISOControl = "ignore_abc_for_iso_control"
	KeyEOL                    = "eol"
	KeyFailForEmptyFile       = "fail_for_empty_file"
	KeyMissingFilesAllowed    = "missing_files_allowed"
	KeyFormat                 = "format"
	KeyNoColor                = "no_color"
	KeyLogLevel               = "log_level"
	KeyLogFormat              = "log_format"
)

// Config is a fully resolved run configuration.
type Config struct {
	Files               []string
	Policy              sniff.Options
	MissingFilesAllowed bool
	FailForEmptyFile    bool

	Format    string
	NoColor   bool
	LogLevel  string
	LogFormat string

	// Source is the config file used, if any.
	Source string
}

// Runner returns the runner toggles.
func (c Config) Runner() runner.Config {
	return runner.Config{
		Files:               append([]string(nil), c.Files...),
		MissingFilesAllowed: c.MissingFilesAllowed,
		FailForEmptyFile:    c.FailForEmptyFile,
	}
}

// BuildPolicy freezes the policy options.
func (c Config) BuildPolicy() (*sniff.Policy, error) {
	return sniff.NewPolicy(c.Policy)
}

func flagName(key string) string { return strings.ReplaceAll(key, "_", "-") }

// RegisterPolicyFlags adds the policy flags to fs.
func RegisterPolicyFlags(fs *pflag.FlagSet) {
	d := sniff.DefaultOptions()
	fs.String(flagName(KeyAbc), "", "only these characters are allowed")
	fs.String(flagName(KeyNoAbc), "", "these characters are prohibited")
	fs.Int(flagName(KeyMinCharCode), d.MinCode, "minimal char code allowed (-1 disables)")
	fs.Int(flagName(KeyMaxCharCode), d.MaxCode, "maximal char code allowed (-1 disables)")
	fs.String(flagName(KeyCharset), d.Encoding, "charset used to decode files")
	fs.Bool(flagName(KeyValidateUTF8), d.ValidateUTF8, "require strict UTF-8 byte sequences")
	fs.Bool(flagName(KeyIgnoreAbcForISOControl), d.IgnoreAbcForISOControl, "exempt ISO control chars from --abc/--no-abc")
	fs.String(flagName(KeyEOL), d.EOL.String(), "required end of line: UNDEFINED, LF, CR or CRLF")
}

// RegisterFlags adds every run flag to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	RegisterPolicyFlags(fs)
	fs.Bool(flagName(KeyFailForEmptyFile), false, "fail for zero length files")
	fs.Bool(flagName(KeyMissingFilesAllowed), false, "report missing files without failing")
	fs.String(flagName(KeyFormat), "text", "report format")
	fs.Bool(flagName(KeyNoColor), false, "disable colored output")
	fs.String(flagName(KeyLogLevel), "INFO", "log level: DEBUG, INFO, WARN or ERROR")
	fs.String(flagName(KeyLogFormat), "CONSOLE", "log format: CONSOLE or JSON")
}

func setDefaults(v *viper.Viper) {
	d := sniff.DefaultOptions()
	v.SetDefault(KeyMinCharCode, d.MinCode)
	v.SetDefault(KeyMaxCharCode, d.MaxCode)
	v.SetDefault(KeyCharset, d.Encoding)
	v.SetDefault(KeyValidateUTF8, d.ValidateUTF8)
	v.SetDefault(KeyIgnoreAbcForISOControl, d.IgnoreAbcForISOControl)
	v.SetDefault(KeyEOL, d.EOL.String())
	v.SetDefault(KeyFailForEmptyFile, false)
	v.SetDefault(KeyMissingFilesAllowed, false)
	v.SetDefault(KeyFormat, "text")
	v.SetDefault(KeyNoColor, false)
	v.SetDefault(KeyLogLevel, "INFO")
	v.SetDefault(KeyLogFormat, "CONSOLE")
}

var allKeys = []string{
	KeyFiles, KeyAbc, KeyNoAbc, KeyMinCharCode, KeyMaxCharCode, KeyCharset,
	KeyValidateUTF8, KeyIgnoreAbcForISOControl, KeyEOL, KeyFailForEmptyFile,
	KeyMissingFilesAllowed, KeyFormat, KeyNoColor, KeyLogLevel, KeyLogFormat,
}

// Load resolves the configuration. path may be empty. fs may be nil; flags
// that were registered with RegisterFlags and changed on the command line
// win over every other source.
func Load(path string, fs *pflag.FlagSet) (Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		// Nothing but the file has been loaded yet.
		if err := validateDocument(v.AllSettings()); err != nil {
			return Config{}, fmt.Errorf("invalid config file %s: %w", path, err)
		}
	}

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	for _, key := range allKeys {
		if err := v.BindEnv(key); err != nil {
			return Config{}, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if fs != nil {
		for _, key := range allKeys {
			f := fs.Lookup(flagName(key))
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return Config{}, fmt.Errorf("bind flag %s: %w", f.Name, err)
			}
		}
	}

	return decode(v)
}

func decode(v *viper.Viper) (Config, error) {
	eol, err := sniff.ParseEndOfLine(v.GetString(KeyEOL))
	if err != nil {
		return Config{}, err
	}

	opts := sniff.DefaultOptions()
	// An empty alphabet in a config file or on the command line means unset.
	if s := v.GetString(KeyAbc); s != "" {
		opts.Abc = sniff.Chars(s)
	}
	if s := v.GetString(KeyNoAbc); s != "" {
		opts.NoAbc = sniff.Chars(s)
	}
	opts.MinCode = v.GetInt(KeyMinCharCode)
	opts.MaxCode = v.GetInt(KeyMaxCharCode)
	opts.Encoding = v.GetString(KeyCharset)
	opts.ValidateUTF8 = v.GetBool(KeyValidateUTF8)
	opts.IgnoreAbcForISOControl = v.GetBool(KeyIgnoreAbcForISOControl)
	opts.EOL = eol

	cfg := Config{
		Files:               v.GetStringSlice(KeyFiles),
		Policy:              opts,
		MissingFilesAllowed: v.GetBool(KeyMissingFilesAllowed),
		FailForEmptyFile:    v.GetBool(KeyFailForEmptyFile),
		Format:              v.GetString(KeyFormat),
		NoColor:             v.GetBool(KeyNoColor),
		LogLevel:            v.GetString(KeyLogLevel),
		LogFormat:           v.GetString(KeyLogFormat),
		Source:              v.ConfigFileUsed(),
	}
	if cfg.Format == "" {
		return Config{}, errors.New("empty report format")
	}
	return cfg, nil
}
