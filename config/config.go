// Package config holds the settings of the stackvm command, read from TOML.
//
//	verbose = false
//
//	[log]
//	level = "info"    # any logrus level
//	format = "text"   # or "json"
//
//	[run]
//	input = "-"       # console input file, '-' is stdin
//	output = "-"      # console output file, '-' is stdout
//	max_ticks = 0     # instruction budget, 0 is unlimited
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"
)

const (
	FORMAT_TEXT = "text"
	FORMAT_JSON = "json"

	// STDIO names standard input or output in place of a file.
	STDIO = "-"
)

type Log struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type Run struct {
	Input    string `toml:"input"`
	Output   string `toml:"output"`
	MaxTicks int    `toml:"max_ticks"`
}

// Config is the complete stackvm configuration.
type Config struct {
	Verbose bool `toml:"verbose"`
	Log     Log  `toml:"log"`
	Run     Run  `toml:"run"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Log: Log{
			Level:  logrus.InfoLevel.String(),
			Format: FORMAT_TEXT,
		},
		Run: Run{
			Input:  STDIO,
			Output: STDIO,
		},
	}
}

// DefaultPath returns the per-user configuration file path.
func DefaultPath() (path string, err error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return
	}

	path = filepath.Join(dir, "stackvm", "config.toml")
	return
}

// Load reads a configuration file over the defaults.
func Load(path string) (conf *Config, err error) {
	conf = Default()

	md, err := toml.DecodeFile(path, conf)
	if err != nil {
		conf = nil
		err = &ErrConfig{Path: path, Err: err}
		return
	}

	if undecoded := md.Undecoded(); len(undecoded) != 0 {
		keys := make(ErrUnknownKeys, len(undecoded))
		for n, key := range undecoded {
			keys[n] = key.String()
		}
		conf = nil
		err = &ErrConfig{Path: path, Err: keys}
		return
	}

	return
}

// LoadDefault reads the per-user configuration file, if there is one.
func LoadDefault() (conf *Config, err error) {
	path, err := DefaultPath()
	if err != nil {
		return Default(), nil
	}

	conf, err = Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}

	return
}

// Logger builds the logger described by the configuration.
func (conf *Config) Logger() (log *logrus.Logger, err error) {
	level, err := logrus.ParseLevel(conf.Log.Level)
	if err != nil {
		return
	}
	if conf.Verbose {
		level = logrus.DebugLevel
	}

	log = logrus.New()
	log.SetLevel(level)

	switch conf.Log.Format {
	case "", FORMAT_TEXT:
		log.SetFormatter(&logrus.TextFormatter{})
	case FORMAT_JSON:
		log.SetFormatter(&logrus.JSONFormatter{})
	default:
		log = nil
		err = ErrLogFormat(conf.Log.Format)
	}

	return
}
