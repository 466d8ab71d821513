package config

import (
	"strings"

	"github.com/ezrec/stackvm/translate"
)

var f = translate.From

// ErrUnknownKeys lists configuration keys that were not recognized.
type ErrUnknownKeys []string

func (err ErrUnknownKeys) Error() string {
	return f("unknown configuration keys: %v", strings.Join(err, ", "))
}

type ErrLogFormat string

func (err ErrLogFormat) Error() string {
	return f("log format '%v' is not 'text' or 'json'", string(err))
}

// ErrConfig locates an error in a configuration file.
type ErrConfig struct {
	Path string
	Err  error
}

func (err *ErrConfig) Error() string {
	return f("%v: %v", err.Path, err.Err)
}

func (err *ErrConfig) Unwrap() error {
	return err.Err
}
