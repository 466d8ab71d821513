package config

import (
	"errors"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	assert := assert.New(t)

	conf := Default()
	assert.False(conf.Verbose)
	assert.Equal("info", conf.Log.Level)
	assert.Equal(FORMAT_TEXT, conf.Log.Format)
	assert.Equal(STDIO, conf.Run.Input)
	assert.Equal(STDIO, conf.Run.Output)
	assert.Equal(0, conf.Run.MaxTicks)
}

func TestLoad(t *testing.T) {
	assert := assert.New(t)

	conf, err := Load("testdata/full.toml")
	require.NoError(t, err)

	assert.Equal(&Config{
		Verbose: true,
		Log:     Log{Level: "warn", Format: FORMAT_JSON},
		Run:     Run{Input: "numbers.txt", Output: "out.txt", MaxTicks: 5000},
	}, conf)

	conf, err = Load("testdata/partial.toml")
	require.NoError(t, err)

	expected := Default()
	expected.Run.MaxTicks = 100
	assert.Equal(expected, conf)
}

func TestLoad_Error(t *testing.T) {
	assert := assert.New(t)

	conf, err := Load("testdata/unknown.toml")
	assert.Nil(conf)
	var keys ErrUnknownKeys
	if assert.True(errors.As(err, &keys)) {
		assert.Equal(ErrUnknownKeys{"run.inptu"}, keys)
	}

	conf, err = Load("testdata/broken.toml")
	assert.Nil(conf)
	var confErr *ErrConfig
	if assert.True(errors.As(err, &confErr)) {
		assert.Equal("testdata/broken.toml", confErr.Path)
	}

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.ErrorIs(err, fs.ErrNotExist)
}

func TestLoadDefault(t *testing.T) {
	assert := assert.New(t)

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	conf, err := LoadDefault()
	assert.NoError(err)
	assert.Equal(Default(), conf)
}

func TestConfig_Logger(t *testing.T) {
	assert := assert.New(t)

	conf := Default()
	log, err := conf.Logger()
	require.NoError(t, err)
	assert.Equal(logrus.InfoLevel, log.GetLevel())
	assert.IsType(&logrus.TextFormatter{}, log.Formatter)

	conf.Log.Format = FORMAT_JSON
	conf.Verbose = true
	log, err = conf.Logger()
	require.NoError(t, err)
	assert.Equal(logrus.DebugLevel, log.GetLevel())
	assert.IsType(&logrus.JSONFormatter{}, log.Formatter)

	conf.Log.Format = "xml"
	_, err = conf.Logger()
	assert.Equal(ErrLogFormat("xml"), err)

	conf.Log.Level = "chatty"
	_, err = conf.Logger()
	assert.Error(err)
}
