package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

const (
	defaultFileName         = "/.env"
	defaultOverrideFileName = "/.local.env"
)

// EnvLoader reads configuration from the process environment after loading
// the env files of a config directory.
type EnvLoader struct {
	logger logger
}

// NewEnvFile loads <configFolder>/.env and then the override file selected
// by APP_ENV (<configFolder>/.<APP_ENV>.env, or .local.env when APP_ENV is
// unset). Values already present in the environment win over the files.
func NewEnvFile(configFolder string, logger logger) Config {
	conf := &EnvLoader{logger: logger}
	conf.read(configFolder)

	return conf
}

func (e *EnvLoader) read(folder string) {
	var (
		defaultFile  = filepath.Clean(folder + defaultFileName)
		overrideFile = filepath.Clean(folder + defaultOverrideFileName)
		env          = e.Get("APP_ENV")
	)

	initialEnv := make(map[string]string)
	for _, kv := range os.Environ() {
		k, v, _ := strings.Cut(kv, "=")
		initialEnv[k] = v
	}

	if err := godotenv.Load(defaultFile); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			e.logger.Warnf("failed to load config from file: %v, Err: %v", defaultFile, err)
		}
	} else {
		e.logger.Debugf("loaded config from file: %v", defaultFile)
	}

	if env != "" {
		overrideFile = filepath.Clean(folder + "/." + env + ".env")
	}

	if err := godotenv.Overload(overrideFile); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			e.logger.Warnf("failed to load config from file: %v, Err: %v", overrideFile, err)
		}
	} else {
		e.logger.Infof("loaded config from file: %v", overrideFile)
	}

	// the process environment keeps precedence over both files
	for k, v := range initialEnv {
		_ = os.Setenv(k, v)
	}
}

func (*EnvLoader) Get(key string) string {
	return os.Getenv(key)
}

func (*EnvLoader) GetOrDefault(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}

	return defaultValue
}
