package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// DefaultEnvPrefix namespaces every environment variable read by EnvSettings
const DefaultEnvPrefix = "REVIEWKEEPER"

// EnvSettings resolves dotted setting keys from environment variables.
// "db.path" with prefix REVIEWKEEPER reads REVIEWKEEPER_DB_PATH.
type EnvSettings struct {
	prefix string
	lookup func(string) (string, bool)
}

// NewEnvSettings loads the given .env files into the process environment
// and returns settings backed by it. Missing files are skipped; variables
// already set in the environment take precedence over file contents.
func NewEnvSettings(prefix string, files ...string) (*EnvSettings, error) {
	for _, file := range files {
		if err := godotenv.Load(file); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				log.Debug().Str("file", file).Msg("Env file not found, skipping")
				continue
			}
			return nil, err
		}
		log.Debug().Str("file", file).Msg("Loaded env file")
	}

	return &EnvSettings{prefix: prefix, lookup: os.LookupEnv}, nil
}

// EnvName returns the environment variable name for key
func (e *EnvSettings) EnvName(key string) string {
	name := strings.ToUpper(strings.NewReplacer(".", "_", "-", "_").Replace(key))
	if e.prefix == "" {
		return name
	}
	return e.prefix + "_" + name
}

// GetSetting returns the value of the variable for key, or "" when unset
func (e *EnvSettings) GetSetting(key string) (string, error) {
	val, _ := e.lookup(e.EnvName(key))
	return val, nil
}
