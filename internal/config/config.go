package config

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/petrzlen/speech-golang/pkg/speech"
	"github.com/pkg/errors"
)

const (
	EnvAccessToken = "MAPBOX_ACCESS_TOKEN"
	EnvHost        = "MAPBOX_SPEECH_HOST"
	EnvAppName     = "SPEECH_APP_NAME"
	EnvAppVersion  = "SPEECH_APP_VERSION"
	EnvOutputDir   = "SPEECH_OUTPUT_DIR"
	EnvLogLevel    = "LOG_LEVEL"

	DefaultOutputDir = "output"
	DefaultLogLevel  = "info"
)

type Config struct {
	AccessToken string
	Host        string
	AppName     string
	AppVersion  string
	OutputDir   string
	LogLevel    string
}

// Load reads envFiles (".env" when none are given) into the environment, without overriding
// variables that are already set, and then builds the Config from the environment.
// Missing env files are fine.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, envFile := range envFiles {
		err := godotenv.Load(envFile)
		if err != nil && !os.IsNotExist(err) {
			return Config{}, errors.Wrapf(err, "cannot load %s", envFile)
		}
	}
	return FromEnv(), nil
}

func FromEnv() Config {
	return Config{
		AccessToken: os.Getenv(EnvAccessToken),
		Host:        getEnv(EnvHost, speech.DefaultHost),
		AppName:     os.Getenv(EnvAppName),
		AppVersion:  os.Getenv(EnvAppVersion),
		OutputDir:   getEnv(EnvOutputDir, DefaultOutputDir),
		LogLevel:    getEnv(EnvLogLevel, DefaultLogLevel),
	}
}

func (c Config) ToSpeechConfig() speech.Config {
	return speech.Config{
		AccessToken: c.AccessToken,
		Host:        c.Host,
		AppName:     c.AppName,
		AppVersion:  c.AppVersion,
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}
