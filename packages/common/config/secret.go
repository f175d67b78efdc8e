package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Secrets struct {
	DatabaseHost     string `validate:"required"`
	DatabasePort     string `validate:"required"`
	DatabaseName     string `validate:"required"`
	DatabaseUser     string `validate:"required"`
	DatabasePassword string `validate:"required"`

	// Same secret Supabase uses to sign user access tokens.
	JWTSecret []byte `validate:"required,min=32"`
	// Key passed as "apikey" header to PostgREST.
	PostgrestAPIKey string `validate:"exists"`

	CacheURI      string `validate:"required"`
	CachePassword string `validate:"exists"`
	CacheDB       int    `validate:"gte=0"`

	SentryDSN string `validate:"exists"`
}

var requiredEnvVars = []string{
	"DB_HOST",
	"DB_PORT",
	"DB_NAME",
	"DB_USER",
	"DB_PASSWORD",

	"JWT_SECRET",

	"CACHE_URI",
	"CACHE_DB",
}

func getEnv(key string) string {
	env, _ := os.LookupEnv(key)

	configLogger.Trace("Loaded: "+key, nil)

	return env
}

// Loads secrets from the environment. Values from envFiles (default is ".env")
// never override variables that already exist in the environment.
func loadSecrets(envFiles ...string) (*Secrets, error) {
	configLogger.Info("Loading environment variables...", nil)

	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	// Check is all required env variables exists
	for _, variable := range requiredEnvVars {
		if _, exists := os.LookupEnv(variable); !exists {
			return nil, errors.New("missing required env variable: " + variable)
		}
	}

	cacheDB, err := strconv.ParseInt(getEnv("CACHE_DB"), 10, 64)
	if err != nil {
		return nil, errors.New("failed to parse CACHE_DB env variable: " + err.Error())
	}

	secrets := &Secrets{
		DatabaseHost:     getEnv("DB_HOST"),
		DatabasePort:     getEnv("DB_PORT"),
		DatabaseName:     getEnv("DB_NAME"),
		DatabaseUser:     getEnv("DB_USER"),
		DatabasePassword: getEnv("DB_PASSWORD"),

		JWTSecret:       []byte(getEnv("JWT_SECRET")),
		PostgrestAPIKey: getEnv("POSTGREST_API_KEY"),

		CacheURI:      getEnv("CACHE_URI"),
		CachePassword: getEnv("CACHE_PASSWORD"),
		CacheDB:       int(cacheDB),

		SentryDSN: getEnv("SENTRY_DSN"),
	}

	configLogger.Info("Loading environment variables: OK", nil)

	configLogger.Info("Validating secrets...", nil)

	if err := newValidator().Struct(secrets); err != nil {
		return nil, err
	}

	configLogger.Info("Validating secrets: OK", nil)

	return secrets, nil
}
