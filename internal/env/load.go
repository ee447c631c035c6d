package env

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// LoadEnv reads .env.<APP_ENV> and then .env from the working directory.
// A variable keeps the first value it gets, so the process environment wins
// over the environment specific file, which wins over .env.
func LoadEnv() {
	loaded := false
	if appEnv := strings.ToLower(strings.TrimSpace(os.Getenv("APP_ENV"))); appEnv != "" {
		loaded = loadFile(".env." + appEnv)
	}
	if loadFile(".env") {
		loaded = true
	}
	if !loaded {
		log.Println("No .env file found, assuming environment variables are set directly.")
	}
}

func loadFile(name string) bool {
	err := godotenv.Load(name)
	if err == nil {
		return true
	}
	if !errors.Is(err, fs.ErrNotExist) {
		log.Printf("Failed to read %s: %v", name, err)
	}
	return false
}

// MustGetEnv returns the value of key and exits when it is unset or blank.
func MustGetEnv(key string) string {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		log.Fatalf("Environment variable %s not set", key)
	}
	return val
}
