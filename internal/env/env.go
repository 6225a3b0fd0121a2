// Package env loads variables from a .env file so API keys can stay out of the
// YAML config.
package env

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Load reads .env from the working directory. Values in the file override the
// process environment. A missing file is not an error.
func Load() {
	LoadFile(".env")
}

func LoadFile(path string) {
	err := godotenv.Overload(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Error().Err(err).Str("path", path).Msg("error loading .env file")
	}
}
