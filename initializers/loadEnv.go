package initializers

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
)

// LoadEnv copies .env into the process environment. A missing file is fine.
func LoadEnv(files ...string) error {
	err := godotenv.Load(files...)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
