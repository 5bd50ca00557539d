package metrics

import "codeberg.org/mutker/cpuctl/internal/errors"

type Config struct {
	Enabled bool
	DBPath  string
}

func (c Config) Validate() error {
	errFactory := errors.New()

	if c.Enabled && c.DBPath == "" {
		return errFactory.New(errors.ErrInvalidDBPath)
	}

	return nil
}
