package config

import (
	"errors"
	"fmt"
)

func requireSet[T ~string | ~[]byte](value T, envName string) error {
	if len(value) == 0 {
		return fmt.Errorf("missing required env %s", envName)
	}
	return nil
}

// Validate reports every value the server cannot start without.
func (c Config) Validate() error {
	errs := []error{requireSet(c.SessionSecret, "SESSION_SECRET")}
	switch c.StorageDriver {
	case DriverSQL:
		errs = append(errs, requireSet(c.DatabaseURL, "DATABASE_URL"))
	case DriverRedis:
		errs = append(errs, requireSet(c.RedisURL, "REDIS_URL"))
	default:
		errs = append(errs, fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver))
	}
	return errors.Join(errs...)
}
