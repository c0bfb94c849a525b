package config

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks a Config against its struct validation tags plus the
// cross-field rules that tags cannot express.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			first := verrs[0]
			return fmt.Errorf("field %s failed on %q rule", first.Namespace(), first.Tag())
		}
		return err
	}

	if cfg.Database.Enabled && cfg.Database.ConnectionString == "" {
		if cfg.Database.Host == "" || cfg.Database.Database == "" {
			return errors.New("database is enabled but neither connectionstring nor host+database are set")
		}
	}

	return nil
}
