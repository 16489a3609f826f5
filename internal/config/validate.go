package config

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate

	cronParser = cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()

		// Report fields by their yaml names.
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})

		_ = v.RegisterValidation("cronspec", func(fl validator.FieldLevel) bool {
			_, err := cronParser.Parse(fl.Field().String())
			return err == nil
		})

		_ = v.RegisterValidation("weekday", func(fl validator.FieldLevel) bool {
			_, ok := ParseWeekday(fl.Field().String())
			return ok
		})

		validateInst = v
	})

	return validateInst
}

// Validate checks field constraints after defaults have been applied.
func (c *Config) Validate() error {
	if err := validatorInstance().Struct(c); err != nil {
		return convertValidationError(err)
	}
	return nil
}

func convertValidationError(err error) error {
	if ves, ok := err.(validator.ValidationErrors); ok {
		ve := ves[0]
		field := strings.TrimPrefix(ve.Namespace(), "Config.")
		if ve.Param() != "" {
			return fmt.Errorf("config: %s failed validation for tag '%s=%s' (value %v)", field, ve.Tag(), ve.Param(), ve.Value())
		}
		return fmt.Errorf("config: %s failed validation for tag '%s' (value %v)", field, ve.Tag(), ve.Value())
	}
	return fmt.Errorf("config: %w", err)
}
