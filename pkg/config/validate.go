package config

import (
	stderrors "errors"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/pinout/pkg/document"
	"github.com/matzehuels/pinout/pkg/errors"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		_ = v.RegisterValidation("page", func(fl validator.FieldLevel) bool {
			_, err := document.LookupPage(fl.Field().String())
			return err == nil
		})
		validateInst = v
	})
	return validateInst
}

// Validate checks the configuration and reports the first invalid field.
func (c *Config) Validate() error {
	err := validatorInstance().Struct(c)
	if err == nil {
		return c.validateBackends()
	}
	var ves validator.ValidationErrors
	if !stderrors.As(err, &ves) {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "config")
	}
	fe := ves[0]
	return errors.New(errors.ErrCodeInvalidInput, "config: %s failed validation for tag '%s'", fieldName(fe), fe.Tag())
}

// validateBackends checks settings that depend on the chosen backend.
func (c *Config) validateBackends() error {
	if c.Cache.Backend == CacheRedis && c.Cache.Redis.Addr == "" {
		return errors.New(errors.ErrCodeInvalidInput, "config: cache.redis.addr is required for the redis backend")
	}
	if c.Server.Store == StoreMongo && (c.Server.Mongo.URI == "" || c.Server.Mongo.Database == "") {
		return errors.New(errors.ErrCodeInvalidInput, "config: server.mongo.uri and database are required for the mongo store")
	}
	return nil
}

// fieldName turns "Config.Render.DPI" into "render.dpi".
func fieldName(fe validator.FieldError) string {
	parts := strings.Split(fe.StructNamespace(), ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, p := range parts {
		parts[i] = strings.ToLower(p)
	}
	return strings.Join(parts, ".")
}
