// Package validation provides a single shared go-playground/validator/v10
// instance for the five inbound HTTP request payloads, grounded on the
// teacher's internal/interfaces/http/validation package: a sync.Once-guarded
// singleton so every handler validates against the same configured
// *validator.Validate rather than constructing one per request.
package validation

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	instance *validator.Validate
	once     sync.Once
)

// Get returns the shared validator instance, configuring it on first use.
func Get() *validator.Validate {
	once.Do(func() {
		instance = validator.New()
		instance.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return instance
}

// Struct validates req against its `validate:` struct tags and collapses
// the result into a single caller-facing error naming every offending
// field, rather than the library's default verbose FieldError slice.
func Struct(req interface{}) error {
	if err := Get().Struct(req); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
		}
		return fmt.Errorf("validation failed: %s", strings.Join(fields, ", "))
	}
	return nil
}
