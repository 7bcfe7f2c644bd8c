// Package envstruct populates configuration structs from environment
// variables declared with struct tags.
package envstruct

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	ErrEnvNotSet    = errors.New("environment variable not set")
	ErrInvalidValue = errors.New("v must be a pointer to a struct")
)

// Populate fills the string fields of *struct v from the environment.
//
// Fields are declared with `env:"ENV_VAR"` tags and may carry an
// `envDefault:"value"` fallback. lookupEnv has the signature of
// [os.LookupEnv]. A tagged field with neither a set variable nor a default
// contributes an ErrEnvNotSet to the joined error.
func Populate(v any, lookupEnv func(string) (string, bool)) error {
	ptrRef := reflect.ValueOf(v)
	if ptrRef.Kind() != reflect.Ptr {
		return fmt.Errorf("%w: not pointer: %v", ErrInvalidValue, v)
	}
	ref := ptrRef.Elem()
	if ref.Kind() != reflect.Struct {
		return fmt.Errorf("%w: not struct: %v", ErrInvalidValue, v)
	}

	refType := ref.Type()
	var errs []error
	for i := range refType.NumField() {
		field := ref.Field(i)
		fieldType := refType.Field(i)
		envVarName, tagged := fieldType.Tag.Lookup("env")
		if !tagged {
			continue
		}
		if !field.CanSet() {
			errs = append(errs, fmt.Errorf("%w: cannot set field: %s", ErrInvalidValue, fieldType.Name))
			continue
		}
		if field.Kind() != reflect.String {
			errs = append(errs, fmt.Errorf("%w: only strings are supported - field: %s, type: %s, env: %s",
				ErrInvalidValue, fieldType.Name, field.Kind().String(), envVarName))
			continue
		}
		value, err := lookup(envVarName, fieldType.Tag, lookupEnv)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		field.SetString(value)
	}

	return errors.Join(errs...)
}

func lookup(envVarName string, tag reflect.StructTag, lookupEnv func(string) (string, bool)) (string, error) {
	value, ok := lookupEnv(envVarName)
	if ok {
		return value, nil
	}
	if value, ok = tag.Lookup("envDefault"); ok {
		return value, nil
	}
	return "", fmt.Errorf("%w: environment variable not set: %s", ErrEnvNotSet, envVarName)
}
