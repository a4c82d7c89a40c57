// Package config provides reusable helpers for loading configuration from
// environment variables with validation and fail-open fallback to defaults.
// A bad value never stops a process from starting: the default is applied,
// a warning is generated and a metric is incremented instead.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// LoadResult represents the outcome of loading a single configuration value.
// Value holds the loaded (or fallback) value; Warnings carries one message
// per fallback applied.
type LoadResult struct {
	Value           interface{}
	Warnings        []string
	FallbackApplied bool
}

// LoadEnvString loads a string from an environment variable, returning the
// default when the variable is unset or empty. No validation is applied.
func LoadEnvString(envKey, defaultValue string) string {
	value := os.Getenv(envKey)
	if value == "" {
		return defaultValue
	}
	return value
}

// LoadEnvWithFallback loads a string from an environment variable and runs
// it through the validator. An unset variable silently yields the default;
// a set-but-invalid value yields the default with a warning.
func LoadEnvWithFallback(envKey, defaultValue string, validator func(string) error) LoadResult {
	value := os.Getenv(envKey)
	if value == "" {
		return LoadResult{Value: defaultValue}
	}
	if validator != nil {
		if err := validator(value); err != nil {
			return LoadResult{
				Value:           defaultValue,
				Warnings:        []string{fallbackWarning(envKey, value, defaultValue, err)},
				FallbackApplied: true,
			}
		}
	}
	return LoadResult{Value: value}
}

// LoadEnvInt loads an integer from an environment variable with validation
// and fallback. Both parse failures and validation failures fall back.
func LoadEnvInt(envKey string, defaultValue int, validator func(int) error) LoadResult {
	raw := os.Getenv(envKey)
	if raw == "" {
		return LoadResult{Value: defaultValue}
	}
	value, err := strconv.Atoi(raw)
	if err == nil && validator != nil {
		err = validator(value)
	}
	if err != nil {
		return LoadResult{
			Value:           defaultValue,
			Warnings:        []string{fallbackWarning(envKey, raw, fmt.Sprintf("%d", defaultValue), err)},
			FallbackApplied: true,
		}
	}
	return LoadResult{Value: value}
}

// LoadEnvDuration loads a time.Duration from an environment variable with
// validation and fallback. Values use Go duration syntax, e.g. "30m".
func LoadEnvDuration(envKey string, defaultValue time.Duration, validator func(time.Duration) error) LoadResult {
	raw := os.Getenv(envKey)
	if raw == "" {
		return LoadResult{Value: defaultValue}
	}
	value, err := time.ParseDuration(raw)
	if err == nil && validator != nil {
		err = validator(value)
	}
	if err != nil {
		return LoadResult{
			Value:           defaultValue,
			Warnings:        []string{fallbackWarning(envKey, raw, defaultValue.String(), err)},
			FallbackApplied: true,
		}
	}
	return LoadResult{Value: value}
}

func fallbackWarning(envKey, value, defaultValue string, err error) string {
	return fmt.Sprintf("invalid %s=%q: %v, falling back to default %q", envKey, value, err, defaultValue)
}
