package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	mu        sync.Mutex
	cache     = make(map[reflect.Type]any)
	envLoaded bool
)

// LoadEnv loads variables from the given .env files without overriding
// variables already present in the process environment.
// Subsequent Load calls skip the implicit .env lookup.
func LoadEnv(paths ...string) error {
	mu.Lock()
	defer mu.Unlock()

	if err := godotenv.Load(paths...); err != nil {
		return errors.Join(ErrLoadingEnvFile, err)
	}
	envLoaded = true
	return nil
}

// MustLoadEnv works like LoadEnv but panics on failure.
func MustLoadEnv(paths ...string) {
	if err := LoadEnv(paths...); err != nil {
		panic(fmt.Sprintf("failed to load env files: %v", err))
	}
}

// Load parses environment variables into v.
// The first successful parse of a type is cached; later calls for the same
// type receive a copy of the cached value even if the environment changed.
func Load[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}

	mu.Lock()
	defer mu.Unlock()

	if !envLoaded {
		// The default .env file is optional.
		_ = godotenv.Load()
		envLoaded = true
	}

	typ := reflect.TypeFor[T]()
	if cached, ok := cache[typ]; ok {
		*v = cached.(T)
		return nil
	}

	var parsed T
	if err := env.Parse(&parsed); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}

	cache[typ] = parsed
	*v = parsed
	return nil
}

// MustLoad works like Load but panics if configuration loading fails.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}

// ResetCache drops every cached configuration and forgets that .env files were loaded.
func ResetCache() {
	mu.Lock()
	defer mu.Unlock()

	clear(cache)
	envLoaded = false
}
