package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// DefaultDotEnvPath is the env file read next to the working directory.
const DefaultDotEnvPath = ".env"

// LookupFunc reports the value of a named variable and whether it is set.
// os.LookupEnv satisfies it.
type LookupFunc func(name string) (string, bool)

// LoadDotEnv reads KEY=VALUE pairs from an env file without touching the
// process environment. Lines starting with '#' are comments, each remaining
// line is split on the first '=' and both sides are trimmed. A missing file
// yields an empty map and no error.
func LoadDotEnv(path string) (map[string]string, error) {
	if path == "" {
		return map[string]string{}, nil
	}

	values, err := godotenv.Read(path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read env file %q: %w", path, err)
	}
	return values, nil
}

// Environment resolves variables from an ordered pair of sources: the real
// process environment and the values read from an env file. A variable that
// exists in the process environment always wins, even when it is empty.
type Environment struct {
	lookup LookupFunc
	file   map[string]string
}

// NewEnvironment returns an Environment backed by os.LookupEnv and the
// given env file values.
func NewEnvironment(file map[string]string) *Environment {
	return EnvironmentFrom(os.LookupEnv, file)
}

// EnvironmentFrom returns an Environment with an explicit process lookup.
// Tests use it to avoid mutating the real environment.
func EnvironmentFrom(lookup LookupFunc, file map[string]string) *Environment {
	if lookup == nil {
		lookup = func(string) (string, bool) { return "", false }
	}
	if file == nil {
		file = map[string]string{}
	}
	return &Environment{lookup: lookup, file: file}
}

// Lookup returns the value for name, preferring the process environment.
func (e *Environment) Lookup(name string) (string, bool) {
	if v, ok := e.lookup(name); ok {
		return v, true
	}
	v, ok := e.file[name]
	return v, ok
}

// Get returns the value for name or "" when it is not set anywhere.
func (e *Environment) Get(name string) string {
	v, _ := e.Lookup(name)
	return v
}
