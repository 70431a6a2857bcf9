package shared

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type EnvParser[T any] func(raw string) (T, error)

func GetenvString(raw string) (string, error) {
	return strings.TrimSpace(raw), nil
}

func GetenvBool(raw string) (bool, error) {
	return strconv.ParseBool(strings.TrimSpace(raw))
}

func GetenvInt(raw string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(raw))
}

// Getenv reads key and parses it. An unset or blank variable yields def,
// or ErrRequiredEnv when required is set.
func Getenv[T any](parse EnvParser[T], key string, required bool, def T) (T, error) {
	raw, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(raw) == "" {
		if required {
			return def, fmt.Errorf("%s: %w", key, ErrRequiredEnv)
		}
		return def, nil
	}
	v, err := parse(raw)
	if err != nil {
		return def, fmt.Errorf("parsing %s: %w", key, err)
	}
	return v, nil
}

func MustGetenv[T any](parse EnvParser[T], key string, required bool, def T) T {
	v, err := Getenv(parse, key, required, def)
	if err != nil {
		panic(err)
	}
	return v
}
