// Package config loads warncheck configuration files (JSON or YAML).
package config

import (
	"encoding/json"
	"os"
	"regexp"
)

// envVarPattern matches ${VAR} and ${VAR:-default}.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::-([^}]*))?\}`)

// ExpandEnv replaces ${VAR} and ${VAR:-default} with environment values.
// An unset or empty variable takes the default, or expands to "".
func ExpandEnv(input string) string {
	return expandEnv(input, nil)
}

// expandJSONEnv is ExpandEnv for text that will be parsed as JSON:
// substituted values are escaped so quotes and backslashes in a value
// cannot break the enclosing string literal.
func expandJSONEnv(input string) string {
	return expandEnv(input, func(v string) string {
		quoted, err := json.Marshal(v)
		if err != nil {
			return v
		}
		return string(quoted[1 : len(quoted)-1])
	})
}

func expandEnv(input string, escape func(string) string) string {
	return envVarPattern.ReplaceAllStringFunc(input, func(match string) string {
		groups := envVarPattern.FindStringSubmatch(match)
		value := os.Getenv(groups[1])
		if value == "" {
			value = groups[2]
		}
		if escape != nil {
			value = escape(value)
		}
		return value
	})
}
