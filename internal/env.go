package internal

import (
	"fmt"
	"os"
	"strings"
)

// LookupEnv is a variable that allows overriding environment lookup for testing
var LookupEnv = os.LookupEnv

// ExpandEnv replaces $VAR and ${VAR} references in value with the
// corresponding environment values. A reference to an unset variable is
// an error rather than a silent empty substitution, so a missing
// credential fails at load time instead of at first use.
func ExpandEnv(value string) (string, error) {
	var missing []string
	expanded := os.Expand(value, func(name string) string {
		v, ok := LookupEnv(name)
		if !ok {
			missing = append(missing, name)
			return ""
		}
		return v
	})
	if len(missing) > 0 {
		return "", fmt.Errorf("undefined environment variable(s): %s", strings.Join(missing, ", "))
	}
	return expanded, nil
}
