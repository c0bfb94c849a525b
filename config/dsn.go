package config

import (
	"fmt"
	"strings"
)

// DSN returns the libpq-style connection string for the database
// configuration. An explicit ConnectionString wins over the discrete fields.
func (d *DatabaseConfig) DSN() string {
	if d.ConnectionString != "" {
		return d.ConnectionString
	}

	parts := []string{
		fmt.Sprintf("host=%s", quoteDSN(d.Host)),
		fmt.Sprintf("port=%d", d.Port),
		fmt.Sprintf("user=%s", quoteDSN(d.Username)),
		fmt.Sprintf("password=%s", quoteDSN(d.Password)),
		fmt.Sprintf("dbname=%s", quoteDSN(d.Database)),
	}

	if d.SSLMode != "" {
		parts = append(parts, fmt.Sprintf("sslmode=%s", d.SSLMode))
	}

	return strings.Join(parts, " ")
}

// quoteDSN quotes a DSN value according to libpq rules:
// - Returns double single quotes for empty strings (empty value)
// - Escapes backslashes and single quotes
// - Wraps in single quotes when value contains non-alphanumeric/._- characters
func quoteDSN(value string) string {
	if value == "" {
		return "''"
	}

	needsQuoting := false
	for _, r := range value {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') &&
			(r < '0' || r > '9') && r != '.' && r != '_' && r != '-' {
			needsQuoting = true
			break
		}
	}

	if !needsQuoting {
		return value
	}

	escaped := strings.ReplaceAll(value, "\\", "\\\\")
	escaped = strings.ReplaceAll(escaped, "'", "\\'")

	return "'" + escaped + "'"
}
