package postgres

import (
	"fmt"
	"strings"

	"github.com/nutrifit/nutrifit-backend/config"
)

// DSN renders the settings as a lib/pq keyword/value string. An explicit
// DB_DSN wins over the individual fields.
func DSN(cfg *config.DatabaseConfig) string {
	if strings.TrimSpace(cfg.DSN) != "" {
		return cfg.DSN
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, quote(cfg.Password), cfg.Name,
	)
}

// quote wraps values with spaces or quotes as lib/pq expects.
func quote(v string) string {
	if v == "" {
		return "''"
	}
	if !strings.ContainsAny(v, ` '\`) {
		return v
	}
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return "'" + r.Replace(v) + "'"
}
