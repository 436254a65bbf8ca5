package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nutrifit/nutrifit-backend/config"
)

func TestDSN(t *testing.T) {
	cfg := &config.DatabaseConfig{Host: "db", Port: 5433, User: "app", Password: "s3cret", Name: "nutrifit"}
	assert.Equal(t, "host=db port=5433 user=app password=s3cret dbname=nutrifit sslmode=disable", DSN(cfg))

	cfg.Password = "it's a pass"
	assert.Equal(t, `host=db port=5433 user=app password='it\'s a pass' dbname=nutrifit sslmode=disable`, DSN(cfg))

	cfg.Password = ""
	assert.Contains(t, DSN(cfg), "password='' ")

	cfg.DSN = "postgres://app@db/nutrifit"
	assert.Equal(t, "postgres://app@db/nutrifit", DSN(cfg))
}
