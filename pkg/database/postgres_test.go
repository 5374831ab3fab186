package database

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/gradebook-api/pkg/config"
)

func TestDSN(t *testing.T) {
	cfg := config.DatabaseConfig{Host: "localhost", Port: 5432, User: "grader", Password: `p a's\s`, Name: "gradebook", SSLMode: "disable"}
	assert.Equal(t, `host=localhost port=5432 user=grader password='p a\'s\\s' dbname=gradebook sslmode=disable`, DSN(cfg))

	assert.Equal(t, "host=db dbname=gradebook", DSN(config.DatabaseConfig{Host: "db", Name: "gradebook"}))
}
