package db

import (
	"context"
	"net/url"
	"testing"

	"github.com/exercise-tracker/apiserver/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresURL(t *testing.T) {
	cfg := config.Config{Database: config.DatabaseConfig{
		Host:     "db.internal",
		Port:     5433,
		User:     "tracker",
		Password: "p@ss word",
		DBName:   "exercise_tracker",
	}}

	u, err := url.Parse(PostgresURL(cfg))
	require.NoError(t, err)
	assert.Equal(t, "postgres", u.Scheme)
	assert.Equal(t, "db.internal:5433", u.Host)
	assert.Equal(t, "/exercise_tracker", u.Path)
	password, _ := u.User.Password()
	assert.Equal(t, "p@ss word", password)
	assert.Equal(t, "disable", u.Query().Get("sslmode"))

	cfg.Database.UseSSL = true
	u, err = url.Parse(PostgresURL(cfg))
	require.NoError(t, err)
	assert.Equal(t, "require", u.Query().Get("sslmode"))
}

func TestOpenMongoRequiresSettings(t *testing.T) {
	_, _, err := OpenMongo(context.Background(), config.Config{})
	assert.EqualError(t, err, "mongo uri is required")

	_, _, err = OpenMongo(context.Background(), config.Config{Mongo: config.MongoConfig{URI: "mongodb://localhost"}})
	assert.EqualError(t, err, "mongo database is required")
}
