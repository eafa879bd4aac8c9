package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("ENV", "test")
	cfg := LoadConfig()

	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, StoreDriverPostgres, cfg.StoreDriver)
	assert.False(t, cfg.StrictDuration)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Empty(t, cfg.MQDriver)
	assert.Empty(t, cfg.StorageDriver)
	assert.Equal(t, "-sub", cfg.PubSub.SubscriptionSuffix)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("STORE_DRIVER", "Mongo")
	t.Setenv("STRICT_DURATION", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("DB_USE_SSL", "1")
	t.Setenv("MQ_DRIVER", "kafka")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("STORAGE_DRIVER", "minio")
	t.Setenv("MINIO_USE_SSL", "yes")

	cfg := LoadConfig()

	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, StoreDriverMongo, cfg.StoreDriver)
	assert.True(t, cfg.StrictDuration)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.True(t, cfg.Database.UseSSL)
	assert.Equal(t, MQDriverKafka, cfg.MQDriver)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, StorageDriverMinio, cfg.StorageDriver)
	// unparseable booleans keep the default
	assert.False(t, cfg.Minio.UseSSL)
}

func TestGetEnvListFallsBackWhenEmpty(t *testing.T) {
	t.Setenv("SOME_LIST", " , ")
	assert.Equal(t, []string{"x"}, getEnvList("SOME_LIST", []string{"x"}))
}
