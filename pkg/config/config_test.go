package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quant.com/pkg/pricing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	c, err := cfg.Compounding()
	require.NoError(t, err)
	assert.Equal(t, pricing.Continuous, c)
	assert.Equal(t, "valuation.request", cfg.NATS.Subject)
	assert.Equal(t, "valuation_results", cfg.Kafka.ResultTopic)
}

func TestLoad_YAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pricer.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
node_id: 12
log:
  level: debug
  format: json
pricing:
  compounding: discrete
kafka:
  enabled: true
  brokers: ["k1:9092", "k2:9092"]
redis:
  ttl: 30s
`), 0o644))

	cfg, err := Load(path, "")
	require.NoError(t, err)

	assert.EqualValues(t, 12, cfg.NodeID)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 30*time.Second, cfg.Redis.TTL)
	// 未出现的字段保留默认值
	assert.Equal(t, "valuation_requests", cfg.Kafka.RequestTopic)

	c, err := cfg.Compounding()
	require.NoError(t, err)
	assert.Equal(t, pricing.Discrete, c)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("QUANT_COMPOUNDING", "discrete")
	t.Setenv("QUANT_KAFKA_BROKERS", "a:1, b:2,")
	t.Setenv("QUANT_NODE_ID", "33")
	t.Setenv("QUANT_REDIS_ENABLED", "true")

	cfg, err := Load("", "")
	require.NoError(t, err)
	assert.Equal(t, "discrete", cfg.Pricing.Compounding)
	assert.Equal(t, []string{"a:1", "b:2"}, cfg.Kafka.Brokers)
	assert.EqualValues(t, 33, cfg.NodeID)
	assert.True(t, cfg.Redis.Enabled)
}

func TestLoad_EnvFile(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("QUANT_NATS_SUBJECT=pricing.rpc\n"), 0o644))
	t.Cleanup(func() { os.Unsetenv("QUANT_NATS_SUBJECT") })

	cfg, err := Load("", envFile)
	require.NoError(t, err)
	assert.Equal(t, "pricing.rpc", cfg.NATS.Subject)

	_, err = Load("", filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("QUANT_COMPOUNDING", "weekly")
	_, err := Load("", "")
	require.ErrorIs(t, err, pricing.ErrInvalidValue)

	t.Setenv("QUANT_COMPOUNDING", "continuous")
	t.Setenv("QUANT_NODE_ID", "5000")
	_, err = Load("", "")
	require.Error(t, err)

	t.Setenv("QUANT_NODE_ID", "1")
	t.Setenv("QUANT_MYSQL_ENABLED", "maybe")
	_, err = Load("", "")
	require.Error(t, err)
}
