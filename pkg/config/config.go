// 文件: pkg/config/config.go
// 部署配置
//
// 加载顺序 (后者覆盖前者):
//  1. DefaultConfig()
//  2. YAML 配置文件
//  3. .env 文件 (只填充尚未设置的环境变量)
//  4. QUANT_* 环境变量

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"quant.com/pkg/logger"
	"quant.com/pkg/pricing"
)

// EnvPrefix 环境变量前缀
const EnvPrefix = "QUANT_"

// Config 顶层配置
type Config struct {
	NodeID  int64         `yaml:"node_id"` // 雪花节点 (0-1023)
	Log     logger.Config `yaml:"log"`
	Pricing PricingConfig `yaml:"pricing"`
	NATS    NATSConfig    `yaml:"nats"`
	Kafka   KafkaConfig   `yaml:"kafka"`
	MySQL   MySQLConfig   `yaml:"mysql"`
	Redis   RedisConfig   `yaml:"redis"`
}

// PricingConfig 定价约定，一个部署只用一种复利方式
type PricingConfig struct {
	Compounding string `yaml:"compounding"` // continuous / discrete
}

// NATSConfig NATS 请求/应答
type NATSConfig struct {
	Enabled bool          `yaml:"enabled"`
	URL     string        `yaml:"url"`
	Subject string        `yaml:"subject"`
	Queue   string        `yaml:"queue"`
	Timeout time.Duration `yaml:"timeout"`
}

// KafkaConfig Kafka 请求/结果桥接
type KafkaConfig struct {
	Enabled      bool     `yaml:"enabled"`
	Brokers      []string `yaml:"brokers"`
	GroupID      string   `yaml:"group_id"`
	RequestTopic string   `yaml:"request_topic"`
	ResultTopic  string   `yaml:"result_topic"`
}

// MySQLConfig 预设参数存储
type MySQLConfig struct {
	Enabled bool   `yaml:"enabled"`
	DSN     string `yaml:"dsn"`
}

// RedisConfig 预设参数缓存
type RedisConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

// DefaultConfig 默认配置: 只开本地 NATS，不依赖数据库
func DefaultConfig() Config {
	return Config{
		NodeID:  1,
		Log:     logger.DefaultConfig(),
		Pricing: PricingConfig{Compounding: "continuous"},
		NATS: NATSConfig{
			Enabled: true,
			URL:     "nats://127.0.0.1:4222",
			Subject: "valuation.request",
			Queue:   "pricer",
			Timeout: 5 * time.Second,
		},
		Kafka: KafkaConfig{
			Brokers:      []string{"127.0.0.1:9092"},
			GroupID:      "pricer",
			RequestTopic: "valuation_requests",
			ResultTopic:  "valuation_results",
		},
		MySQL: MySQLConfig{
			DSN: "root:root@tcp(127.0.0.1:3306)/quant?charset=utf8mb4&parseTime=True&loc=Local",
		},
		Redis: RedisConfig{
			Addr: "127.0.0.1:6379",
			TTL:  10 * time.Minute,
		},
	}
}

// Load 读取配置
// path 为空时跳过 YAML；envFile 为空或不存在时跳过 .env
func Load(path, envFile string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return cfg, fmt.Errorf("load env file %s: %w", envFile, err)
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// Validate 检查配置项
func (c Config) Validate() error {
	if c.NodeID < 0 || c.NodeID > 1023 {
		return fmt.Errorf("node_id %d out of range 0-1023", c.NodeID)
	}
	if _, err := c.Compounding(); err != nil {
		return err
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return errors.New("kafka enabled without brokers")
	}
	if c.NATS.Enabled && c.NATS.URL == "" {
		return errors.New("nats enabled without url")
	}
	return nil
}

// Compounding 解析复利约定
func (c Config) Compounding() (pricing.Compounding, error) {
	return pricing.ParseCompounding(c.Pricing.Compounding)
}

// applyEnv 用 QUANT_* 环境变量覆盖
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = v
		}
	}
	flag := func(key string, dst *bool) error {
		v, ok := lookup(EnvPrefix + key)
		if !ok {
			return nil
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s%s: %w", EnvPrefix, key, err)
		}
		*dst = b
		return nil
	}

	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)
	str("COMPOUNDING", &c.Pricing.Compounding)
	str("NATS_URL", &c.NATS.URL)
	str("NATS_SUBJECT", &c.NATS.Subject)
	str("MYSQL_DSN", &c.MySQL.DSN)
	str("REDIS_ADDR", &c.Redis.Addr)
	str("REDIS_PASSWORD", &c.Redis.Password)

	if v, ok := lookup(EnvPrefix + "NODE_ID"); ok {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%sNODE_ID: %w", EnvPrefix, err)
		}
		c.NodeID = id
	}
	if v, ok := lookup(EnvPrefix + "KAFKA_BROKERS"); ok {
		c.Kafka.Brokers = splitList(v)
	}

	for key, dst := range map[string]*bool{
		"NATS_ENABLED":  &c.NATS.Enabled,
		"KAFKA_ENABLED": &c.Kafka.Enabled,
		"MYSQL_ENABLED": &c.MySQL.Enabled,
		"REDIS_ENABLED": &c.Redis.Enabled,
	} {
		if err := flag(key, dst); err != nil {
			return err
		}
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
