package configs

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	App struct {
		Name     string `koanf:"name"`
		HTTPAddr string `koanf:"http_addr"`
		LogLevel string `koanf:"log_level"`
		Currency string `koanf:"currency"`
	} `koanf:"app"`

	HTTP struct {
		ReadTimeout  time.Duration `koanf:"read_timeout"`
		WriteTimeout time.Duration `koanf:"write_timeout"`
		IdleTimeout  time.Duration `koanf:"idle_timeout"`
	} `koanf:"http"`

	Mongo struct {
		URI         string        `koanf:"uri"`
		Database    string        `koanf:"database"`
		MaxPoolSize uint64        `koanf:"max_pool_size"`
		Timeout     time.Duration `koanf:"timeout"`
	} `koanf:"mongo"`

	Redis struct {
		Addr     string `koanf:"addr"`
		Password string `koanf:"password"`
	} `koanf:"redis"`

	Idempotency struct {
		TTL time.Duration `koanf:"ttl"`
	} `koanf:"idempotency"`

	Cache struct {
		ProductTTL time.Duration `koanf:"product_ttl"`
		StatusTTL  time.Duration `koanf:"status_ttl"`
	} `koanf:"cache"`

	Session struct {
		TTL           time.Duration `koanf:"ttl"`
		SweepInterval time.Duration `koanf:"sweep_interval"`
	} `koanf:"session"`

	Outbox struct {
		PollInterval time.Duration `koanf:"poll_interval"`
		BatchSize    int64         `koanf:"batch_size"`
	} `koanf:"outbox"`

	Rabbit struct {
		URL string `koanf:"url"`
	} `koanf:"rabbitmq"`

	Kafka struct {
		Brokers         []string `koanf:"brokers"`
		GroupID         string   `koanf:"group_id"`
		TopicSettlement string   `koanf:"topic_settlement"`
	} `koanf:"kafka"`

	Security struct {
		JWTSecret     string        `koanf:"jwt_secret"`
		Issuer        string        `koanf:"issuer"`
		Audience      string        `koanf:"audience"`
		TTL           time.Duration `koanf:"ttl"`
		WebhookSecret string        `koanf:"webhook_secret"`
	} `koanf:"security"`

	Payment struct {
		BaseURL     string `koanf:"base_url"`
		SecretKey   string `koanf:"secret_key"`
		RedirectURL string `koanf:"redirect_url"`
	} `koanf:"payment"`
}

func Load(pathDir, envName string) (Config, error) {
	k := koanf.New(".")
	// 1) base
	if err := k.Load(file.Provider(fmt.Sprintf("%s/base.yaml", pathDir)), yaml.Parser()); err != nil {
		return Config{}, fmt.Errorf("load base: %w", err)
	}

	// 2) env override (dev/staging/prod). Optional: allow missing for local runs.
	_ = k.Load(file.Provider(fmt.Sprintf("%s/%s.yaml", pathDir, envName)), yaml.Parser())

	// 3) environment variables override (prefix CPULSE_, nested with __)
	// e.g. CPULSE_MONGO__URI, CPULSE_PAYMENT__SECRET_KEY
	if err := k.Load(env.Provider("CPULSE_", ".", func(s string) string {
		s = strings.TrimPrefix(s, "CPULSE_")
		s = strings.ReplaceAll(s, "__", ".")
		return strings.ToLower(s)
	}), nil); err != nil {
		return Config{}, fmt.Errorf("env overlay: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.App.HTTPAddr == "" {
		return fmt.Errorf("app.http_addr required")
	}
	if c.Mongo.URI == "" {
		return fmt.Errorf("mongo.uri required")
	}
	if c.Mongo.Database == "" {
		return fmt.Errorf("mongo.database required")
	}
	if len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers required (can be dummy for now)")
	}
	if c.Payment.SecretKey == "" {
		return fmt.Errorf("payment.secret_key required")
	}
	return nil
}
