package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config 全局配置结构
// 设计说明：使用Viper管理配置，代码内置全部默认值，
// YAML文件与环境变量（前缀LIBCONSOLE_）只需要覆盖差异部分
type Config struct {
	Server         ServerConfig         `mapstructure:"server"`
	API            APIConfig            `mapstructure:"api"`
	Mock           MockConfig           `mapstructure:"mock"`
	Auth           AuthConfig           `mapstructure:"auth"`
	Database       DatabaseConfig       `mapstructure:"database"`
	Redis          RedisConfig          `mapstructure:"redis"`
	JWT            JWTConfig            `mapstructure:"jwt"`
	Log            LogConfig            `mapstructure:"log"`
	MQ             MQConfig             `mapstructure:"mq"`
	Tracing        TracingConfig        `mapstructure:"tracing"`
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker"`
}

// ServerConfig 模拟服务端（cmd/mockserver）
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	Mode         string        `mapstructure:"mode"` // debug | release | test
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	CORSOrigins  []string      `mapstructure:"cors_origins"`
}

// APIConfig 客户端分发器
type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"` // 服务端根地址，不含/api/v1
	UseMock bool          `mapstructure:"use_mock"` // true时请求直接交给进程内引擎
	Timeout time.Duration `mapstructure:"timeout"`  // 仅作用于真实HTTP传输
}

// MockConfig 内存引擎
type MockConfig struct {
	Latency         time.Duration `mapstructure:"latency"`
	DefaultLoanDays int           `mapstructure:"default_loan_days"`
	TokenMode       string        `mapstructure:"token_mode"` // simple | jwt
	PasswordCost    int           `mapstructure:"password_cost"`
}

// AuthConfig 客户端会话存储
type AuthConfig struct {
	Backend     string        `mapstructure:"backend"` // memory | file | redis | database
	FilePath    string        `mapstructure:"file_path"`
	TokenKey    string        `mapstructure:"token_key"`
	UserKey     string        `mapstructure:"user_key"`
	RedisPrefix string        `mapstructure:"redis_prefix"`
	Profile     string        `mapstructure:"profile"`     // redis/database中区分多个登录身份
	SessionTTL  time.Duration `mapstructure:"session_ttl"` // 仅redis，0表示不过期
}

type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"` // sqlite | mysql
	DSN             string        `mapstructure:"dsn"`    // 显式DSN优先
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	Charset         string        `mapstructure:"charset"`
	ParseTime       bool          `mapstructure:"parse_time"`
	Loc             string        `mapstructure:"loc"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// MySQLDSN 生成MySQL连接字符串
// 格式：user:password@tcp(host:port)/dbname?charset=utf8mb4&parseTime=True&loc=Local
// 注意：loc参数需要URL编码（Asia/Shanghai → Asia%2FShanghai）
func (d DatabaseConfig) MySQLDSN() string {
	if d.DSN != "" {
		return d.DSN
	}
	loc := url.QueryEscape(d.Loc)
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.Charset, d.ParseTime, loc)
}

type RedisConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// Addr 返回Redis地址
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	Expire time.Duration `mapstructure:"expire"` // 0表示不过期
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug | info | warn | error
	Format string `mapstructure:"format"` // console | json
	Output string `mapstructure:"output"` // stdout | stderr | /path/to/file
}

// MQConfig 借还事件发布，URL为空时不发布
type MQConfig struct {
	URL          string `mapstructure:"url"`
	Exchange     string `mapstructure:"exchange"`
	ExchangeType string `mapstructure:"exchange_type"`
}

// TracingConfig Endpoint为空时不安装TracerProvider
type TracingConfig struct {
	ServiceName string `mapstructure:"service_name"`
	Endpoint    string `mapstructure:"endpoint"`
}

type CircuitBreakerConfig struct {
	MaxRequests         uint32        `mapstructure:"max_requests"`
	Interval            time.Duration `mapstructure:"interval"`
	Timeout             time.Duration `mapstructure:"timeout"`
	ConsecutiveFailures uint32        `mapstructure:"consecutive_failures"`
}

const defaultJWTSecret = "your-secret-key-change-in-production"

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("server.cors_origins", []string{"*"})

	v.SetDefault("api.base_url", "http://localhost:8080")
	v.SetDefault("api.use_mock", true)
	v.SetDefault("api.timeout", 10*time.Second)

	v.SetDefault("mock.latency", 120*time.Millisecond)
	v.SetDefault("mock.default_loan_days", 14)
	v.SetDefault("mock.token_mode", "simple")
	v.SetDefault("mock.password_cost", 10)

	v.SetDefault("auth.backend", "file")
	v.SetDefault("auth.file_path", ".libconsole/session.json")
	v.SetDefault("auth.token_key", "cf_lib_access_token")
	v.SetDefault("auth.user_key", "cf_lib_user")
	v.SetDefault("auth.redis_prefix", "libconsole:session")
	v.SetDefault("auth.profile", "default")
	v.SetDefault("auth.session_ttl", time.Duration(0))

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.user", "root")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "libconsole")
	v.SetDefault("database.charset", "utf8mb4")
	v.SetDefault("database.parse_time", true)
	v.SetDefault("database.loc", "Local")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", time.Hour)

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.min_idle_conns", 2)
	v.SetDefault("redis.dial_timeout", 5*time.Second)
	v.SetDefault("redis.read_timeout", 3*time.Second)
	v.SetDefault("redis.write_timeout", 3*time.Second)

	v.SetDefault("jwt.secret", defaultJWTSecret)
	v.SetDefault("jwt.expire", time.Duration(0))

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stderr")

	v.SetDefault("mq.url", "")
	v.SetDefault("mq.exchange", "library.events")
	v.SetDefault("mq.exchange_type", "topic")

	v.SetDefault("tracing.service_name", "libconsole")
	v.SetDefault("tracing.endpoint", "")

	v.SetDefault("circuit_breaker.max_requests", 1)
	v.SetDefault("circuit_breaker.interval", 10*time.Second)
	v.SetDefault("circuit_breaker.timeout", 30*time.Second)
	v.SetDefault("circuit_breaker.consecutive_failures", 5)
}

// Load 加载配置
// 支持：
// 1. path非空时只读取该文件，文件不存在即报错
// 2. path为空时依次查找./config/config.yaml、./config.yaml，找不到就只用默认值
// 3. 环境变量覆盖（如LIBCONSOLE_API_USE_MOCK=false → api.use_mock）
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
	}

	v.SetEnvPrefix("LIBCONSOLE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// validate 配置校验
func validate(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("无效的服务端口: %d", cfg.Server.Port)
	}

	switch cfg.Auth.Backend {
	case "memory", "file", "redis", "database":
	default:
		return fmt.Errorf("未知的会话存储: %s", cfg.Auth.Backend)
	}

	switch cfg.Mock.TokenMode {
	case "simple", "jwt":
	default:
		return fmt.Errorf("未知的令牌模式: %s", cfg.Mock.TokenMode)
	}

	switch cfg.Database.Driver {
	case "sqlite", "mysql":
	default:
		return fmt.Errorf("未知的数据库驱动: %s", cfg.Database.Driver)
	}

	if cfg.Mock.DefaultLoanDays <= 0 {
		return fmt.Errorf("默认借期必须大于0: %d", cfg.Mock.DefaultLoanDays)
	}

	if cfg.Mock.Latency < 0 {
		return fmt.Errorf("模拟延迟不能为负: %s", cfg.Mock.Latency)
	}

	if !cfg.API.UseMock && cfg.API.BaseURL == "" {
		return fmt.Errorf("关闭模拟模式时必须配置api.base_url")
	}

	if cfg.JWT.Secret == defaultJWTSecret && cfg.Server.Mode == "release" {
		return fmt.Errorf("生产环境必须修改JWT密钥")
	}

	return nil
}
