package config

// Config 配置主体
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	DB          DBConfig          `mapstructure:"database"`
	Redis       RedisConfig       `mapstructure:"redis"`
	Mongo       MongoConfig       `mapstructure:"mongo"`
	MinIO       MinIOConfig       `mapstructure:"minio"`
	Logstash    LogstashConfig    `mapstructure:"logstash"`
	Sarvam      SarvamConfig      `mapstructure:"sarvam"`
	LLM         LLMConfig         `mapstructure:"llm"`
	Translation TranslationConfig `mapstructure:"translation"`
	Voice       VoiceConfig       `mapstructure:"voice"`
}

// ServerConfig Server配置
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// DBConfig 数据库配置
type DBConfig struct {
	DSN         string `mapstructure:"dsn"`
	MaxIdle     int    `mapstructure:"max_idle"`
	MaxOpen     int    `mapstructure:"max_open"`
	MaxLifetime int    `mapstructure:"max_lifetime"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

type MongoConfig struct {
	URL      string `mapstructure:"url"`
	Database string `mapstructure:"database"`
}

// MinIOConfig MinIO配置，语音对象存储
type MinIOConfig struct {
	Endpoint       string `mapstructure:"endpoint"`
	PublicEndpoint string `mapstructure:"public_endpoint"`
	AccessKey      string `mapstructure:"access_key"`
	SecretKey      string `mapstructure:"secret_key"`
	Bucket         string `mapstructure:"bucket"`
	UseSSL         bool   `mapstructure:"use_ssl"`
}

type LogstashConfig struct {
	Address string `mapstructure:"address"`
	Index   string `mapstructure:"index"`
	Token   string `mapstructure:"token"`
}

// SarvamConfig Sarvam AI 开放平台（翻译 / 语音识别 / 语音合成）
type SarvamConfig struct {
	BaseURL string `mapstructure:"base_url"`
	ApiKey  string `mapstructure:"api_key"`
}

// LLMConfig 大模型翻译备选通道（OpenAI 兼容接口）
type LLMConfig struct {
	URL    string `mapstructure:"url"`
	Model  string `mapstructure:"model"`
	ApiKey string `mapstructure:"api_key"`
}

// TranslationConfig 翻译通道选择: sarvam / llm
type TranslationConfig struct {
	Provider string `mapstructure:"provider"`
}

// VoiceConfig 语音消息相关
type VoiceConfig struct {
	RetentionDays int `mapstructure:"retention_days"`
}
