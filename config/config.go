package config

import (
	"fmt"
	"time"
)

type Configs struct {
	Env string

	Database     DatabaseConfigs
	ApiServer    ServerConfigs
	SearchServer SearchConfigs
	Auth         AuthConfigs
	Session      SessionConfigs
	Storage      S3Configs
	File         FileConfigs
	Redis        RedisConfigs
	Kafka        KafkaConfigs
}

type DatabaseConfigs struct {
	Host     string
	Port     string
	Database string
	User     string
	Password string
}

func (d *DatabaseConfigs) ConnectionString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type ServerConfigs struct {
	Host         string
	Port         string
	Cert         string
	Key          string
	DefaultLimit int `toml:"default_limit"`
	MaxLimit     int `toml:"max_limit"`
}

type SearchConfigs struct {
	IndexDir string `toml:"index_dir"`
}

type AuthConfigs struct {
	TokenSecret string       `toml:"token_secret"`
	AccessToken TokenConfigs `toml:"access_token"`
}

type TokenConfigs struct {
	Name       string
	Expiration Duration
}

type SessionConfigs struct {
	Secret string
	Name   string
}

type S3Configs struct {
	Region         string
	Endpoint       string
	PublicEndpoint string `toml:"public_endpoint"`
	AccessKey      string `toml:"access_key"`
	SecretKey      string `toml:"secret_key"`
	SSLDisabled    bool   `toml:"ssl_disabled"`
}

type FileConfigs struct {
	MaxSize     int64  `toml:"max_size"`
	ImageBucket string `toml:"image_bucket"`
}

type RedisConfigs struct {
	Addr string
}

type KafkaConfigs struct {
	Addr string
}

// Duration decodes toml duration strings like "15m" or "720h".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}
