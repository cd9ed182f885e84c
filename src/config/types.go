package config

import (
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"
)

type Environment string

const (
	Live Environment = "live"
	Beta Environment = "beta"
	Dev  Environment = "dev"
)

type MediaVaultConfig struct {
	Env      Environment
	Addr     string
	BaseUrl  string
	LogLevel zerolog.Level

	Postgres PostgresConfig
	Storage  StorageConfig
	Auth     AuthConfig
	Media    MediaConfig
}

type PostgresConfig struct {
	User     string
	Password string
	Hostname string
	Port     int
	DbName   string
	LogLevel tracelog.LogLevel
	MinConn  int32
	MaxConn  int32
}

func (info PostgresConfig) DSN() string {
	return fmt.Sprintf("user=%s password=%s host=%s port=%d dbname=%s", info.User, info.Password, info.Hostname, info.Port, info.DbName)
}

type StorageConfig struct {
	// S3-compatible object storage. In dev this points at the fake server
	// started by the `devstorage` command.
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string

	// Base URL at which stored objects are publicly reachable. Signed URLs
	// are issued relative to the endpoint instead.
	PublicBaseUrl string

	SignedUrlLifetime time.Duration
}

type AuthConfig struct {
	// Secret for signing access tokens. Must be long and random in
	// production.
	TokenSecret   string
	TokenLifetime time.Duration
}

type MediaConfig struct {
	FfmpegPath  string
	FfprobePath string

	// Hard cap on a single ffmpeg/ffprobe invocation.
	ToolTimeout time.Duration

	// Maximum number of concurrent transcodes.
	MaxTranscodes int64

	// Heights of the H.264 renditions generated for uploaded videos.
	RenditionHeights []int
}
