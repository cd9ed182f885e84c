package config

import (
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"
)

// Config carries sensible dev defaults. Deployments override the parts they
// care about through the environment.
var Config = MediaVaultConfig{
	Env:      Environment(envOr("MV_ENV", string(Dev))),
	Addr:     envOr("MV_ADDR", "localhost:9001"),
	BaseUrl:  envOr("MV_BASE_URL", "http://localhost:9001"),
	LogLevel: envLevel("MV_LOG_LEVEL", zerolog.DebugLevel),

	Postgres: PostgresConfig{
		User:     envOr("MV_PG_USER", "mediavault"),
		Password: envOr("MV_PG_PASSWORD", "password"),
		Hostname: envOr("MV_PG_HOST", "localhost"),
		Port:     envInt("MV_PG_PORT", 5432),
		DbName:   envOr("MV_PG_DBNAME", "mediavault"),
		LogLevel: envTraceLevel("MV_PG_LOG_LEVEL", tracelog.LogLevelWarn),
		MinConn:  int32(envInt("MV_PG_MIN_CONN", 2)),
		MaxConn:  int32(envInt("MV_PG_MAX_CONN", 10)),
	},

	Storage: StorageConfig{
		Endpoint:          envOr("MV_S3_ENDPOINT", "http://localhost:9003"),
		Region:            envOr("MV_S3_REGION", "us-east-1"),
		Bucket:            envOr("MV_S3_BUCKET", "mediavault"),
		AccessKey:         envOr("MV_S3_ACCESS_KEY", "mediavault"),
		SecretKey:         envOr("MV_S3_SECRET_KEY", "mediavault"),
		PublicBaseUrl:     envOr("MV_S3_PUBLIC_BASE_URL", "http://localhost:9003/mediavault"),
		SignedUrlLifetime: time.Duration(envInt("MV_SIGNED_URL_LIFETIME_SECONDS", 3600)) * time.Second,
	},

	Auth: AuthConfig{
		TokenSecret:   envOr("MV_TOKEN_SECRET", "dev secret, do not use in production"),
		TokenLifetime: time.Duration(envInt("MV_TOKEN_LIFETIME_MINUTES", 60*24)) * time.Minute,
	},

	Media: MediaConfig{
		FfmpegPath:       envOr("MV_FFMPEG_PATH", "ffmpeg"),
		FfprobePath:      envOr("MV_FFPROBE_PATH", "ffprobe"),
		ToolTimeout:      time.Duration(envInt("MV_TOOL_TIMEOUT_SECONDS", 600)) * time.Second,
		MaxTranscodes:    int64(envInt("MV_MAX_TRANSCODES", runtime.GOMAXPROCS(0))),
		RenditionHeights: []int{1080, 720, 480},
	},
}

func envOr(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}

func envInt(name string, def int) int {
	if v := os.Getenv(name); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func envLevel(name string, def zerolog.Level) zerolog.Level {
	if v := os.Getenv(name); v != "" {
		if l, err := zerolog.ParseLevel(v); err == nil {
			return l
		}
	}
	return def
}

func envTraceLevel(name string, def tracelog.LogLevel) tracelog.LogLevel {
	if v := os.Getenv(name); v != "" {
		if l, err := tracelog.LogLevelFromString(v); err == nil {
			return l
		}
	}
	return def
}
