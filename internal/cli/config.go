package cli

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/resograph/resograph/pkg/archive"
	"github.com/resograph/resograph/pkg/cache"
	apperrors "github.com/resograph/resograph/pkg/errors"
)

// =============================================================================
// Server Configuration
// =============================================================================

// ServerConfig is the TOML configuration for the serve command.
type ServerConfig struct {
	// Listen is the address the HTTP server binds to.
	Listen string `toml:"listen"`

	Cache   CacheConfig   `toml:"cache"`
	Archive ArchiveConfig `toml:"archive"`
}

// CacheConfig selects and configures the payload cache backend.
type CacheConfig struct {
	// Backend is one of "file", "redis", or "none".
	Backend string `toml:"backend"`

	// Dir is the file backend's directory. Empty means the XDG default.
	Dir string `toml:"dir"`

	// TTL is how long cached payloads stay fresh (e.g. "24h").
	TTL duration `toml:"ttl"`

	Redis cache.RedisConfig `toml:"redis"`
}

// ArchiveConfig selects and configures the snapshot archive backend.
type ArchiveConfig struct {
	// Backend is one of "memory" or "mongo".
	Backend string `toml:"backend"`

	Mongo archive.MongoConfig `toml:"mongo"`
}

// duration wraps time.Duration for TOML decoding of strings like "24h".
type duration time.Duration

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = duration(v)
	return nil
}

// defaultServerConfig returns the configuration used when no file is given.
func defaultServerConfig() ServerConfig {
	return ServerConfig{
		Listen: ":8080",
		Cache: CacheConfig{
			Backend: "file",
			TTL:     duration(defaultCacheTTL),
		},
		Archive: ArchiveConfig{
			Backend: "memory",
		},
	}
}

// loadServerConfig reads a TOML config file, applying defaults for anything
// left unset. An empty path returns the defaults.
func loadServerConfig(path string) (ServerConfig, error) {
	cfg := defaultServerConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "read config %s", path)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}

	switch cfg.Cache.Backend {
	case "", "file", "redis", "none":
	default:
		return cfg, apperrors.New(apperrors.ErrCodeInvalidConfig, "unknown cache backend %q", cfg.Cache.Backend)
	}
	switch cfg.Archive.Backend {
	case "", "memory", "mongo":
	default:
		return cfg, apperrors.New(apperrors.ErrCodeInvalidConfig, "unknown archive backend %q", cfg.Archive.Backend)
	}
	return cfg, nil
}
