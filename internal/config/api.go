package config

import (
	"fmt"
	"os"

	"github.com/JaimeStill/otreport/pkg/formatting"
	"github.com/JaimeStill/otreport/pkg/middleware"
	"github.com/JaimeStill/otreport/pkg/module"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "OTREPORT_CORS_ENABLED",
	Origins:          "OTREPORT_CORS_ORIGINS",
	AllowedMethods:   "OTREPORT_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "OTREPORT_CORS_ALLOWED_HEADERS",
	ExposedHeaders:   "OTREPORT_CORS_EXPOSED_HEADERS",
	AllowCredentials: "OTREPORT_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "OTREPORT_CORS_MAX_AGE",
}

// APIConfig holds API routing, upload, and CORS settings.
type APIConfig struct {
	BasePath      string                `toml:"base_path"`
	MaxUploadSize string                `toml:"max_upload_size"`
	CORS          middleware.CORSConfig `toml:"cors"`
}

// MaxUploadSizeBytes returns the multipart limit for one report request,
// covering every uploaded instrument file.
func (c *APIConfig) MaxUploadSizeBytes() int64 {
	size, err := formatting.ParseBytes(c.MaxUploadSize)
	if err != nil {
		return 50 * 1024 * 1024 // 50MB fallback
	}
	return size
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested CORS config.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := module.ValidatePrefix(c.BasePath); err != nil {
		return fmt.Errorf("invalid base_path: %w", err)
	}
	if _, err := formatting.ParseBytes(c.MaxUploadSize); err != nil {
		return fmt.Errorf("invalid max_upload_size: %w", err)
	}
	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.MaxUploadSize != "" {
		c.MaxUploadSize = overlay.MaxUploadSize
	}

	c.CORS.Merge(&overlay.CORS)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.MaxUploadSize == "" {
		c.MaxUploadSize = "50MB"
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv("OTREPORT_API_BASE_PATH"); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv("OTREPORT_API_MAX_UPLOAD_SIZE"); v != "" {
		c.MaxUploadSize = v
	}
}
