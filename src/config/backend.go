package config

import "time"

// BackendConfig locates the CI backend's REST API.
type BackendConfig struct {
	// URL is the API root, e.g. "http://localhost:8010/api/v2".
	URL string `yaml:"url"`

	// Timeout bounds the single builds query made per gate run.
	Timeout time.Duration `yaml:"timeout"`
}

// DefaultBackendConfig returns sensible defaults for the backend connection.
func DefaultBackendConfig() BackendConfig {
	return BackendConfig{
		URL:     "http://localhost:8010/api/v2",
		Timeout: 30 * time.Second,
	}
}
