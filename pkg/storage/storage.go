package storage

// Config holds S3-compatible storage configuration.
type Config struct {
	// Bucket is the S3 bucket name. Storage is disabled when empty.
	Bucket string `env:"S3_BUCKET"`

	AccessKey string `env:"S3_ACCESS_KEY"`
	SecretKey string `env:"S3_SECRET_KEY"`

	// Endpoint is a custom S3 endpoint URL, for MinIO or other S3-compatible services.
	Endpoint string `env:"S3_ENDPOINT"`

	Region string `env:"S3_REGION" envDefault:"us-east-1"`

	// PathStyle enables path-style addressing (required for MinIO).
	PathStyle bool `env:"S3_PATH_STYLE" envDefault:"false"`

	// LogPrefix is where run logs are archived. Archiving is off when empty.
	LogPrefix string `env:"S3_LOG_PREFIX"`
}

// Enabled reports whether a bucket is configured.
func (c Config) Enabled() bool {
	return c.Bucket != ""
}

// FileInfo contains metadata about a stored object.
type FileInfo struct {
	Key         string
	ContentType string
	Size        int64
}

// DefaultRegion is used when Config.Region is empty.
const DefaultRegion = "us-east-1"

func (c *Config) applyDefaults() {
	if c.Region == "" {
		c.Region = DefaultRegion
	}
}

func (c *Config) validate() error {
	if c.Bucket == "" || c.AccessKey == "" || c.SecretKey == "" {
		return ErrInvalidConfig
	}
	return nil
}
