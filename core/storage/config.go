package storage

// Config holds configuration for the snapshot archive.
type Config struct {
	// Enabled turns on archiving of local files before they are replaced.
	Enabled bool `mapstructure:"enabled" default:"false"`
	// Endpoint is the URL of the storage service.
	Endpoint string `mapstructure:"endpoint" default:"localhost:9000"`
	// AccessKey is the access key ID for authentication.
	AccessKey string `mapstructure:"access_key" default:"minioadmin"`
	// SecretKey is the secret access key for authentication.
	SecretKey string `mapstructure:"secret_key" default:"minioadmin"`
	// UseSSL indicates whether to use SSL/TLS for connections.
	UseSSL bool `mapstructure:"use_ssl" default:"false"`
	// Bucket holds the snapshots.
	Bucket string `mapstructure:"bucket" default:"category-snapshots"`
	// Region is the location of the bucket (e.g., us-east-1).
	Region string `mapstructure:"region" default:""`
	// Prefix is prepended to every snapshot key.
	Prefix string `mapstructure:"prefix" default:"snapshots"`
	// KeepRuns is how many runs survive a prune. Zero keeps everything.
	KeepRuns int `mapstructure:"keep_runs" default:"20"`
	// TimeoutSeconds is the connection timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"30"`
}
