package remote

// Config holds configuration for the remote category service.
type Config struct {
	// BaseURL is the site root, e.g. https://shop.example.com.
	BaseURL string `mapstructure:"base_url" default:""`
	// ConsumerKey is the WooCommerce REST consumer key.
	ConsumerKey string `mapstructure:"consumer_key" default:""`
	// ConsumerSecret is the WooCommerce REST consumer secret.
	ConsumerSecret string `mapstructure:"consumer_secret" default:""`
	// Username is the WordPress user used when no consumer key is set.
	Username string `mapstructure:"username" default:""`
	// AppPassword is the WordPress application password for Username.
	AppPassword string `mapstructure:"app_password" default:""`
	// TimeoutSeconds is the per-request timeout.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"60"`
	// MaxRetries is how many times a failed idempotent request is retried.
	MaxRetries int `mapstructure:"max_retries" default:"3"`
	// RetryWaitMs is the initial backoff between retries.
	RetryWaitMs int `mapstructure:"retry_wait_ms" default:"1000"`
	// RetryMaxWaitMs caps the backoff between retries.
	RetryMaxWaitMs int `mapstructure:"retry_max_wait_ms" default:"10000"`
	// RequestsPerSecond paces outgoing requests. Zero disables pacing.
	RequestsPerSecond int `mapstructure:"requests_per_second" default:"5"`
	// PageSize is the per_page value used for paged listings.
	PageSize int `mapstructure:"page_size" default:"100"`
}

// Credentials returns the basic-auth pair to use, preferring the consumer
// key/secret over the WordPress application password.
func (c Config) Credentials() (user, pass string, ok bool) {
	if c.ConsumerKey != "" && c.ConsumerSecret != "" {
		return c.ConsumerKey, c.ConsumerSecret, true
	}
	if c.Username != "" && c.AppPassword != "" {
		return c.Username, c.AppPassword, true
	}
	return "", "", false
}

// IsConfigured reports whether a base URL and credentials are present.
func (c Config) IsConfigured() bool {
	_, _, ok := c.Credentials()
	return c.BaseURL != "" && ok
}
