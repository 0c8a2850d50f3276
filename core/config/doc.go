// Package config loads the category-manager configuration.
//
// Values come from a .env file and the process environment, bound through
// Viper. Every field carries a mapstructure key and a default tag; the
// environment variable name is the upper-cased dotted key with dots replaced
// by underscores (remote.base_url -> REMOTE_BASE_URL).
//
// # Sections
//   - Server: HTTP port, API key, snapshot cache TTL
//   - Log: level and format
//   - Local: data directory and the four local JSON files
//   - Remote: WooCommerce URL, credentials, retry and pacing
//   - Database: run journal (mysql or sqlite)
//   - Storage: S3/MinIO snapshot archive
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
