// Package constants holds shared configuration values.
package constants

// Runtime environments.
const (
	// EnvDevelop is the development environment name.
	EnvDevelop = "develop"
	// EnvProduction is the production environment name.
	EnvProduction = "production"
)

// Pub/Sub provider selection.
const (
	// PubSubProviderLocal routes events to a local HTTP endpoint for development.
	PubSubProviderLocal = "local"
	// PubSubProviderGoogle routes events through Google Cloud Pub/Sub.
	PubSubProviderGoogle = "google"
)
