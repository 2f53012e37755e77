// Package startup loads and validates service configuration from
// environment variables and logs the startup banner, configuration and
// registered HTTP routes.
package startup
