// Package config provides the deedscan configuration: the flat Config
// populated from CLI flags, the optional .deedscan YAML file with
// per-building settings, and API key secrets read from the environment.
package config
