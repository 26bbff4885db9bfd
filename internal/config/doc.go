// Package config loads and validates the devenv CLI configuration.
//
// Configuration is assembled from several sources, later sources overriding
// earlier ones:
//
//  1. built-in defaults ([Default])
//  2. the YAML file (~/.devenv/config.yaml unless another path is given)
//  3. environment variables (DEVENV_DATA_DIR, DEVENV_SYNC, DEVENV_DOCKER_HOST)
//
// The result is validated before it is returned.
//
// # Example file
//
//	dataDir: ~/.devenv
//	compose: [docker, compose]
//	sync:
//	  enabled: auto      # auto | always | never
//	  binary: mutagen
//	  owner: id:1000
//	  group: id:1000
//	  target: /var/www/html/
//	docker:
//	  host: unix:///var/run/docker.sock
//
// With enabled set to auto, file synchronization is used on macOS only, where
// bind mounts are too slow for PHP applications.
package config
