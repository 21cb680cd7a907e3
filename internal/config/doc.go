// Package config loads ghostmark configuration from local and global YAML
// files and defines Options, the bundle every inspection receives. It is
// internal; CLI code maps flags, files and persisted state into Options.
package config
