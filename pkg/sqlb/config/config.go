// Package config provides key/value configuration for sqlb programs, read
// from env files, the process environment or a flat YAML document.
package config

// Config is the read side shared by every provider.
type Config interface {
	Get(key string) string
	GetOrDefault(key, defaultValue string) string
}

type logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
}
