// Package config provides the process configuration.
package config
