// Package config defines the stripemap-bench tool configuration.
package config
