// Package buildinfo exposes version information injected at build time.
package buildinfo
