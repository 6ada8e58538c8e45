// Package confloader loads tool configuration from layered sources.
//
// It uses Koanf with priority: Env > File > Default. A companion
// fsnotify watcher lets long soak runs pick up config edits live.
package confloader
