// Package confloader loads configuration with koanf.
//
// Sources are layered, later ones overriding earlier ones:
//
//  1. Defaults (a map, usually derived from the default config struct)
//  2. A YAML file
//  3. Environment variables with the configured prefix
//
// Environment keys drop the prefix, are lower-cased, and use a double
// underscore for nesting, so SHARDMAP_POLICY__MAX_FILL_RATIO sets
// policy.max_fill_ratio while single underscores stay part of the key name.
//
// Watcher reports writes to a configuration file through fsnotify so callers
// can reload it.
package confloader
