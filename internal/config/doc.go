// Package config loads the liveset configuration.
//
// Configuration is read from a TOML file and may be overridden by LIVESET_*
// environment variables:
//
//	log_level = "debug"
//	active = "cats"
//	debounce_ms = 150
//	diff = "myers"
//
//	[[sources]]
//	name = "cats"
//	path = "cats.yaml"
//	sort_by = "name"
//
//	[[sources]]
//	name = "indoor"
//	path = "cats.yaml"
//	sort_lua = "tonumber(a.age) < tonumber(b.age)"
//	filter_field = "indoor"
//	filter_value = "true"
//
// Relative source paths are resolved against the directory of the file.
package config
