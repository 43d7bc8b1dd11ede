// Package confloader loads respkv configuration.
//
// It uses koanf to merge several sources into a typed struct. Priority,
// highest first:
//
//  1. Overrides (command-line flags), set with WithOverrides
//  2. Environment variables (RESPKV_SECTION_KEY)
//  3. Configuration file (YAML)
//  4. Values already present in the target struct (defaults)
//
// Watcher reports changes to the configuration file so a running process
// can reload the settings that may change at runtime.
package confloader
