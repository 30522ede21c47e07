// Package config handles configuration management for annexfs.
//
// Configuration is layered with koanf, later layers overriding earlier ones:
//
//  1. the embedded defaults (embedded/defaults.yaml)
//  2. a config file: the --config flag, else $ANNEXFS_CONFIG, else the first
//     of annexfs/config.yaml, config.yml or config.toml found in the XDG
//     config directories; YAML or TOML by extension
//  3. ANNEXFS_ROOT, ANNEXFS_ID_POLICY and ANNEXFS_RESERVE_ATTEMPTS
//  4. overrides from command-line flags
//
// Load returns the merged Config; Validate checks it and canonicalises the
// annex root. Both report failures as CONFIG_LOAD or CONFIG_INVALID errors,
// which the command line treats as fatal.
package config
