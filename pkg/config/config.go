package config

import (
	"os"
	"path/filepath"

	"github.com/arthur-debert/annexfs/pkg/errors"
	"github.com/arthur-debert/annexfs/pkg/identity"
	"github.com/arthur-debert/annexfs/pkg/paths"
	"github.com/pelletier/go-toml/v2"
)

// Config is the effective annexfs configuration. It is immutable once
// validated.
type Config struct {
	Root            string `koanf:"root" toml:"root"`
	IDPolicy        string `koanf:"id_policy" toml:"id_policy"`
	ReserveAttempts int    `koanf:"reserve_attempts" toml:"reserve_attempts"`

	// Source is the config file that was loaded, empty if none was found.
	Source string `koanf:"-" toml:"-"`
}

// Validate checks the configuration and replaces Root with its canonical
// form: home expanded, symlinks resolved.
func (c *Config) Validate() error {
	if c.Root == "" {
		return errors.New(errors.ErrConfigInvalid,
			"annex root is not configured (set root in the config file, ANNEXFS_ROOT or --root)")
	}

	root := paths.ExpandHome(c.Root)
	if !filepath.IsAbs(root) {
		return errors.Newf(errors.ErrConfigInvalid, "annex root %s is not an absolute path", c.Root)
	}
	info, err := os.Stat(root)
	if err != nil {
		return errors.Wrapf(err, errors.ErrConfigInvalid, "annex root %s does not exist", c.Root)
	}
	if !info.IsDir() {
		return errors.Newf(errors.ErrConfigInvalid, "annex root %s is not a directory", c.Root)
	}
	canonical, err := filepath.EvalSymlinks(root)
	if err != nil {
		return errors.Wrapf(err, errors.ErrConfigInvalid, "failed to resolve annex root %s", c.Root)
	}

	if _, err := identity.ForPolicy(c.IDPolicy); err != nil {
		return errors.Wrap(err, errors.ErrConfigInvalid, "invalid id_policy")
	}
	if c.ReserveAttempts < 1 {
		return errors.Newf(errors.ErrConfigInvalid, "reserve_attempts must be at least 1, got %d", c.ReserveAttempts)
	}

	c.Root = canonical
	return nil
}

// IDSource returns the identifier source named by IDPolicy.
func (c *Config) IDSource() (identity.Source, error) {
	src, err := identity.ForPolicy(c.IDPolicy)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigInvalid, "invalid id_policy")
	}
	return src, nil
}

// TOML renders the configuration as a TOML document.
func (c *Config) TOML() (string, error) {
	out, err := toml.Marshal(c)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "failed to render configuration")
	}
	return string(out), nil
}
