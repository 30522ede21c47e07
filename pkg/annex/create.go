package annex

import (
	"os"
	"path/filepath"

	"github.com/arthur-debert/annexfs/pkg/datastore"
	"github.com/arthur-debert/annexfs/pkg/errors"
	"github.com/arthur-debert/annexfs/pkg/logging"
	"github.com/arthur-debert/annexfs/pkg/paths"
	"github.com/arthur-debert/annexfs/pkg/types"
)

// Create makes a new empty directory entry and links path to it. path must
// not exist and its parent must be an existing directory.
func (e *Engine) Create(raw string) (*Result, error) {
	done := logging.LogOperationStart(e.logger, "create")
	defer done()

	path, err := e.prepare(raw)
	if err != nil {
		return nil, err
	}
	if err := e.checkNewPath(path); err != nil {
		return nil, err
	}

	var entry *types.Entry
	err = e.guard.Run("create", func() error {
		var err error
		entry, err = e.store.Reserve(path, filepath.Base(path))
		if err != nil {
			return errors.Wrap(err, errors.ErrStorage, "could not create new entry")
		}
		if err := e.populateEmpty(entry, path); err != nil {
			return e.discard(entry, errors.Wrap(err, errors.ErrStorage, "could not create new entry"))
		}
		return nil
	})
	if entry == nil || entry.Kind != types.PayloadDir {
		return nil, err
	}

	e.logger.Info().Str("path", path).Str("id", entry.ID).Msg("Created entry")
	// A deferred interrupt still reports the completed entry.
	return &Result{Path: path, Entry: *entry}, err
}

// populateEmpty makes the empty payload directory, locks the entry and
// links path to the payload.
func (e *Engine) populateEmpty(entry *types.Entry, path string) error {
	if err := e.fs.Mkdir(entry.Payload, datastore.UnlockedMode); err != nil {
		return err
	}
	if err := e.store.Lock(entry); err != nil {
		return err
	}
	if err := e.ops.Link(entry.Payload, path); err != nil {
		return err
	}
	entry.Kind = types.PayloadDir
	return nil
}

// checkNewPath requires path to be free, under an existing directory, and
// outside the annex root.
func (e *Engine) checkNewPath(path string) error {
	parent := filepath.Dir(path)
	info, err := e.fs.Stat(parent)
	if err != nil || !info.IsDir() {
		return errors.Newf(errors.ErrNotFound, "parent directory %s does not exist", parent)
	}

	if _, err := e.fs.Lstat(path); err == nil {
		return errors.Newf(errors.ErrAlreadyExists, "%s already exists", path)
	} else if !os.IsNotExist(err) {
		return errors.Wrapf(err, errors.ErrStorage, "failed to inspect %s", path)
	}

	canonical, err := e.fs.EvalSymlinks(parent)
	if err != nil {
		return errors.Wrapf(err, errors.ErrStorage, "failed to resolve %s", parent)
	}
	if paths.IsWithin(e.root, canonical) {
		return errors.Newf(errors.ErrInvalidInput, "%s is inside the annex root", path)
	}
	return nil
}
