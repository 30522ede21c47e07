package annex

import (
	"os"

	"github.com/arthur-debert/annexfs/pkg/errors"
	"github.com/arthur-debert/annexfs/pkg/logging"
	"github.com/arthur-debert/annexfs/pkg/types"
)

// Delete removes the entry behind the link at path, then the link itself.
// If the entry cannot be removed it is locked again and the link is kept.
func (e *Engine) Delete(raw string) (*Result, error) {
	done := logging.LogOperationStart(e.logger, "delete")
	defer done()

	path, err := e.prepare(raw)
	if err != nil {
		return nil, err
	}
	entry, err := e.store.LocateByLink(path)
	if err != nil {
		return nil, err
	}
	removed := *entry

	deleted := false
	err = e.guard.Run("delete", func() error {
		if err := e.store.Unlock(entry); err != nil {
			return err
		}
		if err := e.store.Destroy(entry); err != nil {
			return e.keepEntry(entry, path, err)
		}
		deleted = true
		if err := e.fs.Remove(path); err != nil && !os.IsNotExist(err) {
			return errors.Wrapf(err, errors.ErrStorage, "entry %s deleted but link %s could not be removed", entry.ID, path)
		}
		return nil
	})
	if !deleted {
		return nil, err
	}

	e.logger.Info().Str("path", path).Str("id", removed.ID).Msg("Deleted entry")
	return &Result{Path: path, Entry: removed}, err
}

// keepEntry handles a failed Destroy: whatever is left of the entry is
// locked again and the link stays in place.
func (e *Engine) keepEntry(entry *types.Entry, path string, cause error) error {
	failure := errors.Wrapf(cause, errors.ErrStorage, "could not delete entry %s", entry.ID).
		WithDetail("link", path)

	if _, err := e.fs.Lstat(entry.Dir); err != nil {
		return failure
	}
	if err := e.store.Lock(entry); err != nil {
		return rollbackFailed(errors.Join(failure, err), entry.Payload,
			"entry %s could not be locked again", entry.ID)
	}
	return failure
}
