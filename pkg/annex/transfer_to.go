package annex

import (
	"os"

	"github.com/arthur-debert/annexfs/pkg/errors"
	"github.com/arthur-debert/annexfs/pkg/logging"
	"github.com/arthur-debert/annexfs/pkg/transfer"
	"github.com/arthur-debert/annexfs/pkg/types"
)

// TransferTo copies the payload of the entry behind the link at path back
// to path and removes the entry. If the copy fails the link is recreated
// and the entry is left intact.
func (e *Engine) TransferTo(raw string) (*Result, error) {
	done := logging.LogOperationStart(e.logger, "transfer_to")
	defer done()

	path, err := e.prepare(raw)
	if err != nil {
		return nil, err
	}
	entry, err := e.store.LocateByLink(path)
	if err != nil {
		return nil, err
	}
	if entry.Kind == types.PayloadMissing {
		return nil, errors.Newf(errors.ErrNotFound, "payload of entry %s is missing", entry.ID).
			WithDetail("payload", entry.Payload)
	}
	target, err := e.fs.Readlink(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrStorage, "failed to read link %s", path)
	}
	restored := *entry
	logger := e.logger.With().Str("path", path).Str("id", entry.ID).Logger()

	var (
		size   int64
		copied bool
	)
	err = e.guard.Run("restore", func() error {
		if err := e.fs.Remove(path); err != nil {
			return errors.Wrapf(err, errors.ErrStorage, "could not remove link %s", path)
		}

		if err := e.copyPayload(entry.Kind, entry.Payload, path); err != nil {
			return e.relink(entry, path, target,
				errors.Wrapf(err, transferCode(entry.Kind), "could not copy %s out of the annex", entry.Payload))
		}
		var err error
		if size, err = e.verify(entry.Kind, entry.Payload, path); err != nil {
			return e.relink(entry, path, target, err)
		}
		copied = true

		return e.release(entry, path)
	})
	if !copied {
		return nil, err
	}

	logger.Info().Int64("size", size).Msg("Transferred out of annex")
	return &Result{Path: path, Entry: restored, Size: size}, err
}

// relink undoes a failed copy-out: the partial copy at path is removed and
// the link recreated with its original target. The entry is not touched.
func (e *Engine) relink(entry *types.Entry, path, target string, cause error) error {
	if err := transfer.RemoveTree(e.fs, path); err != nil {
		return rollbackFailed(errors.Join(cause, err), entry.Payload,
			"could not remove partial copy at %s", path)
	}
	if err := e.ops.Link(target, path); err != nil {
		return rollbackFailed(errors.Join(cause, err), entry.Payload,
			"could not recreate link %s", path)
	}
	e.logger.Debug().Str("path", path).Str("id", entry.ID).Msg("Recreated link after failed copy")
	return cause
}

// release removes an entry whose payload has been copied out. On failure
// the entry is locked again so both copies survive.
func (e *Engine) release(entry *types.Entry, path string) error {
	err := e.store.Unlock(entry)
	if err == nil {
		if err = e.store.Destroy(entry); err == nil {
			return nil
		}
	}

	failure := errors.Wrapf(err, errors.ErrStorage, "restored %s but could not remove entry %s", path, entry.ID).
		WithDetail("payload", entry.Payload).
		WithDetail("restored", path)
	if entry.IsLocked() {
		return failure
	}
	if _, statErr := e.fs.Lstat(entry.Dir); os.IsNotExist(statErr) {
		return failure
	}
	if lockErr := e.store.Lock(entry); lockErr != nil {
		return errors.Join(failure, lockErr)
	}
	return failure
}
