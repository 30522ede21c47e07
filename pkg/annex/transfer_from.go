package annex

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/arthur-debert/annexfs/pkg/datastore"
	"github.com/arthur-debert/annexfs/pkg/errors"
	"github.com/arthur-debert/annexfs/pkg/guard"
	"github.com/arthur-debert/annexfs/pkg/logging"
	"github.com/arthur-debert/annexfs/pkg/paths"
	"github.com/arthur-debert/annexfs/pkg/transfer"
	"github.com/arthur-debert/annexfs/pkg/types"
)

// TransferFrom moves the file or directory at src into a new entry and
// replaces src with a link to it.
//
// The copy happens in the "stage" step: reserve, copy, verify. The source
// is only touched in the "commit" step, which locks the entry, moves the
// source aside, creates the link and removes the aside copy. Both steps run
// under one guard chain. A failure in either step restores the source and
// removes the entry.
func (e *Engine) TransferFrom(raw string) (*Result, error) {
	done := logging.LogOperationStart(e.logger, "transfer_from")
	defer done()

	src, err := e.prepare(raw)
	if err != nil {
		return nil, err
	}
	comp, err := e.checkSource(src)
	if err != nil {
		return nil, err
	}

	kind := types.PayloadDir
	if comp.IsFile() {
		kind = types.PayloadFile
	}
	logger := e.logger.With().Str("source", src).Str("kind", string(kind)).Logger()

	var (
		entry      *types.Entry
		size       int64
		staged     bool
		committing bool
		linked     bool
	)
	err = e.guard.Chain(
		guard.Step{Name: "stage", Body: func() error {
			var err error
			entry, err = e.store.Reserve(src, comp.Name())
			if err != nil {
				return err
			}
			if err := e.copyPayload(kind, src, entry.Payload); err != nil {
				return e.discard(entry, errors.Wrapf(err, transferCode(kind), "could not copy %s into the annex", src))
			}
			if size, err = e.verify(kind, src, entry.Payload); err != nil {
				return e.discard(entry, err)
			}
			entry.Kind = kind
			staged = true
			logger.Debug().Str("id", entry.ID).Int64("size", size).Msg("Staged payload")
			return nil
		}},
		guard.Step{Name: "commit", Body: func() error {
			committing = true
			var err error
			linked, err = e.commit(entry, src)
			return err
		}},
	)
	if !linked {
		if staged && !committing {
			// Interrupted after a clean stage: the source was never
			// touched, so dropping the copy restores the starting state.
			logger.Debug().Str("id", entry.ID).Msg("Interrupted after staging, discarding copy")
			return nil, e.discard(entry, err)
		}
		return nil, err
	}

	logger.Info().Str("id", entry.ID).Int64("size", size).Msg("Transferred into annex")
	return &Result{Path: src, Entry: *entry, Size: size}, err
}

// checkSource enforces the transfer_from preconditions and classifies src.
func (e *Engine) checkSource(src string) (paths.Components, error) {
	if _, err := e.fs.Lstat(src); err != nil {
		if os.IsNotExist(err) {
			return paths.Components{}, errors.Newf(errors.ErrNotFound, "%s does not exist", src)
		}
		return paths.Components{}, errors.Wrapf(err, errors.ErrStorage, "failed to inspect %s", src)
	}
	if datastore.IsOwnedLink(e.fs, e.root, src) {
		return paths.Components{}, errors.Newf(errors.ErrInvalidSource, "%s is already annexed", src)
	}

	parent, err := e.fs.EvalSymlinks(filepath.Dir(src))
	if err != nil {
		return paths.Components{}, errors.Wrapf(err, errors.ErrStorage, "failed to resolve %s", filepath.Dir(src))
	}
	canonical := filepath.Join(parent, filepath.Base(src))
	switch {
	case paths.IsWithin(e.root, canonical):
		return paths.Components{}, errors.Newf(errors.ErrInvalidSource, "%s is inside the annex root", src)
	case paths.IsWithin(canonical, e.root):
		return paths.Components{}, errors.Newf(errors.ErrInvalidSource, "%s contains the annex root", src)
	}

	return paths.Classify(e.fs, src)
}

// commit swaps src for a link to the staged entry and reports whether the
// link is in place. If the link cannot be made it restores src and discards
// the entry.
func (e *Engine) commit(entry *types.Entry, src string) (bool, error) {
	if err := e.store.Lock(entry); err != nil {
		return false, e.discard(entry, err)
	}

	aside := asidePath(src, entry.ID)
	if err := e.ops.Rename(src, aside); err != nil {
		return false, e.discard(entry, errors.Wrapf(err, errors.ErrStorage, "could not move %s aside", src))
	}

	if err := e.ops.Link(entry.Payload, src); err != nil {
		linkErr := errors.Wrapf(err, errors.ErrStorage, "could not link %s into the annex", src)
		if err := e.ops.Rename(aside, src); err != nil {
			// Both copies survive: the original under its aside name and
			// the locked entry.
			return false, rollbackFailed(errors.Join(linkErr, err), aside,
				"original content of %s left at %s", src, aside)
		}
		return false, e.discard(entry, linkErr)
	}

	if err := transfer.RemoveTree(e.fs, aside); err != nil {
		// The link and the locked entry are in place; only the leftover is
		// reported.
		return true, errors.Wrapf(err, errors.ErrStorage, "annexed %s but could not remove the original at %s", src, aside).
			WithDetail("aside", aside)
	}
	return true, nil
}

// asidePath is the hidden sibling src is renamed to while its link is
// created. Renaming within the parent keeps it on the same filesystem.
func asidePath(src, id string) string {
	return filepath.Join(filepath.Dir(src), fmt.Sprintf(".%s.annexfs-%s", filepath.Base(src), id))
}
