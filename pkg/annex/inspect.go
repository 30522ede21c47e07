package annex

import (
	"fmt"
	"os"

	"github.com/arthur-debert/annexfs/pkg/errors"
	"github.com/arthur-debert/annexfs/pkg/transfer"
	"github.com/arthur-debert/annexfs/pkg/types"
)

// PathState classifies a user path for Status.
type PathState string

const (
	// PathAnnexed is an owned link whose entry exists.
	PathAnnexed PathState = "annexed"
	// PathBroken is an owned link whose entry directory is gone.
	PathBroken PathState = "broken"
	// PathExternal is anything at the path that annexfs does not own.
	PathExternal PathState = "external"
	// PathMissing means nothing exists at the path.
	PathMissing PathState = "missing"
)

// Status describes a user path.
type Status struct {
	Path  string       `json:"path" yaml:"path"`
	State PathState    `json:"state" yaml:"state"`
	Entry *types.Entry `json:"entry,omitempty" yaml:"entry,omitempty"`
	Size  int64        `json:"size" yaml:"size"`
}

// Listing is one entry as reported by List.
type Listing struct {
	Entry types.Entry `json:"entry" yaml:"entry"`
	Size  int64       `json:"size" yaml:"size"`
	// Stale entries are unlocked or do not hold exactly one payload. An
	// interrupted or crashed process can leave them behind.
	Stale   bool   `json:"stale" yaml:"stale"`
	Problem string `json:"problem,omitempty" yaml:"problem,omitempty"`
}

// Status reports what is at path from annexfs's point of view.
func (e *Engine) Status(raw string) (*Status, error) {
	path, err := e.prepare(raw)
	if err != nil {
		return nil, err
	}

	status := &Status{Path: path}
	entry, err := e.store.LocateByLink(path)
	switch {
	case err == nil:
		status.State = PathAnnexed
		status.Entry = entry
		if entry.Kind != types.PayloadMissing {
			if status.Size, err = transfer.Size(e.fs, entry.Payload); err != nil {
				return nil, errors.Wrapf(err, errors.ErrStorage, "failed to measure %s", entry.Payload)
			}
		}
	case errors.IsErrorCode(err, errors.ErrNotFound):
		if _, lerr := e.fs.Lstat(path); os.IsNotExist(lerr) {
			status.State = PathMissing
		} else {
			status.State = PathBroken
		}
	case errors.IsErrorCode(err, errors.ErrNotAnEntry):
		status.State = PathExternal
	default:
		return nil, err
	}
	return status, nil
}

// List returns every entry under the root in id order, flagging stale ones.
func (e *Engine) List() ([]Listing, error) {
	if err := e.checkRoot(); err != nil {
		return nil, err
	}
	records, err := e.store.List()
	if err != nil {
		return nil, err
	}

	listings := make([]Listing, 0, len(records))
	for _, rec := range records {
		l := Listing{Entry: rec.Entry}
		switch {
		case len(rec.Children) == 0:
			l.Problem = "empty"
		case len(rec.Children) > 1:
			l.Problem = fmt.Sprintf("holds %d children", len(rec.Children))
		case !rec.Entry.IsLocked():
			l.Problem = "unlocked"
		}
		l.Stale = l.Problem != ""

		if rec.Entry.Kind != types.PayloadMissing {
			size, err := transfer.Size(e.fs, rec.Entry.Payload)
			if err != nil {
				e.logger.Debug().Err(err).Str("id", rec.Entry.ID).Msg("Could not measure payload")
			}
			l.Size = size
		}
		listings = append(listings, l)
	}
	return listings, nil
}
