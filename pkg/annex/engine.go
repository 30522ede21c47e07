package annex

import (
	"path/filepath"

	"github.com/arthur-debert/annexfs/pkg/datastore"
	"github.com/arthur-debert/annexfs/pkg/errors"
	"github.com/arthur-debert/annexfs/pkg/filesystem"
	"github.com/arthur-debert/annexfs/pkg/guard"
	"github.com/arthur-debert/annexfs/pkg/identity"
	"github.com/arthur-debert/annexfs/pkg/logging"
	"github.com/arthur-debert/annexfs/pkg/paths"
	"github.com/arthur-debert/annexfs/pkg/transfer"
	"github.com/arthur-debert/annexfs/pkg/types"
	"github.com/rs/zerolog"
)

// Options configures an Engine. Only Root is required.
type Options struct {
	// Root is the validated, canonical annex root.
	Root string

	FS              types.FS
	IDs             identity.Source
	Copier          transfer.Copier
	Guard           guard.Runner
	ReserveAttempts int
}

// Engine runs annexfs operations against one annex root.
type Engine struct {
	root   string
	fs     types.FS
	store  datastore.DataStore
	ops    *transfer.Ops
	copier transfer.Copier
	guard  guard.Runner
	logger zerolog.Logger
}

// Result describes a completed mutation.
type Result struct {
	// Path is the user-visible path the operation acted on.
	Path string `json:"path" yaml:"path"`
	// Entry is the entry created, or the entry that was removed.
	Entry types.Entry `json:"entry" yaml:"entry"`
	// Size is the verified payload size for transfers.
	Size int64 `json:"size" yaml:"size"`
}

// New builds an Engine, filling unset options with the production
// implementations.
func New(opts Options) *Engine {
	fsys := opts.FS
	if fsys == nil {
		fsys = filesystem.NewOS()
	}
	copier := opts.Copier
	if copier == nil {
		copier = transfer.NewCopier(fsys)
	}
	runner := opts.Guard
	if runner == nil {
		runner = guard.New()
	}
	root := opts.Root
	if root != "" {
		root = filepath.Clean(root)
	}

	return &Engine{
		root: root,
		fs:   fsys,
		store: datastore.New(datastore.Options{
			Root:            root,
			FS:              fsys,
			IDs:             opts.IDs,
			ReserveAttempts: opts.ReserveAttempts,
		}),
		ops:    transfer.NewOps(fsys),
		copier: copier,
		guard:  runner,
		logger: logging.GetLogger("annex"),
	}
}

// Root returns the annex root the engine operates on.
func (e *Engine) Root() string {
	return e.root
}

// checkRoot runs at the top of every operation. A bad root is a
// configuration error, never a per-operation one.
func (e *Engine) checkRoot() error {
	if e.root == "" {
		return errors.New(errors.ErrConfigInvalid, "annex root is not configured")
	}
	info, err := e.fs.Stat(e.root)
	if err != nil {
		return errors.Wrapf(err, errors.ErrConfigInvalid, "annex root %s is not accessible", e.root)
	}
	if !info.IsDir() {
		return errors.Newf(errors.ErrConfigInvalid, "annex root %s is not a directory", e.root)
	}
	return nil
}

// prepare validates the root and resolves the user's path.
func (e *Engine) prepare(raw string) (string, error) {
	if err := e.checkRoot(); err != nil {
		return "", err
	}
	return paths.Resolve(raw)
}

// discard removes an entry as part of a rollback. cause is returned
// unchanged when the entry is gone; otherwise the result is a
// ROLLBACK_FAILED error naming the payload left behind.
func (e *Engine) discard(entry *types.Entry, cause error) error {
	if err := e.store.Discard(entry); err != nil {
		e.logger.Error().Err(err).Str("id", entry.ID).Msg("Rollback could not remove entry")
		return rollbackFailed(errors.Join(cause, err), entry.Payload,
			"could not remove entry %s while rolling back", entry.ID)
	}
	e.logger.Debug().Str("id", entry.ID).Msg("Rolled back entry")
	return cause
}

// transferCode picks the error code for a file or directory transfer.
func transferCode(kind types.PayloadKind) errors.ErrorCode {
	if kind == types.PayloadDir {
		return errors.ErrDirTransfer
	}
	return errors.ErrFileTransfer
}

// copyPayload copies src to dst as a single file or a whole tree.
func (e *Engine) copyPayload(kind types.PayloadKind, src, dst string) error {
	if kind == types.PayloadDir {
		return e.copier.CopyTree(src, dst)
	}
	return e.copier.CopyFile(src, dst)
}

// verify compares the sizes of src and dst and turns a mismatch into a
// transfer error.
func (e *Engine) verify(kind types.PayloadKind, src, dst string) (int64, error) {
	srcSize, dstSize, ok, err := transfer.Verify(e.fs, src, dst)
	if err != nil {
		return 0, errors.Wrapf(err, transferCode(kind), "could not measure %s after copying", src)
	}
	if !ok {
		return 0, errors.Newf(transferCode(kind), "size mismatch copying %s: %d bytes, copy has %d", src, srcSize, dstSize).
			WithDetail("source_size", srcSize).
			WithDetail("copy_size", dstSize)
	}
	return srcSize, nil
}

func rollbackFailed(err error, survivor, format string, args ...interface{}) error {
	return errors.Wrapf(err, errors.ErrRollbackFailed, format, args...).
		WithDetail("payload", survivor)
}
