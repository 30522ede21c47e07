package datastore

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/annexfs/pkg/errors"
	"github.com/arthur-debert/annexfs/pkg/identity"
	"github.com/arthur-debert/annexfs/pkg/logging"
	"github.com/arthur-debert/annexfs/pkg/paths"
	"github.com/arthur-debert/annexfs/pkg/transfer"
	"github.com/arthur-debert/annexfs/pkg/types"
	"github.com/rs/zerolog"
)

const (
	// UnlockedMode is the enclosing directory mode while an entry is built
	// or torn down.
	UnlockedMode fs.FileMode = 0755
	// LockedMode is the enclosing directory mode of a committed entry.
	LockedMode fs.FileMode = 0555

	// DefaultReserveAttempts bounds the collision-retry loop in Reserve.
	DefaultReserveAttempts = 64
)

// Options configures a filesystem DataStore.
type Options struct {
	// Root is the canonical annex root.
	Root string
	FS   types.FS
	IDs  identity.Source
	// ReserveAttempts defaults to DefaultReserveAttempts.
	ReserveAttempts int
}

type filesystemDataStore struct {
	root     string
	fs       types.FS
	ids      identity.Source
	attempts int
	logger   zerolog.Logger
}

// New creates a new DataStore instance that interacts with the filesystem.
func New(opts Options) DataStore {
	attempts := opts.ReserveAttempts
	if attempts <= 0 {
		attempts = DefaultReserveAttempts
	}
	ids := opts.IDs
	if ids == nil {
		ids = identity.Random()
	}
	return &filesystemDataStore{
		root:     filepath.Clean(opts.Root),
		fs:       opts.FS,
		ids:      ids,
		attempts: attempts,
		logger:   logging.GetLogger("datastore"),
	}
}

func (s *filesystemDataStore) Root() string {
	return s.root
}

// Reserve asks the identifier source for candidates until one names a
// directory that does not exist yet. Mkdir is the existence check, so two
// reservations can never share a directory.
func (s *filesystemDataStore) Reserve(hint, basename string) (*types.Entry, error) {
	if err := validateName(basename); err != nil {
		return nil, errors.Wrapf(err, errors.ErrInvalidInput, "invalid payload name %q", basename)
	}

	tried := make(map[string]bool)
	for attempt := 0; attempt < s.attempts; attempt++ {
		id := s.ids.Next(hint)
		if err := validateName(id); err != nil {
			return nil, errors.Wrapf(err, errors.ErrStorage, "identifier source produced an invalid id %q", id)
		}
		if tried[id] {
			// The source keeps offering an occupied id: it cannot produce
			// another candidate for this hint.
			return nil, errors.Newf(errors.ErrAlreadyExists, "annexfs has already stored %s", hint).
				WithDetail("id", id)
		}
		tried[id] = true

		dir := filepath.Join(s.root, id)
		err := s.fs.Mkdir(dir, UnlockedMode)
		if err == nil {
			s.logger.Debug().
				Str("id", id).
				Str("payload", basename).
				Int("attempt", attempt+1).
				Msg("Reserved entry")
			return &types.Entry{
				ID:      id,
				Dir:     dir,
				Payload: filepath.Join(dir, basename),
				Kind:    types.PayloadMissing,
				State:   types.Unlocked,
			}, nil
		}
		if os.IsExist(err) {
			s.logger.Debug().Str("id", id).Msg("Entry id collision, retrying")
			continue
		}
		return nil, errors.Wrapf(err, errors.ErrStorage, "could not create entry directory %s", dir)
	}

	return nil, errors.Newf(errors.ErrStorage, "no free entry identifier after %d attempts", s.attempts)
}

func (s *filesystemDataStore) Lock(entry *types.Entry) error {
	if err := s.fs.Chmod(entry.Dir, LockedMode); err != nil {
		return errors.Wrapf(err, errors.ErrStorage, "could not lock entry %s", entry.ID)
	}
	entry.State = types.Locked
	return nil
}

func (s *filesystemDataStore) Unlock(entry *types.Entry) error {
	if err := s.fs.Chmod(entry.Dir, UnlockedMode); err != nil {
		return errors.Wrapf(err, errors.ErrStorage, "could not unlock entry %s", entry.ID)
	}
	entry.State = types.Unlocked
	return nil
}

// Destroy removes the entry directory, restoring write permission on
// read-only descendants if the first attempt is blocked.
func (s *filesystemDataStore) Destroy(entry *types.Entry) error {
	if entry.State == types.Locked {
		return errors.Newf(errors.ErrStorage, "entry %s is locked", entry.ID)
	}
	if filepath.Dir(entry.Dir) != s.root || entry.ID == "" {
		return errors.Newf(errors.ErrInternal, "refusing to destroy %s: not an entry directory", entry.Dir)
	}

	if err := transfer.RemoveTree(s.fs, entry.Dir); err != nil {
		return errors.Wrapf(err, errors.ErrStorage, "could not delete entry %s", entry.ID).
			WithDetail("dir", entry.Dir)
	}

	entry.Kind = types.PayloadMissing
	s.logger.Debug().Str("id", entry.ID).Msg("Destroyed entry")
	return nil
}

func (s *filesystemDataStore) Discard(entry *types.Entry) error {
	if entry.State == types.Locked {
		if err := s.Unlock(entry); err != nil {
			return err
		}
	}
	return s.Destroy(entry)
}

// LocateByLink follows linkPath one level. Following further would leave
// the root when the payload is itself a symlink.
func (s *filesystemDataStore) LocateByLink(linkPath string) (*types.Entry, error) {
	info, err := s.fs.Lstat(linkPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Newf(errors.ErrNotFound, "link path %s does not exist", linkPath)
		}
		return nil, errors.Wrapf(err, errors.ErrStorage, "failed to inspect %s", linkPath)
	}
	if info.Mode()&fs.ModeSymlink == 0 {
		return nil, errors.Newf(errors.ErrNotAnEntry, "%s is not an annexfs link", linkPath)
	}

	target, err := s.fs.Readlink(linkPath)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrStorage, "failed to read link %s", linkPath)
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(filepath.Dir(linkPath), target)
	}
	target = filepath.Clean(target)

	enclosing, err := s.fs.EvalSymlinks(filepath.Dir(target))
	if err != nil {
		if os.IsNotExist(err) && s.isEntryDir(filepath.Dir(target)) {
			return nil, errors.Newf(errors.ErrNotFound, "annexfs has not stored %s", linkPath).
				WithDetail("target", target)
		}
		return nil, errors.Newf(errors.ErrNotAnEntry, "%s is not an annexfs link", linkPath).
			WithDetail("target", target)
	}
	if !s.isEntryDir(enclosing) {
		return nil, errors.Newf(errors.ErrNotAnEntry, "%s is not an annexfs link", linkPath).
			WithDetail("target", target)
	}

	return s.entryAt(enclosing, filepath.Join(enclosing, filepath.Base(target)))
}

// isEntryDir reports whether dir is a direct child of the root.
func (s *filesystemDataStore) isEntryDir(dir string) bool {
	return dir != s.root && filepath.Dir(dir) == s.root
}

func (s *filesystemDataStore) entryAt(dir, payload string) (*types.Entry, error) {
	dirInfo, err := s.fs.Lstat(dir)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrStorage, "failed to inspect entry %s", dir)
	}

	entry := &types.Entry{
		ID:      filepath.Base(dir),
		Dir:     dir,
		Payload: payload,
		State:   stateOf(dirInfo),
	}

	payloadInfo, err := s.fs.Lstat(payload)
	switch {
	case err == nil && payloadInfo.IsDir():
		entry.Kind = types.PayloadDir
	case err == nil:
		entry.Kind = types.PayloadFile
	case os.IsNotExist(err):
		entry.Kind = types.PayloadMissing
	default:
		return nil, errors.Wrapf(err, errors.ErrStorage, "failed to inspect payload %s", payload)
	}

	return entry, nil
}

func (s *filesystemDataStore) List() ([]Record, error) {
	children, err := s.fs.ReadDir(s.root)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrStorage, "failed to read annex root %s", s.root)
	}

	records := []Record{}
	for _, child := range children {
		if !child.IsDir() {
			continue
		}
		dir := filepath.Join(s.root, child.Name())

		contents, err := s.fs.ReadDir(dir)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrStorage, "failed to read entry %s", dir)
		}
		names := make([]string, 0, len(contents))
		for _, c := range contents {
			names = append(names, c.Name())
		}

		payload := ""
		if len(names) > 0 {
			payload = filepath.Join(dir, names[0])
		}
		entry, err := s.entryAt(dir, payload)
		if err != nil {
			return nil, err
		}
		if payload == "" {
			entry.Payload = ""
		}
		records = append(records, Record{Entry: *entry, Children: names})
	}

	return records, nil
}

func stateOf(info fs.FileInfo) types.LockState {
	if info.Mode().Perm()&0200 == 0 {
		return types.Locked
	}
	return types.Unlocked
}

func validateName(name string) error {
	switch {
	case name == "", name == ".", name == "..":
		return errors.New(errors.ErrInvalidInput, "name is empty or reserved")
	case strings.ContainsAny(name, `/\`):
		return errors.New(errors.ErrInvalidInput, "name contains a path separator")
	case strings.Contains(name, "\x00"):
		return errors.New(errors.ErrInvalidInput, "name contains null bytes")
	}
	return nil
}

// IsOwnedLink reports whether path is a link into root, without building the
// entry. Used to refuse annexing content that is already annexed.
func IsOwnedLink(fsys types.FS, root, path string) bool {
	info, err := fsys.Lstat(path)
	if err != nil || info.Mode()&fs.ModeSymlink == 0 {
		return false
	}
	target, err := fsys.Readlink(path)
	if err != nil {
		return false
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(filepath.Dir(path), target)
	}
	target = filepath.Clean(target)
	if enclosing, err := fsys.EvalSymlinks(filepath.Dir(target)); err == nil {
		target = filepath.Join(enclosing, filepath.Base(target))
	}
	return paths.IsWithin(root, target) && filepath.Clean(target) != root
}
