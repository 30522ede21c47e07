// Package identity supplies candidate identifiers for annexfs entries.
//
// A Source is asked for a candidate each time the store needs a new entry
// directory. Candidates are not required to be unique: the store retries on
// collision. Two policies are provided. Random produces a fresh UUID on every
// call, so the same path can be annexed many times over its life. PathHash
// derives the identifier from the absolute source path, so annexing a path
// that is already stored collides and is refused.
package identity

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/zeebo/blake3"
)

// Policy names accepted in configuration.
const (
	PolicyRandom   = "random"
	PolicyPathHash = "path-hash"
)

// Source produces candidate entry identifiers. hint is the absolute path of
// the content being annexed; sources are free to ignore it.
type Source interface {
	Next(hint string) string
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(hint string) string

// Next calls f(hint).
func (f SourceFunc) Next(hint string) string {
	return f(hint)
}

// Random returns a source of random UUIDv4 identifiers in hex form.
func Random() Source {
	return SourceFunc(func(string) string {
		u := uuid.New()
		return hex.EncodeToString(u[:])
	})
}

// PathHash returns a source that derives the identifier from the hint with
// a 128-bit blake3 digest.
func PathHash() Source {
	return SourceFunc(func(hint string) string {
		sum := blake3.Sum256([]byte(hint))
		return hex.EncodeToString(sum[:16])
	})
}

// Sequence returns a source that yields ids in order and then repeats the
// last one. It exists for tests and deterministic tooling.
func Sequence(ids ...string) Source {
	i := 0
	return SourceFunc(func(string) string {
		if len(ids) == 0 {
			return ""
		}
		id := ids[i]
		if i < len(ids)-1 {
			i++
		}
		return id
	})
}

// ForPolicy returns the source named by policy.
func ForPolicy(policy string) (Source, error) {
	switch strings.ToLower(policy) {
	case PolicyRandom, "":
		return Random(), nil
	case PolicyPathHash:
		return PathHash(), nil
	default:
		return nil, fmt.Errorf("unknown id policy %q (want %s or %s)", policy, PolicyRandom, PolicyPathHash)
	}
}
