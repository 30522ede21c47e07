package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandom(t *testing.T) {
	src := Random()
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := src.Next("/home/u/notes")
		assert.Len(t, id, 32)
		assert.False(t, seen[id], "random ids must not repeat")
		seen[id] = true
	}
}

func TestPathHash(t *testing.T) {
	src := PathHash()

	a := src.Next("/home/u/notes")
	assert.Len(t, a, 32)
	assert.Equal(t, a, src.Next("/home/u/notes"), "same path gives the same id")
	assert.NotEqual(t, a, src.Next("/home/u/report.pdf"))
}

func TestSequence(t *testing.T) {
	src := Sequence("taken", "free")
	assert.Equal(t, "taken", src.Next(""))
	assert.Equal(t, "free", src.Next(""))
	assert.Equal(t, "free", src.Next(""), "the last id repeats")

	assert.Equal(t, "", Sequence().Next(""))
}

func TestForPolicy(t *testing.T) {
	tests := []struct {
		policy  string
		wantErr bool
	}{
		{"random", false},
		{"", false},
		{"PATH-HASH", false},
		{"md5", true},
	}

	for _, tt := range tests {
		t.Run(tt.policy, func(t *testing.T) {
			src, err := ForPolicy(tt.policy)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, src.Next("/x"))
		})
	}
}
