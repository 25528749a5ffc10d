package git

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrel-tools/vcsview/internal/vcs"
)

func TestParseFileStatus(t *testing.T) {
	cases := []struct {
		in   string
		want vcs.FileStatus
	}{
		{"M ", vcs.Modified},
		{"A ", vcs.Added},
		{"D ", vcs.Deleted},
		{"R ", vcs.Renamed},
		{"??", vcs.Untracked},
		{"C ", vcs.Copied},
		{"U ", vcs.Unmerged},
		{"  ", vcs.Clean},
	}
	for _, c := range cases {
		got, err := parseFileStatus(c.in)
		require.NoError(t, err, c.in)
		assert.Equal(t, c.want, got, c.in)
	}
}

func TestParseFileStatus_Empty(t *testing.T) {
	_, err := parseFileStatus("")
	assert.Error(t, err)
}

func TestParseFileStatus_Unknown(t *testing.T) {
	_, err := parseFileStatus("Z ")
	assert.Error(t, err)
}

func TestSplitLines(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, splitLines("a\nb\nc\n"))
	assert.Equal(t, []string{"a", "b", "c"}, splitLines("a\nb\nc"))
	assert.Nil(t, splitLines(""))
	assert.Nil(t, splitLines("\n"))
	assert.Equal(t, []string{"a"}, splitLines("a\n"))
}
