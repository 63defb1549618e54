package fix_test

import (
	"strings"
	"testing"

	"github.com/bluekeyes/go-gitdiff/gitdiff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/rbfix/pkg/fix"
)

func TestGenerateDiff_NoChanges(t *testing.T) {
	t.Parallel()

	assert.Nil(t, fix.GenerateDiff("a.rb", nil, nil))
	assert.Nil(t, fix.GenerateDiff("a.rb", []byte("x\n"), []byte("x\n")))

	var diff *fix.Diff
	assert.False(t, diff.HasChanges())
	assert.Empty(t, diff.String())
	assert.Empty(t, diff.FullString())
}

func TestGenerateDiff_Format(t *testing.T) {
	t.Parallel()

	original := "def foo\n  x  = 1\nend\n"
	modified := "def foo\n  x = 1\nend\n"

	diff := fix.GenerateDiff("lib/foo.rb", []byte(original), []byte(modified))
	require.NotNil(t, diff)

	assert.Equal(t, 1, diff.Additions)
	assert.Equal(t, 1, diff.Deletions)
	assert.Equal(t, "diff --git a/lib/foo.rb b/lib/foo.rb", diff.GitHeader())
	assert.Equal(t, "--- a/lib/foo.rb\n+++ b/lib/foo.rb\n"+
		"@@ -1,3 +1,3 @@\n"+
		" def foo\n"+
		"-  x  = 1\n"+
		"+  x = 1\n"+
		" end\n", diff.String())
}

func TestGenerateDiff_HunkSplitting(t *testing.T) {
	t.Parallel()

	lines := make([]string, 20)
	for idx := range lines {
		lines[idx] = strings.Repeat("x", idx+1)
	}
	original := strings.Join(lines, "\n") + "\n"

	changed := append([]string(nil), lines...)
	changed[1] = "first"
	changed[18] = "second"
	modified := strings.Join(changed, "\n") + "\n"

	diff := fix.GenerateDiff("a.rb", []byte(original), []byte(modified))
	require.NotNil(t, diff)
	require.Len(t, diff.Hunks, 2)

	assert.Equal(t, 1, diff.Hunks[0].OriginalStart)
	assert.Equal(t, 5, diff.Hunks[0].OriginalCount)
	assert.Equal(t, 16, diff.Hunks[1].OriginalStart)
	assert.Equal(t, 5, diff.Hunks[1].OriginalCount)

	changed[8] = "bridge"
	changed[13] = "bridge"
	modified = strings.Join(changed, "\n") + "\n"
	diff = fix.GenerateDiff("a.rb", []byte(original), []byte(modified))
	require.NotNil(t, diff)
	assert.Len(t, diff.Hunks, 1)
}

// The unified output must be readable by an independent diff parser, with
// hunk headers and line operations that agree with the hunks.
func TestGenerateDiff_ParsesAsGitDiff(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		original string
		modified string
	}{
		{name: "change", original: "a\nb\nc\n", modified: "a\nB\nc\n"},
		{name: "append", original: "a\nb\n", modified: "a\nb\nc\n"},
		{name: "remove", original: "a\nb\nc\n", modified: "a\nc\n"},
		{name: "new content", original: "", modified: "puts 1\n"},
		{name: "cleared", original: "puts 1\n", modified: ""},
		{
			name:     "scattered",
			original: "1\n2\n3\n4\n5\n6\n7\n8\n9\n10\n11\n12\n",
			modified: "one\n2\n3\n4\n5\n6\n7\n8\n9\n10\n11\ntwelve\n",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			diff := fix.GenerateDiff("x.rb", []byte(testCase.original), []byte(testCase.modified))
			require.NotNil(t, diff)

			files, _, err := gitdiff.Parse(strings.NewReader(diff.FullString()))
			require.NoError(t, err)
			require.Len(t, files, 1)
			require.Len(t, files[0].TextFragments, len(diff.Hunks))

			var adds, deletes int
			for idx, frag := range files[0].TextFragments {
				hunk := diff.Hunks[idx]
				assert.Equal(t, int64(hunk.OriginalCount), frag.OldLines)
				assert.Equal(t, int64(hunk.ModifiedCount), frag.NewLines)
				assert.Equal(t, int64(hunk.OriginalStart), frag.OldPosition)
				assert.Equal(t, int64(hunk.ModifiedStart), frag.NewPosition)

				for _, line := range frag.Lines {
					switch line.Op {
					case gitdiff.OpAdd:
						adds++
					case gitdiff.OpDelete:
						deletes++
					case gitdiff.OpContext:
					}
				}
			}
			assert.Equal(t, diff.Additions, adds)
			assert.Equal(t, diff.Deletions, deletes)
		})
	}
}
