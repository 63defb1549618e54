package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/rbfix/internal/testkit"
)

func TestSpaceBeforeCommentRule(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		wantDiags int
		wantFix   string
	}{
		{
			name:      "comment glued to code",
			input:     "foo(1)# note\n",
			wantDiags: 1,
			wantFix:   "foo(1) # note\n",
		},
		{
			name:      "comment after identifier",
			input:     "x = y# note\nz = 1#\n",
			wantDiags: 2,
			wantFix:   "x = y # note\nz = 1 #\n",
		},
		{
			name:      "separated comment",
			input:     "foo(1) # note\n",
			wantDiags: 0,
			wantFix:   "foo(1) # note\n",
		},
		{
			name:      "own-line comment",
			input:     "# note\nfoo\n",
			wantDiags: 0,
			wantFix:   "# note\nfoo\n",
		},
		{
			name:      "document comment",
			input:     "=begin\nnote\n=end\n",
			wantDiags: 0,
			wantFix:   "=begin\nnote\n=end\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rule := NewSpaceBeforeCommentRule()
			src := testkit.New(t, tt.input)

			diags := applyRule(t, rule, src, nil, nil)
			require.Len(t, diags, tt.wantDiags)
			for _, diag := range diags {
				assert.Equal(t, "Put a space before an end-of-line comment.", diag.Message)
			}

			fixed := correct(t, src.Buf, diags)
			assert.Equal(t, tt.wantFix, fixed)
			assert.Empty(t, applyRule(t, rule, testkit.New(t, fixed), nil, nil))
		})
	}
}

func TestEmptyCommentRule(t *testing.T) {
	t.Parallel()

	noBorder := map[string]any{"allow_border_comment": false}
	noMargin := map[string]any{"allow_margin_comment": false}

	tests := []struct {
		name      string
		input     string
		opts      map[string]any
		wantDiags int
		wantFix   string
	}{
		{
			name:      "own-line empty comment",
			input:     "#\nx = 1\n",
			wantDiags: 1,
			wantFix:   "x = 1\n",
		},
		{
			name:      "end-of-line empty comment",
			input:     "x = 1 #\n",
			wantDiags: 1,
			wantFix:   "x = 1\n",
		},
		{
			name:      "indented empty comment",
			input:     "def foo\n  #\n  bar\nend\n",
			wantDiags: 1,
			wantFix:   "def foo\n  bar\nend\n",
		},
		{
			name:      "comment with text",
			input:     "# text\nx = 1\n",
			wantDiags: 0,
			wantFix:   "# text\nx = 1\n",
		},
		{
			name:      "margin comments",
			input:     "#\n# text\n#\nx = 1\n",
			wantDiags: 0,
			wantFix:   "#\n# text\n#\nx = 1\n",
		},
		{
			name:      "margin comments disallowed",
			input:     "#\n# text\n#\nx = 1\n",
			opts:      noMargin,
			wantDiags: 2,
			wantFix:   "# text\nx = 1\n",
		},
		{
			name:      "separate groups",
			input:     "#\nx = 1\n# text\n",
			wantDiags: 1,
			wantFix:   "x = 1\n# text\n",
		},
		{
			name:      "border comment",
			input:     "#####\nx = 1\n",
			wantDiags: 0,
			wantFix:   "#####\nx = 1\n",
		},
		{
			name:      "border comment disallowed",
			input:     "#####\nx = 1\n",
			opts:      noBorder,
			wantDiags: 1,
			wantFix:   "x = 1\n",
		},
		{
			// Touching whole-line removals conflict; the next pass
			// removes the second line.
			name:      "consecutive empty comments",
			input:     "#\n#\nx = 1\n",
			wantDiags: 2,
			wantFix:   "#\nx = 1\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rule := NewEmptyCommentRule()
			src := testkit.New(t, tt.input)

			diags := applyRule(t, rule, src, nil, tt.opts)
			require.Len(t, diags, tt.wantDiags)
			for _, diag := range diags {
				assert.Equal(t, "Source code comment is empty.", diag.Message)
			}

			assert.Equal(t, tt.wantFix, correct(t, src.Buf, diags))
		})
	}
}

func TestEmptyCommentRule_Converges(t *testing.T) {
	t.Parallel()

	rule := NewEmptyCommentRule()
	content := "#\n#\n#\nx = 1 #\n"

	for range 3 {
		src := testkit.New(t, content)
		content = correct(t, src.Buf, applyRule(t, rule, src, nil, nil))
	}

	assert.Equal(t, "x = 1\n", content)
}
