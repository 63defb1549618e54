package fix

import (
	"fmt"
	"strings"
)

// contextLines is the number of unchanged lines shown around each change.
const contextLines = 3

// DiffLineKind indicates the type of diff line.
type DiffLineKind int

const (
	// DiffLineContext is an unchanged context line.
	DiffLineContext DiffLineKind = iota

	// DiffLineAdd is a line added in the modified version.
	DiffLineAdd

	// DiffLineRemove is a line removed from the original version.
	DiffLineRemove
)

// Marker returns the unified diff marker for the line kind.
func (k DiffLineKind) Marker() string {
	switch k {
	case DiffLineAdd:
		return "+"
	case DiffLineRemove:
		return "-"
	default:
		return " "
	}
}

// DiffLine is a single line of a hunk, without its marker.
type DiffLine struct {
	Kind    DiffLineKind
	Content string
}

// DiffHunk is one "@@" section of a unified diff. Start lines are 1-based.
type DiffHunk struct {
	OriginalStart int
	OriginalCount int
	ModifiedStart int
	ModifiedCount int
	Lines         []DiffLine
}

// Diff is a line-based unified diff of a corrected file.
type Diff struct {
	Path      string
	Original  []byte
	Modified  []byte
	Hunks     []DiffHunk
	Additions int
	Deletions int
}

// GenerateDiff compares original and modified line by line.
// Returns nil if there are no changes.
func GenerateDiff(path string, original, modified []byte) *Diff {
	origLines := splitLines(original)
	modLines := splitLines(modified)

	script := editScript(origLines, modLines)
	hunks := buildHunks(script)
	if len(hunks) == 0 {
		return nil
	}

	diff := &Diff{Path: path, Original: original, Modified: modified, Hunks: hunks}
	for _, op := range script {
		switch op.kind {
		case DiffLineAdd:
			diff.Additions++
		case DiffLineRemove:
			diff.Deletions++
		case DiffLineContext:
		}
	}

	return diff
}

// GitHeader returns the "diff --git" header line.
func (d *Diff) GitHeader() string {
	if d == nil {
		return ""
	}
	path := strings.TrimPrefix(d.Path, "/")
	return fmt.Sprintf("diff --git a/%s b/%s", path, path)
}

// String returns the diff in unified format, without the git header.
func (d *Diff) String() string {
	if !d.HasChanges() {
		return ""
	}

	path := strings.TrimPrefix(d.Path, "/")

	var builder strings.Builder
	fmt.Fprintf(&builder, "--- a/%s\n+++ b/%s\n", path, path)
	for _, hunk := range d.Hunks {
		fmt.Fprintf(&builder, "@@ -%d,%d +%d,%d @@\n",
			hunk.OriginalStart, hunk.OriginalCount, hunk.ModifiedStart, hunk.ModifiedCount)
		for _, line := range hunk.Lines {
			builder.WriteString(line.Kind.Marker())
			builder.WriteString(line.Content)
			builder.WriteByte('\n')
		}
	}

	return builder.String()
}

// FullString returns the diff including the git header.
func (d *Diff) FullString() string {
	if !d.HasChanges() {
		return ""
	}
	return d.GitHeader() + "\n" + d.String()
}

// HasChanges returns true if the diff contains any changes.
func (d *Diff) HasChanges() bool {
	return d != nil && len(d.Hunks) > 0
}

// splitLines splits content into lines without terminators.
func splitLines(content []byte) []string {
	if len(content) == 0 {
		return nil
	}
	return strings.Split(strings.TrimSuffix(string(content), "\n"), "\n")
}

// scriptOp is one step of the edit script, with 0-based line indexes into
// both inputs (the index in the input the op does not consume is the
// position it would have there).
type scriptOp struct {
	kind    DiffLineKind
	content string
	orig    int
	mod     int
}

// editScript computes a shortest line edit script. Common leading and
// trailing lines are matched directly; the middle uses an LCS table.
func editScript(orig, mod []string) []scriptOp {
	head := 0
	for head < len(orig) && head < len(mod) && orig[head] == mod[head] {
		head++
	}
	tail := 0
	for tail < len(orig)-head && tail < len(mod)-head &&
		orig[len(orig)-1-tail] == mod[len(mod)-1-tail] {
		tail++
	}

	midOrig := orig[head : len(orig)-tail]
	midMod := mod[head : len(mod)-tail]

	// table[i][j] is the LCS length of midOrig[i:] and midMod[j:].
	table := make([][]int, len(midOrig)+1)
	for idx := range table {
		table[idx] = make([]int, len(midMod)+1)
	}
	for i := len(midOrig) - 1; i >= 0; i-- {
		for j := len(midMod) - 1; j >= 0; j-- {
			if midOrig[i] == midMod[j] {
				table[i][j] = table[i+1][j+1] + 1
			} else {
				table[i][j] = max(table[i+1][j], table[i][j+1])
			}
		}
	}

	script := make([]scriptOp, 0, len(orig)+len(mod))
	for idx := range head {
		script = append(script, scriptOp{kind: DiffLineContext, content: orig[idx], orig: idx, mod: idx})
	}

	i, j := 0, 0
	for i < len(midOrig) || j < len(midMod) {
		switch {
		case i < len(midOrig) && j < len(midMod) && midOrig[i] == midMod[j]:
			script = append(script, scriptOp{kind: DiffLineContext, content: midOrig[i], orig: head + i, mod: head + j})
			i++
			j++
		case j == len(midMod) || (i < len(midOrig) && table[i+1][j] >= table[i][j+1]):
			script = append(script, scriptOp{kind: DiffLineRemove, content: midOrig[i], orig: head + i, mod: head + j})
			i++
		default:
			script = append(script, scriptOp{kind: DiffLineAdd, content: midMod[j], orig: head + i, mod: head + j})
			j++
		}
	}

	for idx := range tail {
		origIdx := len(orig) - tail + idx
		modIdx := len(mod) - tail + idx
		script = append(script, scriptOp{kind: DiffLineContext, content: orig[origIdx], orig: origIdx, mod: modIdx})
	}

	return script
}

// buildHunks groups changes separated by at most 2*contextLines unchanged
// lines into hunks padded with contextLines of context.
func buildHunks(script []scriptOp) []DiffHunk {
	var hunks []DiffHunk

	idx := 0
	for idx < len(script) {
		if script[idx].kind == DiffLineContext {
			idx++
			continue
		}

		start := max(idx-contextLines, 0)
		end := idx
		for end < len(script) {
			if script[end].kind != DiffLineContext {
				end++
				continue
			}
			run := end
			for run < len(script) && script[run].kind == DiffLineContext {
				run++
			}
			if run == len(script) || run-end > 2*contextLines {
				break
			}
			end = run
		}
		stop := min(end+contextLines, len(script))

		hunks = append(hunks, makeHunk(script[start:stop]))
		idx = stop
	}

	return hunks
}

func makeHunk(ops []scriptOp) DiffHunk {
	hunk := DiffHunk{
		OriginalStart: ops[0].orig + 1,
		ModifiedStart: ops[0].mod + 1,
	}

	for _, op := range ops {
		hunk.Lines = append(hunk.Lines, DiffLine{Kind: op.kind, Content: op.content})
		if op.kind != DiffLineAdd {
			hunk.OriginalCount++
		}
		if op.kind != DiffLineRemove {
			hunk.ModifiedCount++
		}
	}

	// Unified diff convention: an empty side starts at the line before.
	if hunk.OriginalCount == 0 {
		hunk.OriginalStart--
	}
	if hunk.ModifiedCount == 0 {
		hunk.ModifiedStart--
	}

	return hunk
}
