// Package rules provides the built-in correction rules for rbfix.
//
// # Rule Departments
//
// Rule IDs follow the "Department/Name" convention. Each rule also has a
// kebab-case name usable wherever an ID is accepted.
//
//   - Layout:
//
//   - Layout/TrailingWhitespace: trailing-whitespace - Lines should not end in spaces or tabs
//
//   - Layout/TrailingEmptyLines: trailing-empty-lines - Files end in exactly one newline
//
//   - Layout/SpaceBeforeLineContinuation: space-before-line-continuation - One space before a continuation backslash
//
//   - Layout/SpaceBeforeComment: space-before-comment - End-of-line comments are separated from code
//
//   - Layout/EmptyComment: empty-comment - Comments must have text
//
//   - Layout/EndAlignment: end-alignment - "end" aligns with its opening keyword
//
//   - Layout/IndentationConsistency: indentation-consistency - Statements of a body share one column
//
//   - Lint:
//
//   - Lint/LiteralInInterpolation: literal-in-interpolation - Literals interpolated into strings
//
//   - Lint/AdjacentStringLiterals: adjacent-string-literals - Implicitly concatenated string literals
//
// A whole department can be selected by its name, for example
// "--disable Layout".
//
// # Rule Packs
//
// Rule packs are configuration presets for common use cases:
//
//   - layout: every Layout rule as a warning
//   - strict: every rule as an error
//   - relaxed: only the whitespace rules, as info
//
// Use PackByName or Packs to access pack definitions programmatically.
//
// # Registration
//
// Rules are registered with the default registry via RegisterAll.
// Each rule follows the lint.Rule interface and proposes its edits through
// fix.EditBuilder; the engine merges them into one corrector per pass.
// Rules never edit code inside string bodies, heredocs or document comments.
package rules
