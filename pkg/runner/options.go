// Package runner discovers Ruby files and corrects them concurrently.
package runner

import "github.com/yaklabco/rbfix/pkg/config"

// Options selects files and controls a multi-file run.
type Options struct {
	Paths      []string // files or directories; "." when empty
	WorkingDir string   // base for relative Paths and globs; os.Getwd when empty

	// Extensions limits discovery to these extensions (".rb"). Empty means
	// anything langdetect.IsRubyPath accepts.
	Extensions []string

	IncludeGlobs []string // when set, a file must match one of these
	ExcludeGlobs []string // config "ignore" plus --ignore

	FollowSymlinks  bool
	IncludeVendored bool // walk vendor/bundle and friends

	Jobs   int // worker count; <= 0 means GOMAXPROCS
	Config *config.Config
}

func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}
