// Package config holds the builders' shared settings. Load reads build
// defaults from an optional aindex.toml; compute-aindex uses its max_tf and
// cap_mode, while its threads and chunk_size fields are parsed but not read
// by any builder. ResolveThreads picks the worker count in cmd.getOptions's
// resolution order (flag > AINDEX_THREADS env > NumCPU default), and
// EnsureOutputDir mirrors cmd.makeOutDir's directory-safety checks
// (pathutil.DirExists/IsEmpty).
package config

import (
	"os"
	"runtime"
	"strconv"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"github.com/shenwei356/util/pathutil"

	"github.com/shenwei356/aindexgo/internal/aerrors"
)

// BuildDefaults holds the tunables read from aindex.toml.
type BuildDefaults struct {
	Threads   int    `toml:"threads"`
	MaxTF     uint32 `toml:"max_tf"`
	ChunkSize int    `toml:"chunk_size"`
	CapMode   string `toml:"cap_mode"` // "truncate" (default) or "pad"
}

// DefaultBuildDefaults matches cmd.getOptions's implicit defaults: 0 threads
// meaning "use NumCPU", no cap, chunk size sized for one syscall per
// megabyte of reads.
func DefaultBuildDefaults() BuildDefaults {
	return BuildDefaults{
		Threads:   0,
		MaxTF:     0,
		ChunkSize: 1 << 20,
		CapMode:   "truncate",
	}
}

// Load reads an aindex.toml file if present; a missing file is not an
// error, it just yields DefaultBuildDefaults().
func Load(path string) (BuildDefaults, error) {
	d := DefaultBuildDefaults()
	if path == "" {
		return d, nil
	}
	existed, err := pathutil.Exists(path)
	if err != nil {
		return d, aerrors.Wrapf(aerrors.KindIO, err, "checking config file %s", path)
	}
	if !existed {
		return d, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return d, aerrors.Wrapf(aerrors.KindIO, err, "reading config file %s", path)
	}
	if err := toml.Unmarshal(data, &d); err != nil {
		return d, aerrors.Wrapf(aerrors.KindIO, err, "parsing config file %s", path)
	}
	return d, nil
}

// ResolveThreads applies the flag > AINDEX_THREADS env var > NumCPU
// resolution order.
func ResolveThreads(flagThreads int) int {
	if flagThreads > 0 {
		return flagThreads
	}
	if v := os.Getenv("AINDEX_THREADS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return runtime.NumCPU()
}

// EnsureOutputDir validates/prepares an output directory the way
// cmd.makeOutDir does: refuse to run in an existing non-empty directory
// unless force is set, in which case it is wiped and recreated.
func EnsureOutputDir(dir string, force bool) error {
	existed, err := pathutil.DirExists(dir)
	if err != nil {
		return aerrors.Wrapf(aerrors.KindIO, err, "checking output dir %s", dir)
	}
	if existed {
		empty, err := pathutil.IsEmpty(dir)
		if err != nil {
			return aerrors.Wrapf(aerrors.KindIO, err, "checking output dir %s", dir)
		}
		if !empty {
			if !force {
				return errors.Errorf("output directory not empty: %s, set force to overwrite", dir)
			}
			if err := os.RemoveAll(dir); err != nil {
				return aerrors.Wrapf(aerrors.KindIO, err, "removing output dir %s", dir)
			}
		}
	}
	return os.MkdirAll(dir, 0777)
}
