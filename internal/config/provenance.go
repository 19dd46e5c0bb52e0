package config

import (
	"encoding/json"
	"os"

	"github.com/shenwei356/aindexgo/internal/aerrors"
)

// BuildProvenance is the `.aindex.json` sidecar written by compute-aindex,
// self-describing the positional index the way the .pf format
// self-describes with a magic+version header, but in JSON since this file
// is meant to be read by humans and scripts, not mmapped. Records which
// max_tf cap mode was in effect at build time.
type BuildProvenance struct {
	K          int    `json:"k"`
	N          uint64 `json:"n"`
	SumTF      uint64 `json:"sum_tf"`
	MaxTF      uint32 `json:"max_tf"`
	CapMode    string `json:"cap_mode"` // "none" when uncapped, else aindex.toml's cap_mode ("truncate" if unset)
	Threads    int    `json:"threads"`
	BuilderVer string `json:"builder_version"`
}

// WriteBuildProvenance writes the sidecar as indented JSON, via a ".tmp"
// sibling renamed into place on success so a killed build never leaves a
// half-written sidecar next to a complete index.
func WriteBuildProvenance(path string, p BuildProvenance) error {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return aerrors.Wrapf(aerrors.KindIO, err, "encoding %s", path)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return aerrors.Wrapf(aerrors.KindIO, err, "writing %s", tmp)
	}
	if err := os.Rename(tmp, path); err != nil {
		return aerrors.Wrapf(aerrors.KindIO, err, "renaming %s", tmp)
	}
	return nil
}

// LoadBuildProvenance reads back a previously-written sidecar. A missing
// file is reported as KindIO, not silently defaulted: unlike aindex.toml,
// a positional index without its provenance sidecar cannot self-describe
// its max_tf cap mode, so callers that need it should treat a load
// failure as fatal rather than falling back to defaults.
func LoadBuildProvenance(path string) (BuildProvenance, error) {
	var p BuildProvenance
	data, err := os.ReadFile(path)
	if err != nil {
		return p, aerrors.Wrapf(aerrors.KindIO, err, "reading %s", path)
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return p, aerrors.Wrapf(aerrors.KindCorruptIndex, err, "parsing %s", path)
	}
	return p, nil
}
