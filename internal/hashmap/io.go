package hashmap

import (
	"bufio"
	"encoding/binary"
	"os"

	"github.com/shenwei356/aindexgo/internal/aerrors"
	"github.com/shenwei356/aindexgo/internal/mmapfile"
	"github.com/shenwei356/aindexgo/internal/mphf"
)

// LoadMphfIndex memory-maps kmersPath (.kmers.bin, the checker array) and
// tfPath (.tf.bin), and deserializes the MPHF from pfPath, wiring them
// into a single query-ready MphfIndex. All three files are little-endian
// per §6 except the .pf payload, which is self-describing.
func LoadMphfIndex(pfPath, kmersPath, tfPath string, k int) (*MphfIndex, error) {
	pfFile, err := os.Open(pfPath)
	if err != nil {
		return nil, aerrors.Wrapf(aerrors.KindIO, err, "opening %s", pfPath)
	}
	defer pfFile.Close()

	m, err := mphf.Deserialize(bufio.NewReader(pfFile))
	if err != nil {
		return nil, err
	}

	checkerMmap, err := mmapfile.Open(kmersPath)
	if err != nil {
		return nil, err
	}
	checker, err := checkerMmap.Uint64View()
	if err != nil {
		checkerMmap.Close()
		return nil, err
	}
	if uint64(len(checker)) != m.N() {
		checkerMmap.Close()
		return nil, aerrors.Wrapf(aerrors.KindCorruptIndex, aerrors.ErrCorruptIndex,
			"%s: %d entries, mphf built over %d keys", kmersPath, len(checker), m.N())
	}

	tfMmap, err := mmapfile.Open(tfPath)
	if err != nil {
		checkerMmap.Close()
		return nil, err
	}
	tf, err := tfMmap.Uint32View()
	if err != nil {
		checkerMmap.Close()
		tfMmap.Close()
		return nil, err
	}
	if uint64(len(tf)) != m.N() {
		checkerMmap.Close()
		tfMmap.Close()
		return nil, aerrors.Wrapf(aerrors.KindCorruptIndex, aerrors.ErrCorruptIndex,
			"%s: %d entries, mphf built over %d keys", tfPath, len(tf), m.N())
	}

	return &MphfIndex{
		k:           k,
		mphf:        m,
		checker:     checker,
		tf:          tf,
		checkerMmap: checkerMmap,
		tfMmap:      tfMmap,
	}, nil
}

// SaveMphfIndex writes the checker and tf arrays to kmersPath/tfPath in the
// little-endian §6 format; the .pf file is written separately via
// (*mphf.MPHF).Serialize.
func SaveMphfIndex(idx *MphfIndex, kmersPath, tfPath string) error {
	if err := writeUint64sLE(kmersPath, idx.checker); err != nil {
		return err
	}
	return writeUint32sLE(tfPath, idx.tf)
}

// SaveDirectIndex writes the full 4^13-entry tf table to tfPath.
func SaveDirectIndex(idx *DirectIndex, tfPath string) error {
	return writeUint32sLE(tfPath, idx.tf)
}

// WriteUint64sLE writes a little-endian uint64 array, the same on-disk
// shape as .kmers.bin/.indices.bin/.pos.bin, for builder CLIs outside this
// package (posbuild's indices/positions arrays) that need to write the
// same format without duplicating the encoder.
func WriteUint64sLE(path string, vals []uint64) error {
	return writeUint64sLE(path, vals)
}

// LoadDirectIndex memory-maps a previously-built 13-mer tf table.
func LoadDirectIndex(tfPath string) (*DirectIndex, error) {
	mm, err := mmapfile.Open(tfPath)
	if err != nil {
		return nil, err
	}
	tf, err := mm.Uint32View()
	if err != nil {
		mm.Close()
		return nil, err
	}
	if uint64(len(tf)) != DirectN {
		mm.Close()
		return nil, aerrors.Wrapf(aerrors.KindCorruptIndex, aerrors.ErrCorruptIndex,
			"%s: %d entries, want %d for the 13-mer direct index", tfPath, len(tf), DirectN)
	}
	return NewDirectIndexFromTF(tf, mm), nil
}

// writeUint64sLE writes vals to a ".tmp" sibling of path and renames it
// into place on success, so a build killed mid-write never leaves a
// truncated final-named file for a later load to mistake for a complete
// index.
func writeUint64sLE(path string, vals []uint64) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return aerrors.Wrapf(aerrors.KindIO, err, "creating %s", tmp)
	}

	bw := bufio.NewWriter(f)
	var buf [8]byte
	for _, v := range vals {
		binary.LittleEndian.PutUint64(buf[:], v)
		if _, err := bw.Write(buf[:]); err != nil {
			f.Close()
			return aerrors.Wrapf(aerrors.KindIO, err, "writing %s", tmp)
		}
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return aerrors.Wrapf(aerrors.KindIO, err, "flushing %s", tmp)
	}
	if err := f.Close(); err != nil {
		return aerrors.Wrapf(aerrors.KindIO, err, "closing %s", tmp)
	}
	if err := os.Rename(tmp, path); err != nil {
		return aerrors.Wrapf(aerrors.KindIO, err, "renaming %s", tmp)
	}
	return nil
}

// writeUint32sLE is writeUint64sLE's uint32 counterpart, same temp-and-
// rename discipline.
func writeUint32sLE(path string, vals []uint32) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return aerrors.Wrapf(aerrors.KindIO, err, "creating %s", tmp)
	}

	bw := bufio.NewWriter(f)
	var buf [4]byte
	for _, v := range vals {
		binary.LittleEndian.PutUint32(buf[:], v)
		if _, err := bw.Write(buf[:]); err != nil {
			f.Close()
			return aerrors.Wrapf(aerrors.KindIO, err, "writing %s", tmp)
		}
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return aerrors.Wrapf(aerrors.KindIO, err, "flushing %s", tmp)
	}
	if err := f.Close(); err != nil {
		return aerrors.Wrapf(aerrors.KindIO, err, "closing %s", tmp)
	}
	if err := os.Rename(tmp, path); err != nil {
		return aerrors.Wrapf(aerrors.KindIO, err, "renaming %s", tmp)
	}
	return nil
}
