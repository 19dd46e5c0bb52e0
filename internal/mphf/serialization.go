package mphf

import (
	"bufio"
	"encoding/binary"
	"io"

	"github.com/shenwei356/aindexgo/internal/aerrors"
)

var be = binary.BigEndian

// Magic identifies the .pf file format, matching the self-describing convention
// of an 8-byte ASCII magic (twobit.Magic, kv.Magic) followed by version
// bytes.
var Magic = [8]byte{'A', 'I', 'D', 'X', 'M', 'P', 'H', 'F'}

// MainVersion / MinorVersion gate load-time compatibility, mirroring
// twobit.MainVersion / kv.MainVersion.
const (
	MainVersion  uint8 = 1
	MinorVersion uint8 = 0
)

// Serialize writes the self-describing .pf format: 16-byte magic+version
// header (8-byte magic, 1 main + 1 minor version byte, 6 reserved), then
// N, seg, seed, the 2-bit-packed displacement array, and the rank
// dictionary (used-bitset + block prefix-sums).
func (m *MPHF) Serialize(w io.Writer) error {
	bw := bufio.NewWriter(w)

	if err := binary.Write(bw, be, Magic); err != nil {
		return aerrors.Wrapf(aerrors.KindIO, err, "writing mphf magic")
	}
	if err := binary.Write(bw, be, [8]byte{MainVersion, MinorVersion}); err != nil {
		return aerrors.Wrapf(aerrors.KindIO, err, "writing mphf version header")
	}

	header := [3]uint64{m.n, m.seg, m.seed}
	if err := binary.Write(bw, be, header); err != nil {
		return aerrors.Wrapf(aerrors.KindIO, err, "writing mphf header")
	}

	numVerts := m.seg * 3
	packed := packG(m.g, numVerts)
	if err := binary.Write(bw, be, uint64(numVerts)); err != nil {
		return aerrors.Wrapf(aerrors.KindIO, err, "writing mphf vertex count")
	}
	if _, err := bw.Write(packed); err != nil {
		return aerrors.Wrapf(aerrors.KindIO, err, "writing mphf displacement array")
	}

	if err := binary.Write(bw, be, uint64(len(m.used))); err != nil {
		return aerrors.Wrapf(aerrors.KindIO, err, "writing mphf used-bitset length")
	}
	if err := binary.Write(bw, be, m.used); err != nil {
		return aerrors.Wrapf(aerrors.KindIO, err, "writing mphf used-bitset")
	}

	if err := binary.Write(bw, be, uint64(len(m.blockRank))); err != nil {
		return aerrors.Wrapf(aerrors.KindIO, err, "writing mphf rank block length")
	}
	if err := binary.Write(bw, be, m.blockRank); err != nil {
		return aerrors.Wrapf(aerrors.KindIO, err, "writing mphf rank blocks")
	}

	return bw.Flush()
}

// Deserialize reads back an MPHF previously written by Serialize,
// validating the magic and main version.
func Deserialize(r io.Reader) (*MPHF, error) {
	br := bufio.NewReader(r)

	var magic [8]byte
	if err := binary.Read(br, be, &magic); err != nil {
		return nil, aerrors.Wrapf(aerrors.KindIO, err, "reading mphf magic")
	}
	if magic != Magic {
		return nil, aerrors.New(aerrors.KindCorruptIndex, "mphf: invalid file format (bad magic)")
	}

	var version [8]byte
	if err := binary.Read(br, be, &version); err != nil {
		return nil, aerrors.Wrapf(aerrors.KindIO, err, "reading mphf version header")
	}
	if version[0] != MainVersion {
		return nil, aerrors.New(aerrors.KindCorruptIndex, "mphf: version mismatch")
	}

	var header [3]uint64
	if err := binary.Read(br, be, &header); err != nil {
		return nil, aerrors.Wrapf(aerrors.KindIO, err, "reading mphf header")
	}
	n, seg, seed := header[0], header[1], header[2]

	var numVerts uint64
	if err := binary.Read(br, be, &numVerts); err != nil {
		return nil, aerrors.Wrapf(aerrors.KindIO, err, "reading mphf vertex count")
	}
	packed := make([]byte, (numVerts+3)/4)
	if _, err := io.ReadFull(br, packed); err != nil {
		return nil, aerrors.Wrapf(aerrors.KindIO, err, "reading mphf displacement array")
	}
	g := unpackG(packed, numVerts)

	var nUsedWords uint64
	if err := binary.Read(br, be, &nUsedWords); err != nil {
		return nil, aerrors.Wrapf(aerrors.KindIO, err, "reading mphf used-bitset length")
	}
	used := make([]uint64, nUsedWords)
	if err := binary.Read(br, be, used); err != nil {
		return nil, aerrors.Wrapf(aerrors.KindIO, err, "reading mphf used-bitset")
	}

	var nBlocks uint64
	if err := binary.Read(br, be, &nBlocks); err != nil {
		return nil, aerrors.Wrapf(aerrors.KindIO, err, "reading mphf rank block length")
	}
	blockRank := make([]uint32, nBlocks)
	if err := binary.Read(br, be, blockRank); err != nil {
		return nil, aerrors.Wrapf(aerrors.KindIO, err, "reading mphf rank blocks")
	}

	return &MPHF{
		n:         n,
		seg:       seg,
		seed:      seed,
		g:         g,
		used:      used,
		blockRank: blockRank,
	}, nil
}

// packG packs numVerts 2-bit displacement values into a byte array.
// Build(nil, seed)'s degenerate empty-key MPHF has seg==1, numVerts==3,
// and a nil g (no vertices were ever assigned during peeling); indices
// beyond len(g) pack as 0 rather than indexing past the end of g.
func packG(g []uint8, numVerts uint64) []byte {
	out := make([]byte, (numVerts+3)/4)
	for i := uint64(0); i < numVerts && i < uint64(len(g)); i++ {
		out[i/4] |= (g[i] & 3) << ((i % 4) * 2)
	}
	return out
}

func unpackG(packed []byte, numVerts uint64) []uint8 {
	g := make([]uint8, numVerts)
	for i := uint64(0); i < numVerts; i++ {
		g[i] = (packed[i/4] >> ((i % 4) * 2)) & 3
	}
	return g
}
