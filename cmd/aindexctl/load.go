package main

import (
	"fmt"

	"github.com/shenwei356/aindexgo/internal/config"
	"github.com/shenwei356/aindexgo/internal/hashmap"
	"github.com/shenwei356/aindexgo/internal/mmapfile"
	"github.com/shenwei356/aindexgo/internal/query"
	"github.com/shenwei356/aindexgo/internal/reads"
)

// openedIndex bundles every handle a subcommand needs to close on exit,
// mirroring the way lexicmap/cmd/search.go's runE holds onto its loaded
// index for the lifetime of the command.
type openedIndex struct {
	engine     *query.Engine
	indicesMm  *mmapfile.File
	posMm      *mmapfile.File
	provenance config.BuildProvenance
}

func (o *openedIndex) Close() {
	if o.engine != nil {
		o.engine.Close()
	}
	if o.indicesMm != nil {
		o.indicesMm.Close()
	}
	if o.posMm != nil {
		o.posMm.Close()
	}
}

// openByPrefix loads every file compute-reads/compute-index/compute-aindex
// wrote for a given output prefix and wires them into a query.Engine, the
// way every aindexctl subcommand needs one.
func openByPrefix(prefix string) (*openedIndex, error) {
	prov, err := config.LoadBuildProvenance(prefix + ".aindex.json")
	if err != nil {
		return nil, fmt.Errorf("loading %s.aindex.json: %w", prefix, err)
	}

	blob, err := reads.OpenBlob(prefix + ".reads")
	if err != nil {
		return nil, err
	}
	ridx, err := reads.LoadRidxTable(prefix + ".ridx")
	if err != nil {
		blob.Close()
		return nil, err
	}
	var header *reads.HeaderTable
	if h, err := reads.LoadHeaderTable(prefix + ".header"); err == nil {
		header = h
	}

	var idx hashmap.Index
	if prov.K == hashmap.DirectK {
		idx, err = hashmap.LoadDirectIndex(prefix + ".tf.bin")
	} else {
		idx, err = hashmap.LoadMphfIndex(prefix+".pf", prefix+".kmers.bin", prefix+".tf.bin", prov.K)
	}
	if err != nil {
		blob.Close()
		return nil, err
	}

	indicesMm, err := mmapfile.Open(prefix + ".indices.bin")
	if err != nil {
		idx.Close()
		blob.Close()
		return nil, err
	}
	indices, err := indicesMm.Uint64View()
	if err != nil {
		indicesMm.Close()
		idx.Close()
		blob.Close()
		return nil, err
	}

	posMm, err := mmapfile.Open(prefix + ".pos.bin")
	if err != nil {
		indicesMm.Close()
		idx.Close()
		blob.Close()
		return nil, err
	}
	positions, err := posMm.Uint64View()
	if err != nil {
		posMm.Close()
		indicesMm.Close()
		idx.Close()
		blob.Close()
		return nil, err
	}

	engine, err := query.NewEngine(idx, indices, positions, blob, ridx, header)
	if err != nil {
		posMm.Close()
		indicesMm.Close()
		idx.Close()
		blob.Close()
		return nil, err
	}

	return &openedIndex{engine: engine, indicesMm: indicesMm, posMm: posMm, provenance: prov}, nil
}
