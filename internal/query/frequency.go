package query

import (
	"container/heap"

	"github.com/twotwotwo/sorts/sortutil"

	"github.com/shenwei356/aindexgo/internal/hashmap"
)

// KmerFreq is one (kmer, tf) result of IterByFrequency.
type KmerFreq struct {
	Kmer []byte
	TF   uint32
}

// IterByFrequency implements iter_by_frequency(min_tf,
// max_count): the max_count highest-tf k-mers with tf >= min_tf, in
// descending tf order. The 13-mer direct index (§4.H) is small enough for
// a full scan plus sort; the general MPHF-backed index instead keeps a
// bounded min-heap so a build with billions of distinct k-mers never
// materializes an all-N sort.
func (e *Engine) IterByFrequency(minTF uint32, maxCount int) []KmerFreq {
	if direct, ok := e.idx.(*hashmap.DirectIndex); ok {
		return iterByFrequencyFullSort(direct, minTF, maxCount)
	}
	return iterByFrequencyHeap(e.idx, minTF, maxCount)
}

// iterByFrequencyFullSort packs (tf,id) into a single uint64 (tf in the
// high 32 bits) and sorts the whole array in parallel via
// twotwotwo/sorts, exactly the radix-friendly packed-key trick the
// kv.WriteKVData uses for its own on-disk key arrays (its sorted
// uint64 keys).
func iterByFrequencyFullSort(idx hashmap.Index, minTF uint32, maxCount int) []KmerFreq {
	tf := idx.TF()
	packed := make([]uint64, 0, len(tf))
	for id, v := range tf {
		if v >= minTF {
			packed = append(packed, uint64(v)<<32|uint64(id))
		}
	}
	sortutil.Uint64s(packed)

	out := make([]KmerFreq, 0, maxCount)
	for i := len(packed) - 1; i >= 0 && (maxCount <= 0 || len(out) < maxCount); i-- {
		v := packed[i]
		id := v & 0xffffffff
		tfVal := uint32(v >> 32)
		kmer, ok := hashmap.DecodeKmerAt(idx, id)
		if !ok {
			continue
		}
		out = append(out, KmerFreq{Kmer: kmer, TF: tfVal})
	}
	return out
}

type tfHeapItem struct {
	tf uint32
	id uint64
}

// minTFHeap is a container/heap min-heap ordered by tf, used to keep the
// top maxCount entries during a single pass over the tf array.
type minTFHeap []tfHeapItem

func (h minTFHeap) Len() int            { return len(h) }
func (h minTFHeap) Less(i, j int) bool  { return h[i].tf < h[j].tf }
func (h minTFHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *minTFHeap) Push(x interface{}) { *h = append(*h, x.(tfHeapItem)) }
func (h *minTFHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

func iterByFrequencyHeap(idx hashmap.Index, minTF uint32, maxCount int) []KmerFreq {
	if maxCount <= 0 {
		maxCount = int(idx.N())
	}
	h := &minTFHeap{}
	heap.Init(h)

	tf := idx.TF()
	for id, v := range tf {
		if v < minTF {
			continue
		}
		if h.Len() < maxCount {
			heap.Push(h, tfHeapItem{tf: v, id: uint64(id)})
			continue
		}
		if (*h)[0].tf < v {
			heap.Pop(h)
			heap.Push(h, tfHeapItem{tf: v, id: uint64(id)})
		}
	}

	items := make([]tfHeapItem, h.Len())
	for i := len(items) - 1; i >= 0; i-- {
		items[i] = heap.Pop(h).(tfHeapItem)
	}

	out := make([]KmerFreq, 0, len(items))
	for _, it := range items {
		kmer, ok := hashmap.DecodeKmerAt(idx, it.id)
		if !ok {
			continue
		}
		out = append(out, KmerFreq{Kmer: kmer, TF: it.tf})
	}
	return out
}
