package kicks

import (
	"fmt"
	"sort"

	"github.com/valerio/framedbg/framedbg/dump"
	"github.com/valerio/framedbg/framedbg/gs"
)

// Descriptor describes a drawing kick found in a dump.
type Descriptor struct {
	CmdIndex int
	Packet   int
	Metadata dump.Metadata
	Kick     gs.DrawingKick
}

// Empty is the descriptor in effect before the first drawing kick.
var Empty = Descriptor{CmdIndex: -1, Packet: -1, Kick: gs.NoDrawingKick}

func (d Descriptor) IsEmpty() bool {
	return d.CmdIndex < 0
}

func (d Descriptor) String() string {
	if d.IsEmpty() {
		return "no drawing kick"
	}
	return fmt.Sprintf("#%d %s (context %d, %s)", d.CmdIndex, d.Kick.PrimType, d.Kick.Context+1, d.Metadata.PathName())
}

// Index maps command indices to the drawing kicks that happened there.
// It is immutable once built.
type Index struct {
	keys  []int
	descs []Descriptor
}

// NewIndex creates an index from descriptors sorted by CmdIndex.
// It panics if the command indices are not strictly increasing.
func NewIndex(descs []Descriptor) *Index {
	idx := &Index{
		keys:  make([]int, len(descs)),
		descs: descs,
	}
	for i, d := range descs {
		if d.CmdIndex < 0 || (i > 0 && d.CmdIndex <= idx.keys[i-1]) {
			panic(fmt.Sprintf("drawing kick index out of order: %d after %v", d.CmdIndex, idx.keys[:i]))
		}
		idx.keys[i] = d.CmdIndex
	}
	return idx
}

// Len returns the number of drawing kicks.
func (x *Index) Len() int { return len(x.keys) }

// At returns the i-th drawing kick in command order.
func (x *Index) At(i int) Descriptor { return x.descs[i] }

// Keys returns the command indices of all drawing kicks.
func (x *Index) Keys() []int {
	keys := make([]int, len(x.keys))
	copy(keys, x.keys)
	return keys
}

// upper returns the position of the first key greater than cmd.
func (x *Index) upper(cmd int) int {
	return sort.Search(len(x.keys), func(i int) bool { return x.keys[i] > cmd })
}

// Lookup returns the drawing kick with the greatest index at or before
// target, or Empty if there is none.
func (x *Index) Lookup(target int) Descriptor {
	i := x.upper(target)
	if i == 0 {
		return Empty
	}
	return x.descs[i-1]
}

// Get returns the drawing kick at exactly cmd.
func (x *Index) Get(cmd int) (Descriptor, bool) {
	i := x.upper(cmd)
	if i == 0 || x.keys[i-1] != cmd {
		return Empty, false
	}
	return x.descs[i-1], true
}

// Next returns the first drawing kick after cmd.
func (x *Index) Next(cmd int) (Descriptor, bool) {
	i := x.upper(cmd)
	if i == len(x.keys) {
		return Empty, false
	}
	return x.descs[i], true
}

// Prev returns the last drawing kick before cmd.
func (x *Index) Prev(cmd int) (Descriptor, bool) {
	i := sort.SearchInts(x.keys, cmd)
	if i == 0 {
		return Empty, false
	}
	return x.descs[i-1], true
}
