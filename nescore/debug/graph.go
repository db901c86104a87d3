package debug

import (
	"io"

	"github.com/bradleyjkemp/memviz"
)

// WriteStateGraph writes the snapshot as a Graphviz dot graph of its Go
// structure.
func WriteStateGraph(w io.Writer, state *ConsoleState) {
	memviz.Map(w, state)
}
