// Copyright 2018 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package graph

import (
	"bufio"
	"fmt"
	"io"
)

// Dot contains options for generating a Graphviz Dot graph from a
// Graph.
type Dot struct {
	// Name is the name given to the graph. Usually this can be
	// left blank.
	Name string

	// Label returns the string to use as a label for the given
	// node. If nil, nodes are labeled with their node numbers.
	Label func(node int) string

	// Shape is the Graphviz node shape. If empty, Graphviz's
	// default is used.
	Shape string
}

func defaultLabel(node int) string {
	return fmt.Sprintf("%d", node)
}

// Fprint writes the Dot form of g to w.
func (d Dot) Fprint(g Graph, w io.Writer) error {
	label := d.Label
	if label == nil {
		label = defaultLabel
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "digraph %s {\n", dotString(d.Name))
	if d.Shape != "" {
		fmt.Fprintf(bw, "node [shape=%s];\n", dotString(d.Shape))
	}
	for i := 0; i < g.NumNodes(); i++ {
		fmt.Fprintf(bw, "n%d [label=%s];\n", i, dotString(label(i)))
		for _, out := range g.Out(i) {
			fmt.Fprintf(bw, "n%d -> n%d;\n", i, out)
		}
	}
	fmt.Fprintf(bw, "}\n")
	return bw.Flush()
}

// dotString returns s as a quoted dot string.
func dotString(s string) string {
	buf := []byte{'"'}
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\n':
			// Left-justify lines, which reads better for
			// value lists.
			buf = append(buf, '\\', 'l')
		case '\\', '"', '{', '}', '<', '>', '|':
			buf = append(buf, '\\', s[i])
		default:
			buf = append(buf, s[i])
		}
	}
	buf = append(buf, '"')
	return string(buf)
}
