package render

import (
	"bytes"
	"fmt"

	"github.com/tmengistu/stratum/pkg/takeoff"
)

// ToDOT converts takeoff records to Graphviz DOT format: one node per
// element type, one node per distinct material, and one labeled edge
// per layer. The resulting DOT string can be rendered with [RenderSVG]
// or [RenderPNG].
//
// Node order follows record order, so the diagram is deterministic for
// a given report.
func ToDOT(records []takeoff.Record) string {
	var buf bytes.Buffer
	buf.WriteString("digraph takeoff {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=12, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	typeSeen := make(map[string]bool)
	matSeen := make(map[string]bool)

	for _, rec := range records {
		typeID := typeNodeID(rec)
		if !typeSeen[typeID] {
			typeSeen[typeID] = true
			label := fmt.Sprintf("%s\n%s\n(%s)", rec.FamilyName, rec.TypeName, rec.CategoryName)
			fmt.Fprintf(&buf, "  %q [label=%q];\n", typeID, label)
		}
		matID := "material: " + rec.MaterialName
		if !matSeen[matID] {
			matSeen[matID] = true
			fmt.Fprintf(&buf, "  %q [label=%q, fillcolor=lightgrey];\n", matID, rec.MaterialName)
		}
	}

	buf.WriteString("\n")
	for _, rec := range records {
		fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n",
			typeNodeID(rec), "material: "+rec.MaterialName, fmt.Sprintf("layer %d", rec.LayerNumber))
	}

	buf.WriteString("}\n")
	return buf.String()
}

// typeNodeID builds a stable node id for a record's element type.
// Family and type name together identify the node in the diagram; two
// types with identical names collapse visually, which is acceptable for
// a report diagram.
func typeNodeID(rec takeoff.Record) string {
	return rec.FamilyName + " / " + rec.TypeName
}
