package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tmengistu/stratum/pkg/errors"
	"github.com/tmengistu/stratum/pkg/model"
	"github.com/tmengistu/stratum/pkg/source"
	"github.com/tmengistu/stratum/pkg/source/local"
)

// inspectOpts holds the command-line flags for the inspect command.
type inspectOpts struct {
	sourceOpts

	export string // write the snapshot as JSON to this path
}

// newInspectCmd creates the inspect command. It lists a model's element
// types with their layer stacks and placed-element counts, which is the
// easiest way to find element ids for a takeoff selection.
func newInspectCmd() *cobra.Command {
	opts := inspectOpts{}

	cmd := &cobra.Command{
		Use:   "inspect [model]",
		Short: "List a model's element types and their layer stacks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd.Context(), args[0], &opts)
		},
	}

	addSourceFlags(cmd, &opts.sourceOpts)
	cmd.Flags().StringVar(&opts.export, "export", "", "write the snapshot as JSON to this path")

	return cmd
}

// runInspect loads the model and prints its structure.
func runInspect(ctx context.Context, modelArg string, opts *inspectOpts) error {
	src, closeSrc, err := opts.sourceOpts.open(ctx)
	if err != nil {
		return err
	}
	defer closeSrc()

	snap, err := src.Load(ctx, modelArg)
	if err != nil {
		return err
	}
	doc, err := snap.Document()
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidModel, err, "building document for %q", snap.Name)
	}

	printModel(snap, doc)

	if opts.export != "" {
		if err := local.Write(snap, opts.export); err != nil {
			return err
		}
		printSuccess("Exported model to %s", opts.export)
	}
	return nil
}

// printModel renders the inspection listing: every type with its layer
// stack and the ids of its placed elements.
func printModel(snap *source.Snapshot, doc *model.MemoryDocument) {
	fmt.Println(StyleTitle.Render(snap.Name))
	printDetail("%d types, %d materials, %d placed elements",
		len(snap.Types), len(snap.Materials), len(snap.Elements))
	fmt.Println()

	elementsByType := make(map[model.ID][]model.ID)
	for _, el := range doc.Elements() {
		elementsByType[el.TypeID()] = append(elementsByType[el.TypeID()], el.ID())
	}

	for _, typ := range doc.Types() {
		printInfo("%s", typeLabel(typ))

		if elements := elementsByType[typ.ID()]; len(elements) > 0 {
			printDetail("elements: %v", elements)
		} else {
			printDetail("no placed elements")
		}

		structure, ok := typ.Structure()
		if !ok {
			printDetail("no compound structure")
			fmt.Println()
			continue
		}
		for i, layer := range structure.Layers {
			label, resolved := layerLabel(doc, layer)
			if !resolved {
				printWarning("layer %d: %s", i+1, label)
				continue
			}
			printDetail("layer %d: %s", i+1, label)
		}
		fmt.Println()
	}
}

// typeLabel formats a type heading as "Family / Type (Category)".
func typeLabel(typ model.ElementType) string {
	family, _ := typ.Attribute(model.AttrFamilyName)
	name, _ := typ.Attribute(model.AttrTypeName)
	label := StyleHighlight.Render(family + " / " + name)
	if category, ok := typ.Category(); ok {
		label += " " + StyleDim.Render("("+category+")")
	}
	return label
}

// layerLabel formats one layer line: material, function, and width
// where present. resolved reports whether the layer's material id
// points at a material in the document; a takeoff over this type
// would skip unresolved layers, so the listing flags them.
func layerLabel(doc model.Document, layer model.Layer) (label string, resolved bool) {
	if ent, ok := doc.Element(layer.MaterialID); ok {
		if mat, isMaterial := ent.(model.Material); isMaterial {
			label = mat.Name()
			resolved = true
		}
	}
	if !resolved {
		label = "material does not resolve"
	}
	if layer.Function != "" {
		label += fmt.Sprintf(" [%s]", layer.Function)
	}
	if layer.Width > 0 {
		label += fmt.Sprintf(" %.0fmm", layer.Width*1000)
	}
	return label, resolved
}
