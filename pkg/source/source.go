// Package source loads building-model snapshots into documents the
// takeoff core can run against.
//
// A snapshot is the serialized form of a model document: its materials,
// element types (with their compound layer structures), and placed
// elements. Snapshots come from local JSON/TOML files ([local]) or a
// MongoDB model store ([mongostore]); both produce the same in-memory
// document, so the rest of the pipeline does not care where a model
// came from.
package source

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tmengistu/stratum/pkg/model"
)

// Source loads named model snapshots. The meaning of name depends on
// the backend: a file path for local sources, a stored model name for
// the model store.
type Source interface {
	Load(ctx context.Context, name string) (*Snapshot, error)
}

// Snapshot is the serialized form of a model document.
type Snapshot struct {
	Name      string     `json:"name" toml:"name" bson:"name"`
	Materials []Material `json:"materials" toml:"materials" bson:"materials"`
	Types     []Type     `json:"types" toml:"types" bson:"types"`
	Elements  []Element  `json:"elements" toml:"elements" bson:"elements"`
}

// Material is a serialized material asset.
type Material struct {
	ID   int64  `json:"id" toml:"id" bson:"id"`
	Name string `json:"name" toml:"name" bson:"name"`
}

// Type is a serialized element type. Family, Name, or Category may be
// empty; readers fall back to the documented defaults for absent
// attributes. Layers may be empty for types without a compound
// structure.
type Type struct {
	ID       int64   `json:"id" toml:"id" bson:"id"`
	Family   string  `json:"family,omitempty" toml:"family" bson:"family,omitempty"`
	Name     string  `json:"name,omitempty" toml:"name" bson:"name,omitempty"`
	Category string  `json:"category,omitempty" toml:"category" bson:"category,omitempty"`
	Layers   []Layer `json:"layers,omitempty" toml:"layers" bson:"layers,omitempty"`
}

// Layer is a serialized compound-structure layer. Material may be zero
// or dangling; resolution failures surface at extraction time, not at
// load time.
type Layer struct {
	Material int64   `json:"material" toml:"material" bson:"material"`
	Function string  `json:"function,omitempty" toml:"function" bson:"function,omitempty"`
	Width    float64 `json:"width,omitempty" toml:"width" bson:"width,omitempty"`
}

// Element is a serialized placed element. Type is zero for elements
// with no type binding.
type Element struct {
	ID   int64 `json:"id" toml:"id" bson:"id"`
	Type int64 `json:"type,omitempty" toml:"type" bson:"type,omitempty"`
}

// Document builds the in-memory model document described by the
// snapshot. It fails when two entities share an id, since entity
// identity is id identity.
func (s *Snapshot) Document() (*model.MemoryDocument, error) {
	doc := model.NewMemoryDocument(s.Name)
	seen := make(map[model.ID]string)

	claim := func(id model.ID, kind string) error {
		if id.IsNil() {
			return fmt.Errorf("%s has no id", kind)
		}
		if prev, dup := seen[id]; dup {
			return fmt.Errorf("%s id %s already used by %s", kind, id, prev)
		}
		seen[id] = kind
		return nil
	}

	for _, m := range s.Materials {
		if err := claim(model.ID(m.ID), "material"); err != nil {
			return nil, err
		}
		doc.Add(model.NewMaterial(model.ID(m.ID), m.Name))
	}

	for _, t := range s.Types {
		if err := claim(model.ID(t.ID), "type"); err != nil {
			return nil, err
		}
		typ := model.NewType(model.ID(t.ID), t.Family, t.Name, t.Category)
		if len(t.Layers) > 0 {
			structure := &model.CompoundStructure{Layers: make([]model.Layer, len(t.Layers))}
			for i, l := range t.Layers {
				structure.Layers[i] = model.Layer{
					MaterialID: model.ID(l.Material),
					Function:   l.Function,
					Width:      l.Width,
				}
			}
			typ.SetStructure(structure)
		}
		doc.Add(typ)
	}

	for _, e := range s.Elements {
		if err := claim(model.ID(e.ID), "element"); err != nil {
			return nil, err
		}
		doc.Add(model.NewElement(model.ID(e.ID), model.ID(e.Type)))
	}

	return doc, nil
}

// Canonical returns the snapshot's canonical byte form, used for cache
// keys. The same model content always hashes the same regardless of
// which backend or file format it was loaded from.
func (s *Snapshot) Canonical() ([]byte, error) {
	return json.Marshal(s)
}
