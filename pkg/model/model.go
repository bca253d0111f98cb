// Package model defines the host-model boundary for Stratum.
//
// A building model is exposed to the takeoff core through a minimal
// capability set: look up an entity by id, walk an element to its type,
// read a type's compound layer structure, and read named attributes.
// Host SDK adapters and the in-memory [Document] both satisfy the same
// interfaces, so the extraction logic never depends on a specific host.
//
// Entities are read-only for the lifetime of a run. Nothing in this
// package mutates a loaded model.
package model

import "fmt"

// ID identifies an entity (element, element type, or material) within a
// single model document. Host element ids are integers with a null
// sentinel; zero and negative values are nil.
type ID int64

// NilID is the null element id.
const NilID ID = 0

// IsNil reports whether the id is the null sentinel.
func (id ID) IsNil() bool { return id <= 0 }

// String formats the id for log output.
func (id ID) String() string {
	if id.IsNil() {
		return "<nil>"
	}
	return fmt.Sprintf("%d", int64(id))
}

// Attribute keys understood by model entities. Hosts map these onto
// their native parameter identifiers.
const (
	AttrFamilyName   = "family_name"
	AttrTypeName     = "type_name"
	AttrMaterialName = "material_name"
)

// Entity is any addressable object in a model document.
//
// Attribute returns the value of a named attribute. It returns an error
// when the attribute is unknown or unreadable; callers that need the
// never-fails contract go through takeoff.ReadAttribute instead.
type Entity interface {
	ID() ID
	Attribute(key string) (string, error)
}

// Element is a placed model element owned by an element type.
// TypeID returns [NilID] when the element has no type binding.
type Element interface {
	Entity
	TypeID() ID
}

// ElementType is a family symbol owning zero or more placed elements.
//
// Category returns the type's category display name; the boolean is
// false when the type has no category. Structure returns the type's
// compound layer structure; the boolean is false when the type has none.
type ElementType interface {
	Entity
	Category() (string, bool)
	Structure() (*CompoundStructure, bool)
}

// Material is a material asset resolvable from a layer's material id.
type Material interface {
	Entity
	Name() string
}

// Document is a loaded, read-only model document.
//
// Element resolves any entity kind by id; callers type-assert to
// [Element], [ElementType], or [Material] as needed. The boolean is
// false when no entity with that id exists.
type Document interface {
	Element(id ID) (Entity, bool)
}

// CompoundStructure is the ordered layer stack owned by one element
// type. Layer order is source order; position within the slice is the
// layer's 0-based index.
type CompoundStructure struct {
	Layers []Layer
}

// Layer is one material layer of a compound structure.
//
// MaterialID may be nil or dangling; resolution happens against the
// owning document at extraction time. Function and Width describe the
// layer's role and thickness and are informational only.
type Layer struct {
	MaterialID ID
	Function   string
	Width      float64
}
