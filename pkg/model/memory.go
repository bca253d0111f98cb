package model

import "fmt"

// MemoryDocument is an in-memory [Document]. It backs model snapshots
// loaded from local files or the model store, and doubles as the fake
// host for takeoff tests.
type MemoryDocument struct {
	name     string
	entities map[ID]Entity
	order    []ID
}

// NewMemoryDocument creates an empty document with a display name.
func NewMemoryDocument(name string) *MemoryDocument {
	return &MemoryDocument{
		name:     name,
		entities: make(map[ID]Entity),
	}
}

// Name returns the document's display name.
func (d *MemoryDocument) Name() string { return d.name }

// Element returns the entity with the given id.
func (d *MemoryDocument) Element(id ID) (Entity, bool) {
	e, ok := d.entities[id]
	return e, ok
}

// Add registers an entity under its id. Re-adding an id replaces the
// previous entity but keeps its original position in iteration order.
func (d *MemoryDocument) Add(e Entity) {
	if _, exists := d.entities[e.ID()]; !exists {
		d.order = append(d.order, e.ID())
	}
	d.entities[e.ID()] = e
}

// Elements returns all placed elements in insertion order.
func (d *MemoryDocument) Elements() []Element {
	var out []Element
	for _, id := range d.order {
		if el, ok := d.entities[id].(Element); ok {
			out = append(out, el)
		}
	}
	return out
}

// Types returns all element types in insertion order.
func (d *MemoryDocument) Types() []ElementType {
	var out []ElementType
	for _, id := range d.order {
		if t, ok := d.entities[id].(ElementType); ok {
			out = append(out, t)
		}
	}
	return out
}

// Ensure MemoryDocument implements Document.
var _ Document = (*MemoryDocument)(nil)

// attrEntity carries the shared id + attribute map behavior of the
// in-memory entity kinds.
type attrEntity struct {
	id    ID
	attrs map[string]string
}

func (e attrEntity) ID() ID { return e.id }

func (e attrEntity) Attribute(key string) (string, error) {
	v, ok := e.attrs[key]
	if !ok {
		return "", fmt.Errorf("attribute %q: not present", key)
	}
	return v, nil
}

// BasicElement is an in-memory placed element.
type BasicElement struct {
	attrEntity
	typeID ID
}

// NewElement creates a placed element bound to a type. Pass [NilID] for
// an unbound element.
func NewElement(id, typeID ID) *BasicElement {
	return &BasicElement{
		attrEntity: attrEntity{id: id, attrs: map[string]string{}},
		typeID:     typeID,
	}
}

// TypeID returns the owning type id, or [NilID] when unbound.
func (e *BasicElement) TypeID() ID { return e.typeID }

var _ Element = (*BasicElement)(nil)

// TypeEntity is an in-memory element type with an optional compound
// structure.
type TypeEntity struct {
	attrEntity
	category  string
	structure *CompoundStructure
}

// NewType creates an element type. Empty family/name/category values
// model absent attributes: they are omitted from the attribute map so
// reads fall back to defaults.
func NewType(id ID, family, name, category string) *TypeEntity {
	attrs := map[string]string{}
	if family != "" {
		attrs[AttrFamilyName] = family
	}
	if name != "" {
		attrs[AttrTypeName] = name
	}
	return &TypeEntity{
		attrEntity: attrEntity{id: id, attrs: attrs},
		category:   category,
	}
}

// SetStructure attaches a compound structure to the type.
func (t *TypeEntity) SetStructure(s *CompoundStructure) { t.structure = s }

// Category returns the category name, or false when the type has none.
func (t *TypeEntity) Category() (string, bool) {
	if t.category == "" {
		return "", false
	}
	return t.category, true
}

// Structure returns the compound structure, or false when the type has
// none.
func (t *TypeEntity) Structure() (*CompoundStructure, bool) {
	if t.structure == nil {
		return nil, false
	}
	return t.structure, true
}

var _ ElementType = (*TypeEntity)(nil)

// MaterialEntity is an in-memory material asset.
type MaterialEntity struct {
	attrEntity
	name string
}

// NewMaterial creates a material with a display name.
func NewMaterial(id ID, name string) *MaterialEntity {
	return &MaterialEntity{
		attrEntity: attrEntity{id: id, attrs: map[string]string{AttrMaterialName: name}},
		name:       name,
	}
}

// Name returns the material's display name.
func (m *MaterialEntity) Name() string { return m.name }

var _ Material = (*MaterialEntity)(nil)
