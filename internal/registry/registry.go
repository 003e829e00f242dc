// Package registry holds the mutable catalog of categories and event
// type definitions. The catalog is data, not a closed enumeration:
// built-in entries carry a protection flag instead of being a separate
// kind, and users extend the catalog at runtime.
//
// Every mutation persists the full registry snapshot synchronously
// before returning; a failed save leaves the in-memory catalog exactly
// as it was before the call.
package registry

import (
	"encoding/json"

	"github.com/Elmersong/HealthKey/internal/errors"
	"github.com/Elmersong/HealthKey/internal/logging"
	"github.com/Elmersong/HealthKey/internal/model"
	"github.com/Elmersong/HealthKey/internal/storage"
)

// snapshot is the persisted registry document.
type snapshot struct {
	Categories []model.Category            `json:"categories"`
	EventTypes []model.EventTypeDefinition `json:"eventTypes"`
}

// Registry owns categories and event-type definitions.
type Registry struct {
	kv         storage.KV
	categories []model.Category
	eventTypes []model.EventTypeDefinition
}

// Load reads the registry snapshot, seeding the built-in catalog when
// no snapshot exists yet (first run).
func Load(kv storage.KV) (*Registry, error) {
	r := &Registry{kv: kv}

	data, found, err := kv.Load(model.KeyRegistry)
	if err != nil {
		return nil, errors.NewSystemErrorWithOp("registry load", "storage read failed", err)
	}
	if !found {
		r.categories = builtinCategories()
		r.eventTypes = builtinEventTypes()
		if err := r.persist(); err != nil {
			return nil, err
		}
		logging.Info("registry seeded with built-in catalog",
			logging.KeyCount, len(r.eventTypes))
		return r, nil
	}

	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, errors.NewSystemErrorWithOp("registry load", "corrupt registry snapshot", err)
	}
	r.categories = snap.Categories
	r.eventTypes = snap.EventTypes
	return r, nil
}

func (r *Registry) persist() error {
	data, err := json.Marshal(snapshot{
		Categories: r.categories,
		EventTypes: r.eventTypes,
	})
	if err != nil {
		return errors.NewSystemErrorWithOp("registry persist", "marshal failed", err)
	}
	if err := r.kv.Save(model.KeyRegistry, data); err != nil {
		return errors.NewSystemErrorWithOp("registry persist", "storage write failed", err)
	}
	return nil
}

// Categories returns the catalog in registry order.
func (r *Registry) Categories() []model.Category {
	out := make([]model.Category, len(r.categories))
	copy(out, r.categories)
	return out
}

// EventTypes returns all event-type definitions in registry order.
func (r *Registry) EventTypes() []model.EventTypeDefinition {
	out := make([]model.EventTypeDefinition, len(r.eventTypes))
	copy(out, r.eventTypes)
	return out
}

// Category looks up a category by id.
func (r *Registry) Category(id string) (model.Category, bool) {
	for _, c := range r.categories {
		if c.ID == id {
			return c, true
		}
	}
	return model.Category{}, false
}

// EventType looks up an event-type definition by id.
func (r *Registry) EventType(id string) (model.EventTypeDefinition, bool) {
	for _, d := range r.eventTypes {
		if d.ID == id {
			return d, true
		}
	}
	return model.EventTypeDefinition{}, false
}

// HasEventType reports whether the given event-type id is registered.
func (r *Registry) HasEventType(id string) bool {
	_, ok := r.EventType(id)
	return ok
}

// AddCategory creates a new, never built-in category with a fresh id.
func (r *Registry) AddCategory(label, color string) (model.Category, error) {
	cat := model.Category{
		ID:    model.NewID(),
		Label: label,
		Color: color,
	}
	r.categories = append(r.categories, cat)
	if err := r.persist(); err != nil {
		r.categories = r.categories[:len(r.categories)-1]
		return model.Category{}, err
	}
	return cat, nil
}

// RenameCategory relabels a category. Allowed for built-ins.
func (r *Registry) RenameCategory(id, label string) error {
	return r.updateCategory(id, func(c *model.Category) { c.Label = label })
}

// RestyleCategory changes a category's display token. Allowed for built-ins.
func (r *Registry) RestyleCategory(id, color string) error {
	return r.updateCategory(id, func(c *model.Category) { c.Color = color })
}

func (r *Registry) updateCategory(id string, apply func(*model.Category)) error {
	for i := range r.categories {
		if r.categories[i].ID == id {
			prev := r.categories[i]
			apply(&r.categories[i])
			if err := r.persist(); err != nil {
				r.categories[i] = prev
				return err
			}
			return nil
		}
	}
	return errors.ErrUnknownCategory
}

// DeleteCategory removes a non-built-in category. Every event-type
// definition pointing at it is reassigned to the first remaining
// category; deleting the last category is refused outright.
func (r *Registry) DeleteCategory(id string) error {
	idx := -1
	for i, c := range r.categories {
		if c.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return errors.ErrUnknownCategory
	}
	if r.categories[idx].BuiltIn {
		return errors.ErrProtectedEntity
	}
	if len(r.categories) == 1 {
		return errors.ErrLastCategory
	}

	prevCategories := r.Categories()
	prevTypes := r.EventTypes()

	r.categories = append(r.categories[:idx], r.categories[idx+1:]...)
	fallback := r.categories[0].ID
	reassigned := 0
	for i := range r.eventTypes {
		if r.eventTypes[i].CategoryID == id {
			r.eventTypes[i].CategoryID = fallback
			reassigned++
		}
	}
	if err := r.persist(); err != nil {
		r.categories = prevCategories
		r.eventTypes = prevTypes
		return err
	}
	if reassigned > 0 {
		logging.Info("event types reassigned after category delete",
			logging.KeyCategory, id, logging.KeyCount, reassigned)
	}
	return nil
}

// AddEventType creates a non-built-in definition with a fresh id.
func (r *Registry) AddEventType(label, categoryID string) (model.EventTypeDefinition, error) {
	if _, ok := r.Category(categoryID); !ok {
		return model.EventTypeDefinition{}, errors.ErrUnknownCategory
	}
	def := model.EventTypeDefinition{
		ID:         model.NewID(),
		Label:      label,
		CategoryID: categoryID,
	}
	r.eventTypes = append(r.eventTypes, def)
	if err := r.persist(); err != nil {
		r.eventTypes = r.eventTypes[:len(r.eventTypes)-1]
		return model.EventTypeDefinition{}, err
	}
	return def, nil
}

// RelabelEventType renames a definition. Allowed for built-ins.
func (r *Registry) RelabelEventType(id, label string) error {
	return r.updateEventType(id, func(d *model.EventTypeDefinition) error {
		d.Label = label
		return nil
	})
}

// RecategorizeEventType moves a definition to another existing
// category. Allowed for built-ins.
func (r *Registry) RecategorizeEventType(id, categoryID string) error {
	if _, ok := r.Category(categoryID); !ok {
		return errors.ErrUnknownCategory
	}
	return r.updateEventType(id, func(d *model.EventTypeDefinition) error {
		d.CategoryID = categoryID
		return nil
	})
}

func (r *Registry) updateEventType(id string, apply func(*model.EventTypeDefinition) error) error {
	for i := range r.eventTypes {
		if r.eventTypes[i].ID == id {
			prev := r.eventTypes[i]
			if err := apply(&r.eventTypes[i]); err != nil {
				r.eventTypes[i] = prev
				return err
			}
			if err := r.persist(); err != nil {
				r.eventTypes[i] = prev
				return err
			}
			return nil
		}
	}
	return errors.ErrUnknownEventType
}

// DeleteEventType removes a non-built-in definition.
func (r *Registry) DeleteEventType(id string) error {
	for i, d := range r.eventTypes {
		if d.ID == id {
			if d.BuiltIn {
				return errors.ErrProtectedEntity
			}
			prev := r.EventTypes()
			r.eventTypes = append(r.eventTypes[:i], r.eventTypes[i+1:]...)
			if err := r.persist(); err != nil {
				r.eventTypes = prev
				return err
			}
			return nil
		}
	}
	return errors.ErrUnknownEventType
}
