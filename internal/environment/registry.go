package environment

import (
	"sort"
)

// Registry is the in-memory collection of every known environment.
// Stored records are only mutated through the registry's own methods;
// every read hands out copies.
type Registry struct {
	records []Record
}

// NewRegistry builds a registry from previously persisted records.
func NewRegistry(records ...Record) (*Registry, error) {
	r := &Registry{}
	for _, rec := range records {
		if err := r.Add(rec); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Add inserts a record at the end of the registry.
// It fails with a DuplicateError when the name or the location is already taken,
// leaving the registry unchanged. Adding an active record deactivates the others.
func (r *Registry) Add(rec Record) error {
	for _, existing := range r.records {
		if existing.Name == rec.Name {
			return &DuplicateError{Field: "name", Value: rec.Name}
		}
		if existing.Location == rec.Location {
			return &DuplicateError{Field: "location", Value: rec.Location}
		}
	}

	if rec.Active {
		r.deactivateAll()
	}
	r.records = append(r.records, rec)
	return nil
}

// Remove drops every record sharing the location of rec, then re-sorts the
// remaining records by name and location. Removing an unknown location is a no-op.
func (r *Registry) Remove(rec Record) {
	kept := r.records[:0]
	for _, existing := range r.records {
		if existing.Location != rec.Location {
			kept = append(kept, existing)
		}
	}
	r.records = kept

	sort.SliceStable(r.records, func(i, j int) bool {
		if r.records[i].Name != r.records[j].Name {
			return r.records[i].Name < r.records[j].Name
		}
		return r.records[i].Location < r.records[j].Location
	})
}

// All returns a copy of every record in registry order.
func (r *Registry) All() []Record {
	records := make([]Record, len(r.records))
	copy(records, r.records)
	return records
}

// Len returns the number of registered environments.
func (r *Registry) Len() int {
	return len(r.records)
}

// FindByName returns the record with exactly the given name.
func (r *Registry) FindByName(name string) (Record, bool) {
	for _, rec := range r.records {
		if rec.Name == name {
			return rec, true
		}
	}
	return Record{}, false
}

// FindByLocation returns the record with exactly the given location.
func (r *Registry) FindByLocation(location string) (Record, bool) {
	for _, rec := range r.records {
		if rec.Location == location {
			return rec, true
		}
	}
	return Record{}, false
}

// ActiveRecord returns the active record, if any.
// More than one active record means the registry was mutated behind its back.
func (r *Registry) ActiveRecord() (Record, bool, error) {
	var (
		active Record
		found  bool
	)
	for _, rec := range r.records {
		if !rec.Active {
			continue
		}
		if found {
			return Record{}, false, ErrInconsistentRegistry
		}
		active, found = rec, true
	}
	return active, found, nil
}

// Activate flags the record at location as active and every other record as inactive.
func (r *Registry) Activate(location string) error {
	i := r.indexOf(location)
	if i < 0 {
		return &NotFoundError{Name: location}
	}
	r.deactivateAll()
	r.records[i].Active = true
	return nil
}

// Deactivate clears the active flag of the record at location.
func (r *Registry) Deactivate(location string) error {
	i := r.indexOf(location)
	if i < 0 {
		return &NotFoundError{Name: location}
	}
	r.records[i].Active = false
	return nil
}

func (r *Registry) deactivateAll() {
	for i := range r.records {
		r.records[i].Active = false
	}
}

func (r *Registry) indexOf(location string) int {
	for i, rec := range r.records {
		if rec.Location == location {
			return i
		}
	}
	return -1
}
