package spatial

import "slices"

// EntityRecord is the tracked state of one entity.
type EntityRecord struct {
	Position     Position
	Radius       float32
	LastSeenTick uint64
	AccessCount  uint64
}

// EntityRegistry owns entity records and keeps the grid in step with them.
// It is not safe for concurrent use; Partition serialises access.
type EntityRegistry struct {
	records map[EntityID]*EntityRecord
	grid    *RegionGrid
}

// NewEntityRegistry creates a registry that buckets its entities into grid.
func NewEntityRegistry(grid *RegionGrid) *EntityRegistry {
	return &EntityRegistry{
		records: make(map[EntityID]*EntityRecord),
		grid:    grid,
	}
}

// Register inserts or overwrites the record for id.
// Re-registering moves the entity out of its previous bucket first.
func (r *EntityRegistry) Register(id EntityID, p Position, radius float32, tick uint64) {
	if old, ok := r.records[id]; ok {
		r.grid.Remove(id, old.Position)
	}
	r.records[id] = &EntityRecord{
		Position:     p,
		Radius:       radius,
		LastSeenTick: tick,
	}
	r.grid.Add(id, p)
}

// Unregister removes id. Unknown ids are ignored.
func (r *EntityRegistry) Unregister(id EntityID) bool {
	rec, ok := r.records[id]
	if !ok {
		return false
	}
	r.grid.Remove(id, rec.Position)
	delete(r.records, id)
	return true
}

// UpdatePosition moves id to p. Unknown ids are ignored.
// The grid is only touched when the entity crosses a region boundary.
func (r *EntityRegistry) UpdatePosition(id EntityID, p Position, tick uint64) bool {
	rec, ok := r.records[id]
	if !ok {
		return false
	}

	size := r.grid.RegionSize()
	if RegionOf(rec.Position, size) != RegionOf(p, size) {
		r.grid.Remove(id, rec.Position)
		r.grid.Add(id, p)
	}

	rec.Position = p
	rec.LastSeenTick = tick
	rec.AccessCount++
	return true
}

// Get returns a copy of the record for id.
func (r *EntityRegistry) Get(id EntityID) (EntityRecord, bool) {
	rec, ok := r.records[id]
	if !ok {
		return EntityRecord{}, false
	}
	return *rec, true
}

// lookup returns the live record without copying. Callers must hold the
// partition lock for as long as they use it.
func (r *EntityRegistry) lookup(id EntityID) (*EntityRecord, bool) {
	rec, ok := r.records[id]
	return rec, ok
}

// Len returns the number of registered entities.
func (r *EntityRegistry) Len() int {
	return len(r.records)
}

// Stale returns, in ascending order, the ids whose last update is more than
// threshold ticks behind now.
func (r *EntityRegistry) Stale(now, threshold uint64) []EntityID {
	var stale []EntityID
	for id, rec := range r.records {
		if now > rec.LastSeenTick && now-rec.LastSeenTick > threshold {
			stale = append(stale, id)
		}
	}
	slices.Sort(stale)
	return stale
}

// Each calls fn for every record until fn returns false.
func (r *EntityRegistry) Each(fn func(EntityID, EntityRecord) bool) {
	for id, rec := range r.records {
		if !fn(id, *rec) {
			return
		}
	}
}

// Clear drops every record and empties the grid.
func (r *EntityRegistry) Clear() {
	r.records = make(map[EntityID]*EntityRecord)
	r.grid.Clear()
}
