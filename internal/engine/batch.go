package engine

// EntitySpec describes one entity to register.
type EntitySpec struct {
	ID      int64
	X, Y, Z float32
	Radius  float32
}

// PositionUpdate describes one entity move.
type PositionUpdate struct {
	ID      int64
	X, Y, Z float32
}

// ViewQuery describes one visibility query.
type ViewQuery struct {
	X, Y, Z      float32
	ViewDistance float32
}

// RegisterBatch registers every entity in order.
func (e *Engine) RegisterBatch(specs []EntitySpec) {
	for _, s := range specs {
		e.RegisterEntity(s.ID, s.X, s.Y, s.Z, s.Radius)
	}
}

// UpdateBatch applies every move in order.
func (e *Engine) UpdateBatch(updates []PositionUpdate) {
	for _, u := range updates {
		e.UpdateEntityPosition(u.ID, u.X, u.Y, u.Z)
	}
}

// UnregisterBatch unregisters every id in order.
func (e *Engine) UnregisterBatch(ids []int64) {
	for _, id := range ids {
		e.UnregisterEntity(id)
	}
}

// QueryBatch runs every query in order. Result i answers queries[i].
func (e *Engine) QueryBatch(queries []ViewQuery) [][]int64 {
	results := make([][]int64, len(queries))
	for i, q := range queries {
		results[i] = e.GetVisibleEntities(q.X, q.Y, q.Z, q.ViewDistance)
	}
	return results
}
