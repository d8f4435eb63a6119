// Command libspatial builds the engine as a C shared library:
//
//	go build -buildmode=c-shared -o libspatial.so ./cmd/libspatial
//
// Engines are created explicitly and addressed by handle. Query results are
// returned either in a malloc'd buffer released with spatial_free_entity_list
// or copied into a buffer supplied by the caller.
package main

/*
#include <stdint.h>
#include <stdlib.h>

typedef struct {
	uint64_t total_queries;
	uint64_t cache_hits;
	uint64_t entities_processed;
	uint64_t regions_checked;
	double   average_query_time_ns;
} spatial_stats;
*/
import "C"

import (
	"os"
	"unsafe"

	"github.com/zeusync/spatial/internal/core/observability/log"
	"github.com/zeusync/spatial/internal/core/spatial"
	"github.com/zeusync/spatial/internal/engine"
	"github.com/zeusync/spatial/internal/ffi"
)

var table = ffi.NewTable(newEngine)

// newEngine logs only when SPATIAL_LOG_LEVEL is set so a host process is not
// flooded on stderr by default.
func newEngine() *engine.Engine {
	var logger log.Log = log.NewNop()
	if level, ok := os.LookupEnv("SPATIAL_LOG_LEVEL"); ok {
		logger = log.New(log.ParseLevel(level))
	}
	return engine.New(spatial.DefaultConfig(), engine.WithLogger(logger))
}

//export spatial_create
func spatial_create() C.uint64_t {
	return C.uint64_t(table.Create())
}

//export spatial_destroy
func spatial_destroy(h C.uint64_t) {
	table.Destroy(ffi.Handle(h))
}

//export spatial_init
func spatial_init(h C.uint64_t) C.int {
	ok := false
	table.With(ffi.Handle(h), func(e *engine.Engine) { ok = e.Initialize() })
	if ok {
		return 1
	}
	return 0
}

//export spatial_shutdown
func spatial_shutdown(h C.uint64_t) {
	table.With(ffi.Handle(h), func(e *engine.Engine) { e.Shutdown() })
}

//export spatial_register_entity
func spatial_register_entity(h C.uint64_t, id C.int64_t, x, y, z, radius C.float) {
	table.With(ffi.Handle(h), func(e *engine.Engine) {
		e.RegisterEntity(int64(id), float32(x), float32(y), float32(z), float32(radius))
	})
}

//export spatial_update_entity_position
func spatial_update_entity_position(h C.uint64_t, id C.int64_t, x, y, z C.float) {
	table.With(ffi.Handle(h), func(e *engine.Engine) {
		e.UpdateEntityPosition(int64(id), float32(x), float32(y), float32(z))
	})
}

//export spatial_unregister_entity
func spatial_unregister_entity(h C.uint64_t, id C.int64_t) {
	table.With(ffi.Handle(h), func(e *engine.Engine) { e.UnregisterEntity(int64(id)) })
}

//export spatial_get_visible_entities
func spatial_get_visible_entities(h C.uint64_t, x, y, z, viewDistance C.float, count *C.int32_t) *C.int64_t {
	var ids []int64
	table.With(ffi.Handle(h), func(e *engine.Engine) {
		ids = e.GetVisibleEntities(float32(x), float32(y), float32(z), float32(viewDistance))
	})
	if count != nil {
		*count = C.int32_t(len(ids))
	}
	if len(ids) == 0 {
		return nil
	}

	buf := (*C.int64_t)(C.malloc(C.size_t(len(ids)) * C.size_t(unsafe.Sizeof(C.int64_t(0)))))
	if buf == nil {
		if count != nil {
			*count = 0
		}
		return nil
	}
	ffi.CopyInto(unsafe.Slice((*int64)(unsafe.Pointer(buf)), len(ids)), ids)
	return buf
}

//export spatial_free_entity_list
func spatial_free_entity_list(list *C.int64_t) {
	if list != nil {
		C.free(unsafe.Pointer(list))
	}
}

//export spatial_get_visible_entities_into
func spatial_get_visible_entities_into(h C.uint64_t, x, y, z, viewDistance C.float, buf *C.int64_t, capacity C.int32_t) C.int32_t {
	var ids []int64
	table.With(ffi.Handle(h), func(e *engine.Engine) {
		ids = e.GetVisibleEntities(float32(x), float32(y), float32(z), float32(viewDistance))
	})
	var dst []int64
	if buf != nil && capacity > 0 {
		dst = unsafe.Slice((*int64)(unsafe.Pointer(buf)), int(capacity))
	}
	return C.int32_t(ffi.CopyInto(dst, ids))
}

//export spatial_tick
func spatial_tick(h C.uint64_t) {
	table.With(ffi.Handle(h), func(e *engine.Engine) { e.Tick() })
}

//export spatial_get_stats
func spatial_get_stats(h C.uint64_t, out *C.spatial_stats) {
	if out == nil {
		return
	}
	var s ffi.Stats
	table.With(ffi.Handle(h), func(e *engine.Engine) { s = ffi.StatsFrom(e.Stats()) })
	out.total_queries = C.uint64_t(s.TotalQueries)
	out.cache_hits = C.uint64_t(s.CacheHits)
	out.entities_processed = C.uint64_t(s.EntitiesProcessed)
	out.regions_checked = C.uint64_t(s.RegionsChecked)
	out.average_query_time_ns = C.double(s.AverageQueryTimeNs)
}

//export spatial_reset_stats
func spatial_reset_stats(h C.uint64_t) {
	table.With(ffi.Handle(h), func(e *engine.Engine) { e.ResetStats() })
}

func main() {}
