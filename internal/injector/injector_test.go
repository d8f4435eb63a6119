package injector

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"github.com/zeusync/spatial/internal/core/observability/log"
	"github.com/zeusync/spatial/internal/core/spatial"
)

func TestInitializeRuntime(t *testing.T) {
	cfg := spatial.DefaultConfig()
	cfg.LogLevel = "silent"

	rt := InitializeRuntime(cfg)
	require.NotNil(t, rt.Engine)
	require.Equal(t, log.LevelSilent, rt.Logger.GetLevel())
	require.Equal(t, cfg, rt.Engine.Config())

	rt.Engine.Initialize()
	defer rt.Engine.Shutdown()
	rt.Engine.RegisterEntity(1, 0, 0, 0, 0.5)
	require.Equal(t, []int64{1}, rt.Engine.GetVisibleEntities(0, 0, 0, 5))

	require.Equal(t, 10, testutil.CollectAndCount(rt.Collector))
	require.Equal(t, 1, testutil.CollectAndCount(rt.Collector, "spatial_entities"))
}
