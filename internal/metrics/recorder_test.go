package metrics

import (
	"sync"
	"time"
)

// testRecorder counts calls; used to check that callers go through the interface.
type testRecorder struct {
	mu             sync.Mutex
	stageDurations map[string]int
	buildDurations int
	buildOutcomes  map[BuildOutcome]int
	pages          int
	rows           int
	collections    int
	lookups        map[bool]int
}

var _ Recorder = (*testRecorder)(nil)

func newTestRecorder() *testRecorder {
	return &testRecorder{
		stageDurations: map[string]int{},
		buildOutcomes:  map[BuildOutcome]int{},
		lookups:        map[bool]int{},
	}
}

func (t *testRecorder) ObserveStageDuration(stage string, _ time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stageDurations[stage]++
}

func (t *testRecorder) ObserveBuildDuration(time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buildDurations++
}

func (t *testRecorder) IncBuildOutcome(o BuildOutcome) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buildOutcomes[o]++
}

func (t *testRecorder) AddPages(n int)       { t.mu.Lock(); t.pages += n; t.mu.Unlock() }
func (t *testRecorder) AddRows(n int)        { t.mu.Lock(); t.rows += n; t.mu.Unlock() }
func (t *testRecorder) SetCollections(n int) { t.mu.Lock(); t.collections = n; t.mu.Unlock() }
func (t *testRecorder) IncVersionLookup(found bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lookups[found]++
}
