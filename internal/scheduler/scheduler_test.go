package scheduler

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soltixdb/cyclepeak/internal/config"
	"github.com/soltixdb/cyclepeak/internal/logging"
	"github.com/soltixdb/cyclepeak/internal/models"
)

type fakePassService struct {
	mu        sync.Mutex
	passes    []models.PassResponse
	idle      []models.PassResponse
	evictArgs []time.Duration
}

func (f *fakePassService) ListPasses() *models.PassListResponse {
	f.mu.Lock()
	defer f.mu.Unlock()
	return &models.PassListResponse{Passes: f.passes}
}

func (f *fakePassService) EvictIdle(idleTimeout time.Duration) []models.PassResponse {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.evictArgs = append(f.evictArgs, idleTimeout)
	out := f.idle
	f.idle = nil
	return out
}

func (f *fakePassService) evictCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.evictArgs)
}

func strPtr(s string) *string { return &s }

func TestNew_Validation(t *testing.T) {
	_, err := New(nil, config.PassesConfig{}, nil)
	assert.Error(t, err)

	_, err = New(&fakePassService{}, config.PassesConfig{ReportSchedule: "not a schedule"}, logging.NewNop())
	assert.Error(t, err)
}

func TestNew_EmptyScheduleRegistersNothing(t *testing.T) {
	s, err := New(&fakePassService{}, config.PassesConfig{IdleTimeout: time.Minute}, logging.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 0, s.Stats()["jobs"])

	s.Start()
	s.Stop()
}

func TestScheduler_RunNow(t *testing.T) {
	svc := &fakePassService{
		passes: []models.PassResponse{
			{ID: "a", Kind: "time_of_day", Count: 3, Peak: &models.PeakResponse{Defined: true, Peak: strPtr("06:00:00")}},
			{ID: "b", Kind: "month", Count: 2, Peak: &models.PeakResponse{Defined: false}},
		},
		idle: []models.PassResponse{{ID: "old", Kind: "day_of_week", Count: 1}},
	}

	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, zerolog.DebugLevel)

	s, err := New(svc, config.PassesConfig{IdleTimeout: 5 * time.Minute, ReportSchedule: "@every 1h"}, logger)
	require.NoError(t, err)

	s.RunNow()

	require.Len(t, svc.evictArgs, 1)
	assert.Equal(t, 5*time.Minute, svc.evictArgs[0])

	out := buf.String()
	assert.Contains(t, out, "Evicted idle pass")
	assert.Contains(t, out, `"pass_id":"old"`)
	assert.Contains(t, out, "Pass report")
	assert.Contains(t, out, `"peak":"06:00:00"`)

	stats := s.Stats()
	assert.Equal(t, int64(1), stats["runs"])
	assert.Equal(t, int64(1), stats["evicted"])
	assert.Equal(t, 1, stats["jobs"])
}

func TestScheduler_CronFires(t *testing.T) {
	svc := &fakePassService{}

	s, err := New(svc, config.PassesConfig{IdleTimeout: time.Minute, ReportSchedule: "@every 1s"}, logging.NewNop())
	require.NoError(t, err)

	s.Start()
	defer s.Stop()

	assert.Eventually(t, func() bool { return svc.evictCalls() > 0 }, 3*time.Second, 50*time.Millisecond)
}
