// Package jobmgr runs named background jobs with cancellation and in-memory
// tracking of what is running.
//
//	jm := jobmgr.NewManager(logger)
//	_ = jm.StartAsync(ctx, "economy-watch", func(ctx context.Context) error {
//	    return relay.Watch(ctx, 30*time.Second)
//	})
//	defer jm.StopAll()
//
// No retries, no workers, no persistence. A job is forgotten as soon as its
// runner returns.
package jobmgr

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

type Job struct {
	Name   string
	Cancel context.CancelFunc
}

// Manager is safe for concurrent use.
type Manager struct {
	mu   sync.Mutex
	jobs map[string]*Job
	wg   sync.WaitGroup
	log  zerolog.Logger
}

// NewManager creates a Manager that logs job lifecycle events to logger.
func NewManager(logger zerolog.Logger) *Manager {
	return &Manager{
		jobs: make(map[string]*Job),
		log:  logger,
	}
}

// StartSync runs a job in the current goroutine and blocks until completion.
func (m *Manager) StartSync(parent context.Context, name string, runner func(ctx context.Context) error) error {
	ctx, cancel := context.WithCancel(parent)
	defer cancel()
	if err := runner(ctx); err != nil {
		return fmt.Errorf("job %q: %w", name, err)
	}
	return nil
}

// StartAsync runs a job in its own goroutine, derived from parent, and returns
// immediately. Names are unique among running jobs.
func (m *Manager) StartAsync(parent context.Context, name string, runner func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.jobs[name]; exists {
		return fmt.Errorf("job %q is already running", name)
	}

	ctx, cancel := context.WithCancel(parent)
	job := &Job{Name: name, Cancel: cancel}
	m.jobs[name] = job

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		defer cancel()

		m.log.Debug().Str("job", name).Msg("job running")
		if err := runner(ctx); err != nil {
			m.log.Error().Err(err).Str("job", name).Msg("job failed")
		} else {
			m.log.Debug().Str("job", name).Msg("job done")
		}

		m.mu.Lock()
		if m.jobs[name] == job {
			delete(m.jobs, name)
		}
		m.mu.Unlock()
	}()

	return nil
}

// Stop cancels a running job by name.
func (m *Manager) Stop(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, ok := m.jobs[name]
	if !ok {
		return fmt.Errorf("job %q not running", name)
	}
	job.Cancel()
	delete(m.jobs, name)
	return nil
}

// StopAll cancels every running job and waits for their runners to return.
func (m *Manager) StopAll() {
	m.mu.Lock()
	for name, job := range m.jobs {
		job.Cancel()
		delete(m.jobs, name)
	}
	m.mu.Unlock()
	m.wg.Wait()
}

// List returns the names of running jobs, sorted.
func (m *Manager) List() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]string, 0, len(m.jobs))
	for k := range m.jobs {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Status returns a human-readable summary, e.g. "Running jobs: economy-watch".
func (m *Manager) Status() string {
	active := m.List()
	if len(active) == 0 {
		return "No jobs are running."
	}
	return fmt.Sprintf("Running jobs: %s", strings.Join(active, ", "))
}
