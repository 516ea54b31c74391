// Package sampler polls CPU utilization and resident set size for a process
// tree at a fixed interval while a benchmark round is running.
package sampler

import (
	"fmt"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v4/process"
)

// Interval is the polling cadence. Polls that overrun it are dropped by the
// ticker rather than compensated.
const Interval = 50 * time.Millisecond

// Sample is one observation: At is the offset in seconds since sampling
// began, Value the observed metric (CPU percent or RSS bytes).
type Sample struct {
	At    float64 `json:"at"`
	Value float64 `json:"value"`
}

// Series is an ordered sequence of samples from one round.
type Series []Sample

// Values returns just the observed values, in sampling order.
func (s Series) Values() []float64 {
	out := make([]float64, len(s))
	for i, sm := range s {
		out[i] = sm.Value
	}
	return out
}

// Sampler observes one process and its transitive children. A Sampler is
// good for a single Start/Stop cycle; rounds each get a fresh one so CPU
// baselines never leak across rounds.
type Sampler struct {
	root     *process.Process
	procs    map[int32]*process.Process
	interval time.Duration

	mu  sync.Mutex
	cpu Series
	ram Series

	started time.Time
	stop    chan struct{}
	done    chan struct{}
}

// New prepares a sampler for pid and primes its CPU baseline, so the first
// tick reports utilization since this call rather than since process start.
func New(pid int32) (*Sampler, error) {
	root, err := process.NewProcess(pid)
	if err != nil {
		return nil, fmt.Errorf("attach to process %d: %w", pid, err)
	}
	root.Percent(0)

	return &Sampler{
		root:     root,
		procs:    map[int32]*process.Process{pid: root},
		interval: Interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}, nil
}

// Start begins polling in a new goroutine. Call Stop exactly once afterwards.
func (s *Sampler) Start() {
	s.started = time.Now()
	go s.run()
}

// Stop ends polling and returns the collected CPU and RAM series. Stopping
// before the first interval elapsed yields two empty series.
func (s *Sampler) Stop() (cpu, ram Series) {
	close(s.stop)
	<-s.done

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cpu, s.ram
}

func (s *Sampler) run() {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.sample()
		}
	}
}

// sample aggregates one CPU and one RSS observation over the process tree.
// Processes that vanish mid-poll are skipped.
func (s *Sampler) sample() {
	at := time.Since(s.started).Seconds()

	var cpuTotal float64
	var rssTotal uint64
	for _, p := range s.tree() {
		if pct, err := p.Percent(0); err == nil {
			cpuTotal += pct
		}
		if mi, err := p.MemoryInfo(); err == nil {
			rssTotal += mi.RSS
		}
	}

	s.mu.Lock()
	s.cpu = append(s.cpu, Sample{At: at, Value: cpuTotal})
	s.ram = append(s.ram, Sample{At: at, Value: float64(rssTotal)})
	s.mu.Unlock()
}

// tree returns the root process plus its live transitive children. Handles
// are cached across ticks so Percent(0) measures against the previous tick;
// a child seen for the first time is primed and contributes from its second
// observation.
func (s *Sampler) tree() []*process.Process {
	seen := map[int32]bool{s.root.Pid: true}
	order := []*process.Process{s.root}
	queue := []*process.Process{s.root}

	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]

		children, err := p.Children()
		if err != nil {
			continue
		}
		for _, c := range children {
			if seen[c.Pid] {
				continue
			}
			seen[c.Pid] = true
			h := s.handle(c)
			order = append(order, h)
			queue = append(queue, h)
		}
	}

	for pid := range s.procs {
		if !seen[pid] {
			delete(s.procs, pid)
		}
	}
	return order
}

func (s *Sampler) handle(p *process.Process) *process.Process {
	if h, ok := s.procs[p.Pid]; ok {
		return h
	}
	p.Percent(0)
	s.procs[p.Pid] = p
	return p
}
