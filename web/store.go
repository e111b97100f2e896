package web

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/mogaika/orrery/gfx/trace"
	"github.com/mogaika/orrery/r3d"
	"github.com/mogaika/orrery/status"
)

type Snapshot struct {
	Frame          int            `json:"frame"`
	ViewProjection mgl32.Mat4     `json:"view_projection"`
	Nodes          []r3d.NodeInfo `json:"nodes"`
}

// Store hands render loop results to the HTTP goroutines. The render loop
// publishes copies; nothing here refers to the graphics context.
type Store struct {
	lock     sync.RWMutex
	snapshot Snapshot
	frame    trace.Frame
	setup    []trace.Call
	stats    status.FrameStats
}

func NewStore() *Store { return &Store{} }

func (s *Store) Publish(snapshot Snapshot, frame trace.Frame, stats status.FrameStats) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.snapshot = snapshot
	s.frame = frame
	s.stats = stats
}

func (s *Store) SetSetup(calls []trace.Call) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.setup = append([]trace.Call(nil), calls...)
}

func (s *Store) Snapshot() Snapshot {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.snapshot
}

func (s *Store) Frame() trace.Frame {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.frame
}

func (s *Store) Setup() []trace.Call {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.setup
}

func (s *Store) Stats() status.FrameStats {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return s.stats
}
