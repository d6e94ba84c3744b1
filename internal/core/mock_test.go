package core

import (
	"context"
	"sync"

	"github.com/enerlytics/roomscan/internal/detect"
)

// MockEngine records detection calls and replays a scripted outcome. When
// Started and Proceed are set, a call announces itself on Started and then
// blocks until Proceed is closed, which lets tests hold runs in flight.
type MockEngine struct {
	Run detect.Run
	Err error

	Started chan string
	Proceed chan struct{}

	mu        sync.Mutex
	Calls     []string
	active    int
	MaxActive int
}

func (m *MockEngine) Detect(ctx context.Context, imageAbsPath string) (detect.Run, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, imageAbsPath)
	m.active++
	if m.active > m.MaxActive {
		m.MaxActive = m.active
	}
	m.mu.Unlock()

	if m.Started != nil {
		m.Started <- imageAbsPath
	}
	if m.Proceed != nil {
		<-m.Proceed
	}

	m.mu.Lock()
	m.active--
	m.mu.Unlock()

	return m.Run, m.Err
}

func (m *MockEngine) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
