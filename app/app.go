// Package app wires the kernel, the peer registry and the render loop into a
// host-driven hal.App.
package app

import (
	"errors"
	"fmt"

	"tandem/core/kernel"
	"tandem/core/peers"
	"tandem/core/services/logger"
	"tandem/core/tasks/spheres"
	"tandem/hal"
)

// Config is the full runtime configuration of one window.
type Config struct {
	// Session selects the shared session file. Locate and Logger are filled
	// in from the HAL.
	Session peers.SessionConfig
	Scene   spheres.Config
}

// System is one running window.
type System struct {
	h    hal.HAL
	k    *kernel.Kernel
	reg  peers.Registry
	task *spheres.Task

	closed bool
}

// New joins the configured session and starts the render loop.
func New(h hal.HAL, cfg Config) (*System, error) {
	sc := cfg.Session
	sc.Locate = h.Screen().Placement
	sc.Logger = h.Logger()
	reg, err := peers.NewSessionRegistry(sc)
	if err != nil {
		return nil, fmt.Errorf("app: open session: %w", err)
	}
	return NewWithRegistry(h, reg, cfg.Scene)
}

// NewWithRegistry starts the render loop against reg. reg is closed if
// startup fails.
func NewWithRegistry(h hal.HAL, reg peers.Registry, scene spheres.Config) (*System, error) {
	installPanicHandler(h)

	k := kernel.New()
	logEP := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)
	sceneEP := k.NewEndpoint(kernel.RightSend | kernel.RightRecv)

	task := spheres.New(h.Display(), h.Screen(), reg, sceneEP, logEP.Restrict(kernel.RightSend), scene)
	if _, ok := k.AddTask(task); !ok {
		reg.Close()
		return nil, errors.New("app: task table full")
	}
	if _, ok := k.AddTask(logger.New(h.Logger(), logEP.Restrict(kernel.RightRecv))); !ok {
		reg.Close()
		return nil, errors.New("app: task table full")
	}

	if err := task.Start(k); err != nil {
		reg.Close()
		return nil, fmt.Errorf("app: start: %w", err)
	}
	return &System{h: h, k: k, reg: reg, task: task}, nil
}

// Step runs one frame.
func (s *System) Step() error {
	if s.closed {
		return peers.ErrClosed
	}
	s.k.Step()
	return nil
}

// Close stops the render loop and leaves the session.
func (s *System) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.task.Stop()
	id := s.reg.ID()
	if err := s.reg.Close(); err != nil {
		return fmt.Errorf("app: leave session: %w", err)
	}
	if l := s.h.Logger(); l != nil {
		l.WriteLineString(fmt.Sprintf("app: left session window=%d frames=%d", id, s.task.Frames()))
	}
	return nil
}

// Title names the window after its peer ID.
func (s *System) Title() string { return fmt.Sprintf("Tandem #%d", s.reg.ID()) }

// Task exposes the render loop.
func (s *System) Task() *spheres.Task { return s.task }
