// Copyright (c) 2025 hitoshi.mukai.b@gmail.com. All rights reserved.
// You are free to use this source code for any purpose. The copyright remains with the author.
// The author accepts no liability for any damages arising from the use of this source code.
//
// Last modified: 2025.10.14
//

package coordinates

import (
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/singleflight"
)

// Options for Solver
type SolverOpt struct {
	MaxNavFiles  int                   // Number of navigation indexes kept in memory (>= 1)
	MaxPositions int                   // Number of positions kept in memory (0: unbounded)
	Registerer   prometheus.Registerer // Registry for cache metrics (nil: no registration)
}

// Return default options
func NewSolverOpt() *SolverOpt {
	return &SolverOpt{
		MaxNavFiles:  8,
		MaxPositions: 0,
	}
}

// Key of a calculated position
type posKey struct {
	path string
	sat  SatType
	usec int64
}

// Storage of calculated positions
type posStore interface {
	Get(k posKey) (PosXYZ, bool)
	Add(k posKey, v PosXYZ)
	RemoveFunc(f func(posKey) bool) int
	Purge()
	Len() int
}

// Unbounded position storage
type mapPosStore struct {
	mu sync.RWMutex
	m  map[posKey]PosXYZ
}

func (s *mapPosStore) Get(k posKey) (PosXYZ, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.m[k]
	return v, ok
}

func (s *mapPosStore) Add(k posKey, v PosXYZ) {
	s.mu.Lock()
	s.m[k] = v
	s.mu.Unlock()
}

func (s *mapPosStore) RemoveFunc(f func(posKey) bool) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for k := range s.m {
		if f(k) {
			delete(s.m, k)
			n++
		}
	}
	return n
}

func (s *mapPosStore) Purge() {
	s.mu.Lock()
	s.m = map[posKey]PosXYZ{}
	s.mu.Unlock()
}

func (s *mapPosStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}

// Position storage evicting least recently used entries
type lruPosStore struct {
	c *lru.Cache[posKey, PosXYZ]
}

func (s *lruPosStore) Get(k posKey) (PosXYZ, bool) {
	return s.c.Get(k)
}

func (s *lruPosStore) Add(k posKey, v PosXYZ) {
	s.c.Add(k, v)
}

func (s *lruPosStore) RemoveFunc(f func(posKey) bool) int {
	n := 0
	for _, k := range s.c.Keys() {
		if f(k) && s.c.Remove(k) {
			n++
		}
	}
	return n
}

func (s *lruPosStore) Purge() {
	s.c.Purge()
}

func (s *lruPosStore) Len() int {
	return s.c.Len()
}

// Satellite position calculator memoizing navigation indexes per file and
// positions per (file, satellite, epoch). Safe for concurrent use.
type Solver struct {
	navs  *lru.Cache[string, NavIndex]
	pos   posStore
	group singleflight.Group
	m     *cacheMetrics
	read  func(path string) (NavIndex, error)

	// Generation counters; results computed before an invalidation are not stored
	mu     sync.Mutex
	gen    map[string]uint64
	purges uint64
}

// Create a solver. nil opt means default options.
func NewSolver(opt *SolverOpt) (*Solver, error) {
	if opt == nil {
		opt = NewSolverOpt()
	}
	if opt.MaxNavFiles < 1 {
		return nil, errors.Errorf("invalid number of navigation files to keep: %d", opt.MaxNavFiles)
	}
	if opt.MaxPositions < 0 {
		return nil, errors.Errorf("invalid number of positions to keep: %d", opt.MaxPositions)
	}
	navs, err := lru.New[string, NavIndex](opt.MaxNavFiles)
	if err != nil {
		return nil, err
	}
	var pos posStore
	if opt.MaxPositions > 0 {
		c, err := lru.New[posKey, PosXYZ](opt.MaxPositions)
		if err != nil {
			return nil, err
		}
		pos = &lruPosStore{c: c}
	} else {
		pos = &mapPosStore{m: map[posKey]PosXYZ{}}
	}
	m, err := newCacheMetrics(opt.Registerer)
	if err != nil {
		return nil, errors.Wrap(err, "registering cache metrics")
	}
	return &Solver{
		navs: navs,
		pos:  pos,
		m:    m,
		read: ReadNavFile,
		gen:  map[string]uint64{},
	}, nil
}

func (s *Solver) generation(path string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.purges + s.gen[path]
}

// Return the navigation index of the file, reading it on first use
func (s *Solver) NavIndex(path string) (NavIndex, error) {
	nav, _, err := s.navIndex(path)
	return nav, err
}

func (s *Solver) navIndex(path string) (NavIndex, uint64, error) {
	gen := s.generation(path)
	if nav, ok := s.navs.Get(path); ok {
		s.m.hit(navCacheLabel)
		return nav, gen, nil
	}
	s.m.miss(navCacheLabel)

	// Builds started before a drop are not joined by later callers
	key := fmt.Sprintf("%s#%d", path, gen)
	v, err, _ := s.group.Do(key, func() (any, error) {
		nav, err := s.read(path)
		if err != nil {
			return nil, err
		}
		s.m.builds.Inc()
		s.mu.Lock()
		if s.purges+s.gen[path] == gen {
			s.navs.Add(path, nav)
		}
		s.mu.Unlock()
		PrintD(1, "nav index built: %s (%d sats, %d messages)\n", path, len(nav), nav.Len())
		return nav, nil
	})
	if err != nil {
		return nil, gen, err
	}
	return v.(NavIndex), gen, nil
}

// Return geocentric XYZ of the satellite at epoch t using the navigation file
func (s *Solver) SatelliteXYZ(path string, sys SysType, num int, t time.Time) (PosXYZ, error) {
	sat := NewSatType(sys, num)
	key := posKey{path: path, sat: sat, usec: t.UnixMicro()}
	if xyz, ok := s.pos.Get(key); ok {
		s.m.hit(posCacheLabel)
		PrintD(3, "position cache hit: %s %s\n", sat, t.UTC().Format("2006/01/02 15:04:05.000000"))
		return xyz, nil
	}
	s.m.miss(posCacheLabel)

	calc, err := Propagator(sys)
	if err != nil {
		return PosXYZ{}, err
	}
	nav, gen, err := s.navIndex(path)
	if err != nil {
		return PosXYZ{}, err
	}
	sel, err := FindMessage(nav, sys, num, t)
	if err != nil {
		return PosXYZ{}, err
	}
	xyz, err := calc(sel.Eph.Orbit, sel.Offset)
	if err != nil {
		return PosXYZ{}, errors.Wrapf(err, "%s %s", sat, sel.Eph.Epoch.Format("2006/01/02 15:04:05"))
	}

	s.mu.Lock()
	if s.purges+s.gen[path] == gen {
		s.pos.Add(key, xyz)
	}
	s.mu.Unlock()
	return xyz, nil
}

// Same as SatelliteXYZ taking a satellite name
func (s *Solver) SatelliteXYZAt(path string, sat SatType, t time.Time) (PosXYZ, error) {
	return s.SatelliteXYZ(path, sat.Sys(), sat.Num(), t)
}

// Drop the navigation index of the file and every position calculated from it
func (s *Solver) Invalidate(path string) {
	s.mu.Lock()
	s.gen[path]++
	s.navs.Remove(path)
	n := s.pos.RemoveFunc(func(k posKey) bool { return k.path == path })
	s.mu.Unlock()
	s.m.invalidations.Inc()
	PrintD(1, "cache invalidated: %s (%d positions)\n", path, n)
}

// Drop everything
func (s *Solver) Purge() {
	s.mu.Lock()
	s.purges++
	s.navs.Purge()
	s.pos.Purge()
	s.mu.Unlock()
	s.m.invalidations.Inc()
	PrintD(1, "cache purged\n")
}

// Number of cached navigation indexes and positions
func (s *Solver) Len() (navs int, positions int) {
	return s.navs.Len(), s.pos.Len()
}
