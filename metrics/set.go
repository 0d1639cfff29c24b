// Copyright 2024 The Erigon Authors
// This file is part of Erigon.
//
// Erigon is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Erigon is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with Erigon. If not, see <http://www.gnu.org/licenses/>.

package metrics

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Set is a named collection of metrics backed by its own prometheus registry.
type Set struct {
	mu       sync.Mutex
	registry *prometheus.Registry
	counters map[string]prometheus.Counter
	gauges   map[string]prometheus.Gauge
}

func NewSet() *Set {
	return &Set{
		registry: prometheus.NewRegistry(),
		counters: map[string]prometheus.Counter{},
		gauges:   map[string]prometheus.Gauge{},
	}
}

var defaultSet = NewSet()

// Registry exposes the default set for scraping.
func Registry() *prometheus.Registry { return defaultSet.registry }

func (s *Set) Registry() *prometheus.Registry { return s.registry }

func (s *Set) NewCounter(name string) (prometheus.Counter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.counters[name]; ok {
		return nil, fmt.Errorf("metric %q is already registered", name)
	}
	return s.registerCounter(name)
}

func (s *Set) GetOrCreateCounter(name string) (prometheus.Counter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.counters[name]; ok {
		return c, nil
	}
	return s.registerCounter(name)
}

func (s *Set) registerCounter(name string) (prometheus.Counter, error) {
	c := prometheus.NewCounter(prometheus.CounterOpts{Name: name, Help: name})
	if err := s.registry.Register(c); err != nil {
		return nil, err
	}
	s.counters[name] = c
	return c, nil
}

func (s *Set) GetOrCreateGauge(name string) (prometheus.Gauge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if g, ok := s.gauges[name]; ok {
		return g, nil
	}
	g := prometheus.NewGauge(prometheus.GaugeOpts{Name: name, Help: name})
	if err := s.registry.Register(g); err != nil {
		return nil, err
	}
	s.gauges[name] = g
	return g, nil
}
