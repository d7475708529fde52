package ml

import (
	"log"
	"sync/atomic"
)

// Service is the injected handle through which the serving path reaches
// the currently loaded Predictor. Replacing the predictor is an atomic
// pointer swap: in-flight predictions keep the artifact they started
// with, and a failed reload leaves the previous artifact untouched.
type Service struct {
	current atomic.Pointer[Predictor]
}

// NewService returns a Service with no model loaded. Predictions fail
// with ErrNotLoaded until Load or Swap succeeds.
func NewService() *Service {
	return &Service{}
}

// Load reads an artifact from disk and swaps it in. On any error the
// currently serving predictor, if any, keeps serving.
func (s *Service) Load(path string) error {
	a, err := LoadArtifact(path)
	if err != nil {
		return err
	}
	p, err := NewPredictor(a)
	if err != nil {
		return err
	}
	s.Swap(p)
	log.Printf("ml: loaded model %s (trained %s, MAE %.2f days)",
		a.Metadata.ModelVersion, a.Metadata.TrainedAt.Format("2006-01-02"), a.Metadata.Metrics.MAE)
	return nil
}

// Swap atomically replaces the serving predictor.
func (s *Service) Swap(p *Predictor) {
	s.current.Store(p)
}

// Predictor returns the serving predictor, or ErrNotLoaded if none is
// available.
func (s *Service) Predictor() (*Predictor, error) {
	p := s.current.Load()
	if p == nil {
		return nil, ErrNotLoaded
	}
	return p, nil
}

// Loaded reports whether a predictor is currently serving.
func (s *Service) Loaded() bool {
	return s.current.Load() != nil
}
