package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/maxjeffwell/spaced-repetition-capstone-server/internal/database"
	"github.com/maxjeffwell/spaced-repetition-capstone-server/internal/ml"
)

// DefaultRetrainHour is the UTC hour the nightly retraining job runs.
const DefaultRetrainHour = 3

// Notifier receives due-card reminders
type Notifier interface {
	NotifyDue(dueCount int) error
}

// Scheduler manages the background jobs: nightly model retraining and
// hourly due-card reminders
type Scheduler struct {
	scheduler   *gocron.Scheduler
	predictor   *ml.Service
	trainer     *ml.Trainer
	notifier    Notifier
	modelPath   string
	retrainHour int
}

// New creates a scheduler instance. notifier may be nil to disable
// reminders
func New(predictor *ml.Service, trainer *ml.Trainer, notifier Notifier, modelPath string, retrainHour int) *Scheduler {
	if retrainHour < 0 || retrainHour > 23 {
		retrainHour = DefaultRetrainHour
	}
	return &Scheduler{
		scheduler:   gocron.NewScheduler(time.UTC),
		predictor:   predictor,
		trainer:     trainer,
		notifier:    notifier,
		modelPath:   modelPath,
		retrainHour: retrainHour,
	}
}

// Start begins running all scheduled jobs
func (s *Scheduler) Start() {
	s.scheduler.Every(1).Day().At(fmt.Sprintf("%02d:00", s.retrainHour)).Do(s.retrain)
	if s.notifier != nil {
		s.scheduler.Every(1).Hour().Do(s.checkDueCards)
	}
	s.scheduler.StartAsync()
}

// Stop terminates all scheduled jobs
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// Retrain runs one training cycle immediately. The job is
// write-new-then-swap: the artifact file is replaced atomically and only
// a successfully trained model reaches the predictor service, so any
// failure leaves the serving model untouched.
func (s *Scheduler) Retrain(ctx context.Context) error {
	eventRepo := database.NewReviewEventRepository()
	events, err := eventRepo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("load review events: %w", err)
	}

	samples := ml.BuildSamples(events, ml.DefaultLabelConfig())
	artifact, metrics, err := s.trainer.Train(ctx, samples)
	if err != nil {
		return fmt.Errorf("train: %w", err)
	}

	if err := artifact.Save(s.modelPath); err != nil {
		return fmt.Errorf("save artifact: %w", err)
	}

	predictor, err := ml.NewPredictor(artifact)
	if err != nil {
		return fmt.Errorf("build predictor: %w", err)
	}
	s.predictor.Swap(predictor)

	log.Printf("scheduler: retrained on %d samples (MAE %.2f days, %.1f%% over baseline)",
		len(samples), metrics.MAE, metrics.Improvement)
	return nil
}

// retrain is the gocron entry point
func (s *Scheduler) retrain() {
	if err := s.Retrain(context.Background()); err != nil {
		log.Printf("scheduler: retrain skipped: %v", err)
	}
}

// checkDueCards counts cards whose interval has elapsed and notifies
func (s *Scheduler) checkDueCards() {
	ctx := context.Background()
	cardRepo := database.NewCardRepository()
	cards, err := cardRepo.GetAll(ctx)
	if err != nil {
		log.Printf("scheduler: error listing cards: %v", err)
		return
	}

	now := time.Now()
	due := 0
	for _, card := range cards {
		if card.LastReviewed.IsZero() {
			due++
			continue
		}
		if now.Sub(card.LastReviewed).Hours()/24.0 >= float64(card.Interval) {
			due++
		}
	}

	if due > 0 {
		if err := s.notifier.NotifyDue(due); err != nil {
			log.Printf("scheduler: error sending due reminder: %v", err)
		}
	}
}
