package activity

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/leadline-hq/crm-api/internal/entity"
	"github.com/leadline-hq/crm-api/internal/infra/http/middleware"
)

type Store interface {
	Insert(ctx context.Context, activity *entity.Activity) error
}

// Publisher fans an event out to external consumers. Optional.
type Publisher interface {
	PublishActivity(ctx context.Context, activity *entity.Activity) error
}

// Recorder decouples activity writes from the request path. Record never
// blocks and never reports failure to the caller; a full buffer drops the
// event, and store or publish errors end up in the operational log only.
type Recorder struct {
	store     Store
	publisher Publisher
	log       *logrus.Logger

	events    chan *entity.Activity
	done      chan struct{}
	closeOnce sync.Once
}

const bufferSize = 256

func NewRecorder(store Store, publisher Publisher, log *logrus.Logger) *Recorder {
	r := &Recorder{
		store:     store,
		publisher: publisher,
		log:       log,
		events:    make(chan *entity.Activity, bufferSize),
		done:      make(chan struct{}),
	}
	go r.run()
	return r
}

func (r *Recorder) Record(activity *entity.Activity) {
	select {
	case r.events <- activity:
	default:
		middleware.RecordActivityLogFailure()
		r.log.WithField("type", activity.Type).Warn("activity buffer full, event dropped")
	}
}

func (r *Recorder) run() {
	defer close(r.done)

	for activity := range r.events {
		r.handle(activity)
	}
}

func (r *Recorder) handle(activity *entity.Activity) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := r.store.Insert(ctx, activity); err != nil {
		middleware.RecordActivityLogFailure()
		r.log.WithError(err).WithField("type", activity.Type).Error("activity log failed")
	}

	if r.publisher != nil {
		if err := r.publisher.PublishActivity(ctx, activity); err != nil {
			r.log.WithError(err).WithField("type", activity.Type).Error("activity publish failed")
		}
	}
}

// Close drains pending events before returning.
func (r *Recorder) Close() {
	r.closeOnce.Do(func() {
		close(r.events)
	})
	<-r.done
}
