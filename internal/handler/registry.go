package handler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"media-editor/internal/bus"
	"media-editor/internal/editor"
	"media-editor/internal/metrics"
	"media-editor/internal/models"
	"media-editor/internal/scenario"
)

// errSessionClosed is returned for work on a session that was closed or
// evicted while the request was in flight.
var errSessionClosed = errors.New("the editing session was closed")

// liveSession is an editing session held in memory. Every touch of the
// editors goes through queue, so they only ever run on one goroutine.
type liveSession struct {
	id     uuid.UUID
	userID uuid.UUID

	// canonical is the committed media the editor writes back into.
	canonical *models.Media

	queue   *bus.Queue
	editor  *editor.MediaEditor
	dialogs *editor.DialogQueue

	// Scenario editors. strategy is the copy the strategy editor works on;
	// intervention and collection activities point into it when opened by
	// index.
	strategy     *models.Strategy
	strategies   *scenario.StrategyEditor
	intervention *scenario.InterventionEditor
	collection   *scenario.CollectionEditor
	dispatcher   *scenario.Dispatcher

	// ctx lives as long as the session. Background calls the editors start
	// use it so they outlive the request that started them.
	ctx    context.Context
	cancel context.CancelFunc
}

// do runs fn on the session loop and returns its error. It fails fast once
// the session has been closed.
func (s *liveSession) do(ctx context.Context, fn func() error) error {
	if s.ctx.Err() != nil {
		return errSessionClosed
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(s.ctx, cancel)
	defer stop()

	var err error
	if cerr := s.queue.Call(ctx, func() { err = fn() }); cerr != nil {
		if s.ctx.Err() != nil {
			return errSessionClosed
		}
		return cerr
	}
	return err
}

// EnvFactory builds the editor environment for a user's session.
type EnvFactory func(user uuid.UUID, username string, log *logrus.Entry) editor.Env

// Registry holds the live sessions of this process. A session nobody has
// touched for the idle timeout is closed.
type Registry struct {
	mu       sync.Mutex
	sessions *cache.Cache
	newEnv   EnvFactory
	log      *logrus.Entry
}

func NewRegistry(newEnv EnvFactory, idle time.Duration, log *logrus.Entry) *Registry {
	r := &Registry{
		sessions: cache.New(idle, idle/2),
		newEnv:   newEnv,
		log:      log.WithField("component", "session_registry"),
	}
	r.sessions.OnEvicted(func(key string, v interface{}) {
		live := v.(*liveSession)
		live.cancel()
		metrics.OpenSessions.Dec()
		r.log.WithField("session_id", key).Info("Closed live editing session")
	})
	return r
}

// Ensure returns the live session for sess, starting one that edits
// sess.Media when there is none. Either way the idle timer restarts.
func (r *Registry) Ensure(sess *models.EditorSession, username string) (*liveSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := sess.SessionID.String()
	if v, ok := r.sessions.Get(key); ok {
		live := v.(*liveSession)
		r.sessions.SetDefault(key, live)
		return live, nil
	}
	// An expired entry the janitor has not reached yet must be evicted
	// before its key is reused.
	r.sessions.DeleteExpired()

	log := r.log.WithField("session_id", sess.SessionID)
	queue := bus.NewQueue()
	dialogs := &editor.DialogQueue{}
	env := r.newEnv(sess.UserID, username, log)
	env.Runner = queue
	env.Notifier = dialogs

	canonical := sess.Media
	if canonical == nil {
		canonical = &models.Media{}
	}
	ed := editor.NewMediaEditor(env)
	if err := ed.Open(canonical); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	live := &liveSession{
		id:           sess.SessionID,
		userID:       sess.UserID,
		canonical:    canonical,
		queue:        queue,
		editor:       ed,
		dialogs:      dialogs,
		strategies:   scenario.NewStrategyEditor(env),
		intervention: scenario.NewInterventionEditor(env),
		collection:   scenario.NewCollectionEditor(env),
		dispatcher:   scenario.NewDispatcher(queue),
		ctx:          ctx,
		cancel:       cancel,
	}
	// The loop is not running yet, so subscribing here is safe.
	live.dispatcher.Subscribe(live.strategies)
	go queue.Run(ctx)

	r.sessions.SetDefault(key, live)
	metrics.OpenSessions.Inc()
	log.Info("Started live editing session")
	return live, nil
}

// Close stops the session loop and forgets the session.
func (r *Registry) Close(id uuid.UUID) {
	r.sessions.Delete(id.String())
}

func (r *Registry) CloseAll() {
	r.sessions.DeleteExpired()
	for key := range r.sessions.Items() {
		r.sessions.Delete(key)
	}
}

func (r *Registry) Len() int {
	return r.sessions.ItemCount()
}
