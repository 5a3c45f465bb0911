package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"

	"media-editor/internal/metrics"
	"media-editor/internal/models"
	"media-editor/internal/rpc"
	"media-editor/internal/storage"
	"media-editor/internal/validation"
)

var ErrUnknownProperty = errors.New("unknown server property")

const (
	handlersCacheKey = "strategy_handlers"
	handlersCacheTTL = 5 * time.Minute
)

// HandlerSource lists the strategy handler class names known to the server.
type HandlerSource interface {
	StrategyHandlers(ctx context.Context) ([]string, error)
}

// StaticHandlers is a fixed handler list, as read from STRATEGY_HANDLERS.
type StaticHandlers []string

func (h StaticHandlers) StrategyHandlers(context.Context) ([]string, error) {
	return append([]string(nil), h...), nil
}

// WorkspaceService owns the server side of the calls editors make: deleting
// course files, listing strategy handlers and reading server properties.
type WorkspaceService struct {
	Storage    storage.Storage
	Handlers   HandlerSource
	Properties map[string]string
	Log        *logrus.Entry

	cache *cache.Cache
}

func NewWorkspaceService(store storage.Storage, handlers HandlerSource, properties map[string]string, log *logrus.Entry) *WorkspaceService {
	return &WorkspaceService{
		Storage:    store,
		Handlers:   handlers,
		Properties: properties,
		Log:        log.WithField("component", "workspace_service"),
		cache:      cache.New(handlersCacheTTL, 2*handlersCacheTTL),
	}
}

var _ rpc.Workspace = (*WorkspaceService)(nil)

// DeleteWorkspaceFiles deletes every path. Problems with the paths
// themselves are reported in the result rather than as an error, the same
// as files that could not be deleted.
func (s *WorkspaceService) DeleteWorkspaceFiles(ctx context.Context, username string, paths []string) (*models.ServiceResult, error) {
	log := s.Log.WithFields(logrus.Fields{"username": username, "paths": paths})

	if err := validation.ValidateDeletePaths(paths); err != nil {
		metrics.WorkspaceDeletes.WithLabelValues("rejected").Inc()
		log.WithError(err).Warn("Refusing to delete workspace files")
		return &models.ServiceResult{ErrorMsg: err.Error()}, nil
	}

	var failed []string
	for _, p := range paths {
		if err := s.Storage.Delete(ctx, p); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.WithError(err).WithField("path", p).Warn("Failed to delete workspace file")
			failed = append(failed, fmt.Sprintf("%s: %v", p, err))
		}
	}

	if len(failed) > 0 {
		metrics.WorkspaceDeletes.WithLabelValues("failed").Inc()
		return &models.ServiceResult{
			ErrorMsg: fmt.Sprintf("Failed to delete %d of %d files", len(failed), len(paths)),
			Details:  strings.Join(failed, "\n"),
		}, nil
	}

	metrics.WorkspaceDeletes.WithLabelValues("deleted").Inc()
	log.Info("Deleted workspace files")
	return &models.ServiceResult{Success: true}, nil
}

// FilesExist checks each path in storage. Invalid paths read as missing;
// storage failures other than a bad path abort the check.
func (s *WorkspaceService) FilesExist(ctx context.Context, username string, paths []string) (map[string]bool, error) {
	out := make(map[string]bool, len(paths))
	for _, p := range paths {
		if validation.ValidateWorkspacePath(p) != nil {
			out[p] = false
			continue
		}
		ok, err := s.Storage.Exists(ctx, p)
		if err != nil {
			if errors.Is(err, validation.ErrPathOutsideRoot) {
				out[p] = false
				continue
			}
			return nil, fmt.Errorf("failed to check %s: %w", p, err)
		}
		out[p] = ok
	}
	s.Log.WithFields(logrus.Fields{"username": username, "paths": len(paths)}).Debug("Checked workspace files")
	return out, nil
}

// StrategyHandlerClassNames returns the sorted handler class names, cached
// for five minutes.
func (s *WorkspaceService) StrategyHandlerClassNames(ctx context.Context) ([]string, error) {
	if cached, ok := s.cache.Get(handlersCacheKey); ok {
		metrics.CacheHits.WithLabelValues(handlersCacheKey).Inc()
		return append([]string(nil), cached.([]string)...), nil
	}
	metrics.CacheMisses.WithLabelValues(handlersCacheKey).Inc()

	if s.Handlers == nil {
		return []string{}, nil
	}
	handlers, err := s.Handlers.StrategyHandlers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list strategy handlers: %w", err)
	}
	sort.Strings(handlers)
	s.cache.SetDefault(handlersCacheKey, handlers)
	return append([]string(nil), handlers...), nil
}

// ServerProperty returns a configured server property.
func (s *WorkspaceService) ServerProperty(_ context.Context, name string) (string, error) {
	v, ok := s.Properties[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownProperty, name)
	}
	return v, nil
}

// Property implements editor.Properties. Unknown properties read as "".
func (s *WorkspaceService) Property(name string) string {
	return s.Properties[name]
}
