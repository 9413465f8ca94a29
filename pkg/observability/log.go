package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to a logger at debug level, and failures at
// error level. It implements all three hook interfaces.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks logging to l.
func NewLogHooks(l *log.Logger) *LogHooks {
	if l == nil {
		l = log.Default()
	}
	return &LogHooks{logger: l}
}

func (h *LogHooks) OnFetchStart(_ context.Context, source string) {
	h.logger.Debug("fetch started", "source", source)
}

func (h *LogHooks) OnFetchComplete(_ context.Context, source string, utis int, d time.Duration, err error) {
	if err != nil {
		h.logger.Error("fetch failed", "source", source, "elapsed", d, "err", err)
		return
	}
	h.logger.Debug("fetch complete", "source", source, "utis", utis, "elapsed", d)
}

func (h *LogHooks) OnBuildStart(_ context.Context, utis int) {
	h.logger.Debug("build started", "utis", utis)
}

func (h *LogHooks) OnBuildComplete(_ context.Context, nodes, edges int, d time.Duration, err error) {
	if err != nil {
		h.logger.Error("build failed", "elapsed", d, "err", err)
		return
	}
	h.logger.Debug("build complete", "nodes", nodes, "edges", edges, "elapsed", d)
}

func (h *LogHooks) OnWriteStart(_ context.Context, paths []string) {
	h.logger.Debug("write started", "paths", paths)
}

func (h *LogHooks) OnWriteComplete(_ context.Context, paths []string, d time.Duration, err error) {
	if err != nil {
		h.logger.Error("write failed", "paths", paths, "err", err)
		return
	}
	h.logger.Debug("write complete", "paths", paths, "elapsed", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("http request", "method", method, "host", host, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("http response", "method", method, "host", host, "path", path, "status", status, "elapsed", d)
}

func (h *LogHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Warn("http error", "method", method, "host", host, "path", path, "err", err)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ HTTPHooks     = (*LogHooks)(nil)
)
