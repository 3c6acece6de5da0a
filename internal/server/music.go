package server

import (
	"net/http"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/Qi-2007/musicgate/internal/auth"
	"github.com/Qi-2007/musicgate/internal/services"
	"github.com/Qi-2007/musicgate/internal/shared"
)

// User-visible messages, one generic literal per failure kind. Upstream
// detail stays in the server log.
const (
	msgInvalidToken  = "非法 token"
	msgInvalidSource = "无效的音乐来源"
	msgSearchFailed  = "搜索音乐失败"
	msgLinkFailed    = "获取歌曲链接失败"
	msgLyricFailed   = "获取歌词失败"
)

// SearchLogger records completed searches for history. Recording is best
// effort: failures are logged, never surfaced.
type SearchLogger interface {
	LogSearch(source, keyword string, results int) error
}

// MusicHandler serves the token-gated catalog operations: search, link
// resolution (with its download alias) and lyrics.
//
// Implements the [Handler] interface for registration with a [Router].
type MusicHandler struct {
	registry *services.Registry
	tokens   *auth.TokenStore
	history  SearchLogger
	logger   *log.Logger
}

// NewMusicHandler creates a MusicHandler. history may be nil to disable
// search logging.
func NewMusicHandler(registry *services.Registry, tokens *auth.TokenStore, history SearchLogger, logger *log.Logger) *MusicHandler {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &MusicHandler{
		registry: registry,
		tokens:   tokens,
		history:  history,
		logger:   logger,
	}
}

// Routes returns the path patterns this handler serves. The trailing-slash
// variants accept the track id as a path segment.
func (h *MusicHandler) Routes() []string {
	return []string{
		"/api/search",
		"/api/getlink",
		"/api/getlink/",
		"/api/download",
		"/api/download/",
		"/api/lyric",
		"/api/lyric/",
	}
}

// ServeHTTP dispatches to the operation handlers. The source key is checked
// before the token: an unknown source is a client error no matter who asks.
func (h *MusicHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	svc, err := h.registry.Lookup(r.URL.Query().Get("source"))
	if err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidSource)
		return
	}

	if !h.tokens.Validate(requestToken(r)) {
		writeError(w, http.StatusForbidden, msgInvalidToken)
		return
	}

	switch {
	case r.URL.Path == "/api/search":
		h.search(w, r, svc)
	case strings.HasPrefix(r.URL.Path, "/api/getlink"), strings.HasPrefix(r.URL.Path, "/api/download"):
		h.resolveLink(w, r, svc)
	case strings.HasPrefix(r.URL.Path, "/api/lyric"):
		h.lyric(w, r, svc)
	default:
		http.NotFound(w, r)
	}
}

func (h *MusicHandler) search(w http.ResponseWriter, r *http.Request, svc services.Service) {
	keyword := r.URL.Query().Get("keyword")

	tracks, err := svc.Search(r.Context(), keyword)
	if err != nil {
		h.logger.Error("search failed", "source", svc.Name(), "keyword", keyword, "error", err)
		writeError(w, http.StatusInternalServerError, msgSearchFailed)
		return
	}

	if h.history != nil {
		if err := h.history.LogSearch(svc.Name(), keyword, len(tracks)); err != nil {
			h.logger.Warn("failed to record search history", "error", err)
		}
	}

	writeJSON(w, http.StatusOK, tracks)
}

func (h *MusicHandler) resolveLink(w http.ResponseWriter, r *http.Request, svc services.Service) {
	id := trackID(r, "/api/getlink", "/api/download")
	bitrate := r.URL.Query().Get("br")

	link, err := svc.ResolveLink(r.Context(), id, bitrate)
	if err != nil {
		h.logger.Error("link resolution failed", "source", svc.Name(), "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, msgLinkFailed)
		return
	}

	http.Redirect(w, r, link, http.StatusFound)
}

func (h *MusicHandler) lyric(w http.ResponseWriter, r *http.Request, svc services.Service) {
	id := trackID(r, "/api/lyric")

	doc, err := svc.Lyric(r.Context(), id)
	if err != nil {
		h.logger.Error("lyric fetch failed", "source", svc.Name(), "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, msgLyricFailed)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"lrc": doc.Lyric})
}

// trackID extracts the track id from the request path (after one of the
// given prefixes) or, failing that, from the id query parameter.
func trackID(r *http.Request, prefixes ...string) string {
	for _, prefix := range prefixes {
		if rest, ok := strings.CutPrefix(r.URL.Path, prefix); ok {
			if id := strings.Trim(rest, "/"); id != "" {
				return id
			}
		}
	}
	return r.URL.Query().Get("id")
}
