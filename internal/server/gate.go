package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/Qi-2007/musicgate/internal/auth"
	"github.com/Qi-2007/musicgate/internal/shared"
)

const (
	msgStaleToken    = "token无效"
	msgWrongPassword = "密码错误"
)

// GateHandler controls entry to the API. It serves two routes:
//
//   - /api/link admits a client and replies with the configured entry links.
//   - /api/auth admits a client and returns the fresh token in the body for
//     clients that manage the cookie themselves.
//
// Both accept either an existing valid token (which is rotated) or the
// shared password (which issues a new token without disturbing others).
type GateHandler struct {
	tokens   *auth.TokenStore
	password string
	links    []shared.GateLink
	logger   *log.Logger
}

func NewGateHandler(tokens *auth.TokenStore, cfg shared.GateConfig, logger *log.Logger) *GateHandler {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &GateHandler{
		tokens:   tokens,
		password: cfg.Password,
		links:    cfg.Links,
		logger:   logger,
	}
}

func (h *GateHandler) Routes() []string {
	return []string{"/api/link", "/api/auth"}
}

func (h *GateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	switch r.URL.Path {
	case "/api/link":
		if _, err := h.admit(w, r); err == nil {
			writeJSON(w, http.StatusOK, linkResponse{OK: true, Links: h.links})
		}
	case "/api/auth":
		if token, err := h.admit(w, r); err == nil {
			writeJSON(w, http.StatusOK, map[string]string{"token": token})
		}
	default:
		http.NotFound(w, r)
	}
}

type linkResponse struct {
	OK    bool              `json:"ok"`
	Links []shared.GateLink `json:"links"`
}

// admit authenticates the request and returns the token the client holds
// afterwards. A valid presented token is rotated so the credential in the
// cookie never outlives the visit that presented it. An invalid token falls
// through to the password check rather than failing outright; only when the
// password also fails is the stale token revoked and its cookie cleared.
// On rejection admit writes the 403 response itself and reports which
// credential failed.
func (h *GateHandler) admit(w http.ResponseWriter, r *http.Request) (string, error) {
	token := requestToken(r)

	if next, ok := h.tokens.Rotate(token); ok {
		setTokenCookie(w, next)
		return next, nil
	}

	password, submitted := requestPassword(r)
	if submitted && password == h.password {
		next := h.tokens.Issue()
		setTokenCookie(w, next)
		return next, nil
	}

	var err error
	if token != "" {
		err = shared.ErrInvalidToken
		h.tokens.Revoke(token)
		clearTokenCookie(w)
		writeError(w, http.StatusForbidden, msgStaleToken)
	} else {
		err = shared.ErrInvalidPassword
		writeError(w, http.StatusForbidden, msgWrongPassword)
	}

	h.logger.Warn("gate rejected request",
		"path", r.URL.Path,
		"remote", r.RemoteAddr,
		"had_password", submitted,
		"error", err,
	)
	return "", err
}

// requestPassword looks for the password in the query string, then the
// request form, then a JSON body. The boolean reports whether any password
// field was present at all, so callers can tell "no attempt" from a wrong
// guess.
func requestPassword(r *http.Request) (string, bool) {
	query := r.URL.Query()
	if query.Has("password") {
		return query.Get("password"), true
	}

	if r.Method == http.MethodPost {
		contentType := r.Header.Get("Content-Type")

		if strings.HasPrefix(contentType, "application/x-www-form-urlencoded") {
			if err := r.ParseForm(); err == nil && r.PostForm.Has("password") {
				return r.PostForm.Get("password"), true
			}
			return "", false
		}

		var body struct {
			Password *string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err == nil && body.Password != nil {
			return *body.Password, true
		}
	}

	return "", false
}
