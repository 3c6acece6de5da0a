package services

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/Qi-2007/musicgate/internal/models"
	"github.com/Qi-2007/musicgate/internal/shared"
)

// defaultTimeout bounds outbound catalog calls when no client is injected.
const defaultTimeout = 10 * time.Second

// Service defines the interface for music catalog providers (QQ, Netease, Kuwo).
type Service interface {
	// Search queries the catalog and returns normalized tracks.
	Search(ctx context.Context, keyword string) ([]models.Track, error)

	// ResolveLink exchanges a track id (and optional bitrate hint) for a
	// playable, upstream-signed URL. The URL is time-limited by the
	// upstream service and must not be cached.
	ResolveLink(ctx context.Context, id, bitrate string) (string, error)

	// Lyric fetches the lyric text for a track.
	Lyric(ctx context.Context, id string) (*models.LyricDocument, error)

	// Name returns the source key of the service (e.g. "qq")
	Name() string
}

// Registry maps source keys to their [Service] implementations.
type Registry struct {
	services map[string]Service
}

// NewRegistry creates a Registry holding the given services, keyed by
// [Service.Name].
func NewRegistry(services ...Service) *Registry {
	r := &Registry{services: make(map[string]Service, len(services))}
	for _, svc := range services {
		r.services[svc.Name()] = svc
	}
	return r
}

// Lookup resolves a source key to its service.
//
// Any unknown key, including the empty string, yields
// [shared.ErrInvalidSource].
func (r *Registry) Lookup(source string) (Service, error) {
	svc, ok := r.services[source]
	if !ok {
		return nil, fmt.Errorf("%w: %q", shared.ErrInvalidSource, source)
	}
	return svc, nil
}

// Sources returns the registered source keys in sorted order.
func (r *Registry) Sources() []string {
	keys := make([]string, 0, len(r.services))
	for key := range r.services {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// newHTTPClient returns client, or a timeout-bounded default when client is nil.
func newHTTPClient(client *http.Client) *http.Client {
	if client != nil {
		return client
	}
	return &http.Client{Timeout: defaultTimeout}
}
