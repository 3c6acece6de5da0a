package models

import (
	"fmt"
	"time"
)

// Model defines the base interface for all persistent models in the music aggregation service.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	UpdatedAt() time.Time // UpdatedAt returns when this model was last updated
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Repository defines the interface for data access operations.
// Implementations handle database interactions for specific model types.
type Repository[T Model] interface {
	Create(model T) error                      // Create inserts a new model into the database
	Get(id string) (T, error)                  // Get retrieves a model by its ID
	Update(model T) error                      // Update modifies an existing model in the database
	Delete(id string) error                    // Delete removes a model from the database by its ID
	List(criteria map[string]any) ([]T, error) // List retrieves all models matching the given criteria
}

// Track is the normalized search result shared by every catalog source.
//
// ID is provider-scoped and opaque; Artist is a single flattened string
// (multiple artists are joined by the provider); CoverURL may be empty when
// the upstream catalog has no album art for the entry.
type Track struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Artist   string `json:"artist"`
	CoverURL string `json:"cover_url"`
}

// LyricDocument is the normalized lyric result: either raw passthrough text
// or LRC-tagged text synthesized from timed lines. Never cached.
type LyricDocument struct {
	Source string `json:"source"`
	ID     string `json:"id"`
	Lyric  string `json:"lyric"`
}

// SearchRecord is one logged search operation, persisted for history.
//
// Resolved links and capability tokens are deliberately never persisted;
// the history table only carries what the user typed and how many rows
// came back.
type SearchRecord struct {
	RecordID string
	Source   string
	Keyword  string
	Results  int
	Created  time.Time
	Updated  time.Time
}

var _ Model = (*SearchRecord)(nil)

func (r *SearchRecord) ID() string           { return r.RecordID }
func (r *SearchRecord) CreatedAt() time.Time { return r.Created }
func (r *SearchRecord) UpdatedAt() time.Time { return r.Updated }

// Validate checks that the record names a source and a keyword.
func (r *SearchRecord) Validate() error {
	if r.RecordID == "" {
		return fmt.Errorf("search record missing id")
	}
	if r.Source == "" {
		return fmt.Errorf("search record missing source")
	}
	if r.Keyword == "" {
		return fmt.Errorf("search record missing keyword")
	}
	return nil
}
