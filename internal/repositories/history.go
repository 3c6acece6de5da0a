package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Qi-2007/musicgate/internal/models"
	"github.com/Qi-2007/musicgate/internal/shared"
)

// HistoryRepository implements models.Repository[*models.SearchRecord] over
// the search_history table.
type HistoryRepository struct {
	db *sql.DB
}

// NewHistoryRepository creates a new HistoryRepository with the given database connection
func NewHistoryRepository(db *sql.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// Create inserts a new [models.SearchRecord] into the database with a generated ID
func (r *HistoryRepository) Create(record *models.SearchRecord) error {
	if record.RecordID == "" {
		record.RecordID = shared.GenerateID()
	}

	now := time.Now()
	if record.Created.IsZero() {
		record.Created = now
	}
	record.Updated = now

	if err := record.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO search_history (id, source, keyword, results, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		record.RecordID,
		record.Source,
		record.Keyword,
		record.Results,
		record.Created,
		record.Updated,
	)
	if err != nil {
		return fmt.Errorf("failed to insert search record: %w", err)
	}

	return nil
}

// Get retrieves a search record by ID
func (r *HistoryRepository) Get(id string) (*models.SearchRecord, error) {
	query := `
		SELECT id, source, keyword, results, created_at, updated_at
		FROM search_history
		WHERE id = ?
	`

	return r.scanOne(r.db.QueryRow(query, id))
}

// Update modifies an existing search record in the database
func (r *HistoryRepository) Update(record *models.SearchRecord) error {
	if err := record.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	record.Updated = now

	query := `
		UPDATE search_history
		SET source = ?, keyword = ?, results = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.Exec(query,
		record.Source,
		record.Keyword,
		record.Results,
		now,
		record.RecordID,
	)
	if err != nil {
		return fmt.Errorf("failed to update search record: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("search record not found: %s", record.RecordID)
	}

	return nil
}

// Delete removes a search record by ID
func (r *HistoryRepository) Delete(id string) error {
	result, err := r.db.Exec("DELETE FROM search_history WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete search record: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("search record not found: %s", id)
	}

	return nil
}

// List retrieves search records matching the given criteria, newest first.
// Supported criteria keys: source, keyword, limit.
func (r *HistoryRepository) List(criteria map[string]any) ([]*models.SearchRecord, error) {
	query := `
		SELECT id, source, keyword, results, created_at, updated_at
		FROM search_history
	`
	args := []any{}
	where := ""

	if source, ok := criteria["source"]; ok {
		where = " WHERE source = ?"
		args = append(args, source)
	}
	if keyword, ok := criteria["keyword"]; ok {
		if where == "" {
			where = " WHERE keyword = ?"
		} else {
			where += " AND keyword = ?"
		}
		args = append(args, keyword)
	}

	query += where + " ORDER BY created_at DESC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query search history: %w", err)
	}
	defer rows.Close()

	var records []*models.SearchRecord
	for rows.Next() {
		record := &models.SearchRecord{}
		err := rows.Scan(
			&record.RecordID,
			&record.Source,
			&record.Keyword,
			&record.Results,
			&record.Created,
			&record.Updated,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan search record: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate search history: %w", err)
	}

	return records, nil
}

// LogSearch records one completed search. Satisfies the handler-side
// search logging interface.
func (r *HistoryRepository) LogSearch(source, keyword string, results int) error {
	return r.Create(&models.SearchRecord{
		Source:  source,
		Keyword: keyword,
		Results: results,
	})
}

// Recent returns the latest limit search records across all sources.
func (r *HistoryRepository) Recent(limit int) ([]*models.SearchRecord, error) {
	return r.List(map[string]any{"limit": limit})
}

func (r *HistoryRepository) scanOne(row *sql.Row) (*models.SearchRecord, error) {
	record := &models.SearchRecord{}
	err := row.Scan(
		&record.RecordID,
		&record.Source,
		&record.Keyword,
		&record.Results,
		&record.Created,
		&record.Updated,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("search record not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan search record: %w", err)
	}

	return record, nil
}
