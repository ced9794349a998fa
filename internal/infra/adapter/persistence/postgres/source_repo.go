package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"geodata/internal/domain/entity"
	"geodata/internal/repository"
)

const sourceColumns = `id, name, type, url, feed_url, reliability_score, bias_rating, update_frequency,
       language, country_focus, topic_coverage, api_available, last_updated, verification_status, created_at`

type SourceRepo struct{ db *sql.DB }

func NewSourceRepo(db *sql.DB) repository.SourceRepository {
	return &SourceRepo{db: db}
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanSource scans a source row and decodes its JSONB array columns.
func scanSource(s scanner) (*entity.Source, error) {
	var source entity.Source
	var focusJSON, topicsJSON []byte
	if err := s.Scan(
		&source.ID, &source.Name, &source.Type, &source.URL, &source.FeedURL,
		&source.ReliabilityScore, &source.BiasRating, &source.UpdateFrequency,
		&source.Language, &focusJSON, &topicsJSON, &source.APIAvailable,
		&source.LastUpdated, &source.VerificationStatus, &source.CreatedAt,
	); err != nil {
		return nil, err
	}
	var err error
	if source.CountryFocus, err = decodeStrings(focusJSON); err != nil {
		return nil, fmt.Errorf("unmarshal country_focus: %w", err)
	}
	if source.TopicCoverage, err = decodeStrings(topicsJSON); err != nil {
		return nil, fmt.Errorf("unmarshal topic_coverage: %w", err)
	}
	return &source, nil
}

// decodeStrings decodes a JSON array column, mapping NULL to an empty slice.
func decodeStrings(raw []byte) ([]string, error) {
	out := []string{}
	if len(raw) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}

// encodeStrings encodes a string slice for a JSONB column; nil becomes [].
func encodeStrings(v []string) ([]byte, error) {
	if v == nil {
		v = []string{}
	}
	return json.Marshal(v)
}

func (repo *SourceRepo) Get(ctx context.Context, id string) (*entity.Source, error) {
	query := `SELECT ` + sourceColumns + `
FROM sources
WHERE id = $1
LIMIT 1`
	source, err := scanSource(conn(ctx, repo.db).QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return source, nil
}

func (repo *SourceRepo) List(ctx context.Context, filter repository.SourceFilter) ([]*entity.Source, error) {
	var wb whereBuilder
	wb.eq("type", filter.Type)
	wb.eq("verification_status", filter.VerificationStatus)
	if filter.MinReliability != nil {
		wb.gte("reliability_score", *filter.MinReliability)
	}
	query := `SELECT ` + sourceColumns + `
FROM sources
` + wb.clause() + `
ORDER BY name ASC, id ASC`
	return repo.query(ctx, "List", query, wb.args...)
}

func (repo *SourceRepo) ListWithFeed(ctx context.Context) ([]*entity.Source, error) {
	query := `SELECT ` + sourceColumns + `
FROM sources
WHERE feed_url <> ''
ORDER BY id ASC`
	return repo.query(ctx, "ListWithFeed", query)
}

func (repo *SourceRepo) query(ctx context.Context, op, query string, args ...any) ([]*entity.Source, error) {
	rows, err := conn(ctx, repo.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	sources := make([]*entity.Source, 0, 50)
	for rows.Next() {
		source, err := scanSource(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		sources = append(sources, source)
	}
	return sources, rows.Err()
}

func (repo *SourceRepo) Create(ctx context.Context, source *entity.Source) error {
	focusJSON, err := encodeStrings(source.CountryFocus)
	if err != nil {
		return fmt.Errorf("Create: marshal country_focus: %w", err)
	}
	topicsJSON, err := encodeStrings(source.TopicCoverage)
	if err != nil {
		return fmt.Errorf("Create: marshal topic_coverage: %w", err)
	}

	const query = `
INSERT INTO sources (id, name, type, url, feed_url, reliability_score, bias_rating, update_frequency,
                     language, country_focus, topic_coverage, api_available, last_updated, verification_status, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err = conn(ctx, repo.db).ExecContext(ctx, query,
		source.ID, source.Name, source.Type, source.URL, source.FeedURL,
		source.ReliabilityScore, source.BiasRating, source.UpdateFrequency,
		source.Language, focusJSON, topicsJSON, source.APIAvailable,
		source.LastUpdated, source.VerificationStatus, source.CreatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("Create: %w", entity.ErrAlreadyExists)
	}
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (repo *SourceRepo) Update(ctx context.Context, source *entity.Source) error {
	focusJSON, err := encodeStrings(source.CountryFocus)
	if err != nil {
		return fmt.Errorf("Update: marshal country_focus: %w", err)
	}
	topicsJSON, err := encodeStrings(source.TopicCoverage)
	if err != nil {
		return fmt.Errorf("Update: marshal topic_coverage: %w", err)
	}

	const query = `
UPDATE sources SET
       name                = $1,
       type                = $2,
       url                 = $3,
       feed_url            = $4,
       reliability_score   = $5,
       bias_rating         = $6,
       update_frequency    = $7,
       language            = $8,
       country_focus       = $9,
       topic_coverage      = $10,
       api_available       = $11,
       last_updated        = $12,
       verification_status = $13
WHERE id = $14`
	res, err := conn(ctx, repo.db).ExecContext(ctx, query,
		source.Name, source.Type, source.URL, source.FeedURL,
		source.ReliabilityScore, source.BiasRating, source.UpdateFrequency,
		source.Language, focusJSON, topicsJSON, source.APIAvailable,
		source.LastUpdated, source.VerificationStatus, source.ID,
	)
	if err != nil {
		return fmt.Errorf("Update: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("Update: %w", entity.ErrNotFound)
	}
	return nil
}

func (repo *SourceRepo) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM sources WHERE id = $1`
	res, err := conn(ctx, repo.db).ExecContext(ctx, query, id)
	if isForeignKeyViolation(err) {
		return fmt.Errorf("Delete: %w", entity.ErrReferenced)
	}
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("Delete: %w", entity.ErrNotFound)
	}
	return nil
}
