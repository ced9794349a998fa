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

const lineageColumns = `id, data_entry_id, source_chain, quality_metrics, validation_status, last_verified, created_at`

type LineageRepo struct{ db *sql.DB }

func NewLineageRepo(db *sql.DB) repository.LineageRepository {
	return &LineageRepo{db: db}
}

// scanLineage scans a lineage row, decoding source_chain and quality_metrics.
// A NULL quality_metrics column leaves QualityMetrics nil.
func scanLineage(s scanner) (*entity.DataLineage, error) {
	var l entity.DataLineage
	var chainJSON, metricsJSON []byte
	if err := s.Scan(
		&l.ID, &l.DataEntryID, &chainJSON, &metricsJSON,
		&l.ValidationStatus, &l.LastVerified, &l.CreatedAt,
	); err != nil {
		return nil, err
	}

	l.SourceChain = []entity.SourceChainStep{}
	if len(chainJSON) > 0 {
		if err := json.Unmarshal(chainJSON, &l.SourceChain); err != nil {
			return nil, fmt.Errorf("unmarshal source_chain: %w", err)
		}
		if l.SourceChain == nil {
			l.SourceChain = []entity.SourceChainStep{}
		}
	}
	if len(metricsJSON) > 0 && string(metricsJSON) != "null" {
		var m entity.QualityMetrics
		if err := json.Unmarshal(metricsJSON, &m); err != nil {
			return nil, fmt.Errorf("unmarshal quality_metrics: %w", err)
		}
		l.QualityMetrics = &m
	}
	return &l, nil
}

func encodeLineage(l *entity.DataLineage) (chain, metrics []byte, err error) {
	steps := l.SourceChain
	if steps == nil {
		steps = []entity.SourceChainStep{}
	}
	if chain, err = json.Marshal(steps); err != nil {
		return nil, nil, fmt.Errorf("marshal source_chain: %w", err)
	}
	if l.QualityMetrics != nil {
		if metrics, err = json.Marshal(l.QualityMetrics); err != nil {
			return nil, nil, fmt.Errorf("marshal quality_metrics: %w", err)
		}
	}
	return chain, metrics, nil
}

func lineageWhere(filter repository.LineageFilter) *whereBuilder {
	wb := &whereBuilder{}
	wb.eq("data_entry_id", filter.DataEntryID)
	wb.eq("validation_status", filter.ValidationStatus)
	return wb
}

func (repo *LineageRepo) Get(ctx context.Context, id string) (*entity.DataLineage, error) {
	return repo.get(ctx, "Get", `SELECT `+lineageColumns+`
FROM data_lineage
WHERE id = $1`, id)
}

func (repo *LineageRepo) GetForUpdate(ctx context.Context, id string) (*entity.DataLineage, error) {
	return repo.get(ctx, "GetForUpdate", `SELECT `+lineageColumns+`
FROM data_lineage
WHERE id = $1
FOR UPDATE`, id)
}

func (repo *LineageRepo) get(ctx context.Context, op, query, id string) (*entity.DataLineage, error) {
	l, err := scanLineage(conn(ctx, repo.db).QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return l, nil
}

func (repo *LineageRepo) List(ctx context.Context, filter repository.LineageFilter) ([]*entity.DataLineage, error) {
	wb := lineageWhere(filter)
	page, args := wb.page(filter.Limit, filter.Offset)
	query := `SELECT ` + lineageColumns + `
FROM data_lineage
` + wb.clause() + `
ORDER BY created_at DESC, id ASC
` + page
	return repo.query(ctx, "List", query, args...)
}

func (repo *LineageRepo) Count(ctx context.Context, filter repository.LineageFilter) (int64, error) {
	wb := lineageWhere(filter)
	var n int64
	query := `SELECT COUNT(*) FROM data_lineage ` + wb.clause()
	if err := conn(ctx, repo.db).QueryRowContext(ctx, query, wb.args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("Count: %w", err)
	}
	return n, nil
}

func (repo *LineageRepo) ListByEntry(ctx context.Context, dataEntryID string) ([]*entity.DataLineage, error) {
	query := `SELECT ` + lineageColumns + `
FROM data_lineage
WHERE data_entry_id = $1
ORDER BY created_at ASC, id ASC`
	return repo.query(ctx, "ListByEntry", query, dataEntryID)
}

func (repo *LineageRepo) ListWithMetrics(ctx context.Context) ([]*entity.DataLineage, error) {
	query := `SELECT ` + lineageColumns + `
FROM data_lineage
WHERE quality_metrics IS NOT NULL
ORDER BY created_at ASC, id ASC`
	return repo.query(ctx, "ListWithMetrics", query)
}

func (repo *LineageRepo) query(ctx context.Context, op, query string, args ...any) ([]*entity.DataLineage, error) {
	rows, err := conn(ctx, repo.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	records := make([]*entity.DataLineage, 0, 16)
	for rows.Next() {
		l, err := scanLineage(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		records = append(records, l)
	}
	return records, rows.Err()
}

func (repo *LineageRepo) CountByStatus(ctx context.Context) (map[string]int64, error) {
	const query = `SELECT validation_status, COUNT(*) FROM data_lineage GROUP BY validation_status`
	rows, err := conn(ctx, repo.db).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("CountByStatus: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := make(map[string]int64)
	for rows.Next() {
		var status string
		var n int64
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("CountByStatus: %w", err)
		}
		out[status] = n
	}
	return out, rows.Err()
}

func (repo *LineageRepo) CountDistinctEntries(ctx context.Context) (int64, error) {
	const query = `SELECT COUNT(DISTINCT data_entry_id) FROM data_lineage`
	var n int64
	if err := conn(ctx, repo.db).QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("CountDistinctEntries: %w", err)
	}
	return n, nil
}

func (repo *LineageRepo) Create(ctx context.Context, l *entity.DataLineage) error {
	chain, metrics, err := encodeLineage(l)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	const query = `
INSERT INTO data_lineage (id, data_entry_id, source_chain, quality_metrics, validation_status, last_verified, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err = conn(ctx, repo.db).ExecContext(ctx, query,
		l.ID, l.DataEntryID, chain, metrics, l.ValidationStatus, l.LastVerified, l.CreatedAt,
	)
	if isForeignKeyViolation(err) {
		return fmt.Errorf("Create: data entry %q: %w", l.DataEntryID, entity.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

// Update rewrites the mutable columns: source_chain, quality_metrics,
// validation_status and last_verified.
func (repo *LineageRepo) Update(ctx context.Context, l *entity.DataLineage) error {
	chain, metrics, err := encodeLineage(l)
	if err != nil {
		return fmt.Errorf("Update: %w", err)
	}
	const query = `
UPDATE data_lineage SET
       source_chain      = $1,
       quality_metrics   = $2,
       validation_status = $3,
       last_verified     = $4
WHERE id = $5`
	res, err := conn(ctx, repo.db).ExecContext(ctx, query,
		chain, metrics, l.ValidationStatus, l.LastVerified, l.ID,
	)
	if err != nil {
		return fmt.Errorf("Update: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("Update: %w", entity.ErrNotFound)
	}
	return nil
}
