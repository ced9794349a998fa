package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"geodata/internal/domain/entity"
	"geodata/internal/repository"

	"github.com/lib/pq"
)

const dataEntryColumns = `id, source_id, title, content, content_type, url, published_date,
       collected_date, raw_data_hash, processed`

type DataEntryRepo struct{ db *sql.DB }

func NewDataEntryRepo(db *sql.DB) repository.DataEntryRepository {
	return &DataEntryRepo{db: db}
}

func scanDataEntry(s scanner) (*entity.DataEntry, error) {
	var e entity.DataEntry
	if err := s.Scan(
		&e.ID, &e.SourceID, &e.Title, &e.Content, &e.ContentType, &e.URL,
		&e.PublishedDate, &e.CollectedDate, &e.RawDataHash, &e.Processed,
	); err != nil {
		return nil, err
	}
	return &e, nil
}

func dataEntryWhere(filter repository.DataEntryFilter) *whereBuilder {
	wb := &whereBuilder{}
	wb.eq("source_id", filter.SourceID)
	wb.eq("content_type", filter.ContentType)
	if filter.Processed != nil {
		wb.eqAny("processed", *filter.Processed)
	}
	return wb
}

func (repo *DataEntryRepo) Get(ctx context.Context, id string) (*entity.DataEntry, error) {
	query := `SELECT ` + dataEntryColumns + `
FROM data_entries
WHERE id = $1
LIMIT 1`
	e, err := scanDataEntry(conn(ctx, repo.db).QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return e, nil
}

func (repo *DataEntryRepo) List(ctx context.Context, filter repository.DataEntryFilter) ([]*entity.DataEntry, error) {
	wb := dataEntryWhere(filter)
	page, args := wb.page(filter.Limit, filter.Offset)
	query := `SELECT ` + dataEntryColumns + `
FROM data_entries
` + wb.clause() + `
ORDER BY collected_date DESC, id ASC
` + page
	return repo.query(ctx, "List", query, args...)
}

func (repo *DataEntryRepo) Count(ctx context.Context, filter repository.DataEntryFilter) (int64, error) {
	wb := dataEntryWhere(filter)
	query := `SELECT COUNT(*) FROM data_entries ` + wb.clause()
	var n int64
	if err := conn(ctx, repo.db).QueryRowContext(ctx, query, wb.args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("Count: %w", err)
	}
	return n, nil
}

func (repo *DataEntryRepo) Search(ctx context.Context, q string, limit int) ([]*entity.DataEntry, error) {
	var wb whereBuilder
	wb.ilikeAny(q, "title", "content")
	page, args := wb.page(limit, 0)
	query := `SELECT ` + dataEntryColumns + `
FROM data_entries
` + wb.clause() + `
ORDER BY collected_date DESC, id ASC
` + page
	return repo.query(ctx, "Search", query, args...)
}

func (repo *DataEntryRepo) query(ctx context.Context, op, query string, args ...any) ([]*entity.DataEntry, error) {
	rows, err := conn(ctx, repo.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	entries := make([]*entity.DataEntry, 0, 50)
	for rows.Next() {
		e, err := scanDataEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (repo *DataEntryRepo) Create(ctx context.Context, e *entity.DataEntry) error {
	const query = `
INSERT INTO data_entries (id, source_id, title, content, content_type, url, published_date,
                          collected_date, raw_data_hash, processed)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := conn(ctx, repo.db).ExecContext(ctx, query,
		e.ID, e.SourceID, e.Title, e.Content, e.ContentType, e.URL,
		e.PublishedDate, e.CollectedDate, e.RawDataHash, e.Processed,
	)
	if isForeignKeyViolation(err) {
		return fmt.Errorf("Create: source %q: %w", e.SourceID, entity.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (repo *DataEntryRepo) MarkProcessed(ctx context.Context, id string) error {
	const query = `UPDATE data_entries SET processed = TRUE WHERE id = $1`
	res, err := conn(ctx, repo.db).ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("MarkProcessed: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("MarkProcessed: %w", entity.ErrNotFound)
	}
	return nil
}

func (repo *DataEntryRepo) FindByHash(ctx context.Context, sourceID, hash string) (*entity.DataEntry, error) {
	query := `SELECT ` + dataEntryColumns + `
FROM data_entries
WHERE source_id = $1 AND raw_data_hash = $2
ORDER BY collected_date ASC, id ASC
LIMIT 1`
	e, err := scanDataEntry(conn(ctx, repo.db).QueryRowContext(ctx, query, sourceID, hash))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("FindByHash: %w", err)
	}
	return e, nil
}

// ExistsByHashBatch checks many content hashes in one round trip.
func (repo *DataEntryRepo) ExistsByHashBatch(ctx context.Context, hashes []string) (map[string]bool, error) {
	if len(hashes) == 0 {
		return make(map[string]bool), nil
	}

	const query = `SELECT DISTINCT raw_data_hash FROM data_entries WHERE raw_data_hash = ANY($1)`
	rows, err := conn(ctx, repo.db).QueryContext(ctx, query, pq.Array(hashes))
	if err != nil {
		return nil, fmt.Errorf("ExistsByHashBatch: QueryContext: %w", err)
	}
	defer func() { _ = rows.Close() }()

	result := make(map[string]bool, len(hashes))
	for rows.Next() {
		var h string
		if err := rows.Scan(&h); err != nil {
			return nil, fmt.Errorf("ExistsByHashBatch: Scan: %w", err)
		}
		result[h] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ExistsByHashBatch: rows.Err: %w", err)
	}
	return result, nil
}
