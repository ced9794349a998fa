package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"geodata/internal/domain/entity"
	"geodata/internal/repository"
)

const tagColumns = `id, data_entry_id, tag_type, tag_category, tag_value, confidence_score, is_manual, created_at, created_by`

type TagRepo struct{ db *sql.DB }

func NewTagRepo(db *sql.DB) repository.TagRepository {
	return &TagRepo{db: db}
}

func scanTag(s scanner) (*entity.Tag, error) {
	var t entity.Tag
	var category sql.NullString
	if err := s.Scan(
		&t.ID, &t.DataEntryID, &t.TagType, &category, &t.TagValue,
		&t.ConfidenceScore, &t.IsManual, &t.CreatedAt, &t.CreatedBy,
	); err != nil {
		return nil, err
	}
	t.TagCategory = category.String
	return &t, nil
}

func nullIfEmpty(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func tagWhere(filter repository.TagFilter) *whereBuilder {
	wb := &whereBuilder{}
	wb.eq("data_entry_id", filter.DataEntryID)
	wb.eq("tag_type", filter.TagType)
	wb.eq("tag_category", filter.TagCategory)
	if filter.IsManual != nil {
		wb.eqAny("is_manual", *filter.IsManual)
	}
	return wb
}

func (repo *TagRepo) Get(ctx context.Context, id int64) (*entity.Tag, error) {
	query := `SELECT ` + tagColumns + `
FROM tags
WHERE id = $1`
	t, err := scanTag(conn(ctx, repo.db).QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return t, nil
}

func (repo *TagRepo) List(ctx context.Context, filter repository.TagFilter) ([]*entity.Tag, error) {
	wb := tagWhere(filter)
	page, args := wb.page(filter.Limit, filter.Offset)
	query := `SELECT ` + tagColumns + `
FROM tags
` + wb.clause() + `
ORDER BY created_at DESC, id DESC
` + page
	return repo.query(ctx, "List", query, args...)
}

func (repo *TagRepo) Count(ctx context.Context, filter repository.TagFilter) (int64, error) {
	wb := tagWhere(filter)
	var n int64
	query := `SELECT COUNT(*) FROM tags ` + wb.clause()
	if err := conn(ctx, repo.db).QueryRowContext(ctx, query, wb.args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("Count: %w", err)
	}
	return n, nil
}

func (repo *TagRepo) Search(ctx context.Context, q, tagType string, limit int) ([]*entity.Tag, error) {
	var wb whereBuilder
	wb.ilikeAny(q, "tag_value")
	wb.eq("tag_type", tagType)
	page, args := wb.page(limit, 0)
	query := `SELECT ` + tagColumns + `
FROM tags
` + wb.clause() + `
ORDER BY confidence_score DESC, id ASC
` + page
	return repo.query(ctx, "Search", query, args...)
}

func (repo *TagRepo) query(ctx context.Context, op, query string, args ...any) ([]*entity.Tag, error) {
	rows, err := conn(ctx, repo.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	tags := make([]*entity.Tag, 0, 50)
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// Create inserts the tag and sets its generated ID.
func (repo *TagRepo) Create(ctx context.Context, t *entity.Tag) error {
	const query = `
INSERT INTO tags (data_entry_id, tag_type, tag_category, tag_value, confidence_score, is_manual, created_at, created_by)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id`
	err := conn(ctx, repo.db).QueryRowContext(ctx, query,
		t.DataEntryID, t.TagType, nullIfEmpty(t.TagCategory), t.TagValue,
		t.ConfidenceScore, t.IsManual, t.CreatedAt, t.CreatedBy,
	).Scan(&t.ID)
	if isForeignKeyViolation(err) {
		return fmt.Errorf("Create: data entry %q: %w", t.DataEntryID, entity.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (repo *TagRepo) Update(ctx context.Context, t *entity.Tag) error {
	const query = `
UPDATE tags SET
       tag_type         = $1,
       tag_category     = $2,
       tag_value        = $3,
       confidence_score = $4,
       is_manual        = $5
WHERE id = $6`
	res, err := conn(ctx, repo.db).ExecContext(ctx, query,
		t.TagType, nullIfEmpty(t.TagCategory), t.TagValue, t.ConfidenceScore, t.IsManual, t.ID,
	)
	if err != nil {
		return fmt.Errorf("Update: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("Update: %w", entity.ErrNotFound)
	}
	return nil
}

func (repo *TagRepo) Delete(ctx context.Context, id int64) error {
	const query = `DELETE FROM tags WHERE id = $1`
	res, err := conn(ctx, repo.db).ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("Delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("Delete: %w", entity.ErrNotFound)
	}
	return nil
}

func (repo *TagRepo) CountByType(ctx context.Context) (map[string]int64, error) {
	const query = `SELECT tag_type, COUNT(*) FROM tags GROUP BY tag_type`
	rows, err := conn(ctx, repo.db).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("CountByType: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := make(map[string]int64)
	for rows.Next() {
		var typ string
		var n int64
		if err := rows.Scan(&typ, &n); err != nil {
			return nil, fmt.Errorf("CountByType: %w", err)
		}
		out[typ] = n
	}
	return out, rows.Err()
}

func (repo *TagRepo) Popular(ctx context.Context, limit int) ([]repository.TagValueCount, error) {
	const query = `
SELECT tag_value, tag_type, COUNT(*) AS cnt
FROM tags
GROUP BY tag_value, tag_type
ORDER BY cnt DESC, tag_value ASC
LIMIT $1`
	rows, err := conn(ctx, repo.db).QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("Popular: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := make([]repository.TagValueCount, 0, limit)
	for rows.Next() {
		var c repository.TagValueCount
		if err := rows.Scan(&c.TagValue, &c.TagType, &c.Count); err != nil {
			return nil, fmt.Errorf("Popular: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
