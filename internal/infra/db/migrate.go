package db

import (
	"database/sql"
	_ "embed"
)

//go:embed seeds/sources.sql
var seedSourcesSQL string

// tables are created in dependency order.
var tables = []string{
	`
CREATE TABLE IF NOT EXISTS sources (
    id                  TEXT PRIMARY KEY,
    name                TEXT NOT NULL,
    type                TEXT NOT NULL,
    url                 TEXT NOT NULL DEFAULT '',
    feed_url            TEXT NOT NULL DEFAULT '',
    reliability_score   DOUBLE PRECISION NOT NULL DEFAULT 5.0,
    bias_rating         TEXT NOT NULL DEFAULT '',
    update_frequency    TEXT NOT NULL DEFAULT '',
    language            TEXT NOT NULL DEFAULT 'en',
    country_focus       JSONB NOT NULL DEFAULT '[]',
    topic_coverage      JSONB NOT NULL DEFAULT '[]',
    api_available       BOOLEAN NOT NULL DEFAULT FALSE,
    last_updated        TIMESTAMPTZ NOT NULL DEFAULT now(),
    verification_status TEXT NOT NULL DEFAULT 'pending',
    created_at          TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
	`
CREATE TABLE IF NOT EXISTS data_entries (
    id             TEXT PRIMARY KEY,
    source_id      TEXT NOT NULL REFERENCES sources(id),
    title          TEXT NOT NULL DEFAULT '',
    content        TEXT NOT NULL DEFAULT '',
    content_type   TEXT NOT NULL DEFAULT 'article',
    url            TEXT NOT NULL DEFAULT '',
    published_date TIMESTAMPTZ,
    collected_date TIMESTAMPTZ NOT NULL DEFAULT now(),
    raw_data_hash  TEXT NOT NULL DEFAULT '',
    processed      BOOLEAN NOT NULL DEFAULT FALSE
)`,
	`
CREATE TABLE IF NOT EXISTS tags (
    id               BIGSERIAL PRIMARY KEY,
    data_entry_id    TEXT NOT NULL REFERENCES data_entries(id) ON DELETE CASCADE,
    tag_type         TEXT NOT NULL,
    tag_category     TEXT,
    tag_value        TEXT NOT NULL,
    confidence_score DOUBLE PRECISION NOT NULL DEFAULT 1.0,
    is_manual        BOOLEAN NOT NULL DEFAULT FALSE,
    created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
    created_by       TEXT NOT NULL DEFAULT 'system'
)`,
	`
CREATE TABLE IF NOT EXISTS data_lineage (
    id                TEXT PRIMARY KEY,
    data_entry_id     TEXT NOT NULL REFERENCES data_entries(id) ON DELETE CASCADE,
    source_chain      JSONB NOT NULL DEFAULT '[]',
    quality_metrics   JSONB,
    validation_status TEXT NOT NULL DEFAULT 'pending',
    last_verified     TIMESTAMPTZ,
    created_at        TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
	`
CREATE TABLE IF NOT EXISTS country_profiles (
    id                 TEXT PRIMARY KEY,
    name               TEXT NOT NULL,
    official_name      TEXT NOT NULL DEFAULT '',
    region             TEXT NOT NULL DEFAULT '',
    subregion          TEXT NOT NULL DEFAULT '',
    capital            TEXT NOT NULL DEFAULT '',
    population         BIGINT,
    area               DOUBLE PRECISION,
    gdp                DOUBLE PRECISION,
    currency           TEXT NOT NULL DEFAULT '',
    languages          JSONB NOT NULL DEFAULT '[]',
    government_type    TEXT NOT NULL DEFAULT '',
    head_of_state      TEXT NOT NULL DEFAULT '',
    head_of_government TEXT NOT NULL DEFAULT '',
    independence_date  DATE,
    last_updated       TIMESTAMPTZ NOT NULL DEFAULT now(),
    data_source_id     TEXT REFERENCES sources(id)
)`,
}

var indexes = []string{
	// エントリ一覧 (ORDER BY collected_date DESC) とソース別絞り込み
	`CREATE INDEX IF NOT EXISTS idx_data_entries_collected_date ON data_entries(collected_date DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_data_entries_source_id ON data_entries(source_id)`,
	// 収集時の重複チェック
	`CREATE INDEX IF NOT EXISTS idx_data_entries_raw_data_hash ON data_entries(raw_data_hash)`,
	`CREATE INDEX IF NOT EXISTS idx_tags_data_entry_id ON tags(data_entry_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tags_type_value ON tags(tag_type, tag_value)`,
	// トレース (entry 単位, created_at 昇順)
	`CREATE INDEX IF NOT EXISTS idx_data_lineage_entry_created ON data_lineage(data_entry_id, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_data_lineage_status ON data_lineage(validation_status)`,
	`CREATE INDEX IF NOT EXISTS idx_country_profiles_region ON country_profiles(region)`,
}

// searchIndexes need pg_trgm and are skipped when the extension is unavailable.
var searchIndexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_data_entries_title_gin ON data_entries USING gin(title gin_trgm_ops)`,
	`CREATE INDEX IF NOT EXISTS idx_tags_value_gin ON tags USING gin(tag_value gin_trgm_ops)`,
	`CREATE INDEX IF NOT EXISTS idx_country_profiles_name_gin ON country_profiles USING gin(name gin_trgm_ops)`,
}

func MigrateUp(db *sql.DB) error {
	for _, stmt := range tables {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	for _, idx := range indexes {
		if _, err := db.Exec(idx); err != nil {
			return err
		}
	}

	// pg_trgm拡張を有効化(権限がない場合は無視)
	_, _ = db.Exec(`CREATE EXTENSION IF NOT EXISTS pg_trgm`)
	for _, idx := range searchIndexes {
		_, _ = db.Exec(idx)
	}

	// シードデータの投入(重複は自動的にスキップ)
	if _, err := db.Exec(seedSourcesSQL); err != nil {
		return err
	}

	return nil
}

// MigrateDown drops every table in reverse dependency order.
// All data is lost.
func MigrateDown(db *sql.DB) error {
	for _, table := range []string{"country_profiles", "data_lineage", "tags", "data_entries", "sources"} {
		if _, err := db.Exec(`DROP TABLE IF EXISTS ` + table + ` CASCADE`); err != nil {
			return err
		}
	}
	return nil
}
