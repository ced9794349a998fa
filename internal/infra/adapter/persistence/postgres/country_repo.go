package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"geodata/internal/domain/entity"
	"geodata/internal/repository"
)

const countryColumns = `id, name, official_name, region, subregion, capital, population, area, gdp, currency,
       languages, government_type, head_of_state, head_of_government, independence_date, last_updated, data_source_id`

type CountryRepo struct{ db *sql.DB }

func NewCountryRepo(db *sql.DB) repository.CountryRepository {
	return &CountryRepo{db: db}
}

func scanCountry(s scanner) (*entity.CountryProfile, error) {
	var c entity.CountryProfile
	var languagesJSON []byte
	var dataSource sql.NullString
	if err := s.Scan(
		&c.ID, &c.Name, &c.OfficialName, &c.Region, &c.Subregion, &c.Capital,
		&c.Population, &c.Area, &c.GDP, &c.Currency, &languagesJSON,
		&c.GovernmentType, &c.HeadOfState, &c.HeadOfGovernment,
		&c.IndependenceDate, &c.LastUpdated, &dataSource,
	); err != nil {
		return nil, err
	}
	langs, err := decodeStrings(languagesJSON)
	if err != nil {
		return nil, fmt.Errorf("unmarshal languages: %w", err)
	}
	c.Languages = langs
	c.DataSourceID = dataSource.String
	return &c, nil
}

func (repo *CountryRepo) Get(ctx context.Context, id string) (*entity.CountryProfile, error) {
	query := `SELECT ` + countryColumns + `
FROM country_profiles
WHERE id = $1`
	c, err := scanCountry(conn(ctx, repo.db).QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return c, nil
}

func (repo *CountryRepo) List(ctx context.Context, filter repository.CountryFilter) ([]*entity.CountryProfile, error) {
	var wb whereBuilder
	wb.eq("region", filter.Region)
	page, args := wb.page(filter.Limit, filter.Offset)
	query := `SELECT ` + countryColumns + `
FROM country_profiles
` + wb.clause() + `
ORDER BY name ASC
` + page
	return repo.query(ctx, "List", query, args...)
}

func (repo *CountryRepo) Count(ctx context.Context, filter repository.CountryFilter) (int64, error) {
	var wb whereBuilder
	wb.eq("region", filter.Region)
	var n int64
	query := `SELECT COUNT(*) FROM country_profiles ` + wb.clause()
	if err := conn(ctx, repo.db).QueryRowContext(ctx, query, wb.args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("Count: %w", err)
	}
	return n, nil
}

func (repo *CountryRepo) Search(ctx context.Context, q string, limit int) ([]*entity.CountryProfile, error) {
	var wb whereBuilder
	wb.ilikeAny(q, "name", "official_name", "capital")
	page, args := wb.page(limit, 0)
	query := `SELECT ` + countryColumns + `
FROM country_profiles
` + wb.clause() + `
ORDER BY name ASC
` + page
	return repo.query(ctx, "Search", query, args...)
}

func (repo *CountryRepo) query(ctx context.Context, op, query string, args ...any) ([]*entity.CountryProfile, error) {
	rows, err := conn(ctx, repo.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	countries := make([]*entity.CountryProfile, 0, 50)
	for rows.Next() {
		c, err := scanCountry(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		countries = append(countries, c)
	}
	return countries, rows.Err()
}

// Upsert relies on xmax being zero only for freshly inserted rows.
func (repo *CountryRepo) Upsert(ctx context.Context, c *entity.CountryProfile) (bool, error) {
	langs, err := encodeStrings(c.Languages)
	if err != nil {
		return false, fmt.Errorf("Upsert: marshal languages: %w", err)
	}
	const query = `
INSERT INTO country_profiles (id, name, official_name, region, subregion, capital, population, area, gdp, currency,
                              languages, government_type, head_of_state, head_of_government, independence_date,
                              last_updated, data_source_id)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
ON CONFLICT (id) DO UPDATE SET
       name               = EXCLUDED.name,
       official_name      = EXCLUDED.official_name,
       region             = EXCLUDED.region,
       subregion          = EXCLUDED.subregion,
       capital            = EXCLUDED.capital,
       population         = EXCLUDED.population,
       area               = EXCLUDED.area,
       gdp                = EXCLUDED.gdp,
       currency           = EXCLUDED.currency,
       languages          = EXCLUDED.languages,
       government_type    = EXCLUDED.government_type,
       head_of_state      = EXCLUDED.head_of_state,
       head_of_government = EXCLUDED.head_of_government,
       independence_date  = EXCLUDED.independence_date,
       last_updated       = EXCLUDED.last_updated,
       data_source_id     = EXCLUDED.data_source_id
RETURNING (xmax = 0) AS inserted`
	var inserted bool
	err = conn(ctx, repo.db).QueryRowContext(ctx, query,
		c.ID, c.Name, c.OfficialName, c.Region, c.Subregion, c.Capital,
		c.Population, c.Area, c.GDP, c.Currency, langs,
		c.GovernmentType, c.HeadOfState, c.HeadOfGovernment, c.IndependenceDate,
		c.LastUpdated, nullIfEmpty(c.DataSourceID),
	).Scan(&inserted)
	if isForeignKeyViolation(err) {
		return false, fmt.Errorf("Upsert: source %q: %w", c.DataSourceID, entity.ErrNotFound)
	}
	if err != nil {
		return false, fmt.Errorf("Upsert: %w", err)
	}
	return inserted, nil
}
