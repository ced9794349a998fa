package postgres_test

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"geodata/internal/domain/entity"
	"geodata/internal/infra/adapter/persistence/postgres"
	"geodata/internal/repository"
)

var countryCols = []string{
	"id", "name", "official_name", "region", "subregion", "capital", "population", "area", "gdp", "currency",
	"languages", "government_type", "head_of_state", "head_of_government", "independence_date", "last_updated", "data_source_id",
}

func TestCountryRepo_Get(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(`FROM country_profiles`).WithArgs("fr").
		WillReturnRows(sqlmock.NewRows(countryCols).AddRow(
			"fr", "France", "French Republic", "Europe", "", "Paris", int64(68000000), 643801.0, nil, "euro",
			[]byte(`["French"]`), "semi-presidential republic", "", "", nil, time.Now(), "cia_factbook",
		))

	got, err := postgres.NewCountryRepo(db).Get(context.Background(), "fr")
	if err != nil {
		t.Fatalf("Get err=%v", err)
	}
	if got.Name != "France" || *got.Population != 68000000 || got.GDP != nil || got.DataSourceID != "cia_factbook" {
		t.Fatalf("unexpected profile %+v", got)
	}
	if len(got.Languages) != 1 || got.Languages[0] != "French" {
		t.Fatalf("Languages = %v", got.Languages)
	}
}

func TestCountryRepo_Upsert(t *testing.T) {
	for _, inserted := range []bool{true, false} {
		db, mock, _ := sqlmock.New()

		mock.ExpectQuery(regexp.QuoteMeta(`ON CONFLICT (id) DO UPDATE SET`)).
			WillReturnRows(sqlmock.NewRows([]string{"inserted"}).AddRow(inserted))

		got, err := postgres.NewCountryRepo(db).Upsert(context.Background(), &entity.CountryProfile{ID: "fr", Name: "France"})
		if err != nil {
			t.Fatalf("Upsert err=%v", err)
		}
		if got != inserted {
			t.Fatalf("inserted = %v, want %v", got, inserted)
		}
		_ = db.Close()
	}
}

func TestCountryRepo_Upsert_NullDataSource(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(`INSERT INTO country_profiles`).
		WithArgs("xx", "Nowhere", "", "", "", "", nil, nil, nil, "", []byte(`[]`), "", "", "", nil,
			sqlmock.AnyArg(), sql.NullString{}).
		WillReturnRows(sqlmock.NewRows([]string{"inserted"}).AddRow(true))

	_, err := postgres.NewCountryRepo(db).Upsert(context.Background(), &entity.CountryProfile{ID: "xx", Name: "Nowhere"})
	if err != nil {
		t.Fatalf("Upsert err=%v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestCountryRepo_List_Region(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(regexp.QuoteMeta(`WHERE region = $1`)).
		WithArgs("Europe", 50, 0).
		WillReturnRows(sqlmock.NewRows(countryCols))

	if _, err := postgres.NewCountryRepo(db).List(context.Background(), repository.CountryFilter{Region: "Europe", Limit: 50}); err != nil {
		t.Fatalf("List err=%v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
