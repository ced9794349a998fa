package factbook_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geodata/internal/infra/factbook"
	"geodata/internal/usecase/collect"
)

const franceJSON = `{
  "Government": {
    "Country name": {
      "conventional long form": {"text": "French Republic"},
      "conventional short form": {"text": "France"}
    },
    "Government type": {"text": "semi-presidential republic"},
    "Capital": {"name": {"text": "Paris"}},
    "Independence": {"text": "no official date of independence: 486 (Frankish tribes unified)"},
    "Executive branch": {
      "chief of state": {"text": "President Emmanuel MACRON (since 14 May 2017)"},
      "head of government": {"text": "Prime Minister Michel BARNIER (since 5 September 2024)"}
    }
  },
  "People and Society": {
    "Population": {"total": {"text": "68,374,591 (2024 est.)"}},
    "Languages": {"Languages": {"text": "French (official) 100%; <strong>note:</strong> regional dialects are declining"}}
  },
  "Geography": {
    "Map references": {"text": "Europe"},
    "Area": {"total ": {"text": "643,801 sq km"}}
  },
  "Economy": {
    "Real GDP (purchasing power parity)": {
      "Real GDP (purchasing power parity) 2022": {"text": "$3.681 trillion (2022 est.)"},
      "Real GDP (purchasing power parity) 2023": {"text": "$3.714 trillion (2023 est.)"}
    },
    "Exchange rates": {"text": "euros (EUR) per US dollar -<br><br>2023: 0.925"}
  }
}`

const usJSON = `{
  "Government": {
    "Country name": {"conventional short form": {"text": "United States"}},
    "Independence": {"text": "4 July 1776 (declared); 3 September 1783 (recognized by Great Britain)"}
  },
  "People and Society": {
    "Population": {"text": "341,963,408 (2024 est.)"},
    "Languages": {"text": "English only 78.2%, Spanish 13.4%, Chinese 1.1%, other 7.3% (2017 est.)"}
  },
  "Economy": {"Currency": {"text": "US dollar"}}
}`

func TestParseCountry_France(t *testing.T) {
	p, err := factbook.ParseCountry("fr", []byte(franceJSON))
	require.NoError(t, err)

	assert.Equal(t, "France", p.Name)
	assert.Equal(t, "French Republic", p.OfficialName)
	assert.Equal(t, "Europe", p.Region)
	assert.Equal(t, "Paris", p.Capital)
	assert.Equal(t, "semi-presidential republic", p.GovernmentType)
	assert.Equal(t, "President Emmanuel MACRON", p.HeadOfState)
	assert.Equal(t, "Prime Minister Michel BARNIER", p.HeadOfGovernment)
	assert.Equal(t, "euros", p.Currency)
	assert.Equal(t, []string{"French"}, p.Languages)
	require.NotNil(t, p.Population)
	assert.Equal(t, int64(68374591), *p.Population)
	require.NotNil(t, p.Area)
	assert.Equal(t, 643801.0, *p.Area)
	require.NotNil(t, p.GDP)
	assert.InDelta(t, 3.714e12, *p.GDP, 1e6)
	assert.Nil(t, p.IndependenceDate)
}

func TestParseCountry_UnitedStates(t *testing.T) {
	p, err := factbook.ParseCountry("us", []byte(usJSON))
	require.NoError(t, err)

	assert.Equal(t, "United States", p.Name)
	assert.Equal(t, "US dollar", p.Currency)
	assert.Equal(t, []string{"English only", "Spanish", "Chinese", "other"}, p.Languages)
	require.NotNil(t, p.Population)
	assert.Equal(t, int64(341963408), *p.Population)
	require.NotNil(t, p.IndependenceDate)
	assert.Equal(t, time.Date(1776, time.July, 4, 0, 0, 0, 0, time.UTC), *p.IndependenceDate)
	assert.Nil(t, p.Area)
	assert.Nil(t, p.GDP)
}

func TestParseCountry_EmptyDocument(t *testing.T) {
	p, err := factbook.ParseCountry("gm", []byte(`{}`))
	require.NoError(t, err)

	assert.Equal(t, "GM", p.Name)
	assert.Empty(t, p.Languages)
	assert.NotNil(t, p.Languages)
	assert.Nil(t, p.Population)
}

func TestParseCountry_InvalidJSON(t *testing.T) {
	_, err := factbook.ParseCountry("fr", []byte(`{"Government":`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, collect.ErrExtractionFailed))
}
