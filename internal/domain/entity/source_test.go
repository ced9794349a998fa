package entity

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSource_ApplyDefaults(t *testing.T) {
	s := Source{ID: "un_data", Name: "UN Data", Type: SourceTypeInternationalOrg}
	s.ApplyDefaults()

	assert.Equal(t, DefaultReliabilityScore, s.ReliabilityScore)
	assert.Equal(t, DefaultLanguage, s.Language)
	assert.Equal(t, VerificationPending, s.VerificationStatus)
	assert.NotNil(t, s.CountryFocus)
	assert.NotNil(t, s.TopicCoverage)
}

func TestSource_ApplyDefaults_KeepsExplicitValues(t *testing.T) {
	s := Source{ReliabilityScore: 9, Language: "fr", VerificationStatus: VerificationVerified}
	s.ApplyDefaults()

	assert.Equal(t, 9.0, s.ReliabilityScore)
	assert.Equal(t, "fr", s.Language)
	assert.Equal(t, VerificationVerified, s.VerificationStatus)
}

func TestSource_Validate(t *testing.T) {
	valid := func() Source {
		return Source{ID: "bbc", Name: "BBC", Type: SourceTypeMedia, ReliabilityScore: 7}
	}

	tests := []struct {
		name      string
		mutate    func(*Source)
		wantField string
	}{
		{name: "valid", mutate: func(*Source) {}},
		{name: "missing id", mutate: func(s *Source) { s.ID = " " }, wantField: "id"},
		{name: "missing name", mutate: func(s *Source) { s.Name = "" }, wantField: "name"},
		{name: "missing type", mutate: func(s *Source) { s.Type = "" }, wantField: "type"},
		{name: "unknown type", mutate: func(s *Source) { s.Type = "blog" }, wantField: "type"},
		{name: "score out of range", mutate: func(s *Source) { s.ReliabilityScore = 11 }, wantField: "reliability_score"},
		{name: "bad bias", mutate: func(s *Source) { s.BiasRating = "far-out" }, wantField: "bias_rating"},
		{name: "bad frequency", mutate: func(s *Source) { s.UpdateFrequency = "hourly" }, wantField: "update_frequency"},
		{name: "bad verification", mutate: func(s *Source) { s.VerificationStatus = "ok" }, wantField: "verification_status"},
		{name: "known bias accepted", mutate: func(s *Source) { s.BiasRating = "center" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid()
			tt.mutate(&s)
			err := s.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var ve *ValidationError
			require.True(t, errors.As(err, &ve), "err = %v", err)
			assert.Equal(t, tt.wantField, ve.Field)
		})
	}
}
