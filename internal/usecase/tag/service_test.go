package tag_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geodata/internal/domain/entity"
	"geodata/internal/infra/adapter/persistence/memory"
	"geodata/internal/repository"
	tagUC "geodata/internal/usecase/tag"
)

/* ──────────────────────────────── ヘルパ ──────────────────────────────── */

var fixedNow = time.Date(2024, 2, 2, 10, 0, 0, 0, time.UTC)

func newService(t *testing.T) (*tagUC.Service, repository.TagRepository) {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, memory.NewSourceRepo(store).Create(ctx, &entity.Source{ID: "s", Name: "S", Type: "media"}))
	entries := memory.NewDataEntryRepo(store)
	for _, id := range []string{"e1", "e2"} {
		require.NoError(t, entries.Create(ctx, &entity.DataEntry{ID: id, SourceID: "s", Title: "t", Content: "c", CollectedDate: fixedNow}))
	}
	tags := memory.NewTagRepo(store)
	return &tagUC.Service{
		Tags:    tags,
		Entries: entries,
		Tx:      store,
		Now:     func() time.Time { return fixedNow },
	}, tags
}

func f64(v float64) *float64 { return &v }
func str(v string) *string   { return &v }

/* ──────────────────────────────── Create ──────────────────────────────── */

func TestService_Create_Defaults(t *testing.T) {
	svc, _ := newService(t)

	tag, err := svc.Create(context.Background(), tagUC.CreateInput{DataEntryID: "e1", TagType: "geographic", TagValue: "Kenya"})
	require.NoError(t, err)
	assert.NotZero(t, tag.ID)
	assert.Equal(t, 1.0, tag.ConfidenceScore)
	assert.Equal(t, "system", tag.CreatedBy)
	assert.False(t, tag.IsManual)
	assert.Equal(t, fixedNow, tag.CreatedAt)
}

func TestService_Create_Errors(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, tagUC.CreateInput{DataEntryID: "nope", TagType: "topic", TagValue: "trade"})
	assert.ErrorIs(t, err, tagUC.ErrDataEntryNotFound)

	_, err = svc.Create(ctx, tagUC.CreateInput{DataEntryID: "e1", TagType: "mood", TagValue: "x"})
	assert.ErrorIs(t, err, entity.ErrInvalidInput)

	_, err = svc.Create(ctx, tagUC.CreateInput{DataEntryID: "e1", TagType: "topic", TagValue: "x", ConfidenceScore: f64(1.2)})
	assert.ErrorIs(t, err, entity.ErrInvalidInput)
}

func TestService_CreateBulk_AllOrNothing(t *testing.T) {
	svc, tags := newService(t)
	ctx := context.Background()

	_, err := svc.CreateBulk(ctx, []tagUC.CreateInput{
		{DataEntryID: "e1", TagType: "topic", TagValue: "trade"},
		{DataEntryID: "missing", TagType: "topic", TagValue: "energy"},
	})
	assert.ErrorIs(t, err, tagUC.ErrDataEntryNotFound)

	n, err := tags.Count(ctx, repository.TagFilter{})
	require.NoError(t, err)
	assert.Zero(t, n, "first tag must be rolled back")

	created, err := svc.CreateBulk(ctx, []tagUC.CreateInput{
		{DataEntryID: "e1", TagType: "topic", TagValue: "trade"},
		{DataEntryID: "e2", TagType: "event", TagValue: "summit", IsManual: true, CreatedBy: "analyst"},
	})
	require.NoError(t, err)
	require.Len(t, created, 2)
	assert.NotEqual(t, created[0].ID, created[1].ID)
}

func TestService_CreateBulk_Validation(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.CreateBulk(context.Background(), nil)
	var ve *entity.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "tags", ve.Field)

	_, err = svc.CreateBulk(context.Background(), []tagUC.CreateInput{
		{DataEntryID: "e1", TagType: "topic", TagValue: "ok"},
		{DataEntryID: "e1", TagType: "topic"},
	})
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "tags[1].tag_value", ve.Field)
}

/* ──────────────────────────────── Get / Update / Delete ──────────────────────────────── */

func TestService_UpdateAndDelete(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	tag, err := svc.Create(ctx, tagUC.CreateInput{DataEntryID: "e1", TagType: "topic", TagValue: "trade", TagCategory: "economics"})
	require.NoError(t, err)

	got, err := svc.Update(ctx, tagUC.UpdateInput{ID: tag.ID, TagValue: str("tariffs"), ConfidenceScore: f64(0.4)})
	require.NoError(t, err)
	assert.Equal(t, "tariffs", got.TagValue)
	assert.Equal(t, "economics", got.TagCategory)
	assert.Equal(t, 0.4, got.ConfidenceScore)
	assert.Equal(t, "e1", got.DataEntryID)

	_, err = svc.Update(ctx, tagUC.UpdateInput{ID: tag.ID, TagType: str("bogus")})
	assert.ErrorIs(t, err, entity.ErrInvalidInput)
	stored, err := svc.Get(ctx, tag.ID)
	require.NoError(t, err)
	assert.Equal(t, "topic", stored.TagType)

	require.NoError(t, svc.Delete(ctx, tag.ID))
	_, err = svc.Get(ctx, tag.ID)
	assert.ErrorIs(t, err, tagUC.ErrTagNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, tag.ID), tagUC.ErrTagNotFound)
	_, err = svc.Update(ctx, tagUC.UpdateInput{ID: 999})
	assert.ErrorIs(t, err, tagUC.ErrTagNotFound)
}

/* ──────────────────────────────── List / Search / Types / Stats ──────────────────────────────── */

func TestService_List(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	_, err := svc.CreateBulk(ctx, []tagUC.CreateInput{
		{DataEntryID: "e1", TagType: "topic", TagValue: "a"},
		{DataEntryID: "e1", TagType: "geographic", TagValue: "b", IsManual: true},
		{DataEntryID: "e2", TagType: "topic", TagValue: "c"},
	})
	require.NoError(t, err)

	manual := true
	got, total, err := svc.List(ctx, repository.TagFilter{DataEntryID: "e1", IsManual: &manual})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].TagValue)
}

func TestService_Search(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	_, err := svc.CreateBulk(ctx, []tagUC.CreateInput{
		{DataEntryID: "e1", TagType: "geographic", TagValue: "South Africa", ConfidenceScore: f64(0.6)},
		{DataEntryID: "e2", TagType: "geographic", TagValue: "Central African Republic", ConfidenceScore: f64(0.9)},
		{DataEntryID: "e2", TagType: "topic", TagValue: "africa policy"},
	})
	require.NoError(t, err)

	got, err := svc.Search(ctx, "AFRICA", "geographic", 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Central African Republic", got[0].TagValue)

	_, err = svc.Search(ctx, "x", "weather", 5)
	assert.ErrorIs(t, err, entity.ErrInvalidInput)
}

func TestService_Types(t *testing.T) {
	svc, _ := newService(t)

	types := svc.Types()
	assert.Len(t, types, 5)
	assert.Contains(t, types[entity.TagTypeEvent].Categories, "election")

	info := types[entity.TagTypeTopic]
	info.Categories[0] = "mutated"
	assert.NotEqual(t, "mutated", entity.TagSchema[entity.TagTypeTopic].Categories[0])
}

func TestService_Stats(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	_, err := svc.CreateBulk(ctx, []tagUC.CreateInput{
		{DataEntryID: "e1", TagType: "geographic", TagValue: "Kenya"},
		{DataEntryID: "e2", TagType: "geographic", TagValue: "Kenya", IsManual: true},
		{DataEntryID: "e2", TagType: "topic", TagValue: "drought"},
	})
	require.NoError(t, err)

	st, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), st.TotalTags)
	assert.Equal(t, int64(1), st.ManualTags)
	assert.Equal(t, int64(2), st.AutomaticTags)
	assert.Equal(t, map[string]int64{"geographic": 2, "topic": 1}, st.TagsByType)
	require.NotEmpty(t, st.PopularTags)
	assert.Equal(t, repository.TagValueCount{TagValue: "Kenya", TagType: "geographic", Count: 2}, st.PopularTags[0])
}
