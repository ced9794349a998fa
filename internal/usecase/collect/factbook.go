package collect

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"geodata/internal/domain/entity"
	"geodata/internal/observability/metrics"
)

const (
	// FactbookName is the registry name and source ID of the factbook collector.
	FactbookName = "cia_factbook"

	factbookCountryURL = "https://www.cia.gov/the-world-factbook/countries/%s/"
	defaultParallelism = 4
)

// CountryDocument is one fetched factbook country file.
type CountryDocument struct {
	// Raw is the JSON document as served.
	Raw []byte
	// Profile holds the fields extracted from Raw.
	Profile *entity.CountryProfile
}

// FactbookClient fetches factbook country documents.
type FactbookClient interface {
	FetchCountry(ctx context.Context, region, code string) (*CountryDocument, error)
}

// FactbookCollector stores a country profile, a profile data entry and a
// validated lineage record for every country of the priority regions.
type FactbookCollector struct {
	Client   FactbookClient
	Ingester *Ingester
	// Regions maps a region name to its country codes.
	Regions         map[string][]string
	PriorityRegions []string
	Parallelism     int
}

func (c *FactbookCollector) Name() string { return FactbookName }

func (c *FactbookCollector) Description() string {
	return "Collects country profile data from the CIA World Factbook"
}

func factbookSource() *entity.Source {
	return &entity.Source{
		ID:               FactbookName,
		Name:             "CIA World Factbook",
		Type:             entity.SourceTypeGovernment,
		URL:              "https://www.cia.gov/the-world-factbook/",
		ReliabilityScore: 9.0,
		BiasRating:       "center",
		UpdateFrequency:  "weekly",
		Language:         "en",
		CountryFocus:     []string{"global"},
		TopicCoverage: []string{
			"geography", "people", "government", "economy",
			"energy", "communications", "transportation", "military",
		},
		APIAvailable:       true,
		VerificationStatus: entity.VerificationVerified,
	}
}

func factbookMetrics() entity.QualityMetrics {
	completeness, accuracy, timeliness, consistency := 0.9, 0.95, 0.8, 0.9
	return entity.QualityMetrics{
		Completeness: &completeness,
		Accuracy:     &accuracy,
		Timeliness:   &timeliness,
		Consistency:  &consistency,
	}
}

type countryJob struct {
	region string
	code   string
}

// Collect fetches the priority regions country by country. A failed country
// is counted and skipped; only cancellation or a failed source setup fail
// the run.
func (c *FactbookCollector) Collect(ctx context.Context, _ Request) (*RunResult, error) {
	res := &RunResult{Collector: FactbookName}
	if err := c.Ingester.EnsureSource(ctx, factbookSource()); err != nil {
		return nil, fmt.Errorf("initialize source: %w", err)
	}

	var jobs []countryJob
	seen := make(map[string]bool)
	for _, region := range c.PriorityRegions {
		for _, code := range c.Regions[region] {
			if seen[code] {
				continue
			}
			seen[code] = true
			jobs = append(jobs, countryJob{region: region, code: code})
		}
	}

	parallelism := c.Parallelism
	if parallelism <= 0 {
		parallelism = defaultParallelism
	}
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(parallelism)
	for _, job := range jobs {
		eg.Go(func() error {
			return c.collectCountry(egCtx, job, res)
		})
	}
	if err := eg.Wait(); err != nil {
		return res, err
	}

	slog.Info("factbook collection completed",
		slog.Int("countries", len(jobs)),
		slog.Int("created", res.Created),
		slog.Int("duplicated", res.Duplicated),
		slog.Int("failed", res.Failed))
	return res, nil
}

// collectCountry returns an error only when ctx is done.
func (c *FactbookCollector) collectCountry(ctx context.Context, job countryJob, res *RunResult) error {
	start := time.Now()
	doc, err := c.Client.FetchCountry(ctx, job.region, job.code)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		metrics.RecordCollectorFetchError(FactbookName, errorType(err))
		slog.Warn("failed to fetch country",
			slog.String("region", job.region),
			slog.String("code", job.code),
			slog.Any("error", err))
		res.failed(job.code, err)
		return nil
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, doc.Raw); err != nil {
		metrics.RecordCollectorFetchError(FactbookName, "parse")
		res.failed(job.code, fmt.Errorf("decode document: %w", err))
		return nil
	}
	hash := entity.HashContent(compact.String())

	item := Item{
		SourceID:        FactbookName,
		ContentType:     entity.ContentTypeProfile,
		URL:             fmt.Sprintf(factbookCountryURL, job.code),
		Hash:            hash,
		Method:          "api",
		Transformations: []string{"json_parsing", "country_profile_extraction"},
		Metrics:         factbookMetrics(),
		Status:          entity.LineageValidated,
	}

	// 内容が変わっていなければ既存エントリに系譜だけ積む
	relinked, err := c.Ingester.Relineage(ctx, item)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		res.failed(job.code, err)
		return nil
	}
	if relinked != nil {
		metrics.RecordEntriesDuplicated(FactbookName, 1)
		res.duplicated()
		slog.Debug("country unchanged",
			slog.String("code", job.code),
			slog.String("data_entry_id", relinked.DataEntryID))
		return nil
	}

	var pretty bytes.Buffer
	_ = json.Indent(&pretty, compact.Bytes(), "", "  ")

	profile := doc.Profile
	if profile == nil {
		profile = &entity.CountryProfile{}
	}
	profile.ID = job.code
	profile.DataSourceID = FactbookName
	if profile.Region == "" {
		profile.Region = job.region
	}
	if profile.Name == "" {
		profile.Name = job.code
	}
	if profile.Languages == nil {
		profile.Languages = []string{}
	}

	item.Title = "CIA Factbook Profile: " + profile.Name
	item.Content = pretty.String()
	item.Country = profile
	_, _, err = c.Ingester.Ingest(ctx, item)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		slog.Warn("failed to store country",
			slog.String("code", job.code),
			slog.Any("error", err))
		res.failed(job.code, err)
		return nil
	}

	metrics.RecordEntriesCollected(FactbookName, FactbookName, 1)
	res.created()
	slog.Debug("country collected",
		slog.String("code", job.code),
		slog.Duration("duration", time.Since(start)))
	return nil
}
