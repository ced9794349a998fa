package app

import (
	"fmt"

	"geodata/internal/infra/factbook"
	"geodata/internal/infra/fetcher"
	"geodata/internal/infra/scraper"
	"geodata/internal/usecase/collect"
	countryUC "geodata/internal/usecase/country"
	entryUC "geodata/internal/usecase/entry"
	lineageUC "geodata/internal/usecase/lineage"
	searchUC "geodata/internal/usecase/search"
	sourceUC "geodata/internal/usecase/source"
	tagUC "geodata/internal/usecase/tag"
	"geodata/pkg/config"
)

// Services holds one instance of every usecase service over a store.
type Services struct {
	Sources   *sourceUC.Service
	Entries   *entryUC.Service
	Countries *countryUC.Service
	Search    *searchUC.Service
	Tags      *tagUC.Service
	Lineage   *lineageUC.Service
}

func NewServices(st *Store) *Services {
	return &Services{
		Sources:   &sourceUC.Service{Repo: st.Sources},
		Entries:   &entryUC.Service{Entries: st.Entries, Sources: st.Sources, Tx: st.Tx},
		Countries: &countryUC.Service{Countries: st.Countries, Tx: st.Tx},
		Search:    &searchUC.Service{Entries: st.Entries, Countries: st.Countries},
		Tags:      &tagUC.Service{Tags: st.Tags, Entries: st.Entries, Tx: st.Tx},
		Lineage: &lineageUC.Service{
			Lineage: st.Lineage,
			Entries: st.Entries,
			Sources: st.Sources,
			Tx:      st.Tx,
		},
	}
}

// CollectorConfig configures the collectors built by NewRegistry.
type CollectorConfig struct {
	Fetch           fetcher.Config
	FactbookOptions []factbook.Option
	// Parallelism bounds concurrent countries and feeds. Zero keeps the
	// collector defaults.
	Parallelism int
}

// LoadCollectorConfig reads the COLLECTOR_* and FACTBOOK_BASE_URL settings.
func LoadCollectorConfig() (CollectorConfig, error) {
	fc, err := fetcher.LoadConfigFromEnv()
	if err != nil {
		return CollectorConfig{}, err
	}
	return CollectorConfig{
		Fetch:           fc,
		FactbookOptions: factbook.OptionsFromEnv(),
		Parallelism:     config.GetEnvInt("COLLECTOR_PARALLELISM", 0),
	}, nil
}

// NewRegistry registers the factbook, rss and web collectors over st.
func NewRegistry(st *Store, cfg CollectorConfig) (*collect.Registry, error) {
	regions, err := factbook.DefaultRegions()
	if err != nil {
		return nil, fmt.Errorf("load regions: %w", err)
	}

	client := fetcher.NewClient(cfg.Fetch)
	ingester := &collect.Ingester{
		Sources:   st.Sources,
		Entries:   st.Entries,
		Lineage:   st.Lineage,
		Countries: st.Countries,
		Tx:        st.Tx,
	}

	return collect.NewRegistry(
		&collect.FactbookCollector{
			Client:          factbook.NewClient(client, cfg.FactbookOptions...),
			Ingester:        ingester,
			Regions:         regions.Countries,
			PriorityRegions: regions.Priority,
			Parallelism:     cfg.Parallelism,
		},
		&collect.RSSCollector{
			Fetcher:     scraper.NewRSSFetcher(client),
			Sources:     st.Sources,
			Ingester:    ingester,
			Parallelism: cfg.Parallelism,
		},
		&collect.WebCollector{
			Fetcher:  fetcher.NewReadabilityFetcher(client),
			Sources:  st.Sources,
			Ingester: ingester,
		},
	), nil
}
