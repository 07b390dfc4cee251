package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/prepify/orgraph/internal/config"
	"github.com/prepify/orgraph/internal/fetch"
	"github.com/prepify/orgraph/internal/graph"
	"github.com/prepify/orgraph/internal/ingest"
	"github.com/prepify/orgraph/internal/server"
)

var serveSample bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return runServe(cfg)
	},
}

func init() {
	serveCmd.Flags().BoolVar(&serveSample, "sample", false, "serve the built-in sample graph instead of registry data")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cfg *config.Config) error {
	loader := sampleLoader()
	if !serveSample && cfg.Registry.UseRealData {
		loader = registryLoader(cfg)
	}

	snap, report, err := loader()
	if err != nil {
		return fmt.Errorf("failed to build initial graph: %w", err)
	}
	if report != nil && report.Len() > 0 {
		log.Warn("Some records failed to parse", "failures", report.Len())
	}

	store := graph.NewStore()
	store.Publish(snap)
	log.Info("Graph ready", "nodes", snap.NodeCount(), "edges", snap.EdgeCount())

	srv := server.New(store, loader)
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Info("Starting server", "addr", addr)
	return srv.Router().Run(addr)
}

func sampleLoader() server.Loader {
	return func() (*graph.Snapshot, *ingest.ParseFailureReport, error) {
		return ingest.SampleSnapshot(), nil, nil
	}
}

// registryLoader builds the full pipeline: download the latest registry
// dataset, parse it, enrich companies with insolvency state and build the
// snapshot. Each invocation rebuilds from scratch.
func registryLoader(cfg *config.Config) server.Loader {
	registry := fetch.NewRegistryClient(cfg.Registry.BaseURL, cfg.Registry.CacheDir,
		time.Duration(cfg.Registry.CacheMaxAgeDays)*24*time.Hour)

	var isir *fetch.ISIRClient
	if cfg.ISIR.Enabled {
		isir = fetch.NewISIRClient(cfg.ISIR.BaseURL, cfg.ISIR.RequestsPerSecond,
			cfg.ISIR.Burst, time.Duration(cfg.ISIR.CacheTTLMinutes)*time.Minute)
	}
	var foreign *fetch.ForeignRegistryClient
	if cfg.Foreign.Enabled {
		foreign = fetch.NewForeignRegistryClient(cfg.Foreign.BaseURL,
			time.Duration(cfg.Foreign.CacheTTLMinutes)*time.Minute)
	}

	return func() (*graph.Snapshot, *ingest.ParseFailureReport, error) {
		ctx := context.Background()

		dataset, err := registry.LatestDataset(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to find registry dataset: %w", err)
		}
		path, err := registry.FetchDataset(ctx, dataset)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to fetch registry dataset: %w", err)
		}
		records, err := ingest.ReadRecords(path, cfg.Registry.MaxCompanies)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read registry records: %w", err)
		}

		asm, report := ingest.Assemble(records)
		if isir != nil {
			applyInsolvency(ctx, isir, asm)
		}
		if foreign != nil {
			applyForeignDetails(ctx, foreign, asm)
		}
		return asm.Snapshot(), report, nil
	}
}

// applyInsolvency checks every domestic company against the insolvency
// registry. Foreign ids are skipped; they are not in ISIR.
func applyInsolvency(ctx context.Context, isir *fetch.ISIRClient, asm *graph.Assembler) {
	var icos []string
	for _, id := range asm.CompanyIDs() {
		if _, _, foreign := fetch.SplitForeignID(id); !foreign {
			icos = append(icos, id)
		}
	}
	insolvent, err := isir.BatchCheck(ctx, icos)
	if err != nil {
		log.Warn("Insolvency check failed, continuing without it", "error", err)
		return
	}
	for ico, flag := range insolvent {
		if flag {
			asm.SetInsolvent(ico, true)
		}
	}
}

// applyForeignDetails resolves shareholder references that carry a
// jurisdiction prefix through the foreign registry. Failed lookups leave the
// placeholder node as-is.
func applyForeignDetails(ctx context.Context, client *fetch.ForeignRegistryClient, asm *graph.Assembler) {
	for _, id := range asm.CompanyIDs() {
		jurisdiction, number, ok := fetch.SplitForeignID(id)
		if !ok {
			continue
		}
		company, err := client.Company(ctx, jurisdiction, number)
		if err != nil {
			log.Warn("Foreign registry lookup failed", "id", id, "error", err)
			continue
		}
		asm.SetForeignDetails(id, company.Details())
		if company.Insolvent {
			asm.SetInsolvent(id, true)
		}
	}
}
