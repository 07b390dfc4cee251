// Package ingest turns raw registry records into a published graph snapshot:
// record → format parse → fact extraction → assembly, with per-record parse
// failures collected instead of aborting the batch.
package ingest

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/prepify/orgraph/internal/graph"
	"github.com/prepify/orgraph/internal/interpret"
	"github.com/prepify/orgraph/internal/model"
	"github.com/prepify/orgraph/internal/orparse"
)

// ParseFailure records one record whose structured field could not be parsed.
// The record's company node is still added from the flat columns.
type ParseFailure struct {
	RegistryID string `json:"registry_id"`
	Offset     int    `json:"offset"`
	Message    string `json:"message"`
}

// ParseFailureReport aggregates per-record failures from one build. A build
// succeeds overall even when some records fail; partial success is the
// default policy for bulk ingestion.
type ParseFailureReport struct {
	Failures []ParseFailure `json:"failures"`
}

func (r *ParseFailureReport) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Failures)
}

// Assemble folds the records into a fresh assembler, returning it still open
// for enrichment (insolvency flags, foreign-registry details) before the
// snapshot is taken.
func Assemble(records []model.RawRecord) (*graph.Assembler, *ParseFailureReport) {
	a := graph.NewAssembler()
	report := &ParseFailureReport{}

	for _, rec := range records {
		name := rec.Name
		if name == "" {
			name = fmt.Sprintf("Společnost %s", rec.RegistryID)
		}
		// The flat-column city goes in first so a registered-address
		// fact, when present, takes priority.
		a.AddCompany(rec.RegistryID, name, rec.City)

		if rec.RawField == "" {
			continue
		}
		root, err := orparse.Parse(rec.RawField)
		if err != nil {
			failure := ParseFailure{RegistryID: rec.RegistryID, Message: err.Error()}
			var perr *orparse.ParseError
			if errors.As(err, &perr) {
				failure.Offset = perr.Offset
			}
			report.Failures = append(report.Failures, failure)
			continue
		}
		for _, fact := range interpret.Facts(rec.RegistryID, root) {
			a.AddFact(fact)
		}
	}
	return a, report
}

// BuildGraph is the bulk contract: records in, snapshot plus failure report
// out. Callers needing enrichment between assembly and publish use Assemble
// directly.
func BuildGraph(records []model.RawRecord) (*graph.Snapshot, *ParseFailureReport) {
	a, report := Assemble(records)
	snap := a.Snapshot()
	if report.Len() > 0 {
		log.Warn("graph built with parse failures",
			"records", len(records), "failures", report.Len())
	}
	log.Info("graph built",
		"snapshot", snap.ID, "nodes", snap.NodeCount(), "edges", snap.EdgeCount())
	return snap, report
}
