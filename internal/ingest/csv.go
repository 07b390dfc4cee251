package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"golang.org/x/text/encoding/charmap"

	"github.com/prepify/orgraph/internal/model"
)

// Column names of the registry CSV export. Older exports use obchodniJmeno
// instead of nazev and carry the city only as a flat column.
const (
	colRegistryID = "ico"
	colName       = "nazev"
	colNameLegacy = "obchodniJmeno"
	colRawField   = "udaje"
	colCity       = "sidlo_nazevObce"
	colCityLegacy = "mesto"
)

// ReadRecords reads the registry CSV export into raw records. Rows without a
// registry id are skipped, repeated ids keep the first row only, and maxRows
// (when positive) caps how many records are read. Exports come in UTF-8 or
// Windows-1250; non-UTF-8 files are decoded as Windows-1250, which covers
// the legacy encodings the registry has shipped.
func ReadRecords(path string, maxRows int) ([]model.RawRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	reader, err := decodedReader(f)
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(reader)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.TrimSpace(h)] = i
	}
	if _, ok := col[colRawField]; !ok {
		log.Warn("dataset has no structured field column, relationships will be empty", "column", colRawField)
	}

	field := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var records []model.RawRecord
	seen := make(map[string]bool)
	skipped := 0
	for {
		if maxRows > 0 && len(records) >= maxRows {
			break
		}
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			skipped++
			continue
		}
		id := field(row, colRegistryID)
		if id == "" || seen[id] {
			skipped++
			continue
		}
		seen[id] = true
		name := field(row, colName)
		if name == "" {
			name = field(row, colNameLegacy)
		}
		city := field(row, colCity)
		if city == "" {
			city = field(row, colCityLegacy)
		}
		records = append(records, model.RawRecord{
			RegistryID: id,
			Name:       name,
			City:       city,
			RawField:   field(row, colRawField),
		})
	}
	log.Info("dataset read", "records", len(records), "skipped", skipped)
	return records, nil
}

// decodedReader sniffs the file encoding from a prefix and wraps the reader
// with a Windows-1250 decoder when the content is not valid UTF-8.
func decodedReader(f *os.File) (io.Reader, error) {
	probe := make([]byte, 64*1024)
	n, err := f.Read(probe)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("probe dataset encoding: %w", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind dataset: %w", err)
	}
	if validPrefix(probe[:n]) {
		return f, nil
	}
	log.Debug("dataset is not UTF-8, decoding as Windows-1250")
	return charmap.Windows1250.NewDecoder().Reader(f), nil
}

// validPrefix checks UTF-8 validity ignoring a rune cut off at the probe
// boundary.
func validPrefix(b []byte) bool {
	for i := 0; i < utf8.UTFMax-1 && len(b) > 0 && !utf8.Valid(b); i++ {
		b = b[:len(b)-1]
	}
	return utf8.Valid(b)
}
