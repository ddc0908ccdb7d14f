// Package storage implements the demonstration data source: per-family
// JSON (or YAML) files holding raw records. The loader performs no
// validation itself; every record is handed to the core decoders, so the
// data contract is enforced in exactly one place.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"caravan/core"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// MaxDatasetFileSize bounds a single dataset file to protect against memory
// exhaustion from a misbehaving data source.
const MaxDatasetFileSize = 64 * 1024 * 1024 // 64MB

// RecordError reports one raw record that failed validation, with enough
// context to find it in the source file.
type RecordError struct {
	Family core.Family `json:"family"`
	Index  int         `json:"index"`
	Err    error       `json:"-"`
	Reason string      `json:"reason"`
}

// LoadReport summarizes one load cycle: how many records each family
// contributed and which records were rejected.
type LoadReport struct {
	Records map[core.Family]int `json:"records"`
	Skipped []RecordError       `json:"skipped,omitempty"`
}

// Loader reads raw per-family record files from a data directory.
type Loader struct {
	dir    string
	files  map[core.Family]string
	logger *zap.SugaredLogger
}

// NewLoader creates a loader over dir with the given per-family file names.
func NewLoader(dir string, files map[core.Family]string, logger *zap.SugaredLogger) *Loader {
	return &Loader{dir: dir, files: files, logger: logger}
}

// LoadRawRecords reads one family's file and returns its records as raw
// JSON, one element per record. YAML files are transcoded to JSON so the
// core decoders see a single representation. A missing file is an empty
// family, not an error, matching the demonstration servers' behavior.
func (l *Loader) LoadRawRecords(family core.Family) ([]json.RawMessage, error) {
	name, ok := l.files[family]
	if !ok || name == "" {
		return nil, fmt.Errorf("no file configured for family %q", family)
	}
	path := filepath.Join(l.dir, name)

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			l.logger.Warnw("Dataset file missing, family loads empty", "family", family, "path", path)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to stat dataset file: %w", err)
	}
	if info.Size() > MaxDatasetFileSize {
		return nil, fmt.Errorf("dataset file %s exceeds maximum size of %d bytes", path, MaxDatasetFileSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset file: %w", err)
	}

	if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
		var docs []any
		if err := yaml.Unmarshal(data, &docs); err != nil {
			return nil, fmt.Errorf("failed to unmarshal %s: %w", path, err)
		}
		records := make([]json.RawMessage, 0, len(docs))
		for i, doc := range docs {
			b, err := json.Marshal(doc)
			if err != nil {
				return nil, fmt.Errorf("failed to transcode record %d of %s: %w", i, path, err)
			}
			records = append(records, b)
		}
		return records, nil
	}

	var records []json.RawMessage
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s: %w", path, err)
	}
	return records, nil
}

// LoadDataset reads every family and decodes the raw records into a
// validated dataset.
//
// In strict mode any validation failure rejects the whole load. Otherwise
// failing records are skipped, listed in the report, and the remainder
// loads; a bad record must not take unrelated records down with it.
func (l *Loader) LoadDataset(strict bool) (core.Dataset, *LoadReport, error) {
	var ds core.Dataset
	report := &LoadReport{Records: make(map[core.Family]int, len(core.AllFamilies))}

	for _, family := range core.AllFamilies {
		raws, err := l.LoadRawRecords(family)
		if err != nil {
			return core.Dataset{}, nil, err
		}
		for i, raw := range raws {
			if err := l.decodeInto(&ds, family, raw); err != nil {
				if strict {
					return core.Dataset{}, nil, fmt.Errorf("record %d of family %s: %w", i, family, err)
				}
				l.logger.Warnw("Skipping invalid record", "family", family, "index", i, "error", err)
				report.Skipped = append(report.Skipped, RecordError{
					Family: family,
					Index:  i,
					Err:    err,
					Reason: err.Error(),
				})
				continue
			}
			report.Records[family]++
		}
	}
	return ds, report, nil
}

func (l *Loader) decodeInto(ds *core.Dataset, family core.Family, raw json.RawMessage) error {
	switch family {
	case core.FamilyOrganization:
		org, err := core.DecodeOrganization(raw)
		if err != nil {
			return err
		}
		ds.Organizations = append(ds.Organizations, org)
	case core.FamilyVehicle:
		v, err := core.DecodeVehicle(raw)
		if err != nil {
			return err
		}
		ds.Vehicles = append(ds.Vehicles, v)
	case core.FamilyDriver:
		d, err := core.DecodeDriver(raw)
		if err != nil {
			return err
		}
		ds.Drivers = append(ds.Drivers, d)
	case core.FamilyTransportOperation:
		op, err := core.DecodeTransportOperation(raw)
		if err != nil {
			return err
		}
		ds.TransportOperations = append(ds.TransportOperations, op)
	default:
		return fmt.Errorf("unknown family %q", family)
	}
	return nil
}
