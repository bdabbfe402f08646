package migrate

import (
	"context"
	"io"

	"github.com/uisautomation/assetmigrate/pkg/documents"
	"github.com/uisautomation/assetmigrate/pkg/logging"
)

// Driver runs the migration pipeline: one asset document per source row,
// in input order, followed by exactly one report document. Rows are
// processed strictly sequentially.
type Driver struct {
	source     Source
	normalizer *Normalizer
	reporter   *Reporter
	encoder    *documents.Encoder
}

// NewDriver assembles a migration driver.
func NewDriver(source Source, normalizer *Normalizer, reporter *Reporter, encoder *documents.Encoder) *Driver {
	return &Driver{
		source:     source,
		normalizer: normalizer,
		reporter:   reporter,
		encoder:    encoder,
	}
}

// Run drains the source. Per-row problems are annotations on the emitted
// document and never abort the run; a source read failure or a write
// failure is fatal and leaves the stream truncated at the failure point.
func (d *Driver) Run(ctx context.Context) error {
	rows := 0
	degraded := 0

	for {
		row, err := d.source.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		doc := d.normalizer.Normalize(ctx, row, rows)
		rows++
		if len(doc.Errors) > 0 {
			degraded++
			logging.Debug().
				Int("row", rows).
				Str("id", doc.Asset.ID).
				Int("error_count", len(doc.Errors)).
				Msg("Row migrated with errors")
		}

		if err := d.encoder.Encode(&doc); err != nil {
			return err
		}
	}

	report := d.reporter.Finalize()
	if err := d.encoder.Encode(&report); err != nil {
		return err
	}

	resolved := 0
	for _, m := range report.OriginalDeptMapping {
		if m.InstID != nil {
			resolved++
		}
	}

	logging.Info().
		Int("rows", rows).
		Int("degraded", degraded).
		Int("departments", len(report.OriginalDeptMapping)).
		Int("departments_resolved", resolved).
		Msg("Migration complete")

	return nil
}
