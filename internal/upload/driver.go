package upload

import (
	"context"

	"github.com/uisautomation/assetmigrate/pkg/documents"
	"github.com/uisautomation/assetmigrate/pkg/logging"
)

// Driver submits asset documents in order, emitting one UploadResult per
// attempt. A failed upload never blocks the records after it; the exit
// status of a run reflects only run-level failures, not per-item ones.
type Driver struct {
	client  *Client
	encoder *documents.Encoder
	skip    map[string]bool
}

// NewDriver assembles an upload driver.
func NewDriver(client *Client, encoder *documents.Encoder, opts ...DriverOption) *Driver {
	d := &Driver{
		client:  client,
		encoder: encoder,
		skip:    make(map[string]bool),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DriverOption configures a Driver.
type DriverOption func(*Driver)

// WithResume seeds the driver with a prior run's results. Records whose
// source id already has a successful result are skipped instead of
// re-uploaded.
func WithResume(prior []documents.UploadResult) DriverOption {
	return func(d *Driver) {
		for i := range prior {
			if prior[i].Succeeded() {
				d.skip[prior[i].SourceID] = true
			}
		}
	}
}

// Run uploads each document, writing one result per attempt in input
// order. Only a result-stream write failure aborts the run.
func (d *Driver) Run(ctx context.Context, docs []documents.AssetDocument) error {
	uploaded := 0
	failed := 0
	skipped := 0

	for i := range docs {
		asset := docs[i].Asset

		if d.skip[asset.ID] {
			skipped++
			logging.Debug().
				Str("source_id", asset.ID).
				Msg("Already uploaded in a prior run, skipping")
			continue
		}

		result := d.client.Upload(ctx, asset)
		if result.Succeeded() {
			uploaded++
			logging.Info().
				Str("source_id", result.SourceID).
				Str("dest_id", *result.DestID).
				Msg("Saved asset")
		} else {
			failed++
			logging.Error().
				Str("source_id", result.SourceID).
				Int("status_code", result.StatusCode).
				Interface("error", result.Error).
				Msg("Saving asset failed")
		}

		if err := d.encoder.Encode(&result); err != nil {
			return err
		}
	}

	logging.Info().
		Int("uploaded", uploaded).
		Int("failed", failed).
		Int("skipped", skipped).
		Msg("Upload complete")

	return nil
}
