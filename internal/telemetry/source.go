// Package telemetry provides sources of wearable samples. The process owns
// the source lifecycle explicitly: construct one, Start it, Stop it on
// shutdown. Nothing here is a hidden singleton.
package telemetry

import (
	"context"

	"GuardianAngelAPI/internal/models"
)

// Source delivers the latest telemetry snapshot for the monitored child.
type Source interface {
	// Latest returns the most recent sample. It never blocks on device I/O
	// for the simulator; the Fitbit source performs a network fetch.
	Latest(ctx context.Context) (models.TelemetrySample, error)

	// Start begins background refresh, if the source has any.
	Start()

	// Stop halts background refresh and releases resources.
	Stop()
}
