package sim

import (
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/dinorampage/combat/internal/sim"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

type metrics struct {
	ticks         metric.Int64Counter
	shots         metric.Int64Counter
	kills         metric.Int64Counter
	vehicleDamage metric.Float64Counter
}

func newMetrics() (*metrics, error) {
	m := meter()
	out := &metrics{}

	var err error
	out.ticks, err = m.Int64Counter(
		"sim.ticks",
		metric.WithDescription("Total simulation ticks stepped"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating ticks counter: %w", err)
	}

	out.shots, err = m.Int64Counter(
		"sim.shots",
		metric.WithDescription("Total accepted fire intents"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating shots counter: %w", err)
	}

	out.kills, err = m.Int64Counter(
		"sim.kills",
		metric.WithDescription("Total agents killed"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating kills counter: %w", err)
	}

	out.vehicleDamage, err = m.Float64Counter(
		"sim.vehicle.damage",
		metric.WithDescription("Total melee damage taken by the vehicle"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating vehicle damage counter: %w", err)
	}

	return out, nil
}
