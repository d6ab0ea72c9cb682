package vehicle

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const instrumentationName = "github.com/lixenwraith/vi-racer/vehicle"

// vehicleMetrics counts step outcomes, a noop meter when the host installs no provider
type vehicleMetrics struct {
	ticks       metric.Int64Counter
	skipped     metric.Int64Counter
	degraded    metric.Int64Counter
	corrections metric.Int64Counter
	shifts      metric.Int64Counter
	attrs       metric.AddOption
}

func newVehicleMetrics(m metric.Meter, name string) *vehicleMetrics {
	if m == nil {
		m = otel.Meter(instrumentationName)
	}
	vm := &vehicleMetrics{
		attrs: metric.WithAttributeSet(attribute.NewSet(attribute.String("vehicle", name))),
	}
	vm.ticks = counter(m, "vehicle.ticks", "Simulated vehicle ticks")
	vm.skipped = counter(m, "vehicle.ticks.skipped", "Ticks rejected for invalid duration")
	vm.degraded = counter(m, "vehicle.probe.degraded", "Wheel probes that started embedded on every attempt")
	vm.corrections = counter(m, "vehicle.wall.corrections", "Wall impulses applied to cancel wheel approach")
	vm.shifts = counter(m, "vehicle.gear.shifts", "Gear transitions")
	return vm
}

// counter creates an instrument, falling back to noop so a broken provider never disables a vehicle
func counter(m metric.Meter, name, desc string) metric.Int64Counter {
	c, err := m.Int64Counter(name, metric.WithDescription(desc))
	if err != nil {
		return noop.Int64Counter{}
	}
	return c
}

func (m *vehicleMetrics) tickDone() { m.ticks.Add(context.Background(), 1, m.attrs) }
func (m *vehicleMetrics) tickSkipped() { m.skipped.Add(context.Background(), 1, m.attrs) }
func (m *vehicleMetrics) probeDegraded() { m.degraded.Add(context.Background(), 1, m.attrs) }
func (m *vehicleMetrics) wallCorrection() { m.corrections.Add(context.Background(), 1, m.attrs) }
func (m *vehicleMetrics) gearShift() { m.shifts.Add(context.Background(), 1, m.attrs) }
