package telemetry

import "go.opentelemetry.io/otel/metric"

// Metrics holds every dispatch-engine metric instrument.
type Metrics struct {
	HandlerInvocations metric.Int64Counter
	HandlerDuration    metric.Float64Histogram
	FilterRejections   metric.Int64Counter
	FSMStorageOps      metric.Int64Counter
	FSMStorageErrors   metric.Int64Counter
	UpdatesReceived    metric.Int64Counter
	PollErrors         metric.Int64Counter
}

// NewMetrics creates every instrument from meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	var err error

	m.HandlerInvocations, err = meter.Int64Counter("tgdispatch.handler.invocations",
		metric.WithDescription("Number of handler invocations, by observer kind and terminal EventReturn"),
	)
	if err != nil {
		return nil, err
	}

	m.HandlerDuration, err = meter.Float64Histogram("tgdispatch.handler.duration",
		metric.WithDescription("Handler call duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	m.FilterRejections, err = meter.Int64Counter("tgdispatch.filter.rejections",
		metric.WithDescription("Number of handlers skipped because a filter returned false"),
	)
	if err != nil {
		return nil, err
	}

	m.FSMStorageOps, err = meter.Int64Counter("tgdispatch.fsm.storage.ops",
		metric.WithDescription("Number of FSM storage operations, by op name"),
	)
	if err != nil {
		return nil, err
	}

	m.FSMStorageErrors, err = meter.Int64Counter("tgdispatch.fsm.storage.errors",
		metric.WithDescription("Number of FSM storage operations that returned an error"),
	)
	if err != nil {
		return nil, err
	}

	m.UpdatesReceived, err = meter.Int64Counter("tgdispatch.updates.received",
		metric.WithDescription("Number of updates pulled off getUpdates"),
	)
	if err != nil {
		return nil, err
	}

	m.PollErrors, err = meter.Int64Counter("tgdispatch.poll.errors",
		metric.WithDescription("Number of getUpdates calls that returned an error"),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}
