package observe

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// OTelEmitter turns each Event into an OpenTelemetry span, named by the
// event's message and closed immediately since solve events describe a
// point in time rather than a duration. This mirrors the teacher's
// emit.OTelEmitter, generalized from node executions to timestep/scenario
// solves.
type OTelEmitter struct {
	tracer trace.Tracer
}

// NewOTelEmitter returns an OTelEmitter using tracer (e.g.
// otel.Tracer("pywr-go")) to create spans.
func NewOTelEmitter(tracer trace.Tracer) *OTelEmitter {
	return &OTelEmitter{tracer: tracer}
}

func (o *OTelEmitter) Emit(event Event) {
	_, span := o.tracer.Start(context.Background(), event.Msg)
	defer span.End()

	span.SetAttributes(
		attribute.String("run_id", event.RunID),
		attribute.Int("timestep_index", event.TimestepIndex),
		attribute.Int("scenario_index", event.ScenarioIndex),
	)
	for k, v := range event.Meta {
		span.SetAttributes(attribute.String(k, fmt.Sprintf("%v", v)))
	}
	if errVal, ok := event.Meta["error"].(string); ok {
		span.SetStatus(codes.Error, errVal)
		span.RecordError(fmt.Errorf("%s", errVal))
	}
}
