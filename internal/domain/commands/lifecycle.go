package commands

import (
	"context"
	"fmt"

	logger "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/rios0rios0/cdlist/internal/domain/entities"
)

// Operation names. Each remote operation tracks its state under its own name so
// concurrent operations of different kinds never collide.
const (
	OpDefinitionBodies        = "DEFINITION_BODIES"
	OpDefinition              = "DEFINITION"
	OpDefinitionSuggestions   = "DEFINITION_SUGGESTIONS"
	OpDefinitionSuggestedData = "DEFINITION_SUGGESTED_DATA"
	OpDefinitionPreview       = "DEFINITION_PREVIEW"
	OpDefinitionRevert        = "DEFINITION_REVERT"
	OpBrowseDefinitions       = "BROWSE_DEFINITIONS"
	OpBundleFetch             = "BUNDLE_FETCH"
	OpBundleCreate            = "BUNDLE_CREATE"
)

const tracerName = "github.com/rios0rios0/cdlist"

// Update is an incremental payload: Add merges keyed bodies, AddAll appends novel
// items, UpdateAll replaces the whole collection.
type Update[T any] struct {
	Add       map[string]T
	AddAll    []T
	UpdateAll []T
}

// Track runs producer as the named operation: it marks the operation started, then
// records either the payload or the failure. A panicking producer is reported as an
// error; nothing escapes past this boundary other than the returned error.
func Track[T any](
	ctx context.Context,
	tracker *entities.Tracker,
	name string,
	producer func(context.Context) (T, error),
) (T, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, name,
		trace.WithAttributes(attribute.String("cdlist.operation", name)))
	defer span.End()

	logger.Debugf("[%s] start", name)
	tracker.Start(name)

	result, err := safeProduce(ctx, producer)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Debugf("[%s] error: %v", name, err)
		tracker.Fail(name, err)
		var zero T
		return zero, err
	}

	span.SetStatus(codes.Ok, "")
	logger.Debugf("[%s] success", name)
	tracker.Succeed(name, result)
	return result, nil
}

func safeProduce[T any](ctx context.Context, producer func(context.Context) (T, error)) (result T, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("operation panicked: %v", recovered)
		}
	}()
	return producer(ctx)
}
