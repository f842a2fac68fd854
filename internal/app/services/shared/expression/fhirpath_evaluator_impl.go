package expression

import (
	"context"
	"questionnaire-service/internal/app/contracts"
	"questionnaire-service/internal/pkg/constvars"
	"questionnaire-service/internal/pkg/exceptions"
	"sync"

	"github.com/gofhir/fhirpath"
	"go.uber.org/zap"
)

type fhirpathEvaluator struct {
	Log     *zap.Logger
	cacheMu sync.RWMutex
	cache   map[string]*fhirpath.Expression
}

func NewFHIRPathEvaluator(logger *zap.Logger) contracts.ConstraintEvaluator {
	return &fhirpathEvaluator{
		Log:   logger,
		cache: make(map[string]*fhirpath.Expression),
	}
}

// Evaluate runs expression against the JSON resource. An empty result means
// the rule does not apply and counts as passed; a non-boolean result is truthy.
func (e *fhirpathEvaluator) Evaluate(ctx context.Context, expression string, resource []byte) (bool, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	compiled, err := e.compile(expression)
	if err != nil {
		e.Log.Error("fhirpathEvaluator.Evaluate error compiling expression",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingExpressionKey, expression),
			zap.Error(err),
		)
		return false, exceptions.ErrConstraintInvalid(err, expression)
	}

	result, err := compiled.Evaluate(resource)
	if err != nil {
		e.Log.Error("fhirpathEvaluator.Evaluate error evaluating expression",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingExpressionKey, expression),
			zap.Error(err),
		)
		return false, exceptions.ErrConstraintInvalid(err, expression)
	}

	if result.Empty() {
		return true, nil
	}
	passed, err := result.ToBoolean()
	if err != nil {
		return true, nil
	}
	return passed, nil
}

func (e *fhirpathEvaluator) compile(expression string) (*fhirpath.Expression, error) {
	e.cacheMu.RLock()
	compiled, ok := e.cache[expression]
	e.cacheMu.RUnlock()
	if ok {
		return compiled, nil
	}

	compiled, err := fhirpath.Compile(expression)
	if err != nil {
		return nil, err
	}

	e.cacheMu.Lock()
	e.cache[expression] = compiled
	e.cacheMu.Unlock()
	return compiled, nil
}
