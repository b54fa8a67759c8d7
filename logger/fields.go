package logger

import (
	"fmt"
	"time"
)

// Field keys shared by every streamkit log line.
const (
	FieldService   = "service"
	FieldComponent = "component"
	FieldRequestID = "request_id"
	FieldRunID     = "run_id"
	FieldStage     = "stage"
	FieldOperation = "operation"
	FieldValue     = "value"
	FieldSignal    = "signal"
	FieldGenerated = "generated"
	FieldStages    = "stages"
	FieldStatus    = "status"
	FieldError     = "error"
	FieldDuration  = "duration_ms"
)

// Fields builds a field map from alternating key-value pairs. A non-string
// key drops its pair.
//
//	logger.Info("run finished", logger.Fields(logger.FieldGenerated, 16))
func Fields(kvs ...interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(kvs)/2)
	for i := 0; i+1 < len(kvs); i += 2 {
		if key, ok := kvs[i].(string); ok {
			m[key] = kvs[i+1]
		}
	}
	return m
}

// ErrorFields tags err with the step that produced it.
func ErrorFields(op string, err error) map[string]interface{} {
	return map[string]interface{}{
		FieldOperation: op,
		FieldError:     err.Error(),
	}
}

// MergeWithError adds err to fields, allocating the map if needed.
func MergeWithError(fields map[string]interface{}, err error) map[string]interface{} {
	if fields == nil {
		fields = make(map[string]interface{}, 1)
	}
	fields[FieldError] = err.Error()
	return fields
}

// RunFields summarises a finished or interrupted run.
func RunFields(stages, generated int, d time.Duration) map[string]interface{} {
	return map[string]interface{}{
		FieldStages:    stages,
		FieldGenerated: generated,
		FieldDuration:  d.Milliseconds(),
	}
}

// PushFields describes one push through a stage. value is rendered with
// its String method when it has one.
func PushFields(value interface{}, signal fmt.Stringer) map[string]interface{} {
	m := map[string]interface{}{FieldSignal: signal.String()}
	if value != nil {
		if s, ok := value.(fmt.Stringer); ok {
			m[FieldValue] = s.String()
		} else {
			m[FieldValue] = value
		}
	}
	return m
}
