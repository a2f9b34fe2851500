package logger

import "time"

// Standard field key constants for structured logging.
const (
	FieldClient    = "client"
	FieldComponent = "component"
	FieldRequestID = "request_id"
	FieldMethod    = "method"
	FieldURL       = "url"
	FieldStatus    = "status"
	FieldAttempt   = "attempt"
	FieldCategory  = "category"
	FieldError     = "error"
	FieldDuration  = "duration_ms"
	FieldDelay     = "delay_ms"
)

// Fields builds a map[string]interface{} from alternating key-value pairs.
//
//	logger.Info("retrying", logger.Fields("attempt", 2, "delay_ms", 400))
func Fields(kvs ...interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(kvs)/2)
	for i := 0; i < len(kvs)-1; i += 2 {
		if key, ok := kvs[i].(string); ok {
			m[key] = kvs[i+1]
		}
	}
	return m
}

// ErrorFields creates fields for a failed request.
func ErrorFields(method, url string, err error) map[string]interface{} {
	return map[string]interface{}{
		FieldMethod: method,
		FieldURL:    url,
		FieldError:  err.Error(),
	}
}

// DurationFields creates fields for a timed request.
func DurationFields(method, url string, d time.Duration) map[string]interface{} {
	return map[string]interface{}{
		FieldMethod:   method,
		FieldURL:      url,
		FieldDuration: d.Milliseconds(),
	}
}
