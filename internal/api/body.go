package api

// Response envelopes shared by all endpoints. Success payloads are wrapped in
// {"data": ...}; failures in {"error": {"message": ...}}, with malformed-input
// failures additionally describing each offending parameter.

// DataBody wraps a successful response payload.
type DataBody struct {
	Data any `json:"data"`
}

// ErrorMessage is the generic failure payload.
type ErrorMessage struct {
	Message string `json:"message"`
}

// ErrorBody wraps a generic failure payload.
type ErrorBody struct {
	Error ErrorMessage `json:"error"`
}

// Param describes a malformed or missing request parameter.
type Param struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Datatype string `json:"datatype"`
	Required bool   `json:"required"`
	Reason   string `json:"reason"`
}

// BadRequestBody is the failure payload for malformed requests.
type BadRequestBody struct {
	Message string  `json:"message"`
	Params  []Param `json:"params"`
}

// BadRequestErrorBody wraps a malformed-request failure payload.
type BadRequestErrorBody struct {
	Error BadRequestBody `json:"error"`
}

// Data wraps a payload in the success envelope.
func Data(v any) DataBody { return DataBody{Data: v} }

// Error wraps a message in the failure envelope.
func Error(message string) ErrorBody {
	return ErrorBody{Error: ErrorMessage{Message: message}}
}
