package review

import "context"

// Request is a prompt plus the output shape the model must follow.
type Request struct {
	Instruction string
	Schema      SchemaDescriptor
	// InputChars is the number of characters of review text that made it
	// into the instruction.
	InputChars int
	Truncated  bool
}

// SchemaDescriptor is marshalled as a JSON Schema document.
type SchemaDescriptor interface {
	MarshalJSON() ([]byte, error)
}

// Model generates a structured JSON answer for an analysis request.
type Model interface {
	GenerateJSON(ctx context.Context, req Request) (string, error)
}
