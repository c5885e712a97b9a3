package connection

type NoPayload bool

// Message is the envelope of every frame in both directions.
type Message[T any] struct {
	Code    uint8    `json:"code"`
	Payload T        `json:"payload,omitempty"`
	Error   *RespErr `json:"error,omitempty"`
}

func NewMessage[T any](code uint8) Message[T] {
	return Message[T]{Code: code}
}

func (m *Message[T]) AddPayload(payload T) {
	m.Payload = payload
}

func (m *Message[T]) AddError(errorDetails, message string) {
	m.Error = NewRespErr(errorDetails, message)
}

// NewErrorMessage answers a frame that could not be served.
func NewErrorMessage(code uint8, err error, message string) Message[NoPayload] {
	msg := NewMessage[NoPayload](code)
	var details string
	if err != nil {
		details = err.Error()
	}
	msg.AddError(details, message)
	return msg
}
