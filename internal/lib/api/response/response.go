package response

const (
	StatusOK    = "OK"
	StatusError = "Error"
)

type Response struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

func OK() Response {
	return Response{Status: StatusOK}
}

func Error(msg string) Response {
	return Response{
		Status: StatusError,
		Error:  msg,
	}
}

// Ack is the unconditional webhook acknowledgement. The upstream gateway has
// no retry contract, so webhooks answer this regardless of internal outcome.
type Ack struct {
	Ok bool `json:"ok"`
}

func Acknowledged() Ack {
	return Ack{Ok: true}
}
