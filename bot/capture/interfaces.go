package capture

import (
	"context"
	"time"

	"GuestFlow/entity"
)

// Storage persists capture sessions and travel records. Load methods return
// (nil, nil) when no document exists yet.
type Storage interface {
	LoadSession(ctx context.Context, registrationID string) (*Session, error)
	SaveSession(ctx context.Context, session *Session) error
	LoadTravel(ctx context.Context, registrationID string) (*entity.TravelRecord, error)
	SaveTravel(ctx context.Context, record *entity.TravelRecord) error
}

// Gateway is the outbound WhatsApp transport. Implementations own the send
// log and the 24-hour window policy; the orchestrator only consults them.
type Gateway interface {
	SendText(ctx context.Context, phone, body string) (string, error)
	SendButtons(ctx context.Context, phone, body string, buttons []Button) (string, error)
	SendResumeOpener(ctx context.Context, phone, registrationID, nameParam string) (string, error)
	WithinWindow(lastRespondedAt time.Time) bool
}

// ProgressListener gets notified as the dialogue advances. Used to feed the
// back-office live view; a nil listener is fine.
type ProgressListener interface {
	StepAnswered(registrationID string, step StepID)
	CaptureComplete(registrationID string)
}
