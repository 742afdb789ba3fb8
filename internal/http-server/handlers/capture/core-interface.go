package capture

import (
	"context"

	"GuestFlow/impl/core"
)

type Core interface {
	StartCapture(ctx context.Context, registrationID string, restart bool) error
	GetCaptureStatus(ctx context.Context, registrationID string) (*core.CaptureStatus, error)
	SendRSVPInvite(ctx context.Context, registrationID string) error
}
