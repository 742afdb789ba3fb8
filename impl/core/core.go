package core

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"GuestFlow/bot/capture"
	"GuestFlow/entity"
	"GuestFlow/internal/lib/sl"
)

type Repository interface {
	GetRegistration(ctx context.Context, id string) (*entity.Registration, error)
	GetRegistrationByPhone(ctx context.Context, phone string) (*entity.Registration, error)
	TouchResponded(ctx context.Context, registrationID string, at time.Time) error
	LatestSendByPhone(ctx context.Context, phone string) (*entity.SendLog, error)
	LoadSession(ctx context.Context, registrationID string) (*capture.Session, error)
}

type CaptureFlow interface {
	StartOrRestart(ctx context.Context, reg *entity.Registration, restart bool) (string, error)
	ResumeOrStart(ctx context.Context, reg *entity.Registration) error
	SendNextPrompt(ctx context.Context, reg *entity.Registration) error
	ApplyButtonChoice(ctx context.Context, reg *entity.Registration, step capture.StepID, value string) error
	ApplyTextAnswer(ctx context.Context, reg *entity.Registration, text string) (string, bool, error)
}

type RSVPFlow interface {
	SendInvite(ctx context.Context, reg *entity.Registration) error
	ApplyResponse(ctx context.Context, reg *entity.Registration, value string) error
	HandleFreeform(ctx context.Context, reg *entity.Registration, text string) error
}

type Gateway interface {
	SendText(ctx context.Context, phone, body string) (string, error)
	SendResumeOpener(ctx context.Context, phone, registrationID, nameParam string) (string, error)
	WithinWindow(lastRespondedAt time.Time) bool
}

// Core ties the flows, repository and gateway together behind the surfaces
// the HTTP layer consumes.
type Core struct {
	repo    Repository
	capture CaptureFlow
	rsvp    RSVPFlow
	gateway Gateway
	authKey string
	log     *slog.Logger
}

func New(log *slog.Logger) *Core {
	return &Core{
		log: log.With(sl.Module("core")),
	}
}

func (c *Core) SetRepository(repo Repository) {
	c.repo = repo
}

func (c *Core) SetCaptureFlow(flow CaptureFlow) {
	c.capture = flow
}

func (c *Core) SetRSVPFlow(flow RSVPFlow) {
	c.rsvp = flow
}

func (c *Core) SetGateway(gw Gateway) {
	c.gateway = gw
}

func (c *Core) SetAuthKey(key string) {
	c.authKey = key
}

// ValidateToken checks an API token for the back-office surfaces.
func (c *Core) ValidateToken(token string) error {
	if c.authKey == "" || token != c.authKey {
		return fmt.Errorf("invalid token")
	}
	return nil
}
