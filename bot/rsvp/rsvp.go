package rsvp

import (
	"context"
	"fmt"
	"log/slog"

	"GuestFlow/entity"
	"GuestFlow/internal/lib/sl"
)

// CaptureFlow is the travel-capture surface the RSVP flow is allowed to
// touch. Cross-flow coordination goes through these two calls only.
type CaptureFlow interface {
	ResumeOrStart(ctx context.Context, reg *entity.Registration) error
	PauseCapture(ctx context.Context, reg *entity.Registration) error
}

// Storage persists RSVP status on the registration.
type Storage interface {
	SetRSVPStatus(ctx context.Context, registrationID, status string) error
}

// Inviter sends the RSVP invite template.
type Inviter interface {
	SendRSVPInvite(ctx context.Context, phone, nameParam string) (string, error)
}

// Listener gets notified on status changes. Nil is fine.
type Listener interface {
	RSVPUpdated(registrationID, status string)
}

// Service is the RSVP side-channel: a single-field status machine
// (not_sent -> pending -> yes/no/maybe) that shares the guest's reply
// timestamp with travel capture and can hand the conversation over to it.
type Service struct {
	storage  Storage
	inviter  Inviter
	capture  CaptureFlow
	listener Listener
	log      *slog.Logger
}

func NewService(storage Storage, inviter Inviter, capture CaptureFlow, log *slog.Logger) *Service {
	return &Service{
		storage: storage,
		inviter: inviter,
		capture: capture,
		log:     log.With(sl.Module("rsvp")),
	}
}

func (s *Service) SetListener(l Listener) {
	s.listener = l
}

// SendInvite pushes the RSVP template and moves the status to pending.
// Re-sending to an already-answered registration is refused.
func (s *Service) SendInvite(ctx context.Context, reg *entity.Registration) error {
	if reg.RSVPAnswered() {
		return fmt.Errorf("registration %s already answered rsvp", reg.ID)
	}

	if _, err := s.inviter.SendRSVPInvite(ctx, reg.GuestPhone, reg.GuestName); err != nil {
		return fmt.Errorf("sending rsvp invite: %w", err)
	}

	if err := s.setStatus(ctx, reg, entity.RSVPPending); err != nil {
		return err
	}
	s.log.Info("rsvp invite sent", slog.String("registration_id", reg.ID))
	return nil
}

// ApplyResponse records a yes/no/maybe answer. A "yes" hands the guest over
// to travel capture right away. Guests may change their answer; the status
// just moves again.
func (s *Service) ApplyResponse(ctx context.Context, reg *entity.Registration, value string) error {
	var status string
	switch value {
	case "yes":
		status = entity.RSVPYes
	case "no":
		status = entity.RSVPNo
	case "maybe":
		status = entity.RSVPMaybe
	default:
		// Stale or foreign button, same policy as travel: ignore silently.
		s.log.Warn("unrecognized rsvp value ignored",
			slog.String("registration_id", reg.ID),
			slog.String("value", value),
		)
		return nil
	}

	if err := s.setStatus(ctx, reg, status); err != nil {
		return err
	}

	s.log.Info("rsvp answered",
		slog.String("registration_id", reg.ID),
		slog.String("status", status),
	)

	if status == entity.RSVPYes {
		if err := s.capture.ResumeOrStart(ctx, reg); err != nil {
			return fmt.Errorf("starting travel capture: %w", err)
		}
	}
	return nil
}

// HandleFreeform reacts to a guest typing an open-ended message on the RSVP
// thread. The reply window just reopened and a human will take the
// conversation, so the travel dialogue is paused explicitly rather than left
// to race with it.
func (s *Service) HandleFreeform(ctx context.Context, reg *entity.Registration, text string) error {
	s.log.Info("freeform rsvp message, pausing capture",
		slog.String("registration_id", reg.ID),
	)
	if err := s.capture.PauseCapture(ctx, reg); err != nil {
		return fmt.Errorf("pausing capture: %w", err)
	}
	return nil
}

func (s *Service) setStatus(ctx context.Context, reg *entity.Registration, status string) error {
	if err := s.storage.SetRSVPStatus(ctx, reg.ID, status); err != nil {
		return fmt.Errorf("saving rsvp status: %w", err)
	}
	reg.RSVPStatus = status
	if s.listener != nil {
		s.listener.RSVPUpdated(reg.ID, status)
	}
	return nil
}
