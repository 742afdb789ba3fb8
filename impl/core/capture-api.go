package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// ErrRegistrationNotFound is returned by the back-office operations when the
// referenced registration doesn't exist.
var ErrRegistrationNotFound = errors.New("registration not found")

// CaptureStatus is the back-office view of one registration's progress.
type CaptureStatus struct {
	RegistrationID string `json:"registration_id"`
	Step           string `json:"step"`
	IsComplete     bool   `json:"is_complete"`
	RSVPStatus     string `json:"rsvp_status"`
}

// StartCapture kicks off (or restarts) travel capture for a registration.
// Inside the 24-hour window the first prompt goes straight out; outside it
// only the approved resume template may open the conversation.
func (c *Core) StartCapture(ctx context.Context, registrationID string, restart bool) error {
	reg, err := c.repo.GetRegistration(ctx, registrationID)
	if err != nil {
		return fmt.Errorf("loading registration: %w", err)
	}
	if reg == nil {
		return ErrRegistrationNotFound
	}

	var lastResponded = reg.CreatedAt
	if reg.RespondedOn != nil {
		lastResponded = *reg.RespondedOn
	}

	if !c.gateway.WithinWindow(lastResponded) {
		if _, err := c.capture.StartOrRestart(ctx, reg, restart); err != nil {
			return err
		}
		if _, err := c.gateway.SendResumeOpener(ctx, reg.GuestPhone, reg.ID, reg.GuestName); err != nil {
			return fmt.Errorf("sending resume opener: %w", err)
		}
		c.log.Info("resume opener sent", slog.String("registration_id", reg.ID))
		return nil
	}

	if _, err := c.capture.StartOrRestart(ctx, reg, restart); err != nil {
		return err
	}
	return c.capture.SendNextPrompt(ctx, reg)
}

// GetCaptureStatus reports a registration's capture session and RSVP state.
func (c *Core) GetCaptureStatus(ctx context.Context, registrationID string) (*CaptureStatus, error) {
	reg, err := c.repo.GetRegistration(ctx, registrationID)
	if err != nil {
		return nil, fmt.Errorf("loading registration: %w", err)
	}
	if reg == nil {
		return nil, ErrRegistrationNotFound
	}

	status := &CaptureStatus{
		RegistrationID: reg.ID,
		RSVPStatus:     reg.RSVPStatus,
	}

	session, err := c.repo.LoadSession(ctx, registrationID)
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}
	if session != nil {
		status.Step = string(session.Step)
		status.IsComplete = session.IsComplete
	}

	return status, nil
}

// SendRSVPInvite pushes the RSVP template to a registration's guest.
func (c *Core) SendRSVPInvite(ctx context.Context, registrationID string) error {
	reg, err := c.repo.GetRegistration(ctx, registrationID)
	if err != nil {
		return fmt.Errorf("loading registration: %w", err)
	}
	if reg == nil {
		return ErrRegistrationNotFound
	}
	return c.rsvp.SendInvite(ctx, reg)
}
