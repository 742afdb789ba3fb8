package core

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"GuestFlow/bot/capture"
	"GuestFlow/entity"
	"GuestFlow/internal/lib/sl"
)

// HandleTravelEvent processes one normalized travel webhook event. Events
// that can't be correlated to a registration are dropped without error — the
// webhook acks regardless, that contract is the HTTP layer's job.
func (c *Core) HandleTravelEvent(ctx context.Context, ev entity.InboundEvent) error {
	reg, err := c.resolveRegistration(ctx, ev)
	if err != nil {
		return err
	}
	if reg == nil {
		c.log.Info("dropping unresolvable travel event",
			slog.String("kind", ev.Kind),
			slog.String("wa_id", ev.WaID),
		)
		return nil
	}

	c.touchResponded(ctx, reg)

	switch ev.Kind {
	case entity.EventResume, entity.EventWake:
		return c.capture.ResumeOrStart(ctx, reg)

	case entity.EventButton:
		step, value, ok := capture.ParseButtonID(ev.ButtonID)
		if !ok {
			c.log.Warn("dropping malformed button id",
				slog.String("registration_id", reg.ID),
				slog.String("button_id", ev.ButtonID),
			)
			return nil
		}
		return c.capture.ApplyButtonChoice(ctx, reg, step, value)

	case entity.EventText:
		reply, complete, err := c.capture.ApplyTextAnswer(ctx, reg, ev.Text)
		if err != nil {
			return err
		}
		if reply == "" && !complete {
			// Next step needs buttons; a plain text reply can't carry them.
			return c.capture.SendNextPrompt(ctx, reg)
		}
		if reply != "" {
			if _, err := c.gateway.SendText(ctx, reg.GuestPhone, reply); err != nil {
				return fmt.Errorf("sending reply: %w", err)
			}
		}
		return nil
	}

	c.log.Warn("dropping event of unknown kind", slog.String("kind", ev.Kind))
	return nil
}

// HandleRSVPEvent processes one normalized RSVP webhook event.
func (c *Core) HandleRSVPEvent(ctx context.Context, ev entity.InboundEvent) error {
	reg, err := c.resolveRegistration(ctx, ev)
	if err != nil {
		return err
	}
	if reg == nil {
		c.log.Info("dropping unresolvable rsvp event",
			slog.String("kind", ev.Kind),
			slog.String("wa_id", ev.WaID),
		)
		return nil
	}

	c.touchResponded(ctx, reg)

	switch ev.Kind {
	case entity.EventButton:
		parts := strings.Split(ev.ButtonID, "|")
		if len(parts) != 3 || parts[0] != "rsvp" {
			c.log.Warn("dropping malformed rsvp button id",
				slog.String("registration_id", reg.ID),
				slog.String("button_id", ev.ButtonID),
			)
			return nil
		}
		return c.rsvp.ApplyResponse(ctx, reg, parts[2])

	case entity.EventText:
		return c.rsvp.HandleFreeform(ctx, reg, ev.Text)
	}

	c.log.Warn("dropping rsvp event of unknown kind", slog.String("kind", ev.Kind))
	return nil
}

// HandleInbound routes a raw-webhook event to the right flow by its button
// namespace. Text and wake default to the travel flow.
func (c *Core) HandleInbound(ctx context.Context, ev entity.InboundEvent) error {
	if ev.Kind == entity.EventButton && strings.HasPrefix(ev.ButtonID, "rsvp|") {
		return c.HandleRSVPEvent(ctx, ev)
	}
	return c.HandleTravelEvent(ctx, ev)
}

// resolveRegistration finds the registration an event belongs to: resume
// events carry it explicitly, everything else goes through the send log for
// the inbound phone. (nil, nil) means the event can't be correlated.
func (c *Core) resolveRegistration(ctx context.Context, ev entity.InboundEvent) (*entity.Registration, error) {
	if ev.Kind == entity.EventResume {
		id := strings.TrimPrefix(ev.Payload, "resume|")
		if id == "" || id == ev.Payload {
			return nil, nil
		}
		reg, err := c.repo.GetRegistration(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("loading registration %s: %w", id, err)
		}
		return reg, nil
	}

	phone := entity.NormalizePhone(ev.WaID)
	if phone == "" {
		return nil, nil
	}

	entry, err := c.repo.LatestSendByPhone(ctx, phone)
	if err != nil {
		return nil, fmt.Errorf("looking up send log for %s: %w", phone, err)
	}
	if entry == nil || entry.RegistrationID == "" {
		return nil, nil
	}

	reg, err := c.repo.GetRegistration(ctx, entry.RegistrationID)
	if err != nil {
		return nil, fmt.Errorf("loading registration %s: %w", entry.RegistrationID, err)
	}
	return reg, nil
}

// touchResponded stamps the shared last-reply marker. Failing to stamp is
// logged but never blocks handling the event itself.
func (c *Core) touchResponded(ctx context.Context, reg *entity.Registration) {
	now := time.Now()
	if err := c.repo.TouchResponded(ctx, reg.ID, now); err != nil {
		c.log.Error("updating responded_on",
			slog.String("registration_id", reg.ID),
			sl.Err(err),
		)
		return
	}
	reg.RespondedOn = &now
}
