package capture

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"GuestFlow/entity"
	"GuestFlow/internal/lib/sl"
)

// Orchestrator drives the travel-capture dialogue: it resolves the pending
// step, applies inbound answers to the travel record and sends prompts
// through the gateway. All mutations for one inbound event happen under a
// per-registration lock, so duplicate webhook deliveries can't interleave.
type Orchestrator struct {
	storage  Storage
	gateway  Gateway
	listener ProgressListener
	log      *slog.Logger
	locks    sync.Map // registration id -> *sync.Mutex
}

func NewOrchestrator(storage Storage, gateway Gateway, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		storage: storage,
		gateway: gateway,
		log:     log.With(sl.Module("capture")),
	}
}

// SetProgressListener attaches the back-office progress feed.
func (o *Orchestrator) SetProgressListener(l ProgressListener) {
	o.listener = l
}

func (o *Orchestrator) lock(registrationID string) func() {
	v, _ := o.locks.LoadOrStore(registrationID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// ensure loads (or lazily creates) the session and travel record for a
// registration.
func (o *Orchestrator) ensure(ctx context.Context, reg *entity.Registration) (*Session, *entity.TravelRecord, error) {
	session, err := o.storage.LoadSession(ctx, reg.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("loading session: %w", err)
	}
	if session == nil {
		session = NewSession(reg.ID)
		if err := o.storage.SaveSession(ctx, session); err != nil {
			return nil, nil, fmt.Errorf("saving new session: %w", err)
		}
	}

	record, err := o.storage.LoadTravel(ctx, reg.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("loading travel record: %w", err)
	}
	if record == nil {
		record = entity.NewTravelRecord(reg.ID)
		if err := o.storage.SaveTravel(ctx, record); err != nil {
			return nil, nil, fmt.Errorf("saving new travel record: %w", err)
		}
	}

	return session, record, nil
}

// StartOrRestart makes sure a session and travel record exist and returns the
// prompt text for the step the guest is on. A restart (explicit, or implied
// by an already-complete session) resets the dialogue to the first question.
func (o *Orchestrator) StartOrRestart(ctx context.Context, reg *entity.Registration, restart bool) (string, error) {
	defer o.lock(reg.ID)()

	session, _, err := o.ensure(ctx, reg)
	if err != nil {
		return "", err
	}

	if restart || session.IsComplete {
		session.Reset()
		o.log.Info("capture session reset", slog.String("registration_id", reg.ID))
	}
	if session.Step == "" {
		session.Step = FirstStep
	}

	if err := o.storage.SaveSession(ctx, session); err != nil {
		return "", fmt.Errorf("saving session: %w", err)
	}

	prompt, ok := PromptFor(session.Step)
	if !ok {
		return "", fmt.Errorf("no prompt for step %s", session.Step)
	}
	return prompt.Text, nil
}

// ResumeOrStart is the re-engagement path: make sure a session exists and
// push the pending prompt out. Used when a guest taps the resume template or
// messages after going dormant.
func (o *Orchestrator) ResumeOrStart(ctx context.Context, reg *entity.Registration) error {
	defer o.lock(reg.ID)()

	session, record, err := o.ensure(ctx, reg)
	if err != nil {
		return err
	}
	if session.Step == "" {
		session.Step = FirstStep
		if err := o.storage.SaveSession(ctx, session); err != nil {
			return fmt.Errorf("saving session: %w", err)
		}
	}

	return o.sendNextPrompt(ctx, reg, session, record)
}

// SendNextPrompt resolves the pending step and sends its prompt, or the
// completion message when the checklist is done. Re-sending the prompt the
// guest already has is suppressed so retried webhook deliveries stay silent.
func (o *Orchestrator) SendNextPrompt(ctx context.Context, reg *entity.Registration) error {
	defer o.lock(reg.ID)()

	session, record, err := o.ensure(ctx, reg)
	if err != nil {
		return err
	}
	return o.sendNextPrompt(ctx, reg, session, record)
}

func (o *Orchestrator) sendNextPrompt(ctx context.Context, reg *entity.Registration, session *Session, record *entity.TravelRecord) error {
	step := NextStep(session, record)

	if step == StepDone {
		if session.LastPromptStep == StepDone {
			return nil
		}
		if err := o.complete(ctx, session); err != nil {
			return err
		}
		if _, err := o.gateway.SendText(ctx, reg.GuestPhone, CompletionMessage); err != nil {
			return fmt.Errorf("sending completion message: %w", err)
		}
		return nil
	}

	// Duplicate-send guard.
	if session.LastPromptStep == step {
		return nil
	}

	prompt, ok := PromptFor(step)
	if !ok {
		return fmt.Errorf("no prompt for step %s", step)
	}

	session.Step = step
	session.LastPromptStep = step
	session.LastMessageAt = time.Now()
	if err := o.storage.SaveSession(ctx, session); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}

	o.log.Debug("sending prompt",
		slog.String("registration_id", reg.ID),
		slog.String("step", string(step)),
	)

	var err error
	if len(prompt.Buttons) > 0 {
		_, err = o.gateway.SendButtons(ctx, reg.GuestPhone, prompt.Text, prompt.Buttons)
	} else {
		_, err = o.gateway.SendText(ctx, reg.GuestPhone, prompt.Text)
	}
	if err != nil {
		// State is already committed; the guest can pick the thread back up
		// through the resume flow.
		return fmt.Errorf("sending prompt for %s: %w", step, err)
	}
	return nil
}

// ApplyButtonChoice validates and applies a button answer, then pushes the
// next prompt. Invalid or stale values are ignored without telling the guest.
func (o *Orchestrator) ApplyButtonChoice(ctx context.Context, reg *entity.Registration, step StepID, raw string) error {
	defer o.lock(reg.ID)()

	session, record, err := o.ensure(ctx, reg)
	if err != nil {
		return err
	}

	choices := ChoicesFor(step)
	value := strings.ToLower(strings.TrimSpace(raw))
	if choices == nil {
		o.log.Warn("button for non-choice step ignored",
			slog.String("registration_id", reg.ID),
			slog.String("step", string(step)),
		)
		return o.sendNextPrompt(ctx, reg, session, record)
	}
	if _, ok := choices[value]; !ok {
		o.log.Warn("stale button value ignored",
			slog.String("registration_id", reg.ID),
			slog.String("step", string(step)),
			slog.String("value", value),
		)
		return o.sendNextPrompt(ctx, reg, session, record)
	}

	switch step {
	case StepTravelType:
		record.TravelType = value
	case StepArrival:
		record.Arrival = value
	case StepDeparture:
		record.Departure = value
	case StepReturnTravel:
		record.ReturnTravel = value == "yes"
		session.Set(KeyReturnAsked, true)
	}
	record.UpdatedAt = time.Now()

	if err := o.storage.SaveTravel(ctx, record); err != nil {
		return fmt.Errorf("saving travel record: %w", err)
	}
	if err := o.storage.SaveSession(ctx, session); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}

	if o.listener != nil {
		o.listener.StepAnswered(reg.ID, step)
	}

	return o.sendNextPrompt(ctx, reg, session, record)
}

// ApplyTextAnswer applies a free-text answer to the current pending step.
// On success it advances the session and returns the next prompt text (empty
// when the next step needs buttons — the caller escalates to SendNextPrompt
// then). On a parse failure it returns a corrective reply and stays put.
// The second return reports completion.
func (o *Orchestrator) ApplyTextAnswer(ctx context.Context, reg *entity.Registration, text string) (string, bool, error) {
	defer o.lock(reg.ID)()

	session, record, err := o.ensure(ctx, reg)
	if err != nil {
		return "", false, err
	}

	if session.Step == StepDone && session.IsComplete {
		return "", true, nil
	}

	step := NextStep(session, record)
	if step == StepDone {
		if err := o.complete(ctx, session); err != nil {
			return "", false, err
		}
		return CompletionMessage, true, nil
	}

	applied := o.applyText(session, record, step, text)
	if !applied {
		prompt, _ := PromptFor(step)
		return RetryMessage + " " + prompt.Text, false, nil
	}
	record.UpdatedAt = time.Now()

	if err := o.storage.SaveTravel(ctx, record); err != nil {
		return "", false, fmt.Errorf("saving travel record: %w", err)
	}

	if o.listener != nil {
		o.listener.StepAnswered(reg.ID, step)
	}

	next := NextStep(session, record)
	if next == StepDone {
		if err := o.complete(ctx, session); err != nil {
			return "", false, err
		}
		return CompletionMessage, true, nil
	}

	session.Step = next
	session.LastMessageAt = time.Now()
	if IsChoiceStep(next) {
		// Buttons can't ride on a plain text reply; leave the prompt guard
		// untouched so SendNextPrompt delivers them.
		if err := o.storage.SaveSession(ctx, session); err != nil {
			return "", false, fmt.Errorf("saving session: %w", err)
		}
		return "", false, nil
	}

	session.LastPromptStep = next
	if err := o.storage.SaveSession(ctx, session); err != nil {
		return "", false, fmt.Errorf("saving session: %w", err)
	}

	prompt, ok := PromptFor(next)
	if !ok {
		return "", false, fmt.Errorf("no prompt for step %s", next)
	}
	return prompt.Text, false, nil
}

// applyText writes a parsed answer for step onto the record. Returns false
// when the text doesn't parse, leaving everything untouched.
func (o *Orchestrator) applyText(session *Session, record *entity.TravelRecord, step StepID, text string) bool {
	switch step {
	case StepTravelType, StepArrival, StepDeparture:
		value, ok := MatchChoice(text, ChoicesFor(step))
		if !ok {
			return false
		}
		switch step {
		case StepTravelType:
			record.TravelType = value
		case StepArrival:
			record.Arrival = value
		case StepDeparture:
			record.Departure = value
		}

	case StepReturnTravel:
		yes, ok := ParseYesNo(text)
		if !ok {
			return false
		}
		record.ReturnTravel = yes
		session.Set(KeyReturnAsked, true)

	case StepArrivalDate, StepDepartureDate:
		d, ok := ParseDate(text)
		if !ok {
			return false
		}
		if step == StepArrivalDate {
			record.ArrivalDate = &d
		} else {
			record.DepartureDate = &d
		}

	case StepArrivalTime, StepDepartureTime, StepHotelArrival, StepHotelDeparture:
		t, ok := ParseTime(text)
		if !ok {
			return false
		}
		switch step {
		case StepArrivalTime:
			record.ArrivalTime = &t
		case StepDepartureTime:
			record.DepartureTime = &t
		case StepHotelArrival:
			record.HotelArrival = &t
		case StepHotelDeparture:
			record.HotelDeparture = &t
		}

	case StepAirline, StepFlightNo, StepDepartureAirline, StepDepartureFlightNo:
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			return false
		}
		switch step {
		case StepAirline:
			record.Airline = trimmed
		case StepFlightNo:
			record.FlightNo = trimmed
		case StepDepartureAirline:
			record.DepartureAirline = trimmed
		case StepDepartureFlightNo:
			record.DepartureFlightNo = trimmed
		}

	case StepPNR, StepDeparturePNR, StepArrivalDetails, StepDepartureDetails:
		value := OptionalText(text)
		if value == nil {
			return false
		}
		switch step {
		case StepPNR:
			record.PNR = value
		case StepDeparturePNR:
			record.DeparturePNR = value
		case StepArrivalDetails:
			record.ArrivalDetails = value
		case StepDepartureDetails:
			record.DepartureDetails = value
		}

	default:
		return false
	}
	return true
}

// complete marks the session terminal. The done marker doubles as the
// last-prompt guard so the completion message goes out once.
func (o *Orchestrator) complete(ctx context.Context, session *Session) error {
	session.Step = StepDone
	session.LastPromptStep = StepDone
	session.IsComplete = true
	session.LastMessageAt = time.Now()
	if err := o.storage.SaveSession(ctx, session); err != nil {
		return fmt.Errorf("saving completed session: %w", err)
	}

	o.log.Info("travel capture complete", slog.String("registration_id", session.RegistrationID))
	if o.listener != nil {
		o.listener.CaptureComplete(session.RegistrationID)
	}
	return nil
}

// PauseCapture suspends the dialogue when another flow takes over the
// conversation. Clearing the prompt guard makes the paused question go out
// again on the next resume or wake.
func (o *Orchestrator) PauseCapture(ctx context.Context, reg *entity.Registration) error {
	defer o.lock(reg.ID)()

	session, err := o.storage.LoadSession(ctx, reg.ID)
	if err != nil {
		return fmt.Errorf("loading session: %w", err)
	}
	if session == nil || session.IsComplete {
		return nil
	}

	session.LastPromptStep = ""
	session.LastMessageAt = time.Now()
	if err := o.storage.SaveSession(ctx, session); err != nil {
		return fmt.Errorf("saving paused session: %w", err)
	}

	o.log.Info("capture session paused", slog.String("registration_id", reg.ID))
	return nil
}
