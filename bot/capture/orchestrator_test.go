package capture

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"GuestFlow/entity"
)

type memStorage struct {
	sessions map[string]*Session
	travels  map[string]*entity.TravelRecord
}

func newMemStorage() *memStorage {
	return &memStorage{
		sessions: make(map[string]*Session),
		travels:  make(map[string]*entity.TravelRecord),
	}
}

func (m *memStorage) LoadSession(_ context.Context, registrationID string) (*Session, error) {
	return m.sessions[registrationID], nil
}

func (m *memStorage) SaveSession(_ context.Context, session *Session) error {
	m.sessions[session.RegistrationID] = session
	return nil
}

func (m *memStorage) LoadTravel(_ context.Context, registrationID string) (*entity.TravelRecord, error) {
	return m.travels[registrationID], nil
}

func (m *memStorage) SaveTravel(_ context.Context, record *entity.TravelRecord) error {
	m.travels[record.RegistrationID] = record
	return nil
}

type sentMessage struct {
	kind    string
	phone   string
	body    string
	buttons []Button
}

type fakeGateway struct {
	sent []sentMessage
}

func (g *fakeGateway) SendText(_ context.Context, phone, body string) (string, error) {
	g.sent = append(g.sent, sentMessage{kind: "text", phone: phone, body: body})
	return "wamid-text", nil
}

func (g *fakeGateway) SendButtons(_ context.Context, phone, body string, buttons []Button) (string, error) {
	g.sent = append(g.sent, sentMessage{kind: "buttons", phone: phone, body: body, buttons: buttons})
	return "wamid-buttons", nil
}

func (g *fakeGateway) SendResumeOpener(_ context.Context, phone, registrationID, nameParam string) (string, error) {
	g.sent = append(g.sent, sentMessage{kind: "resume", phone: phone, body: registrationID})
	return "wamid-resume", nil
}

func (g *fakeGateway) WithinWindow(time.Time) bool { return true }

func (g *fakeGateway) last(t *testing.T) sentMessage {
	t.Helper()
	require.NotEmpty(t, g.sent)
	return g.sent[len(g.sent)-1]
}

func newTestOrchestrator() (*Orchestrator, *memStorage, *fakeGateway) {
	storage := newMemStorage()
	gateway := &fakeGateway{}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewOrchestrator(storage, gateway, log), storage, gateway
}

func testRegistration() *entity.Registration {
	return entity.NewRegistration("reg-1", "event-1", "Asha", "918812345678")
}

func TestSendNextPromptDuplicateSuppressed(t *testing.T) {
	o, _, gw := newTestOrchestrator()
	reg := testRegistration()
	ctx := context.Background()

	require.NoError(t, o.SendNextPrompt(ctx, reg))
	require.NoError(t, o.SendNextPrompt(ctx, reg))

	require.Len(t, gw.sent, 1)
	require.Equal(t, "buttons", gw.sent[0].kind)
}

func TestEndToEndCapture(t *testing.T) {
	o, storage, gw := newTestOrchestrator()
	reg := testRegistration()
	ctx := context.Background()

	require.NoError(t, o.ResumeOrStart(ctx, reg))
	require.Equal(t, "buttons", gw.last(t).kind)
	require.Equal(t, catalog[StepTravelType].Text, gw.last(t).body)

	require.NoError(t, o.ApplyButtonChoice(ctx, reg, StepTravelType, "air"))
	require.Equal(t, "buttons", gw.last(t).kind)
	require.Equal(t, catalog[StepArrival].Text, gw.last(t).body)

	require.NoError(t, o.ApplyButtonChoice(ctx, reg, StepArrival, "commercial"))
	require.Equal(t, "text", gw.last(t).kind)
	require.Equal(t, catalog[StepArrivalDate].Text, gw.last(t).body)

	answers := []struct {
		text       string
		nextPrompt StepID
	}{
		{"2025-12-01", StepArrivalTime},
		{"2:30pm", StepAirline},
		{"IndiGo", StepFlightNo},
		{"6E123", StepPNR},
		{"skip", StepArrivalDetails},
		{"Terminal 2, green jacket", StepHotelArrival},
		{"16:00", StepHotelDeparture},
	}
	for _, a := range answers {
		reply, complete, err := o.ApplyTextAnswer(ctx, reg, a.text)
		require.NoError(t, err)
		require.False(t, complete)
		require.Equal(t, catalog[a.nextPrompt].Text, reply)
	}

	// hotel departure answered; next step needs buttons, so the reply is
	// empty and the caller escalates
	reply, complete, err := o.ApplyTextAnswer(ctx, reg, "11:00")
	require.NoError(t, err)
	require.False(t, complete)
	require.Empty(t, reply)

	require.NoError(t, o.SendNextPrompt(ctx, reg))
	require.Equal(t, "buttons", gw.last(t).kind)
	require.Equal(t, catalog[StepReturnTravel].Text, gw.last(t).body)

	require.NoError(t, o.ApplyButtonChoice(ctx, reg, StepReturnTravel, "no"))
	require.Equal(t, "text", gw.last(t).kind)
	require.Equal(t, CompletionMessage, gw.last(t).body)

	session := storage.sessions[reg.ID]
	require.True(t, session.IsComplete)
	require.Equal(t, StepDone, session.Step)

	record := storage.travels[reg.ID]
	require.Equal(t, entity.TravelAir, record.TravelType)
	require.Equal(t, entity.MethodCommercial, record.Arrival)
	require.NotNil(t, record.PNR)
	require.Equal(t, "", *record.PNR)
	require.Equal(t, "IndiGo", record.Airline)
	require.False(t, record.ReturnTravel)
}

func TestSkipPathDoesNotLoopBack(t *testing.T) {
	o, storage, _ := newTestOrchestrator()
	reg := testRegistration()
	ctx := context.Background()

	record := filledRecord()
	record.PNR = nil
	storage.travels[reg.ID] = record
	storage.sessions[reg.ID] = NewSession(reg.ID)

	reply, complete, err := o.ApplyTextAnswer(ctx, reg, "skip")
	require.NoError(t, err)
	require.False(t, complete)

	require.NotNil(t, record.PNR)
	require.Equal(t, "", *record.PNR)
	require.Empty(t, reply) // next is the return-travel choice step, caller escalates

	// a skipped field counts as answered
	require.Equal(t, StepReturnTravel, NextStep(storage.sessions[reg.ID], record))
}

func TestTerminalAbsorption(t *testing.T) {
	o, storage, gw := newTestOrchestrator()
	reg := testRegistration()
	ctx := context.Background()

	record := filledRecord()
	storage.travels[reg.ID] = record
	session := NewSession(reg.ID)
	session.Set(KeyReturnAsked, true)
	storage.sessions[reg.ID] = session

	require.NoError(t, o.SendNextPrompt(ctx, reg))
	require.Len(t, gw.sent, 1)
	require.Equal(t, CompletionMessage, gw.sent[0].body)
	require.True(t, session.IsComplete)

	// completion message never goes out twice
	require.NoError(t, o.SendNextPrompt(ctx, reg))
	require.Len(t, gw.sent, 1)

	reply, complete, err := o.ApplyTextAnswer(ctx, reg, "anything")
	require.NoError(t, err)
	require.True(t, complete)
	require.Empty(t, reply)
}

func TestInvalidButtonValueIgnored(t *testing.T) {
	o, storage, gw := newTestOrchestrator()
	reg := testRegistration()
	ctx := context.Background()

	require.NoError(t, o.SendNextPrompt(ctx, reg))
	require.Len(t, gw.sent, 1)

	require.NoError(t, o.ApplyButtonChoice(ctx, reg, StepTravelType, "boat"))

	require.Equal(t, "", storage.travels[reg.ID].TravelType)
	// re-prompt falls into the duplicate guard, guest gets silence
	require.Len(t, gw.sent, 1)
}

func TestParseFailureDoesNotAdvance(t *testing.T) {
	o, storage, _ := newTestOrchestrator()
	reg := testRegistration()
	ctx := context.Background()

	record := entity.NewTravelRecord(reg.ID)
	record.TravelType = entity.TravelTrain
	record.Arrival = entity.MethodSelf
	storage.travels[reg.ID] = record
	storage.sessions[reg.ID] = NewSession(reg.ID)

	reply, complete, err := o.ApplyTextAnswer(ctx, reg, "sometime next week")
	require.NoError(t, err)
	require.False(t, complete)
	require.True(t, strings.HasPrefix(reply, RetryMessage))
	require.Nil(t, record.ArrivalDate)

	// the step stays pending
	require.Equal(t, StepArrivalDate, NextStep(storage.sessions[reg.ID], record))
}

func TestPauseThenResumeResends(t *testing.T) {
	o, _, gw := newTestOrchestrator()
	reg := testRegistration()
	ctx := context.Background()

	require.NoError(t, o.SendNextPrompt(ctx, reg))
	require.Len(t, gw.sent, 1)

	// without a pause, resume is silent
	require.NoError(t, o.ResumeOrStart(ctx, reg))
	require.Len(t, gw.sent, 1)

	require.NoError(t, o.PauseCapture(ctx, reg))
	require.NoError(t, o.ResumeOrStart(ctx, reg))
	require.Len(t, gw.sent, 2)
	require.Equal(t, gw.sent[0].body, gw.sent[1].body)
}

func TestStartOrRestartResets(t *testing.T) {
	o, storage, _ := newTestOrchestrator()
	reg := testRegistration()
	ctx := context.Background()

	record := filledRecord()
	storage.travels[reg.ID] = record
	session := NewSession(reg.ID)
	session.Set(KeyReturnAsked, true)
	session.Step = StepDone
	session.IsComplete = true
	storage.sessions[reg.ID] = session

	prompt, err := o.StartOrRestart(ctx, reg, false)
	require.NoError(t, err)

	// already complete implies restart
	require.Equal(t, catalog[FirstStep].Text, prompt)
	require.False(t, session.IsComplete)
	require.Equal(t, FirstStep, session.Step)
	require.False(t, session.GetBool(KeyReturnAsked))
}

func TestTextAnswerForChoiceStep(t *testing.T) {
	o, storage, _ := newTestOrchestrator()
	reg := testRegistration()
	ctx := context.Background()

	reply, complete, err := o.ApplyTextAnswer(ctx, reg, "Air")
	require.NoError(t, err)
	require.False(t, complete)
	require.Empty(t, reply) // arrival is a choice step, caller escalates

	require.Equal(t, entity.TravelAir, storage.travels[reg.ID].TravelType)
}
