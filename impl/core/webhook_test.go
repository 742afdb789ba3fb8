package core

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"GuestFlow/bot/capture"
	"GuestFlow/entity"
)

type fakeRepo struct {
	registrations map[string]*entity.Registration
	sends         map[string]*entity.SendLog // phone -> latest entry
	sessions      map[string]*capture.Session
	touched       []string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		registrations: make(map[string]*entity.Registration),
		sends:         make(map[string]*entity.SendLog),
		sessions:      make(map[string]*capture.Session),
	}
}

func (f *fakeRepo) GetRegistration(_ context.Context, id string) (*entity.Registration, error) {
	return f.registrations[id], nil
}

func (f *fakeRepo) GetRegistrationByPhone(_ context.Context, phone string) (*entity.Registration, error) {
	for _, reg := range f.registrations {
		if reg.GuestPhone == phone {
			return reg, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) TouchResponded(_ context.Context, registrationID string, _ time.Time) error {
	f.touched = append(f.touched, registrationID)
	return nil
}

func (f *fakeRepo) LatestSendByPhone(_ context.Context, phone string) (*entity.SendLog, error) {
	return f.sends[phone], nil
}

func (f *fakeRepo) LoadSession(_ context.Context, registrationID string) (*capture.Session, error) {
	return f.sessions[registrationID], nil
}

type captureCall struct {
	method string
	step   capture.StepID
	value  string
	text   string
}

type fakeCaptureFlow struct {
	calls []captureCall

	textReply    string
	textComplete bool
}

func (f *fakeCaptureFlow) StartOrRestart(_ context.Context, reg *entity.Registration, restart bool) (string, error) {
	f.calls = append(f.calls, captureCall{method: "start"})
	return "first prompt", nil
}

func (f *fakeCaptureFlow) ResumeOrStart(_ context.Context, reg *entity.Registration) error {
	f.calls = append(f.calls, captureCall{method: "resume"})
	return nil
}

func (f *fakeCaptureFlow) SendNextPrompt(_ context.Context, reg *entity.Registration) error {
	f.calls = append(f.calls, captureCall{method: "next"})
	return nil
}

func (f *fakeCaptureFlow) ApplyButtonChoice(_ context.Context, reg *entity.Registration, step capture.StepID, value string) error {
	f.calls = append(f.calls, captureCall{method: "button", step: step, value: value})
	return nil
}

func (f *fakeCaptureFlow) ApplyTextAnswer(_ context.Context, reg *entity.Registration, text string) (string, bool, error) {
	f.calls = append(f.calls, captureCall{method: "text", text: text})
	return f.textReply, f.textComplete, nil
}

func (f *fakeCaptureFlow) methods() []string {
	var out []string
	for _, c := range f.calls {
		out = append(out, c.method)
	}
	return out
}

type fakeRSVPFlow struct {
	responses []string
	freeform  []string
	invites   int
}

func (f *fakeRSVPFlow) SendInvite(_ context.Context, reg *entity.Registration) error {
	f.invites++
	return nil
}

func (f *fakeRSVPFlow) ApplyResponse(_ context.Context, reg *entity.Registration, value string) error {
	f.responses = append(f.responses, value)
	return nil
}

func (f *fakeRSVPFlow) HandleFreeform(_ context.Context, reg *entity.Registration, text string) error {
	f.freeform = append(f.freeform, text)
	return nil
}

type fakeCoreGateway struct {
	texts        []string
	openers      []string
	withinWindow bool
}

func (f *fakeCoreGateway) SendText(_ context.Context, phone, body string) (string, error) {
	f.texts = append(f.texts, body)
	return "wamid-text", nil
}

func (f *fakeCoreGateway) SendResumeOpener(_ context.Context, phone, registrationID, nameParam string) (string, error) {
	f.openers = append(f.openers, registrationID)
	return "wamid-resume", nil
}

func (f *fakeCoreGateway) WithinWindow(time.Time) bool { return f.withinWindow }

func newTestCore() (*Core, *fakeRepo, *fakeCaptureFlow, *fakeRSVPFlow, *fakeCoreGateway) {
	repo := newFakeRepo()
	flow := &fakeCaptureFlow{}
	rsvp := &fakeRSVPFlow{}
	gw := &fakeCoreGateway{withinWindow: true}

	c := New(slog.New(slog.NewTextHandler(io.Discard, nil)))
	c.SetRepository(repo)
	c.SetCaptureFlow(flow)
	c.SetRSVPFlow(rsvp)
	c.SetGateway(gw)
	return c, repo, flow, rsvp, gw
}

func seedRegistration(repo *fakeRepo) *entity.Registration {
	reg := entity.NewRegistration("reg-1", "event-1", "Asha", "918812345678")
	repo.registrations[reg.ID] = reg
	repo.sends[reg.GuestPhone] = &entity.SendLog{RegistrationID: reg.ID, Phone: reg.GuestPhone}
	return reg
}

func TestHandleTravelEventUnknownPhoneDropped(t *testing.T) {
	c, _, flow, _, _ := newTestCore()

	err := c.HandleTravelEvent(context.Background(), entity.InboundEvent{
		Kind: entity.EventText,
		WaID: "447700900000",
		Text: "hello",
	})

	require.NoError(t, err)
	require.Empty(t, flow.calls)
}

func TestHandleTravelEventResumeByPayload(t *testing.T) {
	c, repo, flow, _, _ := newTestCore()
	reg := seedRegistration(repo)
	// resume resolves by payload even when the send log is empty
	delete(repo.sends, reg.GuestPhone)

	err := c.HandleTravelEvent(context.Background(), entity.InboundEvent{
		Kind:    entity.EventResume,
		WaID:    reg.GuestPhone,
		Payload: "resume|reg-1",
	})

	require.NoError(t, err)
	require.Equal(t, []string{"resume"}, flow.methods())
	require.Equal(t, []string{"reg-1"}, repo.touched)
	require.NotNil(t, reg.RespondedOn)
}

func TestHandleTravelEventButton(t *testing.T) {
	c, repo, flow, _, _ := newTestCore()
	seedRegistration(repo)

	err := c.HandleTravelEvent(context.Background(), entity.InboundEvent{
		Kind:     entity.EventButton,
		WaID:     "918812345678",
		ButtonID: "trv|travel_type|air",
	})

	require.NoError(t, err)
	require.Len(t, flow.calls, 1)
	require.Equal(t, capture.StepTravelType, flow.calls[0].step)
	require.Equal(t, "air", flow.calls[0].value)
}

func TestHandleTravelEventMalformedButtonDropped(t *testing.T) {
	c, repo, flow, _, _ := newTestCore()
	seedRegistration(repo)

	err := c.HandleTravelEvent(context.Background(), entity.InboundEvent{
		Kind:     entity.EventButton,
		WaID:     "918812345678",
		ButtonID: "not-a-button",
	})

	require.NoError(t, err)
	require.Empty(t, flow.calls)
}

func TestHandleTravelEventTextReplySent(t *testing.T) {
	c, repo, flow, _, gw := newTestCore()
	seedRegistration(repo)
	flow.textReply = "And what time do you land?"

	err := c.HandleTravelEvent(context.Background(), entity.InboundEvent{
		Kind: entity.EventText,
		WaID: "918812345678",
		Text: "2025-12-01",
	})

	require.NoError(t, err)
	require.Equal(t, []string{"text"}, flow.methods())
	require.Equal(t, []string{"And what time do you land?"}, gw.texts)
}

func TestHandleTravelEventTextEscalatesToButtons(t *testing.T) {
	c, repo, flow, _, gw := newTestCore()
	seedRegistration(repo)
	// empty reply and not complete means the next prompt carries buttons

	err := c.HandleTravelEvent(context.Background(), entity.InboundEvent{
		Kind: entity.EventText,
		WaID: "918812345678",
		Text: "11:00",
	})

	require.NoError(t, err)
	require.Equal(t, []string{"text", "next"}, flow.methods())
	require.Empty(t, gw.texts)
}

func TestHandleInboundRoutesRSVPNamespace(t *testing.T) {
	c, repo, flow, rsvp, _ := newTestCore()
	seedRegistration(repo)

	err := c.HandleInbound(context.Background(), entity.InboundEvent{
		Kind:     entity.EventButton,
		WaID:     "918812345678",
		ButtonID: "rsvp|response|yes",
	})

	require.NoError(t, err)
	require.Equal(t, []string{"yes"}, rsvp.responses)
	require.Empty(t, flow.calls)
}

func TestHandleInboundDefaultsToTravel(t *testing.T) {
	c, repo, flow, rsvp, _ := newTestCore()
	seedRegistration(repo)

	err := c.HandleInbound(context.Background(), entity.InboundEvent{
		Kind: entity.EventWake,
		WaID: "918812345678",
	})

	require.NoError(t, err)
	require.Equal(t, []string{"resume"}, flow.methods())
	require.Empty(t, rsvp.responses)
}

func TestStartCaptureInsideWindow(t *testing.T) {
	c, repo, flow, _, gw := newTestCore()
	seedRegistration(repo)

	require.NoError(t, c.StartCapture(context.Background(), "reg-1", false))
	require.Equal(t, []string{"start", "next"}, flow.methods())
	require.Empty(t, gw.openers)
}

func TestStartCaptureOutsideWindowSendsOpener(t *testing.T) {
	c, repo, flow, _, gw := newTestCore()
	seedRegistration(repo)
	gw.withinWindow = false

	require.NoError(t, c.StartCapture(context.Background(), "reg-1", false))
	require.Equal(t, []string{"start"}, flow.methods())
	require.Equal(t, []string{"reg-1"}, gw.openers)
}

func TestStartCaptureUnknownRegistration(t *testing.T) {
	c, _, _, _, _ := newTestCore()

	err := c.StartCapture(context.Background(), "missing", false)
	require.ErrorIs(t, err, ErrRegistrationNotFound)
}

func TestGetCaptureStatus(t *testing.T) {
	c, repo, _, _, _ := newTestCore()
	reg := seedRegistration(repo)
	reg.RSVPStatus = entity.RSVPYes

	session := capture.NewSession(reg.ID)
	session.Step = capture.StepArrivalDate
	repo.sessions[reg.ID] = session

	status, err := c.GetCaptureStatus(context.Background(), reg.ID)
	require.NoError(t, err)
	require.Equal(t, string(capture.StepArrivalDate), status.Step)
	require.False(t, status.IsComplete)
	require.Equal(t, entity.RSVPYes, status.RSVPStatus)
}

func TestValidateToken(t *testing.T) {
	c, _, _, _, _ := newTestCore()
	c.SetAuthKey("s3cret")

	require.NoError(t, c.ValidateToken("s3cret"))
	require.Error(t, c.ValidateToken("wrong"))
	require.Error(t, c.ValidateToken(""))
}
