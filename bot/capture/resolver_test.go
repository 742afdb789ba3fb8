package capture

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"GuestFlow/entity"
)

func strPtr(s string) *string { return &s }

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

// filledRecord returns a record with the arrival leg and hotel times fully
// answered for an air/commercial guest.
func filledRecord() *entity.TravelRecord {
	return &entity.TravelRecord{
		RegistrationID: "reg-1",
		TravelType:     entity.TravelAir,
		Arrival:        entity.MethodCommercial,
		ArrivalDate:    datePtr(2025, time.December, 1),
		ArrivalTime:    strPtr("14:30"),
		Airline:        "IndiGo",
		FlightNo:       "6E123",
		PNR:            strPtr("ABC123"),
		ArrivalDetails: strPtr(""),
		HotelArrival:   strPtr("16:00"),
		HotelDeparture: strPtr("11:00"),
	}
}

func TestNextStepChecklistOrder(t *testing.T) {
	s := NewSession("reg-1")
	r := entity.NewTravelRecord("reg-1")

	require.Equal(t, StepTravelType, NextStep(s, r))

	r.TravelType = entity.TravelAir
	require.Equal(t, StepArrival, NextStep(s, r))

	r.Arrival = entity.MethodCommercial
	require.Equal(t, StepArrivalDate, NextStep(s, r))

	r.ArrivalDate = datePtr(2025, time.December, 1)
	require.Equal(t, StepArrivalTime, NextStep(s, r))

	r.ArrivalTime = strPtr("14:30")
	require.Equal(t, StepAirline, NextStep(s, r))

	r.Airline = "IndiGo"
	require.Equal(t, StepFlightNo, NextStep(s, r))

	r.FlightNo = "6E123"
	require.Equal(t, StepPNR, NextStep(s, r))

	r.PNR = strPtr("ABC123")
	require.Equal(t, StepArrivalDetails, NextStep(s, r))

	r.ArrivalDetails = strPtr("Terminal 2")
	require.Equal(t, StepHotelArrival, NextStep(s, r))

	r.HotelArrival = strPtr("16:00")
	require.Equal(t, StepHotelDeparture, NextStep(s, r))

	r.HotelDeparture = strPtr("11:00")
	require.Equal(t, StepReturnTravel, NextStep(s, r))
}

func TestNextStepSkipsFlightDetailsForNonCommercial(t *testing.T) {
	s := NewSession("reg-1")
	r := entity.NewTravelRecord("reg-1")
	r.TravelType = entity.TravelTrain
	r.Arrival = entity.MethodLocalPickup
	r.ArrivalDate = datePtr(2025, time.December, 1)
	r.ArrivalTime = strPtr("14:30")

	// airline/flight/pnr only apply to air + commercial
	require.Equal(t, StepArrivalDetails, NextStep(s, r))
}

func TestNextStepSkippedOptionalIsSatisfied(t *testing.T) {
	s := NewSession("reg-1")
	r := filledRecord()

	r.PNR = nil
	require.Equal(t, StepPNR, NextStep(s, r))

	// explicitly skipped is not pending
	r.PNR = strPtr("")
	require.Equal(t, StepReturnTravel, NextStep(s, r))
}

func TestNextStepReturnTravelTwoSignals(t *testing.T) {
	s := NewSession("reg-1")
	r := filledRecord()

	// false on the record alone means "not asked yet"
	require.Equal(t, StepReturnTravel, NextStep(s, r))

	// the session flag marks it answered: "no" ends the checklist
	s.Set(KeyReturnAsked, true)
	require.Equal(t, StepDone, NextStep(s, r))
}

func TestNextStepDepartureBranch(t *testing.T) {
	s := NewSession("reg-1")
	r := filledRecord()
	s.Set(KeyReturnAsked, true)
	r.ReturnTravel = true

	require.Equal(t, StepDeparture, NextStep(s, r))

	r.Departure = entity.MethodCommercial
	require.Equal(t, StepDepartureDate, NextStep(s, r))

	r.DepartureDate = datePtr(2025, time.December, 3)
	require.Equal(t, StepDepartureTime, NextStep(s, r))

	r.DepartureTime = strPtr("09:00")
	require.Equal(t, StepDepartureAirline, NextStep(s, r))

	r.DepartureAirline = "IndiGo"
	require.Equal(t, StepDepartureFlightNo, NextStep(s, r))

	r.DepartureFlightNo = "6E456"
	require.Equal(t, StepDeparturePNR, NextStep(s, r))

	r.DeparturePNR = strPtr("")
	require.Equal(t, StepDepartureDetails, NextStep(s, r))

	r.DepartureDetails = strPtr("skip the snacks")
	require.Equal(t, StepDone, NextStep(s, r))
}

func TestNextStepTerminalShortCircuit(t *testing.T) {
	s := NewSession("reg-1")
	s.Step = StepDone
	r := entity.NewTravelRecord("reg-1")

	// a terminal session never reopens, even with pending fields
	require.Equal(t, StepDone, NextStep(s, r))
}

func TestNextStepDeterministic(t *testing.T) {
	s := NewSession("reg-1")
	r := filledRecord()
	r.PNR = nil

	first := NextStep(s, r)
	for i := 0; i < 5; i++ {
		require.Equal(t, first, NextStep(s, r))
	}
}
