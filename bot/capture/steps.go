package capture

import "strings"

// StepID identifies one question in the travel checklist.
type StepID string

const (
	StepTravelType        StepID = "travel_type"
	StepArrival           StepID = "arrival"
	StepArrivalDate       StepID = "arrival_date"
	StepArrivalTime       StepID = "arrival_time"
	StepAirline           StepID = "airline"
	StepFlightNo          StepID = "flight_no"
	StepPNR               StepID = "pnr"
	StepArrivalDetails    StepID = "arrival_details"
	StepHotelArrival      StepID = "hotel_arrival"
	StepHotelDeparture    StepID = "hotel_departure"
	StepReturnTravel      StepID = "return_travel"
	StepDeparture         StepID = "departure"
	StepDepartureDate     StepID = "departure_date"
	StepDepartureTime     StepID = "departure_time"
	StepDepartureAirline  StepID = "departure_airline"
	StepDepartureFlightNo StepID = "departure_flight_no"
	StepDeparturePNR      StepID = "departure_pnr"
	StepDepartureDetails  StepID = "departure_details"

	// StepDone is the terminal state, reached only when every branch of the
	// checklist is satisfied.
	StepDone StepID = "done"
)

// FirstStep is where every fresh session starts.
const FirstStep = StepTravelType

// Legal values for the choice steps, keyed by the canonical value stored on
// the travel record.
var (
	travelTypeChoices = map[string]string{
		"air":   "Air",
		"train": "Train",
		"car":   "Car",
	}
	methodChoices = map[string]string{
		"commercial":   "Commercial flight",
		"local_pickup": "Local pickup",
		"self":         "On my own",
	}
	yesNoChoices = map[string]string{
		"yes": "Yes",
		"no":  "No",
	}
)

// ChoicesFor returns the legal value set for a choice step, or nil for
// free-text steps.
func ChoicesFor(step StepID) map[string]string {
	switch step {
	case StepTravelType:
		return travelTypeChoices
	case StepArrival, StepDeparture:
		return methodChoices
	case StepReturnTravel:
		return yesNoChoices
	}
	return nil
}

// IsChoiceStep reports whether the step is answered with buttons rather than
// free text.
func IsChoiceStep(step StepID) bool {
	return ChoicesFor(step) != nil
}

// ButtonNamespace prefixes every travel-capture button id so replies can be
// routed away from other flows sharing the same WhatsApp number.
const ButtonNamespace = "trv"

// ButtonID builds the composite id carried by a reply button.
func ButtonID(step StepID, value string) string {
	return ButtonNamespace + "|" + string(step) + "|" + value
}

// ParseButtonID splits a composite button id back into step and value. The
// namespace must match; anything else is a stale or foreign button.
func ParseButtonID(id string) (StepID, string, bool) {
	parts := strings.SplitN(id, "|", 3)
	if len(parts) != 3 || parts[0] != ButtonNamespace {
		return "", "", false
	}
	return StepID(parts[1]), parts[2], true
}
