package capture

import "GuestFlow/entity"

// NextStep walks the checklist in order and returns the first step whose
// record field is still unanswered, or StepDone when nothing is pending.
// Pure over (session state, record); repeated calls give the same answer.
//
// For optional fields nil means pending and "" means explicitly skipped —
// the two must not be conflated or skipped questions get asked again.
func NextStep(s *Session, r *entity.TravelRecord) StepID {
	if s.Step == StepDone {
		return StepDone
	}

	if r.TravelType == "" {
		return StepTravelType
	}
	if r.Arrival == "" {
		return StepArrival
	}
	if r.ArrivalDate == nil {
		return StepArrivalDate
	}
	if r.ArrivalTime == nil {
		return StepArrivalTime
	}

	if r.FliesCommercial() {
		if r.Airline == "" {
			return StepAirline
		}
		if r.FlightNo == "" {
			return StepFlightNo
		}
		if r.PNR == nil {
			return StepPNR
		}
	}

	if r.ArrivalDetails == nil {
		return StepArrivalDetails
	}
	if r.HotelArrival == nil {
		return StepHotelArrival
	}
	if r.HotelDeparture == nil {
		return StepHotelDeparture
	}

	// return_travel == false can mean "answered no" or "never asked"; the
	// session flag disambiguates.
	if !r.ReturnTravel && !s.GetBool(KeyReturnAsked) {
		return StepReturnTravel
	}

	if r.ReturnTravel {
		if r.Departure == "" {
			return StepDeparture
		}
		if r.DepartureDate == nil {
			return StepDepartureDate
		}
		if r.DepartureTime == nil {
			return StepDepartureTime
		}
		if r.ReturnsCommercial() {
			if r.DepartureAirline == "" {
				return StepDepartureAirline
			}
			if r.DepartureFlightNo == "" {
				return StepDepartureFlightNo
			}
			if r.DeparturePNR == nil {
				return StepDeparturePNR
			}
		}
		if r.DepartureDetails == nil {
			return StepDepartureDetails
		}
	}

	return StepDone
}
