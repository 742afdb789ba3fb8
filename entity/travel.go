package entity

import "time"

// Travel modes.
const (
	TravelAir   = "air"
	TravelTrain = "train"
	TravelCar   = "car"
)

// Arrival/departure methods.
const (
	MethodCommercial  = "commercial"
	MethodLocalPickup = "local_pickup"
	MethodSelf        = "self"
)

// TravelRecord holds the itinerary collected from a guest, one per
// registration. Optional fields follow a three-state convention: nil means
// the question was never answered, "" means the guest explicitly skipped it,
// anything else is the answer. The resolver depends on that distinction.
type TravelRecord struct {
	RegistrationID string `json:"registration_id" bson:"registration_id"`

	TravelType string `json:"travel_type" bson:"travel_type"`

	Arrival        string     `json:"arrival" bson:"arrival"`
	ArrivalDate    *time.Time `json:"arrival_date" bson:"arrival_date"`
	ArrivalTime    *string    `json:"arrival_time" bson:"arrival_time"`
	Airline        string     `json:"airline" bson:"airline"`
	FlightNo       string     `json:"flight_no" bson:"flight_no"`
	PNR            *string    `json:"pnr" bson:"pnr"`
	ArrivalDetails *string    `json:"arrival_details" bson:"arrival_details"`

	HotelArrival   *string `json:"hotel_arrival" bson:"hotel_arrival"`
	HotelDeparture *string `json:"hotel_departure" bson:"hotel_departure"`

	ReturnTravel bool `json:"return_travel" bson:"return_travel"`

	Departure         string     `json:"departure" bson:"departure"`
	DepartureDate     *time.Time `json:"departure_date" bson:"departure_date"`
	DepartureTime     *string    `json:"departure_time" bson:"departure_time"`
	DepartureAirline  string     `json:"departure_airline" bson:"departure_airline"`
	DepartureFlightNo string     `json:"departure_flight_no" bson:"departure_flight_no"`
	DeparturePNR      *string    `json:"departure_pnr" bson:"departure_pnr"`
	DepartureDetails  *string    `json:"departure_details" bson:"departure_details"`

	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

func NewTravelRecord(registrationID string) *TravelRecord {
	return &TravelRecord{
		RegistrationID: registrationID,
		UpdatedAt:      time.Now(),
	}
}

// FliesCommercial reports whether the arrival leg needs flight details.
func (t *TravelRecord) FliesCommercial() bool {
	return t.TravelType == TravelAir && t.Arrival == MethodCommercial
}

// ReturnsCommercial reports whether the departure leg needs flight details.
func (t *TravelRecord) ReturnsCommercial() bool {
	return t.TravelType == TravelAir && t.Departure == MethodCommercial
}
