package capture

// Button is one tappable reply option presented to the guest.
type Button struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Prompt is the message sent when a step becomes pending. Choice steps carry
// a fixed button set; free-text steps carry text only.
type Prompt struct {
	Text    string
	Buttons []Button
}

// CompletionMessage is sent exactly once, when the checklist is satisfied.
const CompletionMessage = "That's everything we need — your travel details are all set. Thank you! 🎉\nIf anything changes, just message us here."

// RetryMessage asks the guest to rephrase after a parse failure. The
// step-specific format hint is appended by the orchestrator.
const RetryMessage = "Sorry, I didn't catch that."

var catalog = map[StepID]Prompt{
	StepTravelType: {
		Text: "How will you be travelling to the event?",
		Buttons: []Button{
			{ID: ButtonID(StepTravelType, "air"), Title: "Air"},
			{ID: ButtonID(StepTravelType, "train"), Title: "Train"},
			{ID: ButtonID(StepTravelType, "car"), Title: "Car"},
		},
	},
	StepArrival: {
		Text: "How are you arriving?",
		Buttons: []Button{
			{ID: ButtonID(StepArrival, "commercial"), Title: "Commercial flight"},
			{ID: ButtonID(StepArrival, "local_pickup"), Title: "Local pickup"},
			{ID: ButtonID(StepArrival, "self"), Title: "On my own"},
		},
	},
	StepArrivalDate: {
		Text: "What date do you arrive? Please reply like 2025-12-01 (YYYY-MM-DD).",
	},
	StepArrivalTime: {
		Text: "What time do you arrive? Please reply like 14:30 or 2:30pm.",
	},
	StepAirline: {
		Text: "Which airline are you flying with?",
	},
	StepFlightNo: {
		Text: "What's your flight number?",
	},
	StepPNR: {
		Text: "What's your booking PNR? Reply \"skip\" if you'd rather not share it.",
	},
	StepArrivalDetails: {
		Text: "Anything else we should know about your arrival (terminal, co-travellers, etc.)? Reply \"skip\" if not.",
	},
	StepHotelArrival: {
		Text: "What time will you check in at the hotel? Please reply like 14:30 or 2:30pm.",
	},
	StepHotelDeparture: {
		Text: "What time will you check out of the hotel? Please reply like 14:30 or 2:30pm.",
	},
	StepReturnTravel: {
		Text: "Should we also arrange your return travel?",
		Buttons: []Button{
			{ID: ButtonID(StepReturnTravel, "yes"), Title: "Yes"},
			{ID: ButtonID(StepReturnTravel, "no"), Title: "No"},
		},
	},
	StepDeparture: {
		Text: "How are you departing?",
		Buttons: []Button{
			{ID: ButtonID(StepDeparture, "commercial"), Title: "Commercial flight"},
			{ID: ButtonID(StepDeparture, "local_pickup"), Title: "Local drop-off"},
			{ID: ButtonID(StepDeparture, "self"), Title: "On my own"},
		},
	},
	StepDepartureDate: {
		Text: "What date do you depart? Please reply like 2025-12-03 (YYYY-MM-DD).",
	},
	StepDepartureTime: {
		Text: "What time do you depart? Please reply like 14:30 or 2:30pm.",
	},
	StepDepartureAirline: {
		Text: "Which airline is your return flight with?",
	},
	StepDepartureFlightNo: {
		Text: "What's your return flight number?",
	},
	StepDeparturePNR: {
		Text: "What's your return booking PNR? Reply \"skip\" if you'd rather not share it.",
	},
	StepDepartureDetails: {
		Text: "Anything else we should know about your departure? Reply \"skip\" if not.",
	},
}

// PromptFor returns the catalog entry for a step.
func PromptFor(step StepID) (Prompt, bool) {
	p, ok := catalog[step]
	return p, ok
}
