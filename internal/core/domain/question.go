package domain

// Question is one entry of a fixed question battery,
// identified by its 1-based position.
type Question struct {
	Index int
	Text  string
}

// QuestionSet is an ordered, externally supplied list of questions.
type QuestionSet struct {
	Name      string
	Questions []Question
}

// NewQuestionSet numbers texts from 1 in order.
func NewQuestionSet(name string, texts []string) QuestionSet {
	qs := make([]Question, len(texts))
	for i, t := range texts {
		qs[i] = Question{Index: i + 1, Text: t}
	}
	return QuestionSet{Name: name, Questions: qs}
}

// Len returns the number of questions.
func (s QuestionSet) Len() int {
	return len(s.Questions)
}

// Texts returns the question texts in order.
func (s QuestionSet) Texts() []string {
	out := make([]string, len(s.Questions))
	for i, q := range s.Questions {
		out[i] = q.Text
	}
	return out
}

// Validate checks the set is non-empty and numbered 1..N without gaps.
func (s QuestionSet) Validate() error {
	if len(s.Questions) == 0 {
		return ErrInvalidInput
	}
	for i, q := range s.Questions {
		if q.Index != i+1 || q.Text == "" {
			return ErrInvalidInput
		}
	}
	return nil
}

// DefaultQuestionSetName names the built-in battery.
const DefaultQuestionSetName = "maritime-incident"

// DefaultQuestionSet returns the built-in maritime incident battery.
func DefaultQuestionSet() QuestionSet {
	return NewQuestionSet(DefaultQuestionSetName, []string{
		"At what time did the incident occur?",
		"Who is the vessel’s owner?",
		"Where was the vessel heading?",
		"Was there any routine activity, such as a crew member preparing food or drinks, at the time of the incident?",
		"What was the vessel’s speed when it began to experience difficulty (e.g., grounding, collision, etc.)?",
		"When was the vessel built?",
		"Did the accident have any fatalities?",
		"Was the vessel operating under normal conditions when the incident occurred?",
		"Were there any notable mechanical failures reported before the incident?",
		"Was there any distress signal or emergency call sent out prior to the incident?",
		"In which sea did the accident occur?",
		"What were the weather conditions at the time of the incident?",
		"What was the crew member's activity around the time of the accident?",
		"What did the crew member consume before heading to their post?",
		"What type or model of rescue boat was involved in the response to the accident?",
		"Where did the crew member retrieve safety equipment (e.g., lifejackets, knives, flotation devices) from onboard the vessel?",
		"Was there any communication from the vessel’s crew to nearby ships or maritime authorities before the incident?",
		"Were there any previous accidents or incidents involving this vessel?",
		"Was the vessel’s cargo secure at the time of the incident?",
		"Was the crew properly trained for handling emergency situations?",
		"What was the time in the GMT+1 time zone when the incident occurred?",
		"How many people were onboard at the time of the accident, and who were they?",
		"Was the vessel following the recommended navigational routes? (Provide the deviation in nautical miles from the planned route)",
		"How long did it take for the emergency response team to reach the vessel from the time of distress signal reception? (Provide the response time in hours and minutes)",
		"Were there any other vessels nearby at the time of the incident? (Provide the distance in nautical miles between the involved vessel and the nearest other vessel)",
		"What was the visibility like at the time of the accident? (Provide the distance in meters or miles)",
		"Did the vessel experience a reduction in speed before the incident? (If so, calculate the percentage decrease in speed from the normal operational speed)",
		"How many hours had the vessel been at sea before the incident occurred?",
		"What was the total cargo weight onboard at the time of the incident? (Provide the weight in tons or kilograms)",
		"Was there a significant change in the vessel's position before and after the incident? (Calculate the distance traveled in nautical miles, or the change in latitude/longitude)",
	})
}
