package models

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

type ResponseStatus string

const (
	ResponseStatusInProgress     ResponseStatus = "in-progress"
	ResponseStatusCompleted      ResponseStatus = "completed"
	ResponseStatusAmended        ResponseStatus = "amended"
	ResponseStatusEnteredInError ResponseStatus = "entered-in-error"
	ResponseStatusStopped        ResponseStatus = "stopped"
)

// ResponseItem holds the answers recorded for one linkId. Only index 0 is
// read and written by the single-valued API.
type ResponseItem struct {
	LinkID  string        `json:"linkId"`
	Answers []AnswerValue `json:"-"`
}

// ResponseDocument is the evolving questionnaire response. Items stay unique
// by linkId and keep first-insertion order.
type ResponseDocument struct {
	Questionnaire string         `json:"questionnaire"`
	Status        ResponseStatus `json:"status"`
	Authored      time.Time      `json:"authored"`
	Items         []ResponseItem `json:"items"`
}

// Clone returns a deep copy of the document.
func (d ResponseDocument) Clone() ResponseDocument {
	clone := d
	clone.Items = make([]ResponseItem, len(d.Items))
	for i, item := range d.Items {
		answers := make([]AnswerValue, len(item.Answers))
		for j, answer := range item.Answers {
			answers[j] = CloneAnswer(answer)
		}
		clone.Items[i] = ResponseItem{LinkID: item.LinkID, Answers: answers}
	}
	return clone
}

type answerEnvelope struct {
	Kind  AnswerKind      `json:"kind"`
	Value json.RawMessage `json:"value,omitempty"`
}

type responseItemJSON struct {
	LinkID  string           `json:"linkId"`
	Answers []answerEnvelope `json:"answers"`
}

func (i ResponseItem) MarshalJSON() ([]byte, error) {
	out := responseItemJSON{
		LinkID:  i.LinkID,
		Answers: make([]answerEnvelope, 0, len(i.Answers)),
	}
	for _, answer := range i.Answers {
		if answer == nil {
			answer = EmptyAnswer{}
		}
		envelope := answerEnvelope{Kind: answer.Kind()}
		if _, empty := answer.(EmptyAnswer); !empty {
			raw, err := json.Marshal(answer)
			if err != nil {
				return nil, err
			}
			envelope.Value = raw
		}
		out.Answers = append(out.Answers, envelope)
	}
	return json.Marshal(out)
}

func (i *ResponseItem) UnmarshalJSON(data []byte) error {
	var in responseItemJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	i.LinkID = in.LinkID
	i.Answers = make([]AnswerValue, 0, len(in.Answers))
	for _, envelope := range in.Answers {
		answer, err := decodeAnswer(envelope)
		if err != nil {
			return fmt.Errorf("linkId %s: %w", in.LinkID, err)
		}
		i.Answers = append(i.Answers, answer)
	}
	return nil
}

func decodeAnswer(envelope answerEnvelope) (AnswerValue, error) {
	switch envelope.Kind {
	case AnswerKindEmpty:
		return EmptyAnswer{}, nil
	case AnswerKindBoolean:
		var v BooleanAnswer
		err := json.Unmarshal(envelope.Value, &v)
		return v, err
	case AnswerKindInteger:
		var v IntegerAnswer
		err := json.Unmarshal(envelope.Value, &v)
		return v, err
	case AnswerKindDecimal:
		var v DecimalAnswer
		err := json.Unmarshal(envelope.Value, &v)
		return v, err
	case AnswerKindString:
		var v StringAnswer
		err := json.Unmarshal(envelope.Value, &v)
		return v, err
	case AnswerKindDate:
		var v DateAnswer
		err := json.Unmarshal(envelope.Value, &v)
		return v, err
	case AnswerKindDateTime:
		var v DateTimeAnswer
		err := json.Unmarshal(envelope.Value, &v)
		return v, err
	case AnswerKindTime:
		var v TimeAnswer
		err := json.Unmarshal(envelope.Value, &v)
		return v, err
	case AnswerKindCoding:
		var v CodingAnswer
		err := json.Unmarshal(envelope.Value, &v)
		return v, err
	case AnswerKindQuantity:
		var v QuantityAnswer
		err := json.Unmarshal(envelope.Value, &v)
		return v, err
	default:
		return nil, fmt.Errorf("unknown answer kind %q", envelope.Kind)
	}
}
