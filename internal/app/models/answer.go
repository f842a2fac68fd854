package models

// AnswerKind names the variant held by an AnswerValue.
type AnswerKind string

const (
	AnswerKindEmpty    AnswerKind = "empty"
	AnswerKindBoolean  AnswerKind = "boolean"
	AnswerKindInteger  AnswerKind = "integer"
	AnswerKindDecimal  AnswerKind = "decimal"
	AnswerKindString   AnswerKind = "string"
	AnswerKindDate     AnswerKind = "date"
	AnswerKindDateTime AnswerKind = "dateTime"
	AnswerKindTime     AnswerKind = "time"
	AnswerKindCoding   AnswerKind = "coding"
	AnswerKindQuantity AnswerKind = "quantity"
)

// AnswerValue is a closed set of answer variants. Only types in this package
// implement it.
type AnswerValue interface {
	Kind() AnswerKind
	isAnswerValue()
}

type EmptyAnswer struct{}

type BooleanAnswer struct {
	Value bool `json:"value"`
}

type IntegerAnswer struct {
	Value int `json:"value"`
}

type DecimalAnswer struct {
	Value float64 `json:"value"`
}

type StringAnswer struct {
	Value string `json:"value"`
}

type DateAnswer struct {
	Value string `json:"value"`
}

type DateTimeAnswer struct {
	Value string `json:"value"`
}

type TimeAnswer struct {
	Value string `json:"value"`
}

// CodingAnswer is a selected answer option. Weight is copied from the option
// when it carries a score.
type CodingAnswer struct {
	System  string `json:"system,omitempty"`
	Code    string `json:"code"`
	Display string `json:"display,omitempty"`
	Weight  *int   `json:"weight,omitempty"`
}

type QuantityAnswer struct {
	Value  float64 `json:"value"`
	Unit   string  `json:"unit,omitempty"`
	System string  `json:"system,omitempty"`
	Code   string  `json:"code,omitempty"`
}

func (EmptyAnswer) Kind() AnswerKind    { return AnswerKindEmpty }
func (BooleanAnswer) Kind() AnswerKind  { return AnswerKindBoolean }
func (IntegerAnswer) Kind() AnswerKind  { return AnswerKindInteger }
func (DecimalAnswer) Kind() AnswerKind  { return AnswerKindDecimal }
func (StringAnswer) Kind() AnswerKind   { return AnswerKindString }
func (DateAnswer) Kind() AnswerKind     { return AnswerKindDate }
func (DateTimeAnswer) Kind() AnswerKind { return AnswerKindDateTime }
func (TimeAnswer) Kind() AnswerKind     { return AnswerKindTime }
func (CodingAnswer) Kind() AnswerKind   { return AnswerKindCoding }
func (QuantityAnswer) Kind() AnswerKind { return AnswerKindQuantity }

func (EmptyAnswer) isAnswerValue()    {}
func (BooleanAnswer) isAnswerValue()  {}
func (IntegerAnswer) isAnswerValue()  {}
func (DecimalAnswer) isAnswerValue()  {}
func (StringAnswer) isAnswerValue()   {}
func (DateAnswer) isAnswerValue()     {}
func (DateTimeAnswer) isAnswerValue() {}
func (TimeAnswer) isAnswerValue()     {}
func (CodingAnswer) isAnswerValue()   {}
func (QuantityAnswer) isAnswerValue() {}

// IsMeaningful reports whether an answer counts toward a required item.
// Zero values such as false, 0 and "" are meaningful. Quantity answers are
// stored but never satisfy a required item.
func IsMeaningful(answer AnswerValue) bool {
	switch answer.(type) {
	case BooleanAnswer, IntegerAnswer, DecimalAnswer, StringAnswer,
		DateAnswer, DateTimeAnswer, TimeAnswer, CodingAnswer:
		return true
	case QuantityAnswer, EmptyAnswer, nil:
		return false
	default:
		return false
	}
}

// CloneAnswer returns a copy that shares no pointers with the input.
func CloneAnswer(answer AnswerValue) AnswerValue {
	switch v := answer.(type) {
	case CodingAnswer:
		if v.Weight != nil {
			weight := *v.Weight
			v.Weight = &weight
		}
		return v
	case nil:
		return EmptyAnswer{}
	default:
		return v
	}
}
