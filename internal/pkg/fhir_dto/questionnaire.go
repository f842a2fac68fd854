package fhir_dto

const (
	ExtensionOrdinalValue = "http://hl7.org/fhir/StructureDefinition/ordinalValue"
	ExtensionItemWeight   = "http://hl7.org/fhir/StructureDefinition/itemWeight"
)

type Questionnaire struct {
	ResourceType string              `json:"resourceType" yaml:"resourceType"`
	ID           string              `json:"id,omitempty" yaml:"id,omitempty"`
	Meta         *Meta               `json:"meta,omitempty" yaml:"-"`
	URL          string              `json:"url,omitempty" yaml:"url,omitempty"`
	Version      string              `json:"version,omitempty" yaml:"version,omitempty"`
	Name         string              `json:"name,omitempty" yaml:"name,omitempty"`
	Title        string              `json:"title,omitempty" yaml:"title,omitempty"`
	Status       string              `json:"status,omitempty" yaml:"status,omitempty"`
	Description  string              `json:"description,omitempty" yaml:"description,omitempty"`
	Item         []QuestionnaireItem `json:"item,omitempty" yaml:"item,omitempty"`
}

type QuestionnaireItem struct {
	LinkID       string                          `json:"linkId" yaml:"linkId"`
	Prefix       string                          `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	Text         string                          `json:"text,omitempty" yaml:"text,omitempty"`
	Type         string                          `json:"type" yaml:"type"`
	Required     *bool                           `json:"required,omitempty" yaml:"required,omitempty"`
	Repeats      *bool                           `json:"repeats,omitempty" yaml:"repeats,omitempty"`
	ReadOnly     *bool                           `json:"readOnly,omitempty" yaml:"readOnly,omitempty"`
	MaxLength    *int                            `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	AnswerOption []QuestionnaireItemAnswerOption `json:"answerOption,omitempty" yaml:"answerOption,omitempty"`
	Item         []QuestionnaireItem             `json:"item,omitempty" yaml:"item,omitempty"`
}

type QuestionnaireItemAnswerOption struct {
	ValueCoding     *Coding     `json:"valueCoding,omitempty" yaml:"valueCoding,omitempty"`
	ValueInteger    *int        `json:"valueInteger,omitempty" yaml:"valueInteger,omitempty"`
	ValueString     *string     `json:"valueString,omitempty" yaml:"valueString,omitempty"`
	ValueDate       *string     `json:"valueDate,omitempty" yaml:"valueDate,omitempty"`
	ValueTime       *string     `json:"valueTime,omitempty" yaml:"valueTime,omitempty"`
	InitialSelected *bool       `json:"initialSelected,omitempty" yaml:"initialSelected,omitempty"`
	Extension       []Extension `json:"extension,omitempty" yaml:"extension,omitempty"`
}
