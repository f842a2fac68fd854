package models

type ItemType string

const (
	ItemTypeGroup      ItemType = "group"
	ItemTypeDisplay    ItemType = "display"
	ItemTypeBoolean    ItemType = "boolean"
	ItemTypeDecimal    ItemType = "decimal"
	ItemTypeInteger    ItemType = "integer"
	ItemTypeDate       ItemType = "date"
	ItemTypeDateTime   ItemType = "dateTime"
	ItemTypeTime       ItemType = "time"
	ItemTypeString     ItemType = "string"
	ItemTypeText       ItemType = "text"
	ItemTypeURL        ItemType = "url"
	ItemTypeChoice     ItemType = "choice"
	ItemTypeOpenChoice ItemType = "open-choice"
	ItemTypeAttachment ItemType = "attachment"
	ItemTypeReference  ItemType = "reference"
	ItemTypeQuantity   ItemType = "quantity"
)

// FormItem is one node of the questionnaire tree. Groups carry children,
// every other type is a question or a display-only label.
type FormItem struct {
	LinkID        string         `json:"linkId" yaml:"linkId"`
	Type          ItemType       `json:"type" yaml:"type"`
	Text          string         `json:"text,omitempty" yaml:"text,omitempty"`
	Prefix        string         `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	Required      bool           `json:"required" yaml:"required"`
	Repeats       bool           `json:"repeats,omitempty" yaml:"repeats,omitempty"`
	ReadOnly      bool           `json:"readOnly,omitempty" yaml:"readOnly,omitempty"`
	MaxLength     int            `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	AnswerOptions []AnswerOption `json:"answerOptions,omitempty" yaml:"answerOptions,omitempty"`
	Items         []FormItem     `json:"items,omitempty" yaml:"items,omitempty"`
}

// AnswerOption is a selectable choice. Weight is the optional integer score
// attached to the option.
type AnswerOption struct {
	System  string `json:"system,omitempty" yaml:"system,omitempty"`
	Code    string `json:"code" yaml:"code"`
	Display string `json:"display,omitempty" yaml:"display,omitempty"`
	Weight  *int   `json:"weight,omitempty" yaml:"weight,omitempty"`
}

// Answer converts the option into the coding answer recorded when a user picks it.
func (o AnswerOption) Answer() CodingAnswer {
	answer := CodingAnswer{
		System:  o.System,
		Code:    o.Code,
		Display: o.Display,
	}
	if o.Weight != nil {
		weight := *o.Weight
		answer.Weight = &weight
	}
	return answer
}

// FormDefinition is the loaded questionnaire. Pages holds the top-level
// group items in presentation order; it is never mutated after load.
type FormDefinition struct {
	ID     string     `json:"id"`
	URL    string     `json:"url,omitempty"`
	Title  string     `json:"title,omitempty"`
	Status string     `json:"status,omitempty"`
	Pages  []FormItem `json:"pages"`
}

func (f *FormDefinition) PageCount() int {
	return len(f.Pages)
}

// FindItem walks the tree depth first and returns the first item with the
// given linkId.
func (f *FormDefinition) FindItem(linkID string) (FormItem, bool) {
	return findItem(f.Pages, linkID)
}

func findItem(items []FormItem, linkID string) (FormItem, bool) {
	for _, item := range items {
		if item.LinkID == linkID {
			return item, true
		}
		if found, ok := findItem(item.Items, linkID); ok {
			return found, true
		}
	}
	return FormItem{}, false
}

