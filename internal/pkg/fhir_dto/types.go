package fhir_dto

type Reference struct {
	Reference string `json:"reference,omitempty" bson:"reference,omitempty"`
	Type      string `json:"type,omitempty" bson:"type,omitempty"`
	Display   string `json:"display,omitempty" bson:"display,omitempty"`
}

type Identifier struct {
	Use    string `json:"use,omitempty" bson:"use,omitempty"`
	System string `json:"system,omitempty" bson:"system,omitempty"`
	Value  string `json:"value,omitempty" bson:"value,omitempty"`
}

type Coding struct {
	System  string `json:"system,omitempty" yaml:"system,omitempty" bson:"system,omitempty"`
	Version string `json:"version,omitempty" yaml:"version,omitempty" bson:"version,omitempty"`
	Code    string `json:"code,omitempty" yaml:"code,omitempty" bson:"code,omitempty"`
	Display string `json:"display,omitempty" yaml:"display,omitempty" bson:"display,omitempty"`
}

type Attachment struct {
	ContentType string `json:"contentType,omitempty"`
	Data        string `json:"data,omitempty"`
	Url         string `json:"url,omitempty"`
	Title       string `json:"title,omitempty"`
}

type Quantity struct {
	Value      *float64 `json:"value,omitempty"`
	Comparator string   `json:"comparator,omitempty"`
	Unit       string   `json:"unit,omitempty"`
	System     string   `json:"system,omitempty"`
	Code       string   `json:"code,omitempty"`
}

type Extension struct {
	Url          string   `json:"url,omitempty" yaml:"url,omitempty"`
	ValueString  *string  `json:"valueString,omitempty" yaml:"valueString,omitempty"`
	ValueCode    *string  `json:"valueCode,omitempty" yaml:"valueCode,omitempty"`
	ValueInteger *int     `json:"valueInteger,omitempty" yaml:"valueInteger,omitempty"`
	ValueDecimal *float64 `json:"valueDecimal,omitempty" yaml:"valueDecimal,omitempty"`
}

type Meta struct {
	VersionId   string   `json:"versionId,omitempty"`
	LastUpdated string   `json:"lastUpdated,omitempty"`
	Profile     []string `json:"profile,omitempty"`
}
