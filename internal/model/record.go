package model

import (
	"fmt"
	"math"
	"strings"
)

// Collection names, one per record schema.
const (
	CollectionBaby         = "baby"
	CollectionMilestone    = "milestone"
	CollectionGrowthRecord = "growthrecord"
)

// Record is a typed payload that can be validated and stored as a Document.
type Record interface {
	Collection() string
	Validate() error
	Document() Document
}

// Schema pairs a collection with the constructor of the record type it holds.
type Schema struct {
	Collection string
	New        func() Record
}

// Schemas is the static collection -> record type table.
var Schemas = []Schema{
	{Collection: CollectionBaby, New: func() Record { return &Baby{} }},
	{Collection: CollectionMilestone, New: func() Record { return &Milestone{} }},
	{Collection: CollectionGrowthRecord, New: func() Record { return &GrowthRecord{} }},
}

// LookupSchema returns the schema registered for collection.
func LookupSchema(collection string) (Schema, bool) {
	for _, s := range Schemas {
		if s.Collection == collection {
			return s, true
		}
	}
	return Schema{}, false
}

// FieldError describes a single invalid payload field.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

const reasonRequired = "field required"

// Gender is the enumerated gender of a baby.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale
}

// Baby is a baby profile (collection "baby").
type Baby struct {
	Name      *string `json:"name"`
	Gender    *Gender `json:"gender"`
	BirthDate *Date   `json:"birth_date"`
	Notes     *string `json:"notes"`
}

func (b *Baby) Collection() string { return CollectionBaby }

func (b *Baby) Validate() error {
	if b.Name == nil {
		return &FieldError{Field: "name", Reason: reasonRequired}
	}
	if strings.TrimSpace(*b.Name) == "" {
		return &FieldError{Field: "name", Reason: "must not be empty"}
	}
	if b.Gender != nil && !b.Gender.Valid() {
		return &FieldError{Field: "gender", Reason: fmt.Sprintf("must be one of %q, %q", GenderMale, GenderFemale)}
	}
	return nil
}

func (b *Baby) Document() Document {
	var gender any
	if b.Gender != nil {
		gender = string(*b.Gender)
	}
	return Document{
		"name":       stringOrNil(b.Name),
		"gender":     gender,
		"birth_date": dateOrNil(b.BirthDate),
		"notes":      stringOrNil(b.Notes),
	}
}

// Milestone is a developmental milestone (collection "milestone").
// BabyID is not checked against stored babies.
type Milestone struct {
	BabyID       *string `json:"baby_id"`
	Title        *string `json:"title"`
	DateAchieved *Date   `json:"date_achieved"`
	Description  *string `json:"description"`
}

func (m *Milestone) Collection() string { return CollectionMilestone }

func (m *Milestone) Validate() error {
	if m.BabyID == nil {
		return &FieldError{Field: "baby_id", Reason: reasonRequired}
	}
	if m.Title == nil {
		return &FieldError{Field: "title", Reason: reasonRequired}
	}
	return nil
}

func (m *Milestone) Document() Document {
	return Document{
		"baby_id":       stringOrNil(m.BabyID),
		"title":         stringOrNil(m.Title),
		"date_achieved": dateOrNil(m.DateAchieved),
		"description":   stringOrNil(m.Description),
	}
}

// GrowthRecord is a single set of body measurements (collection "growthrecord").
type GrowthRecord struct {
	BabyID              *string  `json:"baby_id"`
	DateRecorded        *Date    `json:"date_recorded"`
	WeightKg            *float64 `json:"weight_kg"`
	HeightCm            *float64 `json:"height_cm"`
	HeadCircumferenceCm *float64 `json:"head_circumference_cm"`
}

func (g *GrowthRecord) Collection() string { return CollectionGrowthRecord }

func (g *GrowthRecord) Validate() error {
	if g.BabyID == nil {
		return &FieldError{Field: "baby_id", Reason: reasonRequired}
	}
	measurements := []struct {
		field string
		value *float64
	}{
		{"weight_kg", g.WeightKg},
		{"height_cm", g.HeightCm},
		{"head_circumference_cm", g.HeadCircumferenceCm},
	}
	for _, m := range measurements {
		if m.value == nil {
			continue
		}
		if math.IsNaN(*m.value) || *m.value < 0 {
			return &FieldError{Field: m.field, Reason: "must be greater than or equal to 0"}
		}
	}
	return nil
}

func (g *GrowthRecord) Document() Document {
	return Document{
		"baby_id":               stringOrNil(g.BabyID),
		"date_recorded":         dateOrNil(g.DateRecorded),
		"weight_kg":             floatOrNil(g.WeightKg),
		"height_cm":             floatOrNil(g.HeightCm),
		"head_circumference_cm": floatOrNil(g.HeadCircumferenceCm),
	}
}

// The helpers below keep absent optionals as untyped nil so they store as JSON null.

func stringOrNil(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

func dateOrNil(d *Date) any {
	if d == nil {
		return nil
	}
	return d.String()
}

func floatOrNil(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}
