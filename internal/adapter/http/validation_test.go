package http

import (
	"strings"
	"testing"
)

type sampleReq struct {
	FarmerID string  `validate:"required,hex32"`
	Crop     string  `validate:"required,crop"`
	Grade    string  `validate:"required,grade"`
	Quantity float64 `validate:"gt=0"`
}

func validSample() sampleReq {
	return sampleReq{
		FarmerID: strings.Repeat("a", 32),
		Crop:     "Maize",
		Grade:    "A",
		Quantity: 50,
	}
}

func TestCustomTags(t *testing.T) {
	cv := NewValidator()

	if err := cv.Validate(validSample()); err != nil {
		t.Fatalf("valid sample rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(r *sampleReq)
	}{
		{"uppercase id", func(r *sampleReq) { r.FarmerID = strings.Repeat("A", 32) }},
		{"short id", func(r *sampleReq) { r.FarmerID = "abc" }},
		{"unknown crop", func(r *sampleReq) { r.Crop = "Kale" }},
		{"unknown grade", func(r *sampleReq) { r.Grade = "D" }},
		{"zero quantity", func(r *sampleReq) { r.Quantity = 0 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := validSample()
			tc.mutate(&r)
			if err := cv.Validate(r); err == nil {
				t.Fatalf("expected validation failure")
			}
		})
	}
}

func TestToFieldErrors(t *testing.T) {
	cv := NewValidator()

	r := sampleReq{Crop: "Kale", Grade: "A", Quantity: -1}
	err := cv.Validate(r)
	if err == nil {
		t.Fatalf("expected validation errors")
	}

	fields := ToFieldErrors(err)
	byField := map[string]string{}
	for _, fe := range fields {
		byField[fe.Field] = fe.Message
	}

	if byField["FarmerID"] != "is required" {
		t.Fatalf("FarmerID message = %q", byField["FarmerID"])
	}
	if byField["Crop"] != "is not a recognised crop type" {
		t.Fatalf("Crop message = %q", byField["Crop"])
	}
	if !strings.Contains(byField["Quantity"], "greater than 0") {
		t.Fatalf("Quantity message = %q", byField["Quantity"])
	}
}
