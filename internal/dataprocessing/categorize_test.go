package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategorize(t *testing.T) {
	tests := []struct {
		name        string
		programName string
		want        CategoryLabel
	}{
		{
			name:        "mental health keyword",
			programName: "Pediatric Mental Health Care Access",
			want:        CategoryMentalHealth,
		},
		{
			name:        "maternal keyword",
			programName: "Maternal and Child Health Services",
			want:        CategoryMaternal,
		},
		{
			name:        "healthy start maps to maternal",
			programName: "Healthy Start Initiative",
			want:        CategoryMaternal,
		},
		{
			name:        "home visiting requires both words",
			programName: "Maternal, Infant, and Early Childhood Home Visiting",
			want:        CategoryMaternal, // maternal rule fires first
		},
		{
			name:        "home visiting when no earlier rule matches",
			programName: "Home Visiting Program",
			want:        CategoryHomeVisiting,
		},
		{
			name:        "home without visit is not home visiting",
			programName: "Medical Home Initiative",
			want:        CategoryOther,
		},
		{
			name:        "cshcn acronym",
			programName: "CSHCN Services",
			want:        CategorySpecialNeeds,
		},
		{
			name:        "special keyword",
			programName: "Children with Special Health Care Needs",
			want:        CategorySpecialNeeds,
		},
		{
			name:        "training keyword",
			programName: "MCH Workforce Training Program",
			want:        CategoryTraining,
		},
		{
			name:        "leadership keyword",
			programName: "Leadership in Adolescent Health",
			want:        CategoryTraining,
		},
		{
			name:        "emergency services",
			programName: "EMSC State Partnership",
			want:        CategoryEmergency,
		},
		{
			name:        "screening keyword",
			programName: "Universal Newborn Hearing Screening",
			want:        CategoryScreening,
		},
		{
			name:        "precedence: maternal beats training",
			programName: "Maternal Health Training Collaborative",
			want:        CategoryMaternal,
		},
		{
			name:        "precedence: mental health beats screening",
			programName: "Mental Health Screening Program",
			want:        CategoryMentalHealth,
		},
		{
			name:        "case insensitive",
			programName: "MATERNAL HEALTH INNOVATION",
			want:        CategoryMaternal,
		},
		{
			name:        "no keyword match",
			programName: "State Systems Development Initiative",
			want:        CategoryOther,
		},
		{
			name:        "empty name is unknown",
			programName: "",
			want:        CategoryUnknown,
		},
		{
			name:        "whitespace only is unknown",
			programName: "   ",
			want:        CategoryUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Categorize(tt.programName))
		})
	}
}

func TestCategorize_Deterministic(t *testing.T) {
	// Same input always resolves to the same label; the rule list is ordered.
	name := "Maternal Mental Health Training"
	first := Categorize(name)
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, Categorize(name))
	}
}
