package controllers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestIssueEditValidate(t *testing.T) {
	cases := []struct {
		name  string
		edit  issueEdit
		valid bool
	}{
		{"empty edit", issueEdit{}, true},
		{"valid title", issueEdit{Title: strPtr("Broken streetlight")}, true},
		{"empty title", issueEdit{Title: strPtr("")}, false},
		{"blank title", issueEdit{Title: strPtr("   ")}, false},
		{"title too long", issueEdit{Title: strPtr(strings.Repeat("a", 201))}, false},
		{"title at limit", issueEdit{Title: strPtr(strings.Repeat("a", 200))}, true},
		{"empty description", issueEdit{Description: strPtr("")}, false},
		{"description too long", issueEdit{Description: strPtr(strings.Repeat("a", 1001))}, false},
		{"valid category", issueEdit{Category: strPtr("Water")}, true},
		{"unknown category", issueEdit{Category: strPtr("Sanitation")}, false},
		{"empty location", issueEdit{Location: strPtr("")}, false},
		{"location too long", issueEdit{Location: strPtr(strings.Repeat("a", 201))}, false},
		{"image unconstrained", issueEdit{Image: strPtr("")}, true},
		{"all valid", issueEdit{
			Title:       strPtr("Pothole"),
			Description: strPtr("Deep pothole on the main road"),
			Category:    strPtr("Road"),
			Location:    strPtr("Main Street"),
		}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.edit.validate()
			if tc.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
