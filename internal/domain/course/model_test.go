package course_test

import (
	"strings"
	"testing"

	"studylog/internal/domain/course"
)

// TestCourse_Validate tests validation of Course.
func TestCourse_Validate(t *testing.T) {
	tests := []struct {
		name    string
		course  course.Course
		wantErr bool
	}{
		{name: "valid course", course: course.Course{ID: "1", Title: "Go入門", Published: true}},
		{name: "empty title", course: course.Course{ID: "2", Title: "  "}, wantErr: true},
		{name: "title too long", course: course.Course{ID: "3", Title: strings.Repeat("a", 121)}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.course.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// TestSection_Validate tests validation of Section.
func TestSection_Validate(t *testing.T) {
	tests := []struct {
		name    string
		section course.Section
		wantErr bool
	}{
		{name: "valid section", section: course.Section{ID: "1", LessonID: "l1", Title: "Slices", Body: "# Slices\n..."}},
		{name: "orphan section", section: course.Section{ID: "2", Title: "Slices"}, wantErr: true},
		{name: "oversized body", section: course.Section{ID: "3", LessonID: "l1", Title: "Slices", Body: strings.Repeat("x", course.MaxBodyLength+1)}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.section.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
