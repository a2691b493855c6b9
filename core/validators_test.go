package core

import (
	"reflect"
	"testing"
)

type testForm struct {
	Name  string `json:"name" validate:"required,notblank"`
	Email string `json:"email_address" validate:"required,email"`
	Note  string `json:"-" validate:"omitempty,notblank"`
}

func TestTranslateErrors(t *testing.T) {
	validate, translator := NewValidator()

	tests := []struct {
		name string
		form testForm
		want []FieldError
	}{
		{name: "valid", form: testForm{Name: "Ann", Email: "ann@school.edu"}},
		{
			name: "missing",
			want: []FieldError{
				{Field: "name", Error: "this field is required"},
				{Field: "email_address", Error: "this field is required"},
			},
		},
		{
			name: "blank and malformed",
			form: testForm{Name: "  ", Email: "nope"},
			want: []FieldError{
				{Field: "name", Error: "this field cannot be blank"},
				{Field: "email_address", Error: "email_address must be a valid email address"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate.Struct(tt.form)
			if tt.want == nil {
				if err != nil {
					t.Fatalf("Struct() unexpected error = %v", err)
				}
				return
			}
			got, ok := TranslateErrors(err, translator)
			if !ok {
				t.Fatalf("TranslateErrors() ok = false for %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("TranslateErrors() = %v, want %v", got, tt.want)
			}
		})
	}

	if _, ok := TranslateErrors(NewArgumentError("x"), translator); ok {
		t.Error("TranslateErrors() ok = true for a non validation error")
	}
}

func TestCleanString(t *testing.T) {
	if got := CleanString("  Math \n"); got != "Math" {
		t.Errorf("CleanString() = %q", got)
	}
	if got := CleanString(" Ann@School.EDU ", true); got != "ann@school.edu" {
		t.Errorf("CleanString(lower) = %q", got)
	}
}

func TestIsArgumentError(t *testing.T) {
	if !IsArgumentError(NewArgumentError("bad")) {
		t.Error("IsArgumentError() = false")
	}
	if IsArgumentError(NewValidationError(nil)) {
		t.Error("IsArgumentError() = true for a validation error")
	}
}
