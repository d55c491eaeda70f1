package domain

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/honeycarbs/atsbridge/pkg/atserr"
)

// Validator checks caller input before it reaches a provider
type Validator struct {
	v *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{v: v}
}

// ValidateCandidate trims the input and returns a VALIDATION_ERROR with per-field details
func (v *Validator) ValidateCandidate(in CandidateCreate) (CandidateCreate, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.ResumeURL = strings.TrimSpace(in.ResumeURL)
	in.JobID = strings.TrimSpace(in.JobID)

	if err := v.v.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return in, atserr.Validation("Validation failed", nil).Wrap(err)
		}

		details := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			details[fe.Field()] = describe(fe)
		}
		return in, atserr.Validation("Validation failed", details)
	}

	return in, nil
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Must be a valid email address"
	case "url":
		return "Must be a valid URL"
	case "min":
		return fmt.Sprintf("Must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("Must be at most %s characters", fe.Param())
	default:
		return fmt.Sprintf("Failed %q validation", fe.Tag())
	}
}
