// Harmonia - Household Music Coordination
// Copyright 2026 Harmonia Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/harmonia-home/harmonia

// Package validation provides struct validation using
// go-playground/validator v10 behind a thread-safe singleton. Custom
// validators cover Harmonia's enumerations so request structs can tag
// fields with devicetype, bindingtype, playlisttype, and memberrole.
package validation

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/harmonia-home/harmonia/internal/models"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// FieldError is a single field validation failure.
type FieldError struct {
	Field   string
	Tag     string
	Param   string
	Message string
}

func (e FieldError) Error() string {
	return e.Message
}

// RequestError collects every field failure from one struct
// validation.
type RequestError struct {
	fields []FieldError
}

// Fields returns the individual field failures.
func (e *RequestError) Fields() []FieldError {
	return e.fields
}

func (e *RequestError) Error() string {
	if len(e.fields) == 0 {
		return "validation failed"
	}
	msgs := make([]string, len(e.fields))
	for i, f := range e.fields {
		msgs[i] = f.Message
	}
	return strings.Join(msgs, "; ")
}

// Validator returns the singleton instance, initializing it with
// Harmonia's custom validators on first use.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		must := func(tag string, fn validator.Func) {
			if err := validate.RegisterValidation(tag, fn); err != nil {
				panic(fmt.Sprintf("register %s validator: %v", tag, err))
			}
		}
		must("devicetype", func(fl validator.FieldLevel) bool {
			return models.DeviceType(fl.Field().String()).Valid()
		})
		must("bindingtype", func(fl validator.FieldLevel) bool {
			return models.BindingType(fl.Field().String()).Valid()
		})
		must("playlisttype", func(fl validator.FieldLevel) bool {
			return models.PlaylistType(fl.Field().String()).Valid()
		})
		must("memberrole", func(fl validator.FieldLevel) bool {
			return models.MemberRole(fl.Field().String()).Valid()
		})
	})
	return validate
}

// ValidateStruct validates a tagged struct, returning nil on success
// or a *RequestError listing every failed field.
func ValidateStruct(s interface{}) *RequestError {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &RequestError{fields: []FieldError{{
			Field:   "unknown",
			Tag:     "unknown",
			Message: err.Error(),
		}}}
	}

	fields := make([]FieldError, len(verrs))
	for i, fe := range verrs {
		fields[i] = FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Param:   fe.Param(),
			Message: translate(fe),
		}
	}
	return &RequestError{fields: fields}
}

var messageTemplates = map[string]string{
	"required":     "%s is required",
	"devicetype":   "%s must be one of: speaker, display, tv, mobile, computer",
	"bindingtype":  "%s must be one of: primary, secondary, temporary",
	"playlisttype": "%s must be one of: collaborative, curated",
	"memberrole":   "%s must be one of: owner, member",
	"uuid":         "%s must be a valid UUID",
	"url":          "%s must be a valid URL",
}

var paramTemplates = map[string]string{
	"oneof": "%s must be one of: %s",
	"gte":   "%s must be greater than or equal to %s",
	"lte":   "%s must be less than or equal to %s",
}

func translate(fe validator.FieldError) string {
	field, tag, param := fe.Field(), fe.Tag(), fe.Param()

	if tmpl, ok := messageTemplates[tag]; ok {
		return fmt.Sprintf(tmpl, field)
	}
	if tmpl, ok := paramTemplates[tag]; ok {
		return fmt.Sprintf(tmpl, field, param)
	}

	isString := fe.Kind().String() == "string"
	switch tag {
	case "min":
		if isString {
			return fmt.Sprintf("%s must be at least %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		if isString {
			return fmt.Sprintf("%s must be at most %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at most %s", field, param)
	default:
		return fmt.Sprintf("%s failed %s validation", field, tag)
	}
}
