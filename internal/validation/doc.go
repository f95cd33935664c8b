// Doorly - Real Estate and Social Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/doorly

/*
Package validation wraps go-playground/validator for HTTP request parameters.

Handlers bind query parameters into small structs and validate them once:

	type SeriesParams struct {
	    Field       string `query:"field" validate:"required,identifier,max=64"`
	    Granularity string `query:"granularity" validate:"omitempty,oneof=daily weekly monthly"`
	    Year        int    `query:"year" validate:"omitempty,gte=1970,lte=9999"`
	}

	if verr := validation.ValidateStruct(params); verr != nil {
	    apiErr := verr.ToAPIError() // rendered as a 400 with code VALIDATION_ERROR
	}

Messages name fields by their query or json tag. The custom "identifier"
tag accepts normalized header keys (lower-case letters, digits, underscore).
*/
package validation
