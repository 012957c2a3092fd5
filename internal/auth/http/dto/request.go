// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/carebridgehq/chartgate/internal/validation"
)

// CreateActorRequest contains the parameters for registering a new actor.
type CreateActorRequest struct {
	Name string `json:"name"`
}

// Validate checks if the create actor request is valid.
func (r *CreateActorRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name,
			validation.Required,
			customValidation.NotBlank,
			validation.Length(1, 255),
		),
	)
}

// IssueTokenRequest contains the parameters for issuing an authentication token.
type IssueTokenRequest struct {
	ActorID     string `json:"actor_id"`
	ActorSecret string `json:"actor_secret"`
}

// Validate checks if the issue token request is valid.
func (r *IssueTokenRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.ActorID,
			validation.Required,
			customValidation.NotBlank,
		),
		validation.Field(&r.ActorSecret,
			validation.Required,
			customValidation.NotBlank,
		),
	)
}
