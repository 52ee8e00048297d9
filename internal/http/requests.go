package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

type (
	addTransactionRequest struct {
		Date        string `json:"date" validate:"required,datetime=2006-01-02"`
		Description string `json:"description" validate:"required,max=200"`
		Amount      string `json:"amount" validate:"required"`
		Kind        string `json:"kind" validate:"required,oneof=expense income"`
		Category    string `json:"category" validate:"required,max=50"`
	}

	setBudgetRequest struct {
		TotalBudget string `json:"total_budget" validate:"required"`
	}

	loginRequest struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=1"`
	}

	registerRequest struct {
		Name     string `json:"name" validate:"required,max=100"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=1"`
	}

	connectSheetsRequest struct {
		Token string `json:"token" validate:"required"`
	}

	preferencesRequest struct {
		DarkMode      *bool `json:"dark_mode"`
		Notifications *bool `json:"notifications"`
	}
)

// decodeBody parses and validates a JSON request body. The returned error is
// already phrased for the client.
func (s *Server) decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("malformed request body: %v", err)
	}
	if err := s.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if ok := asValidationErrors(err, &verrs); ok {
			return fmt.Errorf("%s", validationMessage(verrs))
		}
		return err
	}
	return nil
}

func asValidationErrors(err error, out *validator.ValidationErrors) bool {
	if verrs, ok := err.(validator.ValidationErrors); ok {
		*out = verrs
		return true
	}
	return false
}

func validationMessage(verrs validator.ValidationErrors) string {
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "email":
			msgs = append(msgs, field+" must be a valid email address")
		case "datetime":
			msgs = append(msgs, field+" must be a date in YYYY-MM-DD format")
		case "oneof":
			msgs = append(msgs, field+" must be one of: "+fe.Param())
		case "max":
			msgs = append(msgs, field+" is too long")
		case "min":
			msgs = append(msgs, field+" is too short")
		default:
			msgs = append(msgs, field+" is invalid")
		}
	}
	return strings.Join(msgs, "; ")
}
