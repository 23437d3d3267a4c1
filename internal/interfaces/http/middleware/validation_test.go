package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vikasgargbear/production-infra-sub001/internal/interfaces/http/dto"
)

type partyForm struct {
	Name    string  `json:"name" binding:"required,max=10" validate:"required,max=10"`
	GSTIN   *string `json:"gstin" binding:"omitempty,gstin" validate:"omitempty,gstin"`
	Pincode string  `json:"pincode" binding:"omitempty,pincode" validate:"omitempty,pincode"`
}

func newTestValidator() *validator.Validate {
	v := validator.New()
	RegisterValidations(v)
	return v
}

func TestRegisterValidations(t *testing.T) {
	v := newTestValidator()
	ptr := func(s string) *string { return &s }

	tests := []struct {
		name      string
		form      partyForm
		wantField string
	}{
		{"valid", partyForm{Name: "Apollo", GSTIN: ptr("27AAPFU0939F1ZV"), Pincode: "400001"}, ""},
		{"lower-case gstin is accepted", partyForm{Name: "Apollo", GSTIN: ptr("27aapfu0939f1zv")}, ""},
		{"empty optional fields", partyForm{Name: "Apollo"}, ""},
		{"bad gstin", partyForm{Name: "Apollo", GSTIN: ptr("27AAPFU0939F1Z")}, "gstin"},
		{"unknown state code", partyForm{Name: "Apollo", GSTIN: ptr("99AAPFU0939F1ZV")}, "gstin"},
		{"bad pincode", partyForm{Name: "Apollo", Pincode: "4000"}, "pincode"},
		{"missing name", partyForm{}, "name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.form)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var verrs validator.ValidationErrors
			require.True(t, errors.As(err, &verrs))
			assert.Equal(t, tt.wantField, verrs[0].Field())
		})
	}
}

func TestFormatValidationErrors(t *testing.T) {
	v := newTestValidator()

	t.Run("lists fields with messages", func(t *testing.T) {
		err := v.Struct(partyForm{Name: strings.Repeat("x", 11), Pincode: "12"})
		resp := FormatValidationErrors(err, "req-1")

		assert.False(t, resp.Success)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		assert.Equal(t, "req-1", resp.Error.RequestID)
		details, ok := resp.Error.Details.(map[string]any)
		require.True(t, ok)
		fields, ok := details["fields"].([]dto.ValidationDetail)
		require.True(t, ok)
		require.Len(t, fields, 2)
		assert.Equal(t, "name", fields[0].Field)
		assert.Equal(t, "Must have at most 10 entries or characters", fields[0].Message)
		assert.Equal(t, "pincode", fields[1].Field)
		assert.Equal(t, "Must be a 6 digit PIN code", fields[1].Message)
	})

	t.Run("malformed json has no field list", func(t *testing.T) {
		resp := FormatValidationErrors(errors.New("unexpected EOF"), "req-2")

		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		assert.Contains(t, resp.Error.Detail, "unexpected EOF")
		assert.Nil(t, resp.Error.Details)
	})
}

func TestHandleValidationError(t *testing.T) {
	require.NoError(t, SetupValidator())

	r := gin.New()
	r.Use(RequestID())
	r.POST("/customers", func(c *gin.Context) {
		var form partyForm
		if err := c.ShouldBindJSON(&form); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.Status(http.StatusCreated)
	})

	t.Run("binding failure", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/customers", strings.NewReader(`{"gstin":"bogus"}`)))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeEnvelope(t, w)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		assert.Contains(t, w.Body.String(), `"field":"gstin"`)
		assert.Contains(t, w.Body.String(), `"field":"name"`)
	})

	t.Run("valid body", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/customers",
			strings.NewReader(`{"name":"Apollo","gstin":"27AAPFU0939F1ZV","pincode":"400001"}`)))
		assert.Equal(t, http.StatusCreated, w.Code)
	})
}

func TestValidationMessage(t *testing.T) {
	v := newTestValidator()
	type amounts struct {
		Qty  int    `validate:"gt=0"`
		Mode string `validate:"oneof=CASH UPI"`
	}
	err := v.Struct(amounts{Qty: 0, Mode: "BARTER"})
	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	require.Len(t, verrs, 2)
	assert.Equal(t, "Must be greater than 0", validationMessage(verrs[0]))
	assert.Equal(t, "Must be one of: CASH UPI", validationMessage(verrs[1]))
}
