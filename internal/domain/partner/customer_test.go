package partner

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vikasgargbear/production-infra-sub001/internal/domain/shared"
)

func validProfile() CustomerProfile {
	return CustomerProfile{
		Name:           "Apollo Medicals",
		Phone:          "9876543210",
		GSTIN:          "27aaecp1234f1z5",
		BillingAddress: Address{Line1: "12 MG Road", City: "Pune", State: "Maharashtra", Pincode: "411001"},
		CreditLimit:    decimal.NewFromInt(10000),
		CreditDays:     30,
	}
}

func TestNewCustomer(t *testing.T) {
	orgID := uuid.New()

	t.Run("creates active customer with normalized GSTIN", func(t *testing.T) {
		c, err := NewCustomer(orgID, "APO0001", validProfile())
		require.NoError(t, err)
		assert.Equal(t, orgID, c.OrgID)
		assert.Equal(t, "27AAECP1234F1Z5", c.GSTIN)
		assert.True(t, c.IsActive)
		assert.Equal(t, CreditRatingB, c.CreditRating)
		assert.Equal(t, "27", c.StateCode())
		assert.True(t, c.IsB2B())
		assert.Equal(t, c.BillingAddress, c.ShippingAddress)
	})

	t.Run("rejects invalid GSTIN", func(t *testing.T) {
		p := validProfile()
		p.GSTIN = "39AAECP1234F1Z5"
		_, err := NewCustomer(orgID, "APO0001", p)
		require.Error(t, err)
		assert.Equal(t, shared.CodeValidation, shared.ErrorCode(err))
	})

	t.Run("rejects bad pincode", func(t *testing.T) {
		p := validProfile()
		p.BillingAddress.Pincode = "01234"
		_, err := NewCustomer(orgID, "APO0001", p)
		assert.Error(t, err)
	})

	t.Run("rejects negative credit limit", func(t *testing.T) {
		p := validProfile()
		p.CreditLimit = decimal.NewFromInt(-1)
		_, err := NewCustomer(orgID, "APO0001", p)
		assert.Error(t, err)
	})

	t.Run("requires organization", func(t *testing.T) {
		_, err := NewCustomer(uuid.Nil, "APO0001", validProfile())
		assert.Error(t, err)
	})
}

func TestCustomer_Update(t *testing.T) {
	c, err := NewCustomer(uuid.New(), "APO0001", validProfile())
	require.NoError(t, err)

	p := validProfile()
	p.Name = "Apollo Pharmacy"
	p.GSTIN = ""
	require.NoError(t, c.Update(p))

	assert.Equal(t, "APO0001", c.Code)
	assert.Equal(t, "Apollo Pharmacy", c.Name)
	assert.False(t, c.IsB2B())
	assert.Equal(t, 1, c.Version)
}

func TestCodePrefix(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Apollo Medicals", "APO"},
		{"  m.g. pharma", "MGP"},
		{"24x7 Chemists", "XCH"},
		{"AB", "ABX"},
		{"", "XXX"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CodePrefix(tt.name))
		})
	}

	assert.Equal(t, "APO0042", FormatCustomerCode("Apollo", 42))
}
