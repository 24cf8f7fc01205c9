package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-SmartQueue/pkg/ptr"
)

func TestRole_AtLeast(t *testing.T) {
	assert.True(t, RoleAdmin.AtLeast(RoleStaff))
	assert.True(t, RoleStaff.AtLeast(RoleStaff))
	assert.False(t, RoleUser.AtLeast(RoleStaff))
	assert.False(t, RoleStaff.AtLeast(RoleAdmin))
}

func TestProfile_Validate(t *testing.T) {
	p := Profile{UserID: 1, Username: "alice", Email: "alice@example.com", Role: RoleUser}
	assert.NoError(t, p.Validate())

	bad := p
	bad.Email = "not-an-email"
	assert.ErrorIs(t, bad.Validate(), ErrInvalidProfile)

	bad = p
	bad.Role = "root"
	assert.ErrorIs(t, bad.Validate(), ErrInvalidProfile)
}

func TestProfile_FullName(t *testing.T) {
	assert.Equal(t, "Ann Lee", (&Profile{FirstName: "Ann", LastName: "Lee"}).FullName())
	assert.Equal(t, "ann", (&Profile{Username: "ann"}).FullName())
}

func TestService_DurationAndValidate(t *testing.T) {
	s := Service{Name: "Consultation"}
	assert.Equal(t, DefaultServiceDurationMinutes, s.Duration())
	assert.NoError(t, s.Validate())

	s.DurationMinutes = ptr.Ptr(45)
	assert.Equal(t, 45, s.Duration())

	s.DurationMinutes = ptr.Ptr(0)
	assert.ErrorIs(t, s.Validate(), ErrInvalidService)

	s = Service{Name: "Paid", Price: decimal.NullDecimal{Decimal: decimal.NewFromInt(-1), Valid: true}}
	assert.ErrorIs(t, s.Validate(), ErrInvalidService)

	s = Service{Name: "  "}
	assert.ErrorIs(t, s.Validate(), ErrInvalidService)
}
