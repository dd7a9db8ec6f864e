package enums

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDate(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", value)
	require.NoError(t, err)
	return parsed
}

func TestParseDeliveryMethod(t *testing.T) {
	method, err := ParseDeliveryMethod("delivery")
	require.NoError(t, err)
	assert.Equal(t, DeliveryMethodDelivery, method)

	_, err = ParseDeliveryMethod("courier")
	assert.Error(t, err)
}

func TestPaymentMethodRequiresProcessor(t *testing.T) {
	assert.False(t, PaymentMethodCash.RequiresProcessor())
	assert.True(t, PaymentMethodCard.RequiresProcessor())
	assert.True(t, PaymentMethodOnline.RequiresProcessor())
}

func TestParseSubscriptionStatus(t *testing.T) {
	status, err := ParseSubscriptionStatus("paused")
	require.NoError(t, err)
	assert.Equal(t, SubscriptionStatusPaused, status)

	_, err = ParseSubscriptionStatus("expired")
	assert.Error(t, err)
}

func TestParseUserRole(t *testing.T) {
	role, err := ParseUserRole("business_owner")
	require.NoError(t, err)
	assert.Equal(t, UserRoleBusinessOwner, role)
	assert.True(t, role.IsValid())

	_, err = ParseUserRole("admin")
	assert.Error(t, err)
}

func TestParseProductCategory(t *testing.T) {
	category, err := ParseProductCategory("green")
	require.NoError(t, err)
	assert.Equal(t, ProductCategoryGreen, category)

	_, err = ParseProductCategory("soda")
	assert.Error(t, err)
}
