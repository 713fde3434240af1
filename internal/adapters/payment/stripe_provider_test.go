package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76"
)

func TestNewStripeProviderRequiresKey(t *testing.T) {
	_, err := NewStripeProvider("")
	assert.Error(t, err)

	p, err := NewStripeProvider("sk_test_123")
	require.NoError(t, err)
	assert.NotNil(t, p.api)
}

func TestToCheckoutSession(t *testing.T) {
	paid := toCheckoutSession(&stripe.CheckoutSession{
		ID:            "cs_1",
		URL:           "https://checkout.stripe.com/c/pay/cs_1",
		PaymentStatus: stripe.CheckoutSessionPaymentStatusPaid,
		AmountTotal:   2550,
		Currency:      stripe.CurrencyUSD,
		PaymentIntent: &stripe.PaymentIntent{ID: "pi_1"},
		CustomerDetails: &stripe.CheckoutSessionCustomerDetails{
			Email: "giver@example.com",
		},
		Metadata: map[string]string{"paymentType": "funding"},
	})

	assert.True(t, paid.Paid)
	assert.Equal(t, "pi_1", paid.TransactionID)
	assert.Equal(t, int64(2550), paid.AmountTotal)
	assert.Equal(t, "usd", paid.Currency)
	assert.Equal(t, "giver@example.com", paid.CustomerEmail)
	assert.Equal(t, "funding", paid.Metadata["paymentType"])

	open := toCheckoutSession(&stripe.CheckoutSession{
		ID:            "cs_2",
		PaymentStatus: stripe.CheckoutSessionPaymentStatusUnpaid,
	})
	assert.False(t, open.Paid)
	assert.Empty(t, open.TransactionID)
	assert.NotNil(t, open.Metadata)
}
