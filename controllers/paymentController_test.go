package controllers

import (
	"net/url"
	"testing"
	"time"

	"civicfix-be/config"
	"civicfix-be/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func newTestRedis(t *testing.T) *miniredis.Miniredis {
	mr, err := miniredis.Run()
	assert.NoError(t, err)
	t.Cleanup(mr.Close)
	config.RedisClient = redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return mr
}

func TestBuildCheckoutURL(t *testing.T) {
	got := BuildCheckoutURL("https://pay.example.com/checkout", "abc123")

	u, err := url.Parse(got)
	assert.NoError(t, err)
	assert.Equal(t, "pay.example.com", u.Host)
	assert.Equal(t, "abc123", u.Query().Get("session_id"))
}

func TestBuildCheckoutURLKeepsExistingQuery(t *testing.T) {
	got := BuildCheckoutURL("https://pay.example.com/checkout?ref=app", "s1")

	u, err := url.Parse(got)
	assert.NoError(t, err)
	assert.Equal(t, "app", u.Query().Get("ref"))
	assert.Equal(t, "s1", u.Query().Get("session_id"))
}

func TestCheckoutSessionRedeemedAtMostOnce(t *testing.T) {
	newTestRedis(t)

	session := &models.CheckoutSession{
		ID:     "sess-1",
		Kind:   models.PaymentSubscription,
		Email:  "citizen@example.com",
		Amount: SubscriptionPrice,
	}
	assert.NoError(t, storeCheckoutSession(session))

	got, err := consumeCheckoutSession("sess-1")
	assert.NoError(t, err)
	assert.Equal(t, models.PaymentSubscription, got.Kind)
	assert.Equal(t, "citizen@example.com", got.Email)
	assert.Equal(t, SubscriptionPrice, got.Amount)

	// the first redemption deleted the session, so a replayed callback
	// must fail
	_, err = consumeCheckoutSession("sess-1")
	assert.ErrorIs(t, err, redis.Nil)
}

func TestCheckoutSessionUnknownID(t *testing.T) {
	newTestRedis(t)

	_, err := consumeCheckoutSession("never-stored")
	assert.ErrorIs(t, err, redis.Nil)
}

func TestCheckoutSessionExpires(t *testing.T) {
	mr := newTestRedis(t)

	session := &models.CheckoutSession{
		ID:      "sess-2",
		Kind:    models.PaymentBoostIssue,
		Email:   "citizen@example.com",
		IssueID: "64f000000000000000000001",
		Amount:  BoostPrice,
	}
	assert.NoError(t, storeCheckoutSession(session))

	mr.FastForward(checkoutTTL + time.Minute)

	_, err := consumeCheckoutSession("sess-2")
	assert.ErrorIs(t, err, redis.Nil)
}
