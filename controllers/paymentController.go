package controllers

import (
	"context"
	"net/http"
	"net/url"
	"os"
	"time"

	"civicfix-be/config"
	"civicfix-be/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	SubscriptionPrice = 1000
	BoostPrice        = 500

	checkoutKeyPrefix = "checkout:"
	checkoutTTL       = 30 * time.Minute
)

// BuildCheckoutURL composes the external checkout redirect for a session
func BuildCheckoutURL(baseURL, sessionID string) string {
	u, err := url.Parse(baseURL)
	if err != nil {
		return baseURL + "?session_id=" + sessionID
	}
	q := u.Query()
	q.Set("session_id", sessionID)
	u.RawQuery = q.Encode()
	return u.String()
}

func storeCheckoutSession(session *models.CheckoutSession) error {
	payload, err := session.Marshal()
	if err != nil {
		return err
	}
	return config.RedisClient.Set(config.Ctx, checkoutKeyPrefix+session.ID, payload, checkoutTTL).Err()
}

// consumeCheckoutSession redeems a session. GETDEL fetches and deletes in
// one command, so concurrent callbacks with the same session id cannot
// both succeed; the loser sees redis.Nil.
func consumeCheckoutSession(sessionID string) (*models.CheckoutSession, error) {
	payload, err := config.RedisClient.GetDel(config.Ctx, checkoutKeyPrefix+sessionID).Result()
	if err != nil {
		return nil, err
	}
	return models.UnmarshalCheckoutSession(payload)
}

// CreateCheckoutSession starts a premium subscription checkout. Blocked
// and already-premium users are refused before any session exists.
func CreateCheckoutSession(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, ok := currentUser(ctx, c)
	if !ok {
		return
	}

	if user.IsBlocked {
		c.JSON(http.StatusForbidden, gin.H{"message": "Blocked users cannot subscribe"})
		return
	}
	if user.IsPremium {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Already a premium subscriber"})
		return
	}

	session := &models.CheckoutSession{
		ID:     primitive.NewObjectID().Hex(),
		Kind:   models.PaymentSubscription,
		Email:  user.Email,
		Amount: SubscriptionPrice,
	}

	if err := storeCheckoutSession(session); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create checkout session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"url": BuildCheckoutURL(os.Getenv("CHECKOUT_BASE_URL"), session.ID),
	})
}

// CreateBoostCheckoutSession starts a boost checkout for one issue.
// Boosting is one-way: an already-boosted issue never gets a session, and
// blocked users are refused before anything is created.
func CreateBoostCheckoutSession(c *gin.Context) {
	var input struct {
		IssueID string `json:"issueId" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	issueID, err := primitive.ObjectIDFromHex(input.IssueID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, ok := currentUser(ctx, c)
	if !ok {
		return
	}

	if user.IsBlocked {
		c.JSON(http.StatusForbidden, gin.H{"message": "Blocked users cannot boost issues"})
		return
	}

	var issue models.Issue
	err = config.GetCollection("issues").FindOne(ctx, bson.M{"_id": issueID}).Decode(&issue)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve issue"})
		}
		return
	}

	if err := issue.CanBoost(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	session := &models.CheckoutSession{
		ID:      primitive.NewObjectID().Hex(),
		Kind:    models.PaymentBoostIssue,
		Email:   user.Email,
		IssueID: issue.ID.Hex(),
		Amount:  BoostPrice,
	}

	if err := storeCheckoutSession(session); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create checkout session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"url": BuildCheckoutURL(os.Getenv("CHECKOUT_BASE_URL"), session.ID),
	})
}

// PaymentSuccess confirms a subscription checkout: the user becomes
// premium and the payment is recorded, exactly once per session
func PaymentSuccess(c *gin.Context) {
	var input struct {
		SessionID string `json:"sessionId" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := consumeCheckoutSession(input.SessionID)
	if err != nil || session.Kind != models.PaymentSubscription {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired checkout session"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err = config.GetCollection("users").UpdateOne(ctx,
		bson.M{"email": session.Email},
		bson.M{"$set": bson.M{"isPremium": true, "updatedAt": time.Now()}},
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to activate subscription"})
		return
	}

	payment := models.Payment{
		ID:          primitive.NewObjectID(),
		PaymentType: models.PaymentSubscription,
		Amount:      session.Amount,
		Email:       session.Email,
		CreatedAt:   time.Now(),
	}
	if _, err := config.GetCollection("payments").InsertOne(ctx, payment); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record payment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Subscription activated"})
}

// BoostPaymentSuccess confirms a boost checkout: the one-way isBoosted
// flag flips only here, never optimistically anywhere else
func BoostPaymentSuccess(c *gin.Context) {
	var input struct {
		SessionID string `json:"sessionId" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := consumeCheckoutSession(input.SessionID)
	if err != nil || session.Kind != models.PaymentBoostIssue {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired checkout session"})
		return
	}

	issueID, err := primitive.ObjectIDFromHex(session.IssueID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID in session"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err = config.GetCollection("issues").UpdateOne(ctx,
		bson.M{"_id": issueID},
		bson.M{"$set": bson.M{"isBoosted": true, "updatedAt": time.Now()}},
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to boost issue"})
		return
	}

	payment := models.Payment{
		ID:             primitive.NewObjectID(),
		PaymentType:    models.PaymentBoostIssue,
		Amount:         session.Amount,
		Email:          session.Email,
		IssueBoostedBy: session.Email,
		Issue:          issueID,
		CreatedAt:      time.Now(),
	}
	if _, err := config.GetCollection("payments").InsertOne(ctx, payment); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record payment"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Issue boosted successfully"})
}
