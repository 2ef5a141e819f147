package controllers

import (
	"context"
	"net/http"
	"time"

	"civicfix-be/config"
	"civicfix-be/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetDashboardStats returns aggregates shaped by the caller's role: admins
// see the whole system, staff their assigned workload, citizens their own
// reporting activity and quota.
func GetDashboardStats(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, ok := currentUser(ctx, c)
	if !ok {
		return
	}

	switch user.Role {
	case models.RoleAdmin:
		adminStats(ctx, c)
	case models.RoleStaff:
		staffStats(ctx, c, user.Email)
	default:
		citizenStats(ctx, c, user)
	}
}

func adminStats(ctx context.Context, c *gin.Context) {
	issueCollection := config.GetCollection("issues")

	// Issues grouped by category
	categoryPipeline := []bson.M{
		{"$group": bson.M{"_id": "$category", "count": bson.M{"$sum": 1}}},
		{"$project": bson.M{"name": "$_id", "value": "$count", "_id": 0}},
	}

	categoryCursor, err := issueCollection.Aggregate(ctx, categoryPipeline)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get category stats"})
		return
	}
	defer categoryCursor.Close(ctx)

	var issuesByCategory []bson.M
	if err := categoryCursor.All(ctx, &issuesByCategory); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode category stats"})
		return
	}

	// Issues grouped by status
	statusPipeline := []bson.M{
		{"$group": bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}},
		{"$project": bson.M{"name": "$_id", "value": "$count", "_id": 0}},
	}

	statusCursor, err := issueCollection.Aggregate(ctx, statusPipeline)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get status stats"})
		return
	}
	defer statusCursor.Close(ctx)

	var issuesByStatus []bson.M
	if err := statusCursor.All(ctx, &issuesByStatus); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode status stats"})
		return
	}

	// Reported counts per day for the last 7 days
	var last7Days []gin.H
	for i := 6; i >= 0; i-- {
		date := time.Now().AddDate(0, 0, -i)
		date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
		nextDate := date.AddDate(0, 0, 1)

		count, err := issueCollection.CountDocuments(ctx, bson.M{
			"createdAt": bson.M{"$gte": date, "$lt": nextDate},
		})
		if err != nil {
			count = 0
		}

		last7Days = append(last7Days, gin.H{
			"date":  date.Format("2006-01-02"),
			"count": count,
		})
	}

	// Top voted issues
	findOptions := options.Find().
		SetSort(bson.D{{Key: "upVotes", Value: -1}}).
		SetLimit(5)

	cursor, err := issueCollection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve top issues"})
		return
	}
	defer cursor.Close(ctx)

	var topVotedIssues []models.Issue
	if err := cursor.All(ctx, &topVotedIssues); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode top issues"})
		return
	}

	totalIssues, err := issueCollection.CountDocuments(ctx, bson.M{})
	if err != nil {
		totalIssues = 0
	}

	totalUsers, err := config.GetCollection("users").CountDocuments(ctx, bson.M{"role": models.RoleCitizen})
	if err != nil {
		totalUsers = 0
	}

	openIssues, err := issueCollection.CountDocuments(ctx, bson.M{
		"status": bson.M{"$in": []models.IssueStatus{models.Pending, models.InProgress, models.Working}},
	})
	if err != nil {
		openIssues = 0
	}

	// Payment totals grouped by type
	paymentPipeline := []bson.M{
		{"$group": bson.M{"_id": "$paymentType", "total": bson.M{"$sum": "$amount"}, "count": bson.M{"$sum": 1}}},
		{"$project": bson.M{"paymentType": "$_id", "total": 1, "count": 1, "_id": 0}},
	}

	paymentCursor, err := config.GetCollection("payments").Aggregate(ctx, paymentPipeline)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get payment stats"})
		return
	}
	defer paymentCursor.Close(ctx)

	var paymentTotals []bson.M
	if err := paymentCursor.All(ctx, &paymentTotals); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode payment stats"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"issuesByCategory": issuesByCategory,
		"issuesByStatus":   issuesByStatus,
		"last7Days":        last7Days,
		"topVotedIssues":   topVotedIssues,
		"totalIssues":      totalIssues,
		"totalUsers":       totalUsers,
		"openIssues":       openIssues,
		"paymentTotals":    paymentTotals,
	})
}

func staffStats(ctx context.Context, c *gin.Context, staffEmail string) {
	issueCollection := config.GetCollection("issues")

	byStatus := gin.H{}
	for _, status := range []models.IssueStatus{
		models.Pending, models.InProgress, models.Working, models.Resolved, models.Closed, models.Rejected,
	} {
		count, err := issueCollection.CountDocuments(ctx, bson.M{
			"assignedStaffEmail": staffEmail,
			"status":             status,
		})
		if err != nil {
			count = 0
		}
		byStatus[string(status)] = count
	}

	totalAssigned, err := issueCollection.CountDocuments(ctx, bson.M{"assignedStaffEmail": staffEmail})
	if err != nil {
		totalAssigned = 0
	}

	c.JSON(http.StatusOK, gin.H{
		"totalAssigned":    totalAssigned,
		"assignedByStatus": byStatus,
	})
}

func citizenStats(ctx context.Context, c *gin.Context, user *models.User) {
	issueCollection := config.GetCollection("issues")

	resolved, err := issueCollection.CountDocuments(ctx, bson.M{
		"issueBy": user.Email,
		"status":  bson.M{"$in": []models.IssueStatus{models.Resolved, models.Closed}},
	})
	if err != nil {
		resolved = 0
	}

	boosted, err := issueCollection.CountDocuments(ctx, bson.M{
		"issueBy":   user.Email,
		"isBoosted": true,
	})
	if err != nil {
		boosted = 0
	}

	remaining := 0
	if !user.IsPremium && user.MaxFreeIssues > user.TotalIssues {
		remaining = user.MaxFreeIssues - user.TotalIssues
	}

	c.JSON(http.StatusOK, gin.H{
		"totalIssues":    user.TotalIssues,
		"resolvedIssues": resolved,
		"boostedIssues":  boosted,
		"isPremium":      user.IsPremium,
		"maxFreeIssues":  user.MaxFreeIssues,
		"quotaRemaining": remaining,
	})
}
