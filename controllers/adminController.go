package controllers

import (
	"context"
	"log"
	"net/http"
	"time"

	"civicfix-be/config"
	"civicfix-be/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AssignStaff attaches a staff member to a pending, unassigned issue
func AssignStaff(c *gin.Context) {
	idParam := c.Param("id")
	issueID, err := primitive.ObjectIDFromHex(idParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
		return
	}

	var input struct {
		StaffEmail string `json:"staffEmail" binding:"required,email"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	admin, ok := currentUser(ctx, c)
	if !ok {
		return
	}

	var staff models.User
	err = config.GetCollection("users").FindOne(ctx, bson.M{
		"email": input.StaffEmail,
		"role":  models.RoleStaff,
	}).Decode(&staff)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Staff member not found"})
		return
	}

	issueCollection := config.GetCollection("issues")

	var issue models.Issue
	err = issueCollection.FindOne(ctx, bson.M{"_id": issueID}).Decode(&issue)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve issue"})
		}
		return
	}

	if issue.Status != models.Pending {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only pending issues can be assigned"})
		return
	}
	if issue.AssignedStaffEmail != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Issue already has assigned staff"})
		return
	}

	_, err = issueCollection.UpdateOne(ctx, bson.M{"_id": issueID}, bson.M{
		"$set": bson.M{
			"assignedStaff":      staff.Name,
			"assignedStaffEmail": staff.Email,
			"updatedAt":          time.Now(),
		},
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to assign staff"})
		return
	}

	if err := appendTimeline(ctx, issueID, issue.Status, "Staff assigned: "+staff.Name, admin.Email); err != nil {
		log.Println("Error appending timeline entry:", err)
	}

	c.JSON(http.StatusOK, gin.H{
		"message":            "Staff assigned successfully",
		"assignedStaff":      staff.Name,
		"assignedStaffEmail": staff.Email,
	})
}

// RejectIssue moves a pending issue to the out-of-band terminal Rejected
// state. Rejected is distinct from Closed and is not reachable through
// the staff status flow.
func RejectIssue(c *gin.Context) {
	idParam := c.Param("id")
	issueID, err := primitive.ObjectIDFromHex(idParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	admin, ok := currentUser(ctx, c)
	if !ok {
		return
	}

	issueCollection := config.GetCollection("issues")

	var issue models.Issue
	err = issueCollection.FindOne(ctx, bson.M{"_id": issueID}).Decode(&issue)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Issue not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve issue"})
		}
		return
	}

	if issue.Status != models.Pending {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only pending issues can be rejected"})
		return
	}

	_, err = issueCollection.UpdateOne(ctx, bson.M{"_id": issueID}, bson.M{
		"$set": bson.M{"status": models.Rejected, "updatedAt": time.Now()},
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reject issue"})
		return
	}

	if err := appendTimeline(ctx, issueID, models.Rejected, "Issue rejected by admin", admin.Email); err != nil {
		log.Println("Error appending timeline entry:", err)
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Issue rejected successfully",
		"status":  models.Rejected,
	})
}

// GetPayments returns the full payment history, newest first. Admin only.
func GetPayments(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := config.GetCollection("payments").Find(ctx, bson.M{}, findOptions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve payments"})
		return
	}
	defer cursor.Close(ctx)

	var payments []models.Payment
	if err := cursor.All(ctx, &payments); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode payments"})
		return
	}
	if payments == nil {
		payments = []models.Payment{}
	}

	c.JSON(http.StatusOK, payments)
}
