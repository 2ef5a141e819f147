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
)

// UpdateIssueStatus advances an assigned issue one step along the status
// flow. Only the assigned staff member may advance, only to the single
// legal successor; Closed and Rejected admit no transition. Nothing is
// written unless the requested status matches the table exactly.
func UpdateIssueStatus(c *gin.Context) {
	idParam := c.Param("id")
	issueID, err := primitive.ObjectIDFromHex(idParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
		return
	}

	var input struct {
		NewStatus string `json:"newStatus" binding:"required"`
		ChangedBy string `json:"changedBy"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	staff, ok := currentUser(ctx, c)
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

	if err := issue.CanAdvanceBy(staff.Email); err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		return
	}

	next, hasNext := models.NextStatus(issue.Status)
	if !hasNext {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No transition allowed from status " + string(issue.Status)})
		return
	}
	if models.IssueStatus(input.NewStatus) != next {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Illegal transition from " + string(issue.Status) + " to " + input.NewStatus})
		return
	}

	_, err = issueCollection.UpdateOne(ctx, bson.M{"_id": issueID}, bson.M{
		"$set": bson.M{"status": next, "updatedAt": time.Now()},
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update status"})
		return
	}

	// The authenticated staff email goes into the audit trail, not the
	// client-provided changedBy string
	if err := appendTimeline(ctx, issueID, next, "Status changed to "+string(next), staff.Email); err != nil {
		log.Println("Error appending timeline entry:", err)
	}

	response := gin.H{
		"message": "Status change successful",
		"status":  next,
	}
	if following, ok := models.NextStatus(next); ok {
		response["nextStatus"] = following
	}

	c.JSON(http.StatusOK, response)
}
