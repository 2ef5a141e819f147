package controllers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"civicfix-be/config"
	"civicfix-be/models"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	maxTitleLen       = 200
	maxDescriptionLen = 1000
	maxLocationLen    = 200
)

// issueEdit is the owner's partial edit form. Absent fields stay
// untouched; present fields must satisfy the same bounds ReportIssue
// enforces on creation.
type issueEdit struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Category    *string `json:"category,omitempty"`
	Location    *string `json:"location,omitempty"`
	Image       *string `json:"image,omitempty"`
}

func (e *issueEdit) validate() error {
	if e.Title != nil && (strings.TrimSpace(*e.Title) == "" || len(*e.Title) > maxTitleLen) {
		return errors.New("title must be between 1 and 200 characters")
	}
	if e.Description != nil && (strings.TrimSpace(*e.Description) == "" || len(*e.Description) > maxDescriptionLen) {
		return errors.New("description must be between 1 and 1000 characters")
	}
	if e.Category != nil && !models.ValidCategory(*e.Category) {
		return errors.New("invalid category")
	}
	if e.Location != nil && (strings.TrimSpace(*e.Location) == "" || len(*e.Location) > maxLocationLen) {
		return errors.New("location must be between 1 and 200 characters")
	}
	return nil
}

// issueWithNext decorates an issue with the single legal next status so
// the client renders exactly one transition choice, or none at all
type issueWithNext struct {
	models.Issue
	NextStatus models.IssueStatus `json:"nextStatus,omitempty"`
}

func withNext(issue models.Issue) issueWithNext {
	out := issueWithNext{Issue: issue}
	if next, ok := models.NextStatus(issue.Status); ok {
		out.NextStatus = next
	}
	return out
}

// currentUser loads the authenticated user's record
func currentUser(ctx context.Context, c *gin.Context) (*models.User, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return nil, false
	}

	objectID, err := primitive.ObjectIDFromHex(userID.(string))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return nil, false
	}

	var user models.User
	err = config.GetCollection("users").FindOne(ctx, bson.M{"_id": objectID}).Decode(&user)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return nil, false
	}
	return &user, true
}

// appendTimeline writes an immutable audit entry for an issue
func appendTimeline(ctx context.Context, issueID primitive.ObjectID, status models.IssueStatus, message, updatedBy string) error {
	entry := models.TimelineEntry{
		ID:        primitive.NewObjectID(),
		Issue:     issueID,
		Status:    status,
		Message:   message,
		UpdatedBy: updatedBy,
		CreatedAt: time.Now(),
	}
	_, err := config.GetCollection("timeline").InsertOne(ctx, entry)
	return err
}

// ReportIssue handles the citizen report form submission. Status and boost
// flag are forced server-side regardless of what the client sends.
func ReportIssue(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, ok := currentUser(ctx, c)
	if !ok {
		return
	}

	if err := user.CanReport(); err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		return
	}

	var input struct {
		Title       string `json:"title" binding:"required,max=200"`
		Description string `json:"description" binding:"required,max=1000"`
		Category    string `json:"category" binding:"required"`
		Location    string `json:"location" binding:"required,max=200"`
		Image       string `json:"image"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !models.ValidCategory(input.Category) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category"})
		return
	}

	issue := models.Issue{
		ID:          primitive.NewObjectID(),
		Title:       input.Title,
		Description: input.Description,
		Category:    models.IssueCategory(input.Category),
		Location:    input.Location,
		Image:       input.Image,
		IssueBy:     user.Email,
		Status:      models.Pending,
		IsBoosted:   false,
		UpVotes:     0,
		UpVotedBy:   []string{},
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if _, err := config.GetCollection("issues").InsertOne(ctx, issue); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create issue"})
		return
	}

	if _, err := config.GetCollection("users").UpdateOne(ctx,
		bson.M{"_id": user.ID},
		bson.M{"$inc": bson.M{"totalIssues": 1}},
	); err != nil {
		log.Println("Error incrementing totalIssues for", user.Email, ":", err)
	}

	if err := appendTimeline(ctx, issue.ID, models.Pending, "Issue reported", user.Email); err != nil {
		log.Println("Error appending timeline entry:", err)
	}

	c.JSON(http.StatusCreated, issue)
}

// GetAllIssues handles the filtered, paginated issue listing used by the
// public list, the citizen's my-issues page and the staff assigned page.
// Boosted issues always sort ahead of the rest.
func GetAllIssues(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	search := c.Query("search")
	category := c.Query("category")
	status := c.Query("status")
	priority := c.Query("priority")
	email := c.Query("email")
	assignedStaffEmail := c.Query("assignedStaffEmail")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}

	filter := bson.M{}

	if category != "" && category != "All" && category != "all" {
		filter["category"] = category
	}
	if status != "" && status != "All" && status != "all" {
		filter["status"] = status
	}
	switch priority {
	case "High":
		filter["isBoosted"] = true
	case "Normal":
		filter["isBoosted"] = false
	}
	if email != "" {
		filter["issueBy"] = email
	}
	if assignedStaffEmail != "" {
		filter["assignedStaffEmail"] = assignedStaffEmail
	}
	if search != "" {
		filter["$or"] = []bson.M{
			{"title": bson.M{"$regex": search, "$options": "i"}},
			{"description": bson.M{"$regex": search, "$options": "i"}},
		}
	}

	issueCollection := config.GetCollection("issues")

	totalCount, err := issueCollection.CountDocuments(ctx, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count issues"})
		return
	}

	skip := (page - 1) * limit
	findOptions := options.Find().
		SetSort(bson.D{{Key: "isBoosted", Value: -1}, {Key: "createdAt", Value: -1}}).
		SetSkip(int64(skip)).
		SetLimit(int64(limit))

	cursor, err := issueCollection.Find(ctx, filter, findOptions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve issues"})
		return
	}
	defer cursor.Close(ctx)

	var issues []models.Issue
	if err := cursor.All(ctx, &issues); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode issues"})
		return
	}

	decorated := make([]issueWithNext, 0, len(issues))
	for _, issue := range issues {
		decorated = append(decorated, withNext(issue))
	}

	totalPages := int((totalCount + int64(limit) - 1) / int64(limit))

	c.JSON(http.StatusOK, gin.H{
		"issues":      decorated,
		"totalIssues": totalCount,
		"totalPages":  totalPages,
		"currentPage": page,
	})
}

// GetIssue retrieves an issue with its timeline, ordered by creation time
func GetIssue(c *gin.Context) {
	idParam := c.Param("id")
	issueID, err := primitive.ObjectIDFromHex(idParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

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

	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := config.GetCollection("timeline").Find(ctx, bson.M{"issue": issueID}, findOptions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve timeline"})
		return
	}
	defer cursor.Close(ctx)

	var timeline []models.TimelineEntry
	if err := cursor.All(ctx, &timeline); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode timeline"})
		return
	}
	if timeline == nil {
		timeline = []models.TimelineEntry{}
	}

	response := gin.H{
		"result":   issue,
		"timeLine": timeline,
	}
	if next, ok := models.NextStatus(issue.Status); ok {
		response["nextStatus"] = next
	}

	c.JSON(http.StatusOK, response)
}

// UpdateIssue allows the owner to edit an issue while it is still pending
func UpdateIssue(c *gin.Context) {
	idParam := c.Param("id")
	issueID, err := primitive.ObjectIDFromHex(idParam)
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

	var input issueEdit

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := input.validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
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

	if err := issue.CanEditBy(user.Email); err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		return
	}

	update := bson.M{"updatedAt": time.Now()}
	if input.Title != nil {
		update["title"] = *input.Title
	}
	if input.Description != nil {
		update["description"] = *input.Description
	}
	if input.Category != nil {
		update["category"] = *input.Category
	}
	if input.Location != nil {
		update["location"] = *input.Location
	}
	if input.Image != nil {
		update["image"] = *input.Image
	}

	_, err = issueCollection.UpdateOne(ctx, bson.M{"_id": issueID}, bson.M{"$set": update})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update issue"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Issue updated successfully"})
}

// DeleteIssue allows the owner (any status) or an admin to delete an issue
// along with its timeline
func DeleteIssue(c *gin.Context) {
	idParam := c.Param("id")
	issueID, err := primitive.ObjectIDFromHex(idParam)
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

	if user.Role != models.RoleAdmin {
		if err := issue.CanDeleteBy(user.Email); err != nil {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}
	}

	if _, err := issueCollection.DeleteOne(ctx, bson.M{"_id": issueID}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete issue"})
		return
	}

	if _, err := config.GetCollection("timeline").DeleteMany(ctx, bson.M{"issue": issueID}); err != nil {
		log.Println("Error deleting timeline entries:", err)
	}

	c.JSON(http.StatusOK, gin.H{"message": "Issue deleted successfully"})
}

// UpvoteIssue registers one upvote per user per issue. The blocked check
// runs first, then ownership and the already-voted set; $addToSet keeps
// the set duplicate-free even if a stale client slips past the array check.
func UpvoteIssue(c *gin.Context) {
	idParam := c.Param("id")
	issueID, err := primitive.ObjectIDFromHex(idParam)
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
		c.JSON(http.StatusForbidden, gin.H{"message": "You are blocked and cannot upvote"})
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

	if err := issue.CanUpvoteBy(user.Email); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	result, err := issueCollection.UpdateOne(ctx,
		bson.M{"_id": issueID, "upVotedBy": bson.M{"$ne": user.Email}},
		bson.M{
			"$inc":      bson.M{"upVotes": 1},
			"$addToSet": bson.M{"upVotedBy": user.Email},
		},
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to upvote issue"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": models.ErrAlreadyUpvoted.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Upvoted successfully",
		"upVotes": issue.UpVotes + 1,
	})
}

// LatestResolvedIssues returns the most recently completed issues for the
// home page
func LatestResolvedIssues(c *gin.Context) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{"status": bson.M{"$in": []models.IssueStatus{models.Resolved, models.Closed}}}
	findOptions := options.Find().
		SetSort(bson.D{{Key: "updatedAt", Value: -1}}).
		SetLimit(6)

	cursor, err := config.GetCollection("issues").Find(ctx, filter, findOptions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve issues"})
		return
	}
	defer cursor.Close(ctx)

	var issues []models.Issue
	if err := cursor.All(ctx, &issues); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode issues"})
		return
	}
	if issues == nil {
		issues = []models.Issue{}
	}

	c.JSON(http.StatusOK, issues)
}
