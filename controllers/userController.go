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

// GetUsers retrieves users filtered by email and/or role. When an email
// filter is present the response also carries that user's boost payments,
// which the profile view renders as invoices.
func GetUsers(c *gin.Context) {
	email := c.Query("email")
	role := c.Query("role")

	// Non-admins may only look up their own record; the unfiltered and
	// role-filtered listings would enumerate the user base
	callerRole, _ := c.Get("user_role")
	isAdmin := callerRole == string(models.RoleAdmin)
	if !isAdmin && email == "" {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	filter := bson.M{}
	if email != "" {
		filter["email"] = email
	}
	if role != "" {
		if !models.ValidRole(role) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role"})
			return
		}
		filter["role"] = role
	}

	userCollection := config.GetCollection("users")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if !isAdmin {
		caller, ok := currentUser(ctx, c)
		if !ok {
			return
		}
		if caller.Email != email {
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
			return
		}
	}

	cursor, err := userCollection.Find(ctx, filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve users"})
		return
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode users"})
		return
	}
	if users == nil {
		users = []models.User{}
	}

	response := gin.H{"result": users}

	if email != "" {
		paymentCollection := config.GetCollection("payments")
		payCursor, err := paymentCollection.Find(ctx, bson.M{
			"email":       email,
			"paymentType": models.PaymentBoostIssue,
		})
		if err == nil {
			defer payCursor.Close(ctx)
			var boosted []models.Payment
			if err := payCursor.All(ctx, &boosted); err == nil {
				response["boosted"] = boosted
			}
		}
	}

	c.JSON(http.StatusOK, response)
}

// UpdateUser lets a user edit their own profile, or an admin edit anyone's
func UpdateUser(c *gin.Context) {
	idParam := c.Param("id")
	targetID, err := primitive.ObjectIDFromHex(idParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	callerID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	callerRole, _ := c.Get("user_role")

	if callerID.(string) != idParam && callerRole != string(models.RoleAdmin) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not authorized to update this user"})
		return
	}

	var input struct {
		Name  *string `json:"name,omitempty"`
		Image *string `json:"image,omitempty"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	update := bson.M{"updatedAt": time.Now()}
	if input.Name != nil {
		update["name"] = *input.Name
	}
	if input.Image != nil {
		update["image"] = *input.Image
	}

	userCollection := config.GetCollection("users")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := userCollection.UpdateOne(ctx, bson.M{"_id": targetID}, bson.M{"$set": update})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		return
	}
	if result.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully"})
}

// ToggleBlockUser flips a user's blocked state. Admin only.
func ToggleBlockUser(c *gin.Context) {
	idParam := c.Param("id")
	targetID, err := primitive.ObjectIDFromHex(idParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	userCollection := config.GetCollection("users")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	err = userCollection.FindOne(ctx, bson.M{"_id": targetID}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve user"})
		}
		return
	}

	newBlocked := !user.IsBlocked
	_, err = userCollection.UpdateOne(ctx, bson.M{"_id": targetID}, bson.M{
		"$set": bson.M{"isBlocked": newBlocked, "updatedAt": time.Now()},
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		return
	}

	message := "User blocked successfully"
	if !newBlocked {
		message = "User unblocked successfully"
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   message,
		"isBlocked": newBlocked,
	})
}

// CreateStaff registers a staff account. Admin only.
func CreateStaff(c *gin.Context) {
	var input struct {
		Name     string `json:"name" binding:"required,max=50"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
		Image    string `json:"image"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userCollection := config.GetCollection("users")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	count, err := userCollection.CountDocuments(ctx, bson.M{"email": input.Email})
	if err != nil {
		log.Println("Error checking existing user:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "User with this email already exists"})
		return
	}

	staff := models.User{
		Name:      input.Name,
		Email:     input.Email,
		Password:  input.Password,
		Image:     input.Image,
		Role:      models.RoleStaff,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := staff.HashPassword(); err != nil {
		log.Println("Error hashing password:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}

	result, err := userCollection.InsertOne(ctx, staff)
	if err != nil {
		log.Println("Error inserting staff:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":    result.InsertedID,
		"name":  staff.Name,
		"email": staff.Email,
		"role":  staff.Role,
	})
}

// DeleteStaff removes a staff account. Admin only; citizen and admin
// accounts are never deleted through this path.
func DeleteStaff(c *gin.Context) {
	idParam := c.Param("id")
	targetID, err := primitive.ObjectIDFromHex(idParam)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	userCollection := config.GetCollection("users")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := userCollection.DeleteOne(ctx, bson.M{
		"_id":  targetID,
		"role": models.RoleStaff,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete staff"})
		return
	}
	if result.DeletedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Staff not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Staff deleted successfully"})
}
