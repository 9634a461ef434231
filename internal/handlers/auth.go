package handlers

import (
	"log"

	"github.com/dkmwangi/cabride-backend/internal/models"
	"github.com/dkmwangi/cabride-backend/internal/services"
	"github.com/dkmwangi/cabride-backend/pkg/utils"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterInput struct {
	Username    string `json:"username" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	PhoneNumber string `json:"phonenumber" binding:"required"`
	Password    string `json:"password" binding:"required,min=6"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func register(db *gorm.DB, c *gin.Context, role models.Role) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(500, gin.H{"error": "Failed to hash password"})
		return
	}

	user := models.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
		PhoneNumber:  input.PhoneNumber,
		UserRole:     role,
	}

	if result := db.Create(&user); result.Error != nil {
		c.JSON(500, gin.H{"error": "Failed to create user: " + result.Error.Error()})
		return
	}

	c.JSON(201, gin.H{
		"message": "User created successfully",
		"user":    user,
	})
}

// Register creates a customer account.
func Register(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		register(db, c, models.RoleCustomer)
	}
}

// StaffRegister creates a driver account. Only reachable from the admin
// screens in the original system; the trust model stays client-asserted.
func StaffRegister(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		register(db, c, models.RoleDriver)
	}
}

// Login checks credentials, opens a session and issues a token. The response
// carries userid and userrole; the client routes to the matching role view.
func Login(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input LoginInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var user models.User
		if result := db.Where("email = ?", input.Email).First(&user); result.Error != nil {
			c.JSON(401, gin.H{"error": "Invalid credentials"})
			return
		}

		if err := user.CheckPassword(input.Password); err != nil {
			c.JSON(401, gin.H{"error": "Invalid credentials"})
			return
		}

		token, err := utils.GenerateToken(&user)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to generate token"})
			return
		}

		if err := services.SetSession(c.Request.Context(), user.ID, user.UserRole); err != nil {
			// Session loss degrades the websocket flow only; login still works.
			log.Printf("Failed to store session for user %d: %v", user.ID, err)
		}

		c.JSON(200, gin.H{
			"userid":   user.ID,
			"userrole": user.UserRole,
			"username": user.Username,
			"token":    token,
		})
	}
}

// Logout clears the server-side session of the authenticated user.
func Logout() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")
		if err := services.ClearSession(c.Request.Context(), userID); err != nil {
			c.JSON(500, gin.H{"error": "Failed to clear session"})
			return
		}
		c.JSON(200, gin.H{"message": "Logged out"})
	}
}
