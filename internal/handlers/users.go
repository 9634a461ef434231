package handlers

import (
	"github.com/dkmwangi/cabride-backend/internal/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetAllUsers lists every account; the admin screens filter by role locally.
func GetAllUsers(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var users []models.User
		if err := db.Order("id").Find(&users).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch users"})
			return
		}
		c.JSON(200, users)
	}
}

// GetStaff returns the driver pool used for assignment at booking creation.
func GetStaff(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var drivers []models.User
		if err := db.Where("user_role = ?", models.RoleDriver).Order("id").Find(&drivers).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch drivers"})
			return
		}
		c.JSON(200, drivers)
	}
}

// DeleteUser removes an account (driver or customer) by id.
func DeleteUser(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		var user models.User
		if err := db.First(&user, id).Error; err != nil {
			c.JSON(404, gin.H{"error": "User not found"})
			return
		}

		if err := db.Delete(&user).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to delete user"})
			return
		}

		c.JSON(200, gin.H{"message": "User deleted successfully"})
	}
}
