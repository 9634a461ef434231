package handlers

import (
	"log"

	"github.com/dkmwangi/cabride-backend/internal/models"
	"github.com/dkmwangi/cabride-backend/internal/services"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CarInput struct {
	Model        string  `json:"model" binding:"required"`
	LicensePlate string  `json:"licensePlate" binding:"required"`
	Seats        int     `json:"seats"`
	Capacity     int     `json:"capacity"`
	PricePerKm   float64 `json:"pricePerKm" binding:"required"`
	Photo        string  `json:"photo"`
	Status       int     `json:"status"`
}

// storePhoto pushes a base64 photo through the storage service. If the
// payload is not decodable base64 the raw value is kept as-is.
func storePhoto(photo string) string {
	if photo == "" {
		return ""
	}
	url, err := services.StoreCarPhoto(photo)
	if err != nil {
		log.Printf("Storing car photo inline, upload failed: %v", err)
		return photo
	}
	return url
}

// AddCar registers a new vehicle.
func AddCar(db *gorm.DB, hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CarInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		car := models.Car{
			Model:        input.Model,
			LicensePlate: input.LicensePlate,
			Seats:        input.Seats,
			Capacity:     input.Capacity,
			PricePerKm:   input.PricePerKm,
			Photo:        storePhoto(input.Photo),
			Status:       input.Status,
		}

		if err := db.Create(&car).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to add car"})
			return
		}

		hub.NotifyFleetChanged("car_added", &car)
		c.JSON(201, car)
	}
}

// GetAllCars lists the fleet.
func GetAllCars(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var cars []models.Car
		if err := db.Order("id").Find(&cars).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to fetch cars"})
			return
		}
		c.JSON(200, cars)
	}
}

// GetCar returns one vehicle, used by the views to enrich booking cards.
func GetCar(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		var car models.Car
		if err := db.First(&car, id).Error; err != nil {
			c.JSON(404, gin.H{"error": "Car not found"})
			return
		}
		c.JSON(200, car)
	}
}

// UpdateCar edits vehicle details. The photo is replaced only when a new one
// is supplied.
func UpdateCar(db *gorm.DB, hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		var car models.Car
		if err := db.First(&car, id).Error; err != nil {
			c.JSON(404, gin.H{"error": "Car not found"})
			return
		}

		var input CarInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		car.Model = input.Model
		car.LicensePlate = input.LicensePlate
		car.Seats = input.Seats
		car.Capacity = input.Capacity
		car.PricePerKm = input.PricePerKm
		car.Status = input.Status
		if input.Photo != "" && input.Photo != car.Photo {
			car.Photo = storePhoto(input.Photo)
		}

		if err := db.Save(&car).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to update car"})
			return
		}

		hub.NotifyFleetChanged("car_updated", &car)
		c.JSON(200, car)
	}
}

// DeleteCar removes a vehicle and its stored photo, best effort.
func DeleteCar(db *gorm.DB, hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		var car models.Car
		if err := db.First(&car, id).Error; err != nil {
			c.JSON(404, gin.H{"error": "Car not found"})
			return
		}

		if err := db.Delete(&car).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to delete car"})
			return
		}

		if err := services.DeleteCarPhoto(car.Photo); err != nil {
			log.Printf("Failed to delete photo for car %d: %v", car.ID, err)
		}

		hub.NotifyFleetChanged("car_removed", &car)
		c.JSON(200, gin.H{"message": "Car deleted successfully"})
	}
}
