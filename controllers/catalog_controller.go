package controllers

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"travel-pricing-backend/config"
	"travel-pricing-backend/models"

	"github.com/gin-gonic/gin"
)

// Catalog endpoints: the inventory the pricing engine prices against.
// CRUD only, no pricing logic here.

// ----------------------------------------------------
// Hotels
// ----------------------------------------------------

func GetHotels(c *gin.Context) {
	var hotels []models.Hotel
	config.DB.Find(&hotels)
	c.JSON(http.StatusOK, hotels)
}

func CreateHotel(c *gin.Context) {
	var hotel models.Hotel
	if err := c.ShouldBindJSON(&hotel); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request payload",
			"details": err.Error(),
		})
		return
	}
	hotel.Name = strings.TrimSpace(hotel.Name)
	if hotel.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Hotel name is required."})
		return
	}
	if hotel.Currency == "" {
		hotel.Currency = "THB"
	}
	if len(hotel.Currency) != 3 {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Currency must be a 3-letter code."})
		return
	}
	hotel.Currency = strings.ToUpper(hotel.Currency)

	if err := config.DB.Create(&hotel).Error; err != nil {
		log.Printf("create hotel: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Database error"})
		return
	}
	c.JSON(http.StatusCreated, hotel)
}

// GET /api/hotels/:id/rooms
func GetHotelRooms(c *gin.Context) {
	id := c.Param("id")
	var rooms []models.Room
	if err := config.DB.Where("hotel_id = ?", id).Order("room_number ASC").Find(&rooms).Error; err != nil {
		log.Printf("list hotel rooms: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Database error"})
		return
	}
	c.JSON(http.StatusOK, rooms)
}

// ----------------------------------------------------
// Rooms
// ----------------------------------------------------

func CreateRoom(c *gin.Context) {
	var room models.Room
	if err := c.ShouldBindJSON(&room); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request payload",
			"details": err.Error(),
		})
		return
	}

	room.RoomNumber = strings.TrimSpace(room.RoomNumber)
	if room.RoomNumber == "" {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Room Number is required."})
		return
	}
	if room.BasePrice <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Base price must be positive."})
		return
	}

	var hotel models.Hotel
	if err := config.DB.First(&hotel, room.HotelID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid hotel_id provided."})
		return
	}

	if result := config.DB.Create(&room); result.Error != nil {
		if strings.Contains(result.Error.Error(), "Duplicate entry") || strings.Contains(result.Error.Error(), "UNIQUE constraint failed") {
			c.JSON(http.StatusConflict, gin.H{
				"status":  "error",
				"message": fmt.Sprintf("Room Number '%s' already exists.", room.RoomNumber),
			})
			return
		}
		log.Printf("create room: %v", result.Error)
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Database error"})
		return
	}
	c.JSON(http.StatusCreated, room)
}

func UpdateRoom(c *gin.Context) {
	id := c.Param("id")
	var updateData map[string]interface{}
	if err := c.ShouldBindJSON(&updateData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request payload",
			"details": err.Error(),
		})
		return
	}

	delete(updateData, "id")
	delete(updateData, "created_at")
	delete(updateData, "updated_at")
	delete(updateData, "deleted_at")

	if err := config.DB.Model(&models.Room{}).Where("id = ?", id).Updates(updateData).Error; err != nil {
		log.Printf("update room %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Update failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Room updated successfully"})
}

func DeleteRoom(c *gin.Context) {
	id := c.Param("id")
	result := config.DB.Where("id = ?", id).Delete(&models.Room{})
	if result.Error != nil {
		log.Printf("delete room %s: %v", id, result.Error)
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Failed to delete room."})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"status":  "error",
			"message": fmt.Sprintf("Room with ID %s not found.", id),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Room deleted successfully"})
}

// ----------------------------------------------------
// Transport services / routes
// ----------------------------------------------------

func GetTransportServices(c *gin.Context) {
	var services []models.TransportService
	config.DB.Preload("Routes").Find(&services)
	c.JSON(http.StatusOK, services)
}

func CreateTransportService(c *gin.Context) {
	var svc models.TransportService
	if err := c.ShouldBindJSON(&svc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request payload",
			"details": err.Error(),
		})
		return
	}
	svc.Name = strings.TrimSpace(svc.Name)
	if svc.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Service name is required."})
		return
	}
	if svc.Currency == "" {
		svc.Currency = "THB"
	}
	svc.Currency = strings.ToUpper(svc.Currency)

	if err := config.DB.Create(&svc).Error; err != nil {
		log.Printf("create transport service: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Database error"})
		return
	}
	c.JSON(http.StatusCreated, svc)
}

func CreateTransportRoute(c *gin.Context) {
	var route models.TransportRoute
	if err := c.ShouldBindJSON(&route); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": "Invalid request payload",
			"details": err.Error(),
		})
		return
	}
	route.Origin = strings.TrimSpace(route.Origin)
	route.Destination = strings.TrimSpace(route.Destination)
	if route.Origin == "" || route.Destination == "" {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Origin and destination are required."})
		return
	}
	if route.AdultPrice <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Adult price must be positive."})
		return
	}

	var svc models.TransportService
	if err := config.DB.First(&svc, route.ServiceID).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "Invalid service_id provided."})
		return
	}

	if err := config.DB.Create(&route).Error; err != nil {
		log.Printf("create transport route: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": "Database error"})
		return
	}
	c.JSON(http.StatusCreated, route)
}
