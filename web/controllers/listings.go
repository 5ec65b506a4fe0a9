package controllers

import (
	"net/http"

	"artstore/web/db"

	"github.com/gin-gonic/gin"
)

type listingInput struct {
	Title       string  `json:"title"`
	Artist      string  `json:"artist"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"imageUrl"`
	Active      *bool   `json:"active"`
}

func ListListings(c *gin.Context) {
	var listings []db.ArtListing
	err := db.DB.Where("active = ?", true).Order("created_at DESC").Find(&listings).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch listings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"listings": listings}})
}

func GetListing(c *gin.Context) {
	var listing db.ArtListing
	err := db.DB.Where("active = ?", true).First(&listing, c.Param("id")).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Listing not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"listing": listing}})
}

func CreateListing(c *gin.Context) {
	var body listingInput
	if err := c.BindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
		return
	}

	if body.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Title is required"})
		return
	}
	if body.Price < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Price must not be negative"})
		return
	}

	listing := db.ArtListing{
		Title:       body.Title,
		Artist:      body.Artist,
		Description: body.Description,
		Price:       body.Price,
		ImageURL:    body.ImageURL,
		Active:      true,
	}
	if body.Active != nil {
		listing.Active = *body.Active
	}

	if err := db.DB.Create(&listing).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to create listing"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"listing": listing}})
}

func UpdateListing(c *gin.Context) {
	var listing db.ArtListing
	if err := db.DB.First(&listing, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Listing not found"})
		return
	}

	var body listingInput
	if err := c.BindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
		return
	}

	if body.Price < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Price must not be negative"})
		return
	}

	if body.Title != "" {
		listing.Title = body.Title
	}
	if body.Artist != "" {
		listing.Artist = body.Artist
	}
	if body.Description != "" {
		listing.Description = body.Description
	}
	if body.Price > 0 {
		listing.Price = body.Price
	}
	if body.ImageURL != "" {
		listing.ImageURL = body.ImageURL
	}
	if body.Active != nil {
		listing.Active = *body.Active
	}

	if err := db.DB.Save(&listing).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to update listing"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"listing": listing}})
}

func DeleteListing(c *gin.Context) {
	result := db.DB.Delete(&db.ArtListing{}, c.Param("id"))
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to delete listing"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Listing not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
