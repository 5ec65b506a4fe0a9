package controllers

import (
	"log"
	"net/http"

	"artstore/web/db"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm/clause"
)

var validRateSources = map[string]bool{
	"manual":       true,
	"api":          true,
	"bank":         true,
	"central_bank": true,
}

const maxExchangeRate = 10000

// GetExchangeRate returns the active USD→KES rate, or the documented
// default when no row exists yet.
func GetExchangeRate(c *gin.Context) {
	var row db.ExchangeRate
	err := db.DB.Where("currency = ? AND is_active = ?", db.USDKESPair, true).First(&row).Error
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{
			"rate":        db.DefaultUSDKESRate,
			"source":      "default",
			"lastUpdated": nil,
		}})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{
		"id":          row.ID,
		"rate":        row.Rate,
		"source":      row.Source,
		"lastUpdated": row.UpdatedAt,
		"currency":    row.Currency,
	}})
}

// UpdateExchangeRate upserts the single active rate row for the pair.
// The unique index on currency makes the at-most-one-active invariant a
// constraint rather than a convention. Admin only.
func UpdateExchangeRate(c *gin.Context) {
	user, ok := c.Get("user")
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Unauthorized"})
		return
	}
	userinfo := user.(db.User)

	var body struct {
		Rate   float64 `json:"rate"`
		Source string  `json:"source"`
	}
	if err := c.BindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
		return
	}

	if body.Rate <= 0 || body.Rate > maxExchangeRate {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Valid exchange rate is required"})
		return
	}

	source := body.Source
	if !validRateSources[source] {
		source = "manual"
	}

	row := db.ExchangeRate{
		Currency:  db.USDKESPair,
		Rate:      body.Rate,
		Source:    source,
		IsActive:  true,
		UpdatedBy: userinfo.Email,
	}

	err := db.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "currency"}},
		DoUpdates: clause.AssignmentColumns([]string{"rate", "source", "is_active", "updated_by", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to update exchange rate"})
		return
	}

	log.Printf("[ExchangeRate] %s set %s to %.2f (%s)", userinfo.Email, db.USDKESPair, body.Rate, source)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Exchange rate updated successfully",
		"data": gin.H{
			"rate":     row.Rate,
			"source":   row.Source,
			"currency": row.Currency,
		},
	})
}
