package controllers

import (
	"net/http"

	"artstore/web/db"

	"github.com/gin-gonic/gin"
)

type teamMemberInput struct {
	Name     string `json:"name"`
	Title    string `json:"title"`
	Bio      string `json:"bio"`
	PhotoURL string `json:"photoUrl"`
}

func ListTeam(c *gin.Context) {
	var members []db.TeamMember
	if err := db.DB.Order("created_at ASC").Find(&members).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch team"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"team": members}})
}

func CreateTeamMember(c *gin.Context) {
	var body teamMemberInput
	if err := c.BindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
		return
	}

	if body.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Name is required"})
		return
	}

	member := db.TeamMember{
		Name:     body.Name,
		Title:    body.Title,
		Bio:      body.Bio,
		PhotoURL: body.PhotoURL,
	}

	if err := db.DB.Create(&member).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to create team member"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"member": member}})
}

func UpdateTeamMember(c *gin.Context) {
	var member db.TeamMember
	if err := db.DB.First(&member, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Team member not found"})
		return
	}

	var body teamMemberInput
	if err := c.BindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
		return
	}

	if body.Name != "" {
		member.Name = body.Name
	}
	if body.Title != "" {
		member.Title = body.Title
	}
	if body.Bio != "" {
		member.Bio = body.Bio
	}
	if body.PhotoURL != "" {
		member.PhotoURL = body.PhotoURL
	}

	if err := db.DB.Save(&member).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to update team member"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"member": member}})
}

func DeleteTeamMember(c *gin.Context) {
	result := db.DB.Delete(&db.TeamMember{}, c.Param("id"))
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to delete team member"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Team member not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
