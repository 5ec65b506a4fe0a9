package controllers

import (
	"net/http"
	"strings"

	"artstore/web/db"

	"github.com/gin-gonic/gin"
)

type postInput struct {
	Title     string `json:"title"`
	Slug      string `json:"slug"`
	Body      string `json:"body"`
	Published *bool  `json:"published"`
}

func ListPosts(c *gin.Context) {
	var posts []db.BlogPost
	err := db.DB.Where("published = ?", true).Order("created_at DESC").Find(&posts).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to fetch posts"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"posts": posts}})
}

func GetPost(c *gin.Context) {
	var post db.BlogPost
	err := db.DB.Where("slug = ? AND published = ?", c.Param("slug"), true).First(&post).Error
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Post not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"post": post}})
}

func CreatePost(c *gin.Context) {
	user, _ := c.Get("user")
	userinfo := user.(db.User)

	var body postInput
	if err := c.BindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
		return
	}

	if body.Title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Title is required"})
		return
	}

	slug := body.Slug
	if slug == "" {
		slug = strings.ToLower(strings.ReplaceAll(strings.TrimSpace(body.Title), " ", "-"))
	}

	post := db.BlogPost{
		Title:    body.Title,
		Slug:     slug,
		Body:     body.Body,
		AuthorID: userinfo.ID,
	}
	if body.Published != nil {
		post.Published = *body.Published
	}

	if err := db.DB.Create(&post).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to create post"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"post": post}})
}

func UpdatePost(c *gin.Context) {
	var post db.BlogPost
	if err := db.DB.First(&post, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Post not found"})
		return
	}

	var body postInput
	if err := c.BindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
		return
	}

	if body.Title != "" {
		post.Title = body.Title
	}
	if body.Slug != "" {
		post.Slug = body.Slug
	}
	if body.Body != "" {
		post.Body = body.Body
	}
	if body.Published != nil {
		post.Published = *body.Published
	}

	if err := db.DB.Save(&post).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to update post"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"post": post}})
}

func DeletePost(c *gin.Context) {
	result := db.DB.Delete(&db.BlogPost{}, c.Param("id"))
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to delete post"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Post not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
