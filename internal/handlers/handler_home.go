package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func getHealth(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

// getHome reports that the API is up.
func getHome(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Statement import API v1"})
}
