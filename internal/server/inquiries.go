package server

import (
	"net/http"

	"github.com/dakshina-arts/boxoffice/internal/inquiry"
	"github.com/gin-gonic/gin"
)

func (s *Server) SendInquiry(c *gin.Context) {
	var req inquiry.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	if err := s.inquirysvc.Send(c.Request.Context(), req); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
