package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type trendsQuery struct {
	Months int `form:"months"`
}

func (s *Server) MonthlyTrends(c *gin.Context) {
	var query trendsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if query.Months < 0 {
		AbortWithError(c, newValidationError("months", "invalid_months", "months must be positive"))
		return
	}

	trends, err := s.billSvc.MonthlyTrends(c.Request.Context(), query.Months)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"trends": trends})
}

type insightsQuery struct {
	Limit int `form:"limit"`
}

func (s *Server) RecentInsights(c *gin.Context) {
	var query insightsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if query.Limit < 0 {
		AbortWithError(c, newValidationError("limit", "invalid_limit", "limit must be positive"))
		return
	}

	insights, err := s.billSvc.RecentInsights(c.Request.Context(), query.Limit)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"insights": insights})
}
