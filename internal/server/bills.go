package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"

	"github.com/wattlens/wattlens/internal/analysis"
	analysisdomain "github.com/wattlens/wattlens/internal/analysis/domain"
	billdomain "github.com/wattlens/wattlens/internal/bill/domain"
	billservice "github.com/wattlens/wattlens/internal/bill/service"
	erpnextdomain "github.com/wattlens/wattlens/internal/erpnext/domain"
)

type analyzeBillRequest struct {
	BillText string `json:"bill_text"`
}

type analyzeBillResponse struct {
	Analysis          analysisdomain.BillAnalysis `json:"analysis"`
	FormattedAnalysis analysis.DashboardView      `json:"formatted_analysis"`
}

// AnalyzeBill runs the model over extracted bill text and returns the
// normalized analysis. A model reply that cannot be parsed still yields a
// 200 with a degraded analysis carrying an error marker.
func (s *Server) AnalyzeBill(c *gin.Context) {
	var req analyzeBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if strings.TrimSpace(req.BillText) == "" {
		AbortWithError(c, newValidationError("bill_text", "invalid_bill_text", "bill_text is required"))
		return
	}

	rawText, err := s.analyzer.AnalyzeBill(c.Request.Context(), req.BillText)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	normalized := s.normalizer.Normalize(rawText)

	c.JSON(http.StatusOK, analyzeBillResponse{
		Analysis:          normalized,
		FormattedAnalysis: analysis.FormatForDashboard(normalized),
	})
}

type createBillRequest struct {
	FileURL       string                      `json:"file_url"`
	FileType      string                      `json:"file_type"`
	ExtractedText string                      `json:"extracted_text"`
	Analysis      analysisdomain.BillAnalysis `json:"analysis"`
}

func (s *Server) CreateBill(c *gin.Context) {
	var req createBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if strings.TrimSpace(req.FileURL) == "" {
		AbortWithError(c, newValidationError("file_url", "invalid_file_url", "file_url is required"))
		return
	}

	billID, err := s.billSvc.Persist(c.Request.Context(), billdomain.PersistRequest{
		FileURL:       req.FileURL,
		FileType:      req.FileType,
		ExtractedText: req.ExtractedText,
		Analysis:      req.Analysis,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"bill_id": billID.String()})
}

type publishBillRequest struct {
	RawText string `json:"raw_text"`
}

// PublishBill fans the stored analysis out to the external record system.
// When the stored analysis is degraded, or the caller supplies raw_text,
// only a plain summary thread is created.
func (s *Server) PublishBill(c *gin.Context) {
	billID, err := snowflake.ParseString(c.Param("id"))
	if err != nil || billID == 0 {
		AbortWithError(c, erpnextdomain.ErrMissingBillID)
		return
	}

	var req publishBillRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			AbortWithError(c, invalidRequestError())
			return
		}
	}

	// The external records carry the bill id; never tag them with one that
	// does not exist, raw-text path included.
	bill, err := s.billSvc.Get(c.Request.Context(), billID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if strings.TrimSpace(req.RawText) != "" {
		result := s.publisher.PublishRawText(c.Request.Context(), req.RawText, billID)
		c.JSON(http.StatusOK, gin.H{"communication": result})
		return
	}

	parsed, err := billservice.ParseAnalysis(bill.AnalysisJSON)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if parsed.IsDegraded() {
		result := s.publisher.PublishRawText(c.Request.Context(), parsed.RawAnalysis, billID)
		c.JSON(http.StatusOK, gin.H{"communication": result})
		return
	}

	result := s.publisher.Publish(c.Request.Context(), parsed, billID)
	c.JSON(http.StatusOK, result)
}
