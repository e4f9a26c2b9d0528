// Package api exposes the advisor over HTTP. The server owns the current
// dataset: uploads replace it wholesale, and every analysis endpoint reads
// the replacement under a read lock. Engine errors map onto HTTP statuses by
// their code.
package api

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"statadvisor/adapters/excel"
	"statadvisor/app"
	"statadvisor/domain/core"
	"statadvisor/domain/stats"
	"statadvisor/domain/table"
	"statadvisor/internal"
	"statadvisor/internal/apperr"
	"statadvisor/internal/assumptions"
)

// Server handles the advisor's HTTP surface.
type Server struct {
	svc    *app.AdvisorService
	reader *excel.Reader
	log    *internal.Logger

	mu      sync.RWMutex
	dataset *table.Dataset
}

// NewServer creates a server over the given service and file reader.
func NewServer(svc *app.AdvisorService, reader *excel.Reader, log *internal.Logger) *Server {
	return &Server{svc: svc, reader: reader, log: log}
}

// SetDataset replaces the current dataset. Used at startup when a data file
// is preconfigured.
func (s *Server) SetDataset(ds *table.Dataset) {
	s.mu.Lock()
	s.dataset = ds
	s.mu.Unlock()
}

func (s *Server) currentDataset() (*table.Dataset, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dataset, s.dataset != nil
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", s.handleHealth)

	api := r.Group("/api")
	{
		api.POST("/dataset", s.handleUpload)
		api.GET("/profile", s.handleProfile)
		api.POST("/recommend", s.handleRecommend)
		api.POST("/assumptions", s.handleAssumptions)
		api.GET("/tests", s.handleListTests)
		api.GET("/tests/:id", s.handleGetTest)
		api.POST("/run", s.handleRun)
		api.GET("/offload", s.handleOffloadState)
		api.POST("/offload/reset", s.handleOffloadReset)
	}
	return r
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleUpload accepts a CSV or workbook as a multipart "file" field, loads
// it and replaces the current dataset. The submitted filename's extension
// picks the format.
func (s *Server) handleUpload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		s.respondError(c, apperr.Validation("request must carry a data file in the \"file\" field"))
		return
	}
	src, err := fileHeader.Open()
	if err != nil {
		s.respondError(c, apperr.Wrap(err, "opening uploaded file"))
		return
	}
	defer src.Close()

	ds, err := s.reader.ReadNamed(src, fileHeader.Filename)
	if err != nil {
		s.respondError(c, err)
		return
	}
	s.SetDataset(ds)
	s.log.Info("dataset %s loaded: %d rows, %d columns", ds.ID(), ds.RowCount(), len(ds.Columns()))
	c.JSON(http.StatusCreated, gin.H{
		"dataset_id": ds.ID(),
		"rows":       ds.RowCount(),
		"columns":    ds.Columns(),
	})
}

func (s *Server) handleProfile(c *gin.Context) {
	ds, ok := s.currentDataset()
	if !ok {
		s.respondError(c, apperr.Validation("no dataset loaded"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"profiles": s.svc.Profile(ds)})
}

type recommendRequest struct {
	Selection   stats.WizardSelection `json:"selection"`
	GroupColumn string                `json:"group_column"`
	ValueColumn string                `json:"value_column"`
}

func (s *Server) handleRecommend(c *gin.Context) {
	var req recommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, apperr.Validation("malformed recommendation request"))
		return
	}
	ds, ok := s.currentDataset()
	if !ok {
		s.respondError(c, apperr.Validation("no dataset loaded"))
		return
	}
	recs, err := s.svc.Recommend(req.Selection, ds, core.ColumnKey(req.GroupColumn), core.ColumnKey(req.ValueColumn))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recommendations": recs})
}

type assumptionsRequest struct {
	Values []float64 `json:"values"`
	Groups []string  `json:"groups"`
	Checks struct {
		Normality   bool `json:"normality"`
		Homogeneity bool `json:"homogeneity"`
		Outliers    bool `json:"outliers"`
	} `json:"checks"`
}

func (s *Server) handleAssumptions(c *gin.Context) {
	var req assumptionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, apperr.Validation("malformed assumptions request"))
		return
	}
	results := s.svc.CheckAssumptions(req.Values, req.Groups, assumptions.Checks{
		Normality:   req.Checks.Normality,
		Homogeneity: req.Checks.Homogeneity,
		Outliers:    req.Checks.Outliers,
	})
	c.JSON(http.StatusOK, gin.H{"results": results})
}

func (s *Server) handleListTests(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tests": s.svc.AllTests()})
}

func (s *Server) handleGetTest(c *gin.Context) {
	def, err := s.svc.GetTestByID(c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, def)
}

type runRequest struct {
	TestID       string `json:"test_id"`
	FirstColumn  string `json:"first_column"`
	SecondColumn string `json:"second_column"`
}

func (s *Server) handleRun(c *gin.Context) {
	var req runRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.respondError(c, apperr.Validation("malformed run request"))
		return
	}
	ds, ok := s.currentDataset()
	if !ok {
		s.respondError(c, apperr.Validation("no dataset loaded"))
		return
	}
	result, err := s.svc.RunTest(c.Request.Context(), req.TestID, ds, core.ColumnKey(req.FirstColumn), core.ColumnKey(req.SecondColumn))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (s *Server) handleOffloadState(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"state": s.svc.OffloadState()})
}

func (s *Server) handleOffloadReset(c *gin.Context) {
	s.svc.ResetOffload()
	c.JSON(http.StatusOK, gin.H{"state": s.svc.OffloadState()})
}

// respondError maps the error taxonomy onto HTTP statuses and renders the
// structured error body.
func (s *Server) respondError(c *gin.Context, err error) {
	code := apperr.GetCode(err)
	status := http.StatusInternalServerError
	switch code {
	case apperr.CodeValidation:
		status = http.StatusBadRequest
	case apperr.CodeNotFound:
		status = http.StatusNotFound
	case apperr.CodeComputation, apperr.CodeInapplicable:
		status = http.StatusUnprocessableEntity
	case apperr.CodeTimeout:
		status = http.StatusGatewayTimeout
	}
	if status == http.StatusInternalServerError {
		s.log.Error("request failed: %v", err)
	}
	c.JSON(status, gin.H{"error": gin.H{"code": code, "message": err.Error()}})
}
