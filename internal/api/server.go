package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/david/funding-applicator/internal/auth"
	"github.com/david/funding-applicator/internal/engine"
	"github.com/david/funding-applicator/internal/glossary"
	"github.com/david/funding-applicator/internal/ingest"
	"github.com/david/funding-applicator/internal/models"
	"github.com/david/funding-applicator/internal/wizard"
)

type Server struct {
	Echo        *echo.Echo
	AuthService *auth.Service
	Controller  *wizard.Controller
}

// maxReportBytes caps uploaded report size.
const maxReportBytes = 10 << 20

func NewServer(store wizard.Store) *Server {
	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// CORS: allow frontend origins from env or default to localhost
	allowedOrigins := []string{"http://localhost:4200"}
	if extra := os.Getenv("CORS_ORIGINS"); extra != "" {
		for _, o := range strings.Split(extra, ",") {
			o = strings.TrimSpace(o)
			if o != "" {
				allowedOrigins = append(allowedOrigins, o)
			}
		}
	}
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	s := &Server{
		Echo:        e,
		AuthService: auth.NewService(),
		Controller:  wizard.NewController(context.Background(), store),
	}

	s.routes()
	return s
}

func (s *Server) routes() {
	s.Echo.GET("/health", s.handleHealth)
	api := s.Echo.Group("/api/v1")
	api.POST("/auth/session", s.handleLogin)
	api.GET("/glossary", s.handleGlossary)
	api.GET("/glossary/:term", s.handleGlossaryTerm)

	// Session routes: report, profile, wizard navigation.
	session := api.Group("")
	session.Use(s.AuthService.Middleware)
	session.POST("/reports", s.handleUploadReport)
	session.GET("/opportunities", s.handleListOpportunities)
	session.GET("/profile", s.handleGetProfile)
	session.PUT("/profile", s.handlePutProfile)

	w := session.Group("/wizard")
	w.GET("", s.handleWizardState)
	w.POST("/select/:index", s.handleSelect)
	w.POST("/start", s.handleStart)
	w.POST("/next", s.handleNext)
	w.POST("/previous", s.handlePrevious)
	w.POST("/pause", s.handlePause)
	w.POST("/review-back", s.handleReviewBack)
	w.POST("/new-selection", s.handleNewSelection)
	w.PUT("/answer", s.handlePutAnswer)
	w.GET("/review", s.handleReview)
	w.GET("/export", s.handleExport)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func (s *Server) handleLogin(c echo.Context) error {
	var req struct {
		Passphrase string `json:"passphrase"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}

	token, err := s.AuthService.Login(req.Passphrase)
	if err != nil {
		if err == auth.ErrInvalidCreds {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, map[string]string{"token": token})
}

func (s *Server) handleUploadReport(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxReportBytes))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Could not read request body"})
	}

	report, err := ingest.ParseReport(body)
	if err != nil {
		switch {
		case errors.Is(err, ingest.ErrUnreadableInput):
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Could not read the file. Make sure it is a valid JSON report from Funding Finder."})
		case errors.Is(err, ingest.ErrInvalidReport):
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "This file is not a Funding Finder report."})
		default:
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}
	}

	report.ID = uuid.New().String()
	s.Controller.LoadReport(report)

	return c.JSON(http.StatusOK, map[string]interface{}{
		"report_id":         report.ID,
		"opportunity_count": len(report.Opportunities),
	})
}

func (s *Server) handleListOpportunities(c echo.Context) error {
	report := s.Controller.Report()
	if report == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "No report loaded"})
	}
	sortBy := c.QueryParam("sort")
	if sortBy == "" {
		sortBy = ingest.SortEasiest
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"report_id":     report.ID,
		"sort":          sortBy,
		"opportunities": ingest.SortOpportunities(report.Opportunities, sortBy),
	})
}

func (s *Server) handleGetProfile(c echo.Context) error {
	return c.JSON(http.StatusOK, s.Controller.Profile())
}

func (s *Server) handlePutProfile(c echo.Context) error {
	var p models.Profile
	if err := c.Bind(&p); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	s.Controller.SetProfile(c.Request().Context(), p)
	return c.JSON(http.StatusOK, p)
}

func (s *Server) handleGlossary(c echo.Context) error {
	return c.JSON(http.StatusOK, glossary.Terms())
}

func (s *Server) handleGlossaryTerm(c echo.Context) error {
	term := c.Param("term")
	def, ok := glossary.Lookup(term)
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Unknown term"})
	}
	return c.JSON(http.StatusOK, glossary.Term{Term: strings.ToLower(term), Definition: def})
}

// sectionView is the wizard's section payload: the section itself, the
// grant-speak annotated with glossary definitions, and the saved answer.
type sectionView struct {
	Section             models.Section     `json:"section"`
	GrantSpeakAnnotated []glossary.Segment `json:"grant_speak_annotated"`
	Answer              string             `json:"answer"`
	AnswerWordCount     int                `json:"answer_word_count"`
}

func (s *Server) handleWizardState(c echo.Context) error {
	state := s.Controller.State()
	resp := map[string]interface{}{"state": state}

	filled, total, percent := s.Controller.Progress()
	resp["progress"] = map[string]int{"filled": filled, "total": total, "percent": percent}

	switch state.Stage {
	case wizard.StageOverview:
		if ov, ok := s.Controller.Overview(); ok {
			resp["overview"] = ov
		}
	case wizard.StageSection:
		if sec, ok := s.Controller.CurrentSection(); ok {
			answer := s.Controller.Answer(sec.ID)
			resp["section"] = sectionView{
				Section:             sec,
				GrantSpeakAnnotated: glossary.Annotate(sec.GrantSpeak),
				Answer:              answer,
				AnswerWordCount:     engine.WordCount(answer),
			}
		}
	case wizard.StageReview:
		if rv, ok := s.Controller.Review(); ok {
			resp["review"] = rv
		}
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *Server) handleSelect(c echo.Context) error {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid opportunity index"})
	}
	if err := s.Controller.Select(index); err != nil {
		return s.transitionError(c, err)
	}
	return s.handleWizardState(c)
}

func (s *Server) handleStart(c echo.Context) error {
	if err := s.Controller.Start(); err != nil {
		return s.transitionError(c, err)
	}
	return s.handleWizardState(c)
}

// answerBody carries the in-progress answer on navigation; a missing
// body leaves the saved answer untouched but still flushes the map.
type answerBody struct {
	Answer *string `json:"answer"`
}

func (s *Server) bindAnswer(c echo.Context) *string {
	var body answerBody
	if err := c.Bind(&body); err != nil {
		return nil
	}
	return body.Answer
}

func (s *Server) handleNext(c echo.Context) error {
	if err := s.Controller.Next(c.Request().Context(), s.bindAnswer(c)); err != nil {
		return s.transitionError(c, err)
	}
	return s.handleWizardState(c)
}

func (s *Server) handlePrevious(c echo.Context) error {
	if err := s.Controller.Previous(c.Request().Context(), s.bindAnswer(c)); err != nil {
		return s.transitionError(c, err)
	}
	return s.handleWizardState(c)
}

func (s *Server) handlePause(c echo.Context) error {
	if err := s.Controller.Pause(c.Request().Context(), s.bindAnswer(c)); err != nil {
		return s.transitionError(c, err)
	}
	return s.handleWizardState(c)
}

func (s *Server) handleReviewBack(c echo.Context) error {
	if err := s.Controller.ReviewBack(); err != nil {
		return s.transitionError(c, err)
	}
	return s.handleWizardState(c)
}

func (s *Server) handleNewSelection(c echo.Context) error {
	if err := s.Controller.NewSelection(); err != nil {
		return s.transitionError(c, err)
	}
	return s.handleWizardState(c)
}

func (s *Server) handlePutAnswer(c echo.Context) error {
	var req struct {
		SectionID string `json:"section_id"`
		Answer    string `json:"answer"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request"})
	}
	if err := s.Controller.SetAnswer(c.Request().Context(), req.SectionID, req.Answer); err != nil {
		return s.transitionError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "saved"})
}

func (s *Server) handleReview(c echo.Context) error {
	rv, ok := s.Controller.Review()
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "No opportunity selected"})
	}
	return c.JSON(http.StatusOK, rv)
}

func (s *Server) handleExport(c echo.Context) error {
	doc, ok := s.Controller.Export()
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "No opportunity selected"})
	}
	return c.String(http.StatusOK, doc)
}

func (s *Server) transitionError(c echo.Context, err error) error {
	switch err {
	case wizard.ErrNoReport:
		return c.JSON(http.StatusNotFound, map[string]string{"error": "No report loaded"})
	case wizard.ErrBadIndex:
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Opportunity index out of range"})
	case wizard.ErrUnknownSection:
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Unknown section"})
	case wizard.ErrInvalidTransition:
		return c.JSON(http.StatusConflict, map[string]string{"error": "Transition not allowed from current stage"})
	default:
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

func (s *Server) Start(port string) error {
	return s.Echo.Start(":" + port)
}
