package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gitlab.mdcatapult.io/informatics/software-engineering/ner-annotator/lib"
	"gitlab.mdcatapult.io/informatics/software-engineering/ner-annotator/lib/metrics"
)

type HttpError struct {
	code int
	error
}

func (e HttpError) Error() string {
	return e.error.Error()
}

func (e HttpError) Unwrap() error {
	return e.error
}

func NewHttpError(code int, err error) HttpError {
	return HttpError{
		code:  code,
		error: err,
	}
}

const requestIDHeader = "X-Request-Id"

type server struct {
	controller     controller
	metrics        *metrics.Metrics
	maxPayloadSize int64
}

func newRouter(corsAllowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(requestID, gin.LoggerWithFormatter(lib.JsonLogFormatter), gin.Recovery())
	if len(corsAllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:  corsAllowedOrigins,
			AllowMethods:  []string{http.MethodGet, http.MethodPost},
			AllowHeaders:  []string{"Origin", "Content-Type", requestIDHeader},
			ExposeHeaders: []string{requestIDHeader},
		}))
	}
	return r
}

func (s server) RegisterRoutes(r *gin.Engine) {
	r.POST("/v1/process", s.countRequest, s.limitBody, s.Process)
	r.GET("/v1/documentation", s.Documentation)
	r.GET("/v1/communication_layer", s.CommunicationLayer)
	r.GET("/healthz", s.Health)
	r.GET("/metrics", gin.WrapH(s.metrics.Handler()))
}

func (s server) Process(c *gin.Context) {
	res, err := s.controller.Process(c.Request.Context(), c.Request.Body)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

func (s server) Documentation(c *gin.Context) {
	c.JSON(http.StatusOK, s.controller.Documentation())
}

func (s server) CommunicationLayer(c *gin.Context) {
	data, err := s.controller.CommunicationLayer()
	if err != nil {
		handleError(c, err)
		return
	}

	c.Data(http.StatusOK, "application/x-lua", data)
}

func (s server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// limitBody caps the request body; reading past the cap fails with *http.MaxBytesError.
func (s server) limitBody(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxPayloadSize)
	c.Next()
}

// requestID keeps the caller's X-Request-Id or assigns one. It lands in the access
// log under "context".
func requestID(c *gin.Context) {
	id := c.GetHeader(requestIDHeader)
	if id == "" {
		id = uuid.NewString()
	}
	c.Set("request_id", id)
	c.Header(requestIDHeader, id)
	c.Next()
}

func (s server) countRequest(c *gin.Context) {
	c.Next()
	s.metrics.RecordRequest(strconv.Itoa(c.Writer.Status()))
}

func handleError(c *gin.Context, err error) {
	if err == nil {
		abort(c, http.StatusInternalServerError, errors.New("abort called on nil error"))
		return
	}
	var httpErr HttpError
	if errors.As(err, &httpErr) {
		abort(c, httpErr.code, httpErr.error)
		return
	}
	abort(c, http.StatusInternalServerError, err)
}

func abort(c *gin.Context, code int, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(code, map[string]interface{}{
		"status":  code,
		"message": err.Error(),
	})
}
