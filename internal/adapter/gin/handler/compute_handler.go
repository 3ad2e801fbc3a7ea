package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"desktop-core-service/internal/usecase/compute"
	"desktop-core-service/pkg/structured"
)

// ComputeHandler serves the math, text and json endpoints.
type ComputeHandler struct {
	svc *compute.Service
	log *zap.Logger
}

func NewComputeHandler(svc *compute.Service, log *zap.Logger) *ComputeHandler {
	return &ComputeHandler{svc: svc, log: log}
}

type textRequest struct {
	Text string `json:"text"`
}

func parseN(c *gin.Context) (uint64, bool) {
	n, err := strconv.ParseUint(c.Param("n"), 10, 64)
	if err != nil {
		badRequest(c, "invalid_number", "n must be a non-negative integer")
		return 0, false
	}
	return n, true
}

func parseInt32(c *gin.Context, key string) (int32, bool) {
	v, err := strconv.ParseInt(c.Query(key), 10, 32)
	if err != nil {
		badRequest(c, "invalid_number", key+" must be a 32-bit integer")
		return 0, false
	}
	return int32(v), true
}

// Factorial handles GET /v1/math/factorial/:n
func (h *ComputeHandler) Factorial(c *gin.Context) {
	n, ok := parseN(c)
	if !ok {
		return
	}
	r, err := h.svc.Factorial(c.Request.Context(), n)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"n": n, "result": r})
}

// FactorialBig handles GET /v1/math/factorial/:n/big. The result is a
// decimal string.
func (h *ComputeHandler) FactorialBig(c *gin.Context) {
	n, ok := parseN(c)
	if !ok {
		return
	}
	r, err := h.svc.FactorialBig(c.Request.Context(), n)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"n": n, "result": r.String()})
}

// IsPrime handles GET /v1/math/prime/:n
func (h *ComputeHandler) IsPrime(c *gin.Context) {
	n, ok := parseN(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"n": n, "prime": h.svc.IsPrime(c.Request.Context(), n)})
}

// Add handles GET /v1/math/add?a=&b=
func (h *ComputeHandler) Add(c *gin.Context) {
	a, ok := parseInt32(c, "a")
	if !ok {
		return
	}
	b, ok := parseInt32(c, "b")
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"a": a, "b": b, "result": h.svc.Add(c.Request.Context(), a, b)})
}

// Uppercase handles POST /v1/text/uppercase
func (h *ComputeHandler) Uppercase(c *gin.Context) {
	var req textRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid_body", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": h.svc.Uppercase(c.Request.Context(), req.Text)})
}

// Greet handles GET /v1/text/greet?name=
func (h *ComputeHandler) Greet(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": h.svc.Greet(c.Request.Context(), c.Query("name"))})
}

// ParseJSON handles POST /v1/json/parse. The body is the document itself.
func (h *ComputeHandler) ParseJSON(c *gin.Context) {
	body, ok := readBody(c, h.log, h.svc.Limits().MaxJSONBytes)
	if !ok {
		return
	}

	v, err := h.svc.ParseJSON(c.Request.Context(), body)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	encoded, err := structured.Encode(v)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"kind": structured.Kind(v), "value": json.RawMessage(encoded)})
}
