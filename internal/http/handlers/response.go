// Package handlers provides HTTP handler implementations for the public API.
//
// This file defines the uniform response envelope used by every endpoint and
// the single translation point from errors to envelopes. The goal is that a
// client can always parse {code, message, data} and branch on the code,
// regardless of which endpoint it called or how it failed.
//
// Conventions:
//   - Success: HTTP 200 (201 on creation) with code 200 and the payload in
//     `data`.
//   - Business failure: HTTP 200 with the stable bizerr code and `data: null`.
//     The transport status is deliberately uniform; the envelope code is the
//     contract.
//   - Malformed request (binding/validation): HTTP 400 envelope with code 400.
//   - Anything else: logged with request context, surfaced as an HTTP 500
//     envelope with code 500 and a generic message. Internal details never
//     reach the client.
//
// Example business failure:
//
//	HTTP/1.1 200 OK
//	{ "code": 10301, "message": "Item not found", "data": null }
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dida1024/AideX/internal/bizerr"
	"github.com/dida1024/AideX/internal/http/middleware"
)

// Envelope is the uniform response shape returned by all endpoints.
type Envelope struct {
	// Stable numeric code: 200/201 on success, a bizerr code on business
	// failure, the HTTP status on transport-level failures.
	Code int `json:"code" example:"200"`
	// Human-readable message, safe to show to users.
	Message string `json:"message" example:"success"`
	// Payload; null on failure.
	Data any `json:"data"`
}

// PaginatedData is the `data` payload for list endpoints.
type PaginatedData struct {
	Items    any   `json:"items"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
}

// ok writes a success envelope with HTTP and envelope code 200.
func ok(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Envelope{Code: http.StatusOK, Message: "success", Data: data})
}

// created writes a success envelope with HTTP and envelope code 201.
func created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, Envelope{Code: http.StatusCreated, Message: "success", Data: data})
}

// paginated writes a success envelope wrapping a page of items.
func paginated(c *gin.Context, items any, total int64, page, pageSize int) {
	ok(c, PaginatedData{Items: items, Total: total, Page: page, PageSize: pageSize})
}

// badRequest rejects a malformed request with an HTTP 400 envelope. Binding
// failures are transport-level, not business errors, so they keep the real
// status code.
func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, Envelope{
		Code:    http.StatusBadRequest,
		Message: msg,
		Data:    nil,
	})
}

// failBiz is the single error-to-envelope translation point. It is total:
// any error value produces exactly one well-formed envelope.
//
// Business errors keep HTTP 200 and carry their stable code; everything else
// is logged via the request-scoped logger and collapsed to a 500 envelope.
func failBiz(c *gin.Context, err error) {
	if be, ok := bizerr.AsError(err); ok {
		c.AbortWithStatusJSON(http.StatusOK, Envelope{
			Code:    be.Code,
			Message: be.Message,
			Data:    nil,
		})
		return
	}

	lg := middleware.LoggerFrom(c)
	lg.Error().Err(err).Msg("api error")
	c.AbortWithStatusJSON(http.StatusInternalServerError, Envelope{
		Code:    http.StatusInternalServerError,
		Message: "internal server error",
		Data:    nil,
	})
}

// FailBiz is the exported variant of failBiz for router-level fallbacks.
func FailBiz(c *gin.Context, err error) { failBiz(c, err) }

// FailStatus writes a transport-level envelope with the given HTTP status
// (route not found, method not allowed).
func FailStatus(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, Envelope{Code: status, Message: msg, Data: nil})
}
