package handlers

import (
	"encoding/base64"
	"strings"

	"github.com/gin-gonic/gin"
)

type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
}

func successResponse(message string, data interface{}) APIResponse {
	return APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	}
}

func errorResponse(message string) APIResponse {
	return APIResponse{
		Success: false,
		Message: message,
	}
}

func successWithMetaResponse(message string, data interface{}, meta interface{}) APIResponse {
	return APIResponse{
		Success: true,
		Message: message,
		Data:    data,
		Meta:    meta,
	}
}

// --- Flash messages ---
//
// Mutating routes redirect and leave a one-shot message behind in a cookie,
// mirroring the flash flow of the web frontend. GET routes drain the cookie
// and surface the message in the response meta.

const flashCookie = "flash"

type Flash struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

func setFlash(c *gin.Context, level, message string) {
	raw := base64.RawURLEncoding.EncodeToString([]byte(level + "|" + message))
	c.SetCookie(flashCookie, raw, 300, "/", "", false, true)
}

func takeFlash(c *gin.Context) *Flash {
	raw, err := c.Cookie(flashCookie)
	if err != nil || raw == "" {
		return nil
	}
	c.SetCookie(flashCookie, "", -1, "/", "", false, true)

	decoded, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return nil
	}
	parts := strings.SplitN(string(decoded), "|", 2)
	if len(parts) != 2 {
		return nil
	}
	return &Flash{Level: parts[0], Message: parts[1]}
}

func flashMeta(c *gin.Context) interface{} {
	if f := takeFlash(c); f != nil {
		return gin.H{"flash": f}
	}
	return nil
}
