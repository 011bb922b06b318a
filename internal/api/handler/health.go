package handler

import (
	"net/http"

	"github.com/promptcanvas/promptcanvas/internal/api/response"
)

// HealthCheck handles the health endpoint
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]string{
		"status":  "ok",
		"service": "promptcanvas",
	})
}
