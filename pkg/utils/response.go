package utils

import (
	"encoding/json"
	"net/http"

	"github.com/zhouzirui/mindful-journal/backend/internal/logger"
)

// Response status values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// RespondJSON 发送JSON响应
func RespondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.S().Warnw("failed to encode response", "error", err)
	}
}

// RespondError 发送 {"status":"error","message":...} 错误响应
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, map[string]string{
		"status":  StatusError,
		"message": message,
	})
}

// RespondSuccess 发送带 "status":"success" 的响应，fields 中的字段平铺到顶层
func RespondSuccess(w http.ResponseWriter, fields map[string]any) {
	body := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		body[k] = v
	}
	body["status"] = StatusSuccess
	RespondJSON(w, http.StatusOK, body)
}
