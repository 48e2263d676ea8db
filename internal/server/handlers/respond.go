package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

// Все ответы API упакованы в единый конверт {success, data|error}.
// Списки дополнительно несут count, инкрементальные pull-ответы —
// серверный lastSync.

type errorResponse struct {
	Error   string `json:"error"`
	Success bool   `json:"success"`
}

type dataResponse struct {
	Data    any  `json:"data"`
	Success bool `json:"success"`
}

type listResponse struct {
	Data    any  `json:"data"`
	Count   int  `json:"count"`
	Success bool `json:"success"`
}

type pullResponse struct {
	LastSync time.Time `json:"lastSync"`
	Data     any       `json:"data"`
	Count    int       `json:"count"`
	Success  bool      `json:"success"`
}

func sendJSON(logger *slog.Logger, w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", slog.Any("error", err))
	}
}

func sendData(logger *slog.Logger, w http.ResponseWriter, data any, status int) {
	sendJSON(logger, w, dataResponse{Success: true, Data: data}, status)
}

func sendList(logger *slog.Logger, w http.ResponseWriter, count int, data any) {
	sendJSON(logger, w, listResponse{Success: true, Count: count, Data: data}, http.StatusOK)
}

func sendError(logger *slog.Logger, w http.ResponseWriter, msg string, status int) {
	sendJSON(logger, w, errorResponse{Success: false, Error: msg}, status)
}
