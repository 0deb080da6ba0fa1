package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/linemk/storefront/internal/jwt-new/jwtmiddleware"
	"github.com/linemk/storefront/internal/service"
	"github.com/linemk/storefront/internal/storage"
)

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", slog.Any("error", err))
	}
}

// writeServiceError переводит ошибку сервиса в HTTP-статус.
// Текст внутренних ошибок клиенту не отдаётся.
func writeServiceError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var vErr *service.ValidationError
	switch {
	case errors.As(err, &vErr):
		logger.Warn("validation failed", slog.String("reason", vErr.Message))
		http.Error(w, vErr.Message, http.StatusBadRequest)
	case errors.Is(err, service.ErrForbidden):
		logger.Warn("forbidden", slog.Any("error", err))
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, service.ErrOrderNotFound),
		errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, storage.ErrCartLineNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, storage.ErrOrderLocked):
		logger.Warn("order is locked", slog.Any("error", err))
		http.Error(w, "order is being updated, retry later", http.StatusConflict)
	default:
		logger.Error("internal error", slog.Any("error", err))
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

// currentUser достаёт userID, положенный JWT middleware
func currentUser(w http.ResponseWriter, r *http.Request, logger *slog.Logger) (int64, bool) {
	userID, ok := jwtmiddleware.FromContext(r.Context())
	if !ok {
		logger.Error("userID not found in context")
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}
	return userID, ok
}

// pageParam читает ?page=N; пустое или неверное значение даёт первую страницу
func pageParam(r *http.Request) int {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		return 1
	}
	return page
}
