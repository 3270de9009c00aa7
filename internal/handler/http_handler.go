package handler

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"PassForgePlatform/internal/api"
	"PassForgePlatform/internal/service"
	"PassForgePlatform/pkg/errors"
	"PassForgePlatform/pkg/logger"
)

// HTTPHandler обрабатывает HTTP запросы генератора паролей
type HTTPHandler struct {
	logger          logger.Logger
	passwordService *service.PasswordService
	wsHandler       http.HandlerFunc
	webDir          string
	version         string
}

// NewHTTPHandler создает новый HTTP обработчик
func NewHTTPHandler(log logger.Logger, passwordService *service.PasswordService, wsHandler http.HandlerFunc, webDir, version string) *HTTPHandler {
	return &HTTPHandler{
		logger:          log,
		passwordService: passwordService,
		wsHandler:       wsHandler,
		webDir:          webDir,
		version:         version,
	}
}

// RegisterRoutes регистрирует HTTP маршруты
func (h *HTTPHandler) RegisterRoutes(mux *http.ServeMux) {
	// Статические файлы и статус сервиса
	mux.Handle("/", h.staticHandler())
	mux.HandleFunc("/api/status", h.handleStatus)

	// API генератора
	mux.HandleFunc("/generate", h.handleGenerate)
	mux.HandleFunc("/analytics", h.handleAnalytics)
	mux.HandleFunc("/strength/", h.handleStrength)

	// Канал живых обновлений
	if h.wsHandler != nil {
		mux.HandleFunc("/ws", h.wsHandler)
	}
}

// staticHandler обслуживает файлы интерфейса из webDir.
// Без интерфейса корневой путь отвечает JSON статусом сервиса.
func (h *HTTPHandler) staticHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			indexPath := filepath.Join(h.webDir, "index.html")
			if _, err := os.Stat(indexPath); err == nil {
				http.ServeFile(w, r, indexPath)
				return
			}
			h.handleStatus(w, r)
			return
		}

		filePath := filepath.Join(h.webDir, filepath.Clean(r.URL.Path))
		if _, err := os.Stat(filePath); err != nil {
			errors.SendErrorResponse(w, errors.New(errors.ErrNotFound, "Not found"))
			return
		}
		http.ServeFile(w, r, filePath)
	}
}

// handleStatus возвращает статус сервиса
func (h *HTTPHandler) handleStatus(w http.ResponseWriter, r *http.Request) {
	response := api.StatusResponse{
		Message: "PassForge Password Generator Backend Active",
		Status:  "operational",
		Version: h.version,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// handleGenerate обрабатывает запрос на генерацию пароля
func (h *HTTPHandler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		errors.SendErrorResponse(w, errors.New(errors.ErrValidation, "Method not allowed"))
		return
	}

	// Отсутствующие в запросе флаги считаются включенными
	req := api.GenerateRequest{
		IncludeSymbols:   true,
		IncludeNumbers:   true,
		IncludeUppercase: true,
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("Failed to decode generate request", logger.Error(err))
		errors.SendErrorResponse(w, errors.New(errors.ErrValidation, "Invalid JSON"))
		return
	}

	result, err := h.passwordService.Generate(r.Context(), req)
	if err != nil {
		errors.SendErrorResponse(w, errors.FromError(err))
		return
	}

	response := api.GenerateResponse{
		Password:  result.Password,
		Strength:  string(result.Strength),
		Length:    result.Length,
		Timestamp: result.Timestamp.Unix(),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// handleAnalytics возвращает агрегированную статистику генерации
func (h *HTTPHandler) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		errors.SendErrorResponse(w, errors.New(errors.ErrValidation, "Method not allowed"))
		return
	}

	snapshot := h.passwordService.Snapshot()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(snapshot)
}

// handleStrength анализирует стойкость пароля из пути запроса
func (h *HTTPHandler) handleStrength(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		errors.SendErrorResponse(w, errors.New(errors.ErrValidation, "Method not allowed"))
		return
	}

	password := strings.TrimPrefix(r.URL.Path, "/strength/")
	if password == "" {
		errors.SendErrorResponse(w, errors.New(errors.ErrValidation, "Password is required"))
		return
	}

	label, err := h.passwordService.Analyze(r.Context(), password)
	if err != nil {
		errors.SendErrorResponse(w, errors.FromError(err))
		return
	}

	response := api.StrengthResponse{
		PasswordLength: utf8.RuneCountInString(password),
		Strength:       string(label),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// LoggingMiddleware логирует входящие запросы
func (h *HTTPHandler) LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.logger.Info("HTTP request",
			logger.String("method", r.Method),
			logger.String("path", r.URL.Path),
			logger.String("remote", r.RemoteAddr),
		)

		next.ServeHTTP(w, r)
	})
}

// CORSMiddleware разрешает кросс-доменные запросы
func (h *HTTPHandler) CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
