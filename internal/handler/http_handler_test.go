package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"PassForgePlatform/internal/analytics"
	"PassForgePlatform/internal/api"
	"PassForgePlatform/internal/cache"
	"PassForgePlatform/internal/generator"
	"PassForgePlatform/internal/logging"
	"PassForgePlatform/internal/metrics"
	"PassForgePlatform/internal/service"
	"PassForgePlatform/internal/strength"
	"PassForgePlatform/internal/ws"
	"PassForgePlatform/pkg/logger"
)

// testStack собирает полный HTTP стек для тестов
type testStack struct {
	server  *httptest.Server
	service *service.PasswordService
	cancel  context.CancelFunc
}

func newTestStack(t *testing.T) *testStack {
	t.Helper()

	baseLogger, err := logger.NewLogger("dev", "debug", "console", "test-service")
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}

	pfLogger := logging.NewPassForgeLogger(baseLogger)
	pfMetrics := metrics.NewPassForgeMetrics("passforge_test")

	hub := ws.NewHub(ws.HubConfig{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		SendQueueSize:   16,
	}, pfLogger, pfMetrics)

	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	c := cache.NewCache()
	recorder := analytics.NewRecorder(c, time.Minute)

	svc := service.NewPasswordService(
		generator.NewGenerator(1, 128),
		strength.NewScorer(),
		recorder,
		hub,
		pfLogger,
		pfMetrics,
		12,
	)

	h := NewHTTPHandler(baseLogger, svc, hub.ServeWS(svc), "testdata/web", "1.0.0")

	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	server := httptest.NewServer(h.CORSMiddleware(h.LoggingMiddleware(mux)))

	stack := &testStack{server: server, service: svc, cancel: cancel}
	t.Cleanup(func() {
		server.Close()
		cancel()
	})

	return stack
}

// TestHandleGenerate проверяет успешную генерацию через POST /generate
func TestHandleGenerate(t *testing.T) {
	stack := newTestStack(t)

	body := `{"length":12,"include_symbols":true,"include_numbers":true,"include_uppercase":true}`
	resp, err := http.Post(stack.server.URL+"/generate", "application/json", bytes.NewBufferString(body))
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	var response api.GenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if len(response.Password) != 12 {
		t.Errorf("Expected password of length 12, got %d", len(response.Password))
	}
	if response.Length != 12 {
		t.Errorf("Expected length 12, got %d", response.Length)
	}
	if response.Timestamp == 0 {
		t.Error("Expected non-zero timestamp")
	}

	// Все символы из полного пула
	pool := generator.LowercaseChars + generator.UppercaseChars + generator.NumberChars + generator.SymbolChars
	for _, c := range response.Password {
		if !strings.ContainsRune(pool, c) {
			t.Errorf("Character %q is outside the pool", c)
		}
	}

	// Метка из закрытого набора
	switch response.Strength {
	case "weak", "medium", "strong", "ultra":
	default:
		t.Errorf("Unexpected strength label: %s", response.Strength)
	}
}

// TestHandleGenerate_DefaultFlags проверяет, что отсутствующие флаги включены по умолчанию
func TestHandleGenerate_DefaultFlags(t *testing.T) {
	stack := newTestStack(t)

	resp, err := http.Post(stack.server.URL+"/generate", "application/json", bytes.NewBufferString(`{"length":64}`))
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	var response api.GenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(response.Password) != 64 {
		t.Fatalf("Expected password of length 64, got %d", len(response.Password))
	}

	// При включенных по умолчанию классах пароль такой длины
	// практически гарантированно содержит не только строчные буквы
	if !strings.ContainsAny(response.Password, generator.UppercaseChars+generator.NumberChars+generator.SymbolChars) {
		t.Error("Expected characters beyond lowercase with default flags")
	}
}

// TestHandleGenerate_InvalidLength проверяет отклонение некорректной длины
func TestHandleGenerate_InvalidLength(t *testing.T) {
	stack := newTestStack(t)

	body := `{"length":500}`
	resp, err := http.Post(stack.server.URL+"/generate", "application/json", bytes.NewBufferString(body))
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", resp.StatusCode)
	}
}

// TestHandleGenerate_InvalidJSON проверяет отклонение некорректного тела запроса
func TestHandleGenerate_InvalidJSON(t *testing.T) {
	stack := newTestStack(t)

	resp, err := http.Post(stack.server.URL+"/generate", "application/json", bytes.NewBufferString("not json"))
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", resp.StatusCode)
	}
}

// TestHandleGenerate_MethodNotAllowed проверяет отклонение GET запроса
func TestHandleGenerate_MethodNotAllowed(t *testing.T) {
	stack := newTestStack(t)

	resp, err := http.Get(stack.server.URL + "/generate")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", resp.StatusCode)
	}
}

// TestHandleAnalytics проверяет статистику после генерации
func TestHandleAnalytics(t *testing.T) {
	stack := newTestStack(t)

	// Генерируем два пароля
	body := `{"length":16,"include_symbols":true,"include_numbers":true,"include_uppercase":true}`
	for i := 0; i < 2; i++ {
		resp, err := http.Post(stack.server.URL+"/generate", "application/json", bytes.NewBufferString(body))
		if err != nil {
			t.Fatalf("Request failed: %v", err)
		}
		resp.Body.Close()
	}

	resp, err := http.Get(stack.server.URL + "/analytics")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	var response api.AnalyticsResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if response.TotalGenerated != 2 {
		t.Errorf("Expected total 2, got %d", response.TotalGenerated)
	}

	var sum int64
	for _, count := range response.StrengthDistribution {
		sum += count
	}
	if sum != 2 {
		t.Errorf("Expected distribution sum 2, got %d", sum)
	}
}

// TestHandleAnalytics_FailedGenerationNotCounted проверяет, что отклоненный запрос не попадает в статистику
func TestHandleAnalytics_FailedGenerationNotCounted(t *testing.T) {
	stack := newTestStack(t)

	resp, err := http.Post(stack.server.URL+"/generate", "application/json", bytes.NewBufferString(`{"length":500}`))
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	resp.Body.Close()

	resp, err = http.Get(stack.server.URL + "/analytics")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	var response api.AnalyticsResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if response.TotalGenerated != 0 {
		t.Errorf("Expected total 0 after rejected request, got %d", response.TotalGenerated)
	}
}

// TestHandleStrength проверяет анализ стойкости через GET /strength/{password}
func TestHandleStrength(t *testing.T) {
	stack := newTestStack(t)

	resp, err := http.Get(stack.server.URL + "/strength/Abcdefgh1234!!!!")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	var response api.StrengthResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if response.PasswordLength != 16 {
		t.Errorf("Expected password_length 16, got %d", response.PasswordLength)
	}
	if response.Strength != "ultra" {
		t.Errorf("Expected ultra, got %s", response.Strength)
	}
}

// TestHandleStrength_TooLong проверяет отклонение слишком длинного пароля
func TestHandleStrength_TooLong(t *testing.T) {
	stack := newTestStack(t)

	long := strings.Repeat("a", 101)
	resp, err := http.Get(stack.server.URL + "/strength/" + long)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", resp.StatusCode)
	}
}

// TestHandleStrength_MultibytePassword проверяет подсчет длины в символах, не в байтах
func TestHandleStrength_MultibytePassword(t *testing.T) {
	stack := newTestStack(t)

	// 7 символов, 11 байт: четыре класса без балла за длину
	resp, err := http.Get(stack.server.URL + "/strength/" + url.PathEscape("密碼abC1!"))
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	var response api.StrengthResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if response.PasswordLength != 7 {
		t.Errorf("Expected password_length 7, got %d", response.PasswordLength)
	}
	if response.Strength != "strong" {
		t.Errorf("Expected strong, got %s", response.Strength)
	}
}

// TestHandleStatus проверяет статус сервиса
func TestHandleStatus(t *testing.T) {
	stack := newTestStack(t)

	resp, err := http.Get(stack.server.URL + "/api/status")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	var response api.StatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if response.Status != "operational" {
		t.Errorf("Expected operational status, got %s", response.Status)
	}
}

// TestCORSMiddleware проверяет CORS заголовки и preflight запрос
func TestCORSMiddleware(t *testing.T) {
	stack := newTestStack(t)

	req, err := http.NewRequest(http.MethodOptions, stack.server.URL+"/generate", nil)
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200 for preflight, got %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Expected Access-Control-Allow-Origin *, got %q", got)
	}
}

// wsURL преобразует http URL тестового сервера в ws URL
func wsURL(serverURL, path string) string {
	return "ws" + strings.TrimPrefix(serverURL, "http") + path
}

// TestWebSocket_BroadcastOnGenerate проверяет ровно одну рассылку на успешную генерацию
func TestWebSocket_BroadcastOnGenerate(t *testing.T) {
	stack := newTestStack(t)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(stack.server.URL, "/ws"), nil)
	if err != nil {
		t.Fatalf("Failed to dial websocket: %v", err)
	}
	defer conn.Close()

	// Даем хабу зарегистрировать клиента
	time.Sleep(50 * time.Millisecond)

	body := `{"length":12,"include_symbols":true,"include_numbers":true,"include_uppercase":true}`
	resp, err := http.Post(stack.server.URL+"/generate", "application/json", bytes.NewBufferString(body))
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	var generated api.GenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&generated); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	resp.Body.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("Failed to read broadcast: %v", err)
	}

	var msg struct {
		Type string               `json:"type"`
		Data api.GenerateResponse `json:"data"`
	}
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("Failed to unmarshal broadcast: %v", err)
	}

	if msg.Type != api.WSTypePasswordGenerated {
		t.Errorf("Expected type %s, got %s", api.WSTypePasswordGenerated, msg.Type)
	}
	if msg.Data.Password != generated.Password {
		t.Error("Expected broadcast to match the generated password")
	}

	// Второй рассылки нет
	conn.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("Expected exactly one broadcast, got a second message")
	}
}

// TestWebSocket_GenerateAction проверяет генерацию через websocket действие
func TestWebSocket_GenerateAction(t *testing.T) {
	stack := newTestStack(t)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(stack.server.URL, "/ws"), nil)
	if err != nil {
		t.Fatalf("Failed to dial websocket: %v", err)
	}
	defer conn.Close()

	time.Sleep(50 * time.Millisecond)

	request := `{"action":"generate","length":10}`
	if err := conn.WriteMessage(websocket.TextMessage, []byte(request)); err != nil {
		t.Fatalf("Failed to send message: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("Failed to read response: %v", err)
	}

	var msg struct {
		Type string               `json:"type"`
		Data api.GenerateResponse `json:"data"`
	}
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if msg.Type != api.WSTypePasswordGenerated {
		t.Errorf("Expected type %s, got %s", api.WSTypePasswordGenerated, msg.Type)
	}
	if len(msg.Data.Password) != 10 {
		t.Errorf("Expected password of length 10, got %d", len(msg.Data.Password))
	}
}

// TestWebSocket_AnalyzeAction проверяет анализ стойкости через websocket действие
func TestWebSocket_AnalyzeAction(t *testing.T) {
	stack := newTestStack(t)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(stack.server.URL, "/ws"), nil)
	if err != nil {
		t.Fatalf("Failed to dial websocket: %v", err)
	}
	defer conn.Close()

	time.Sleep(50 * time.Millisecond)

	request := `{"action":"analyze","password":"1234"}`
	if err := conn.WriteMessage(websocket.TextMessage, []byte(request)); err != nil {
		t.Fatalf("Failed to send message: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("Failed to read response: %v", err)
	}

	var msg struct {
		Type string            `json:"type"`
		Data map[string]string `json:"data"`
	}
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if msg.Type != api.WSTypeStrengthAnalyzed {
		t.Errorf("Expected type %s, got %s", api.WSTypeStrengthAnalyzed, msg.Type)
	}
	if msg.Data["strength"] != "weak" {
		t.Errorf("Expected weak, got %s", msg.Data["strength"])
	}
}

// TestWebSocket_UnknownAction проверяет ответ об ошибке на неизвестное действие
func TestWebSocket_UnknownAction(t *testing.T) {
	stack := newTestStack(t)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(stack.server.URL, "/ws"), nil)
	if err != nil {
		t.Fatalf("Failed to dial websocket: %v", err)
	}
	defer conn.Close()

	time.Sleep(50 * time.Millisecond)

	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"action":"unknown"}`)); err != nil {
		t.Fatalf("Failed to send message: %v", err)
	}

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("Failed to read response: %v", err)
	}

	var msg api.WSServerMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if msg.Type != api.WSTypeError {
		t.Errorf("Expected type %s, got %s", api.WSTypeError, msg.Type)
	}
}
