package api

// GenerateRequest запрос на генерацию пароля
type GenerateRequest struct {
	Length           int  `json:"length"`
	IncludeSymbols   bool `json:"include_symbols"`
	IncludeNumbers   bool `json:"include_numbers"`
	IncludeUppercase bool `json:"include_uppercase"`
}

// GenerateResponse ответ с сгенерированным паролем
type GenerateResponse struct {
	Password  string `json:"password"`
	Strength  string `json:"strength"`
	Length    int    `json:"length"`
	Timestamp int64  `json:"timestamp"`
}

// AnalyticsResponse агрегированная статистика генерации
type AnalyticsResponse struct {
	TotalGenerated       int64            `json:"total_generated"`
	StrengthDistribution map[string]int64 `json:"strength_distribution"`
}

// StrengthResponse результат анализа стойкости пароля
type StrengthResponse struct {
	PasswordLength int    `json:"password_length"`
	Strength       string `json:"strength"`
}

// StatusResponse статус сервиса для корневого эндпоинта
type StatusResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}

// WSClientMessage входящее сообщение websocket клиента
type WSClientMessage struct {
	Action    string `json:"action"`
	Length    int    `json:"length,omitempty"`
	Symbols   *bool  `json:"symbols,omitempty"`
	Numbers   *bool  `json:"numbers,omitempty"`
	Uppercase *bool  `json:"uppercase,omitempty"`
	Password  string `json:"password,omitempty"`
}

// WSServerMessage исходящее сообщение websocket сервера
type WSServerMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Типы исходящих websocket сообщений
const (
	WSTypePasswordGenerated = "password_generated"
	WSTypeStrengthAnalyzed  = "strength_analyzed"
	WSTypeError             = "error"
)

// Действия входящих websocket сообщений
const (
	WSActionGenerate = "generate"
	WSActionAnalyze  = "analyze"
)
