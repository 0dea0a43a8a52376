package main

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// SendState represents the outcome of a simulated message send
type SendState string

const (
	StateSent    SendState = "SENT"
	StateFailed  SendState = "FAILED"
	StatePending SendState = "PENDING"
)

// SendRequest mirrors what the notifier would hand to a desktop messaging
// client: a destination phone and a prepared text.
type SendRequest struct {
	Phone string `json:"phone" binding:"required"`
	Text  string `json:"text" binding:"required"`
}

// SendResponse represents the simulated client's reply
type SendResponse struct {
	MessageID   string     `json:"message_id"`
	State       SendState  `json:"state"`
	SentAt      *time.Time `json:"sent_at,omitempty"`
	ErrorCode   string     `json:"error_code,omitempty"`
	ErrorMsg    string     `json:"error_msg,omitempty"`
	ClientID    string     `json:"client_id"`
	ProcessedAt time.Time  `json:"processed_at"`
}

// HealthResponse represents health check response
type HealthResponse struct {
	Status    string    `json:"status"`
	ClientID  string    `json:"client_id"`
	Timestamp time.Time `json:"timestamp"`
	SendRate  float64   `json:"send_rate"`
}

// MockClient simulates a desktop messaging client that the notifier opens
// deep links against. Useful for exercising the dispatch path without a
// real messaging app installed.
type MockClient struct {
	sendRate float64
	minDelay time.Duration
	maxDelay time.Duration
	clientID string
	rng      *rand.Rand
}

func NewMockClient(sendRate float64, minDelay, maxDelay time.Duration) *MockClient {
	return &MockClient{
		sendRate: sendRate,
		minDelay: minDelay,
		maxDelay: maxDelay,
		clientID: "MOCK_CLIENT_" + uuid.New().String()[:8],
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// simulateSend simulates composing and sending a message in the desktop app
func (m *MockClient) simulateSend(req *SendRequest) *SendResponse {
	delay := m.randomDelay()
	time.Sleep(delay)

	response := &SendResponse{
		MessageID:   uuid.New().String(),
		ClientID:    m.clientID,
		ProcessedAt: time.Now(),
	}

	if m.shouldSucceed() {
		now := time.Now()
		response.State = StateSent
		response.SentAt = &now

		log.Info().
			Str("message_id", response.MessageID).
			Str("phone", req.Phone).
			Dur("delay", delay).
			Msg("message sent")
	} else {
		response.State = StateFailed
		response.ErrorCode = m.randomErrorCode()
		response.ErrorMsg = m.errorMessage(response.ErrorCode)

		log.Warn().
			Str("message_id", response.MessageID).
			Str("phone", req.Phone).
			Str("error_code", response.ErrorCode).
			Msg("message send failed")
	}

	return response
}

func (m *MockClient) randomDelay() time.Duration {
	delta := m.maxDelay - m.minDelay
	randomDelta := time.Duration(m.rng.Int63n(int64(delta)))
	return m.minDelay + randomDelta
}

func (m *MockClient) shouldSucceed() bool {
	return m.rng.Float64() < m.sendRate
}

func (m *MockClient) randomErrorCode() string {
	errorCodes := []string{
		"INVALID_NUMBER",
		"NOT_LOGGED_IN",
		"WINDOW_NOT_FOUND",
		"CLIPBOARD_BUSY",
		"APP_NOT_INSTALLED",
	}
	return errorCodes[m.rng.Intn(len(errorCodes))]
}

func (m *MockClient) errorMessage(code string) string {
	msgs := map[string]string{
		"INVALID_NUMBER":    "The phone number is invalid or has no messaging account",
		"NOT_LOGGED_IN":     "Desktop client is not logged in",
		"WINDOW_NOT_FOUND":  "Could not locate the messaging window to focus",
		"CLIPBOARD_BUSY":    "Another process holds the clipboard",
		"APP_NOT_INSTALLED": "No desktop messaging client is installed",
	}

	if msg, ok := msgs[code]; ok {
		return msg
	}
	return "Unknown error occurred"
}

// Handler struct holds the mock client and routes
type Handler struct {
	client *MockClient
}

func NewHandler(client *MockClient) *Handler {
	return &Handler{client: client}
}

// Send handles simulated message send requests
func (h *Handler) Send(c *gin.Context) {
	var req SendRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}

	log.Info().
		Str("phone", req.Phone).
		Int("text_len", len(req.Text)).
		Msg("received send request")

	response := h.client.simulateSend(&req)

	statusCode := http.StatusOK
	if response.State == StateFailed {
		statusCode = http.StatusAccepted // 202: accepted but failed to send
	}

	c.JSON(statusCode, response)
}

// HealthCheck handles health check requests
func (h *Handler) HealthCheck(c *gin.Context) {
	// Simulate 5% downtime
	if h.client.rng.Float64() < 0.05 {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unavailable",
			"error":  "client temporarily unavailable",
		})
		return
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		ClientID:  h.client.clientID,
		Timestamp: time.Now(),
		SendRate:  h.client.sendRate,
	})
}

// UpdateConfig allows changing the simulated send rate at runtime
func (h *Handler) UpdateConfig(c *gin.Context) {
	var config struct {
		SendRate *float64 `json:"send_rate"`
	}

	if err := c.ShouldBindJSON(&config); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}

	if config.SendRate != nil {
		if *config.SendRate >= 0 && *config.SendRate <= 1.0 {
			h.client.sendRate = *config.SendRate
			log.Info().Float64("rate", *config.SendRate).Msg("updated send rate")
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "configuration updated",
		"send_rate": h.client.sendRate,
	})
}

// SetupRouter configures all routes
func SetupRouter(handler *Handler) *gin.Engine {
	router := gin.Default()

	// Add request logging middleware
	router.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)

		log.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", duration).
			Msg("request processed")
	})

	v1 := router.Group("/api/v1")
	{
		v1.POST("/messages/send", handler.Send)
		v1.GET("/health", handler.HealthCheck)
		v1.PUT("/config", handler.UpdateConfig)
	}

	router.GET("/health", handler.HealthCheck)

	return router
}

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	port := getEnv("PORT", "8082")
	sendRate := getEnvFloat("SEND_RATE", 1)
	minDelay := getEnvDuration("MIN_DELAY", 500*time.Millisecond)
	maxDelay := getEnvDuration("MAX_DELAY", 3*time.Second)

	log.Info().
		Str("port", port).
		Float64("send_rate", sendRate).
		Dur("min_delay", minDelay).
		Dur("max_delay", maxDelay).
		Msg("starting mock messaging client")

	client := NewMockClient(sendRate, minDelay, maxDelay)
	handler := NewHandler(client)
	router := SetupRouter(handler)

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited")
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		var f float64
		if _, err := fmt.Sscanf(value, "%f", &f); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
