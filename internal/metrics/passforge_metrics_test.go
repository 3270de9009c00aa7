package metrics

import (
	"context"
	"fmt"
	"testing"
	"time"
)

// TestNewPassForgeMetrics проверяет создание метрик генерации
func TestNewPassForgeMetrics(t *testing.T) {
	pm := NewPassForgeMetrics("passforge_test")

	if pm == nil {
		t.Fatal("Expected metrics, got nil")
	}
	if pm.GetBaseMetrics() == nil {
		t.Error("Expected base metrics to be initialized")
	}
}

// TestNewPassForgeMetrics_DoubleRegistration проверяет повторную регистрацию
func TestNewPassForgeMetrics_DoubleRegistration(t *testing.T) {
	_ = NewPassForgeMetrics("passforge_test")
	_ = NewPassForgeMetrics("passforge_test")
}

// TestPassForgeMetrics_Record проверяет запись метрик
func TestPassForgeMetrics_Record(t *testing.T) {
	pm := NewPassForgeMetrics("passforge_test")

	pm.RecordGeneration("ultra", 2*time.Millisecond)
	pm.IncrementGenerateErrors("validation")
	pm.IncrementWSClients()
	pm.RecordWSMessage("out", "password_generated")
	pm.RecordStrengthAnalysis("strong")
	pm.DecrementWSClients()
}

// TestPassForgeMetrics_TraceGeneration проверяет трассировку генерации
func TestPassForgeMetrics_TraceGeneration(t *testing.T) {
	pm := NewPassForgeMetrics("passforge_test")

	// Успешная генерация
	err := pm.TraceGeneration(context.Background(), 12, func(ctx context.Context) error {
		return nil
	})
	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}

	// Ошибка генерации проходит через трассировку
	wantErr := fmt.Errorf("generation failed")
	err = pm.TraceGeneration(context.Background(), 12, func(ctx context.Context) error {
		return wantErr
	})
	if err != wantErr {
		t.Errorf("Expected original error to be returned, got %v", err)
	}
}
