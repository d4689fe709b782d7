// Package tutor генерирует объяснения, задачи и ответы тьютора через
// чат-модель и откатывается к статическому банку при любом сбое.
package tutor

import (
	"context"
	"errors"
)

// ErrEmptyResponse - модель вернула ответ без содержимого
var ErrEmptyResponse = errors.New("empty completion")

// ChatRequest - один запрос к чат-модели
type ChatRequest struct {
	System      string
	User        string
	Temperature float32
	MaxTokens   int
}

// Provider - клиент чат-модели
type Provider interface {
	Complete(ctx context.Context, req ChatRequest) (string, error)
	ModelID() string
}
