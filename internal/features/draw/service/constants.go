package service

import "time"

const (
	DefaultAllocationRetries = 3                     // Сколько раз переиздаём всю пачку при конфликте нумерации
	DefaultRetryDelay        = 50 * time.Millisecond // Базовая задержка, растет линейно с номером попытки
)

// Метки результата для метрики winner_marks
const (
	markResultChanged  = "changed"
	markResultNoop     = "noop"
	markResultConflict = "conflict"
	markResultNotFound = "not_found"
	markResultError    = "error"
)
