package validation

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	// Верхняя граница одной выдачи билетов; это защита от опечаток, а не лимит розыгрыша
	MaxTicketsPerIssue = 10000
	MinTicketsPerIssue = 1
)

// ValidateQuantity проверяет количество билетов в одной выдаче
func ValidateQuantity(quantity int) error {
	if quantity < MinTicketsPerIssue {
		return fmt.Errorf("quantity must be at least %d", MinTicketsPerIssue)
	}
	if quantity > MaxTicketsPerIssue {
		return fmt.Errorf("quantity cannot exceed %d", MaxTicketsPerIssue)
	}
	return nil
}

// ValidateID проверяет положительный идентификатор
func ValidateID(field string, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%s must be a positive integer", field)
	}
	return nil
}

// ParseID разбирает идентификатор из параметра пути
func ParseID(field, raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("%s is required", field)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", field)
	}
	if err := ValidateID(field, id); err != nil {
		return 0, err
	}
	return id, nil
}
