package calculation

import (
	"fmt"

	"github.com/ukpaye/payroll-engine/internal/domain"
)

func invalidInput(parameter string, value any, reason string) error {
	return &domain.InvalidInputError{Parameter: parameter, Value: value, Reason: reason}
}

func inconsistent(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrInconsistentData, fmt.Sprintf(format, args...))
}
