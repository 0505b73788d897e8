package errors_test

import (
	"errors"
	"fmt"
	"testing"

	apperrors "github.com/Adithya-Monish-Kumar-K/textkit/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, apperrors.ExitOK},
		{"not found", apperrors.ErrNotFound, apperrors.ExitNotFound},
		{"wrapped not found", fmt.Errorf("opening x: %w", apperrors.ErrNotFound), apperrors.ExitNotFound},
		{"invalid argument", apperrors.New(apperrors.ErrInvalidArgument, "chunk size 0"), apperrors.ExitInvalidArgument},
		{"decode", apperrors.Newf(apperrors.ErrDecode, "file %s", "a.bin"), apperrors.ExitDecode},
		{"unknown", errors.New("boom"), apperrors.ExitFailure},
		{"explicit code", &apperrors.AppError{Err: apperrors.ErrInternal, Message: "x", ExitCode: 9}, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, apperrors.ExitCode(tt.err))
		})
	}
}

func TestAppErrorUnwrap(t *testing.T) {
	t.Parallel()

	err := apperrors.Newf(apperrors.ErrNotFound, "file not found: %s", "missing.txt")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Equal(t, "not found: file not found: missing.txt", err.Error())
}
