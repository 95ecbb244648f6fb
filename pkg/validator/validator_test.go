package validator_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/notifykit/pkg/validator"
)

type color string

func TestApply(t *testing.T) {
	t.Parallel()

	t.Run("all rules pass", func(t *testing.T) {
		t.Parallel()
		err := validator.Apply(
			validator.Required("name", "ann"),
			validator.MaxLen("name", "ann", 3),
			validator.Min("limit", 0, 0),
			validator.Max("limit", 10, 10),
			validator.OneOf("color", color("red"), []color{"red", "blue"}),
		)
		assert.NoError(t, err)
	})

	t.Run("failures are collected in order", func(t *testing.T) {
		t.Parallel()
		err := validator.Apply(
			validator.Required("user_id", "  "),
			validator.MaxLen("event", "ééé", 2),
			validator.Min("offset", -1, 0),
			validator.OneOf("color", color("green"), []color{"red", "blue"}),
		)
		require.Error(t, err)
		assert.ErrorIs(t, err, validator.ErrValidationFailed)

		ve := validator.Extract(fmt.Errorf("bind: %w", err))
		require.Len(t, ve, 4)
		assert.Equal(t, "required", ve[0].Code)
		assert.Equal(t, []string{"must be at most 2 characters long"}, ve.Get("event"))
		assert.Equal(t, []string{"must be at least 0"}, ve.Get("offset"))
		assert.Equal(t, []string{"must be one of: red, blue"}, ve.Get("color"))
		assert.True(t, ve.Has("user_id"))
		assert.False(t, ve.Has("limit"))
		assert.Equal(t, "validation failed: user_id: field is required; event: must be at most 2 characters long; offset: must be at least 0; color: must be one of: red, blue", err.Error())
	})
}

func TestWhen(t *testing.T) {
	t.Parallel()

	rule := validator.OneOf("channel", "fax", []string{"email", "sms"})
	assert.NoError(t, validator.Apply(validator.When(false, rule)))
	assert.Error(t, validator.Apply(validator.When(true, rule)))
}

func TestValidationErrors_Map(t *testing.T) {
	t.Parallel()

	err := validator.Apply(
		validator.Required("user_id", ""),
		validator.MaxLen("user_id", "", -1),
		validator.Required("event", ""),
	)
	assert.Equal(t, map[string][]string{
		"user_id": {"field is required", "must be at most -1 characters long"},
		"event":   {"field is required"},
	}, validator.Extract(err).Map())
}

func TestExtract_NonValidation(t *testing.T) {
	t.Parallel()
	assert.Nil(t, validator.Extract(errors.New("boom")))
	assert.Nil(t, validator.Extract(nil))
	assert.False(t, errors.Is(errors.New("boom"), validator.ErrValidationFailed))
}
