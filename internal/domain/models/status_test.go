package models_test

import (
	"testing"

	"github.com/linemk/storefront/internal/domain/models"
	"github.com/stretchr/testify/assert"
)

func TestCanTransition_Strict(t *testing.T) {
	cases := []struct {
		from, to models.Status
		want     bool
	}{
		{models.StatusPending, models.StatusProcessing, true},
		{models.StatusPending, models.StatusShipped, true},
		{models.StatusPending, models.StatusCancelled, true},
		{models.StatusProcessing, models.StatusDelivered, true},
		{models.StatusShipped, models.StatusDelivered, true},
		{models.StatusShipped, models.StatusCancelled, false},
		{models.StatusShipped, models.StatusPending, false},
		{models.StatusDelivered, models.StatusPending, false},
		{models.StatusCancelled, models.StatusProcessing, false},
		// повтор того же статуса разрешён
		{models.StatusShipped, models.StatusShipped, true},
		{models.StatusDelivered, models.StatusDelivered, true},
		{models.StatusPending, models.Status("lost"), false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, models.CanTransition(tc.from, tc.to, true), "%s -> %s", tc.from, tc.to)
	}
}

func TestCanTransition_Permissive(t *testing.T) {
	assert.True(t, models.CanTransition(models.StatusDelivered, models.StatusPending, false))
	assert.True(t, models.CanTransition(models.StatusCancelled, models.StatusShipped, false))
	assert.False(t, models.CanTransition(models.StatusPending, models.Status(""), false))
}

func TestStatus_IsTerminal(t *testing.T) {
	assert.True(t, models.StatusDelivered.IsTerminal())
	assert.True(t, models.StatusCancelled.IsTerminal())
	assert.False(t, models.StatusShipped.IsTerminal())
	assert.False(t, models.Status("lost").IsTerminal())
}
