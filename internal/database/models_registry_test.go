package database

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPersistentModels_Complete(t *testing.T) {
	registered := make(map[string]bool)
	for _, model := range PersistentModels() {
		registered[fmt.Sprintf("%T", model)] = true
	}

	for _, want := range []string{
		"*models.User",
		"*models.Post",
		"*models.Comment",
		"*models.Like",
		"*models.Follow",
		"*models.SequenceCounter",
	} {
		require.True(t, registered[want], "PersistentModels should include %s", want)
	}
}
