package utils_test

import (
	"testing"

	"github.com/jrsteele09/go-bff-gateway/internal/utils"
	"github.com/stretchr/testify/require"
)

func TestStringSlice(t *testing.T) {
	require.Equal(t, []string{"Admin"}, utils.StringSlice("Admin"))
	require.Equal(t, []string{"a", "b"}, utils.StringSlice([]any{"a", 42, "", "b"}))
	require.Equal(t, []string{"x"}, utils.StringSlice([]string{"x"}))
	require.Nil(t, utils.StringSlice(""))
	require.Nil(t, utils.StringSlice(nil))
	require.Nil(t, utils.StringSlice(map[string]any{"a": "b"}))
}
