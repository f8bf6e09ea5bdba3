package baas

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheckTable(t *testing.T) {
	require.NoError(t, CheckTable(TableServices))
	require.NoError(t, CheckTable(TableGallery))
	require.Error(t, CheckTable("users; DROP TABLE users"))
	require.Error(t, CheckTable(""))
}
