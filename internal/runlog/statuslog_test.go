package runlog

import (
	"os"
	"testing"

	"github.com/ChuLiYu/ssh-para/internal/job"
	"github.com/stretchr/testify/require"
)

func TestStatusLogAddHostAndCounts(t *testing.T) {
	layout, err := Create(t.TempDir(), "", 1)
	require.NoError(t, err)

	sl, err := OpenStatusLog(layout)
	require.NoError(t, err)
	defer sl.Close()

	sl.AddHost("a", job.SUCCESS)
	sl.AddHost("b", job.SUCCESS)
	sl.AddHost("c", job.FAILED)

	require.Equal(t, 2, sl.Counts()[job.SUCCESS])
	require.Equal(t, 1, sl.Counts()[job.FAILED])

	data, err := os.ReadFile(layout.Path("success.status"))
	require.NoError(t, err)
	require.Equal(t, "a\nb\n", string(data))

	require.Contains(t, sl.Result(), "success: 2")
	require.Contains(t, sl.Result(), "failed: 1")
}
