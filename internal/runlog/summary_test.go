package runlog

import (
	"os"
	"testing"
	"time"

	"github.com/ChuLiYu/ssh-para/internal/job"
	"github.com/stretchr/testify/require"
)

func TestWriteLogAndResult(t *testing.T) {
	layout, err := Create(t.TempDir(), "", 1)
	require.NoError(t, err)

	exit0 := 0
	begin := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	jobs := []job.Status{
		{Spec: job.Spec{Host: "a"}, State: job.SUCCESS, ExitCode: &exit0, Duration: 2 * time.Second},
	}

	s := Summary{
		Command:  "uptime",
		DirLog:   layout.Root,
		Jobs:     jobs,
		Begin:    begin,
		End:      begin.Add(5 * time.Second),
		NumHosts: 1,
		Counts:   "success: 1 - failed: 0",
	}

	require.NoError(t, layout.WriteLog(s))
	require.NoError(t, layout.WriteResult(s))

	logData, err := os.ReadFile(layout.Path("ssh-para.log"))
	require.NoError(t, err)
	require.Contains(t, string(logData), "SUCCESS")
	require.Contains(t, string(logData), "all jobs succeeded")

	resultData, err := os.ReadFile(layout.Path("ssh-para.result"))
	require.NoError(t, err)
	require.Contains(t, string(resultData), "runs: 1/1")
}
