package supervisor

import "time"

// eta implements spec.md §4.5's ETA formula:
//
//	ETA = max(avg * (total - nbend) / concurrency - last_dur, 0)
//
// where avg excludes terminated jobs whose exit was 255 (an SSH
// transport failure, not representative job work), concurrency is
// max(min(poolSize, nbRunning), 1), and lastDur is the age of the
// most recently started RUNNING slot. hasAvg is false (and the caller should render
// ".:..:..") until at least one job has contributed to avg.
func eta(sumDuration time.Duration, nbAvgJobs, poolSize, nbRunning, nbTerminal, total int, lastDur time.Duration) (duration time.Duration, hasAvg bool) {
	if nbAvgJobs == 0 {
		return 0, false
	}
	avg := sumDuration / time.Duration(nbAvgJobs)

	concurrency := nbRunning
	if concurrency > poolSize {
		concurrency = poolSize
	}
	if concurrency < 1 {
		concurrency = 1
	}

	remaining := total - nbTerminal
	estimate := time.Duration(float64(avg)*float64(remaining)/float64(concurrency)) - lastDur
	if estimate < 0 {
		estimate = 0
	}
	return estimate, true
}

// isTransportSentinel reports whether an exit code indicates the class
// of failure the original's INTERRUPT reclassification treats as "the
// process never really ran its own job" (signaled, or ssh's own exit
// 255). Go's exec.ExitError normalizes signal deaths to -1, so this is
// a narrower set than the original's {-2, 255, 0xFFFFFFFF} raw wait()
// statuses.
func isTransportSentinel(exit int) bool {
	switch exit {
	case -1, -2, 255:
		return true
	default:
		return false
	}
}
