package supervisor

import (
	"time"

	"github.com/ChuLiYu/ssh-para/internal/job"
)

// Snapshot is the supervisor's aggregate view at one instant, handed to
// a Renderer. It never aliases supervisor-internal state.
type Snapshot struct {
	Slots    []job.Status // index == slot; zero value for idle slots
	Running  int
	Pending  int
	Done     int
	Failed   int
	Total    int
	ETA      time.Duration
	HasETA   bool
	Paused   bool
	Event    *job.Status // the status just processed this tick, if any
}
