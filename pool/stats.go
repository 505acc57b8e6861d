package pool

// Statistics is a consistent snapshot of pool occupancy, computed on the
// coordinator goroutine. While the pool is not running all counts are zero.
type Statistics struct {
	IdleWorkerCount     int
	BusyWorkerCount     int
	BackloggedWorkCount int
}

// LiveWorkers returns the number of workers currently counted against the
// pool maximum.
func (s Statistics) LiveWorkers() int {
	return s.IdleWorkerCount + s.BusyWorkerCount
}
