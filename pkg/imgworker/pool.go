package imgworker

import (
	"context"
	"hash/fnv"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// ImageJob is one image-generation unit of work. Jobs for the same plan+day
// land on the same worker; distinct days run in parallel.
type ImageJob struct {
	PlanID  string
	Day     int
	Handler func(ctx context.Context) error
}

// PoolStats is a live snapshot of the pool.
type PoolStats struct {
	NumWorkers      int           `json:"num_workers"`
	QueueSize       int           `json:"queue_size"`
	ActiveWorkers   int           `json:"active_workers"`
	TotalDispatched int64         `json:"total_dispatched"`
	TotalProcessed  int64         `json:"total_processed"`
	TotalDropped    int64         `json:"total_dropped"`
	TotalErrors     int64         `json:"total_errors"`
	WorkerStats     []WorkerStats `json:"worker_stats"`
}

type WorkerStats struct {
	WorkerID      int   `json:"worker_id"`
	QueueDepth    int   `json:"queue_depth"`
	IsProcessing  bool  `json:"is_processing"`
	JobsProcessed int64 `json:"jobs_processed"`
}

// ImageWorkerPool runs the per-post image batch of a plan generation. The
// batch is unordered; callers restore day ordering after it completes.
type ImageWorkerPool struct {
	numWorkers int
	queueSize  int
	workers    []*worker
	wg         sync.WaitGroup
	stopOnce   sync.Once
	stopped    int32

	totalDispatched int64
	totalProcessed  int64
	totalDropped    int64
	totalErrors     int64
}

type worker struct {
	id            int
	jobQueue      chan ImageJob
	ctx           context.Context
	cancel        context.CancelFunc
	isProcessing  int32
	jobsProcessed int64
	pool          *ImageWorkerPool
}

func NewImageWorkerPool(numWorkers, queueSize int) *ImageWorkerPool {
	if numWorkers <= 0 {
		numWorkers = 4
	}
	if queueSize <= 0 {
		queueSize = 64
	}
	return &ImageWorkerPool{
		numWorkers: numWorkers,
		queueSize:  queueSize,
		workers:    make([]*worker, numWorkers),
	}
}

// Start launches the workers. The pool stops when Stop is called or ctx is
// cancelled.
func (p *ImageWorkerPool) Start(ctx context.Context) {
	for i := 0; i < p.numWorkers; i++ {
		workerCtx, cancel := context.WithCancel(ctx)
		w := &worker{
			id:       i,
			jobQueue: make(chan ImageJob, p.queueSize),
			ctx:      workerCtx,
			cancel:   cancel,
			pool:     p,
		}
		p.workers[i] = w

		p.wg.Add(1)
		go w.run(&p.wg)
	}

	logrus.Infof("[IMG_WORKER_POOL] Started with %d workers, queue size: %d", p.numWorkers, p.queueSize)
}

// TryDispatch enqueues a job without blocking and reports whether it fit.
func (p *ImageWorkerPool) TryDispatch(job ImageJob) bool {
	if atomic.LoadInt32(&p.stopped) == 1 {
		atomic.AddInt64(&p.totalDropped, 1)
		return false
	}

	shard := p.shardForJob(job.PlanID, job.Day)
	atomic.AddInt64(&p.totalDispatched, 1)

	sent := func() (ok bool) {
		defer func() {
			if r := recover(); r != nil {
				ok = false
			}
		}()
		select {
		case p.workers[shard].jobQueue <- job:
			return true
		default:
			return false
		}
	}()

	if sent {
		return true
	}
	atomic.AddInt64(&p.totalDropped, 1)
	logrus.Warnf("[IMG_WORKER_POOL] Worker %d queue full (or stopped), dropping job for %s day %d",
		shard, job.PlanID, job.Day)
	return false
}

func (p *ImageWorkerPool) Dispatch(job ImageJob) {
	_ = p.TryDispatch(job)
}

// Stop shuts the pool down gracefully, draining queued jobs.
func (p *ImageWorkerPool) Stop() {
	p.stopOnce.Do(func() {
		atomic.StoreInt32(&p.stopped, 1)
		logrus.Info("[IMG_WORKER_POOL] Stopping workers...")

		for _, w := range p.workers {
			w.cancel()
			close(w.jobQueue)
		}
		p.wg.Wait()

		logrus.Info("[IMG_WORKER_POOL] All workers stopped")
	})
}

func (p *ImageWorkerPool) shardForJob(planID string, day int) int {
	h := fnv.New32a()
	h.Write([]byte(planID))
	h.Write([]byte{byte(day), byte(day >> 8)})
	return int(h.Sum32() % uint32(p.numWorkers))
}

func (p *ImageWorkerPool) GetStats() PoolStats {
	workerStats := make([]WorkerStats, len(p.workers))
	activeWorkers := 0

	for i, w := range p.workers {
		isProcessing := atomic.LoadInt32(&w.isProcessing) == 1
		if isProcessing {
			activeWorkers++
		}
		workerStats[i] = WorkerStats{
			WorkerID:      w.id,
			QueueDepth:    len(w.jobQueue),
			IsProcessing:  isProcessing,
			JobsProcessed: atomic.LoadInt64(&w.jobsProcessed),
		}
	}

	return PoolStats{
		NumWorkers:      p.numWorkers,
		QueueSize:       p.queueSize,
		ActiveWorkers:   activeWorkers,
		TotalDispatched: atomic.LoadInt64(&p.totalDispatched),
		TotalProcessed:  atomic.LoadInt64(&p.totalProcessed),
		TotalDropped:    atomic.LoadInt64(&p.totalDropped),
		TotalErrors:     atomic.LoadInt64(&p.totalErrors),
		WorkerStats:     workerStats,
	}
}

func (w *worker) run(wg *sync.WaitGroup) {
	defer wg.Done()

	logrus.Debugf("[IMG_WORKER_POOL] Worker %d started", w.id)

	for {
		select {
		case job, ok := <-w.jobQueue:
			if !ok {
				logrus.Debugf("[IMG_WORKER_POOL] Worker %d shutting down", w.id)
				return
			}

			func() {
				atomic.StoreInt32(&w.isProcessing, 1)
				defer func() {
					if r := recover(); r != nil {
						atomic.AddInt64(&w.pool.totalErrors, 1)
						logrus.Errorf("[IMG_WORKER_POOL] Worker %d panic for %s day %d: %v", w.id, job.PlanID, job.Day, r)
					}
					atomic.StoreInt32(&w.isProcessing, 0)
					atomic.AddInt64(&w.jobsProcessed, 1)
					atomic.AddInt64(&w.pool.totalProcessed, 1)
				}()

				if err := job.Handler(w.ctx); err != nil {
					atomic.AddInt64(&w.pool.totalErrors, 1)
					logrus.WithError(err).Errorf("[IMG_WORKER_POOL] Worker %d job failed for %s day %d",
						w.id, job.PlanID, job.Day)
				}
			}()

		case <-w.ctx.Done():
			logrus.Debugf("[IMG_WORKER_POOL] Worker %d context cancelled, draining queue...", w.id)
			w.drainQueue()
			return
		}
	}
}

func (w *worker) drainQueue() {
	for {
		select {
		case job, ok := <-w.jobQueue:
			if !ok {
				return
			}
			func() {
				defer func() {
					if r := recover(); r != nil {
						atomic.AddInt64(&w.pool.totalErrors, 1)
						logrus.Errorf("[IMG_WORKER_POOL] Worker %d drain panic: %v", w.id, r)
					}
				}()
				if err := job.Handler(w.ctx); err != nil {
					logrus.WithError(err).Errorf("[IMG_WORKER_POOL] Worker %d drain job failed", w.id)
				}
			}()
		default:
			return
		}
	}
}

var (
	globalPool     *ImageWorkerPool
	globalPoolOnce sync.Once
)

// GetGlobalPool returns the process-wide pool, creating it on first use.
func GetGlobalPool() *ImageWorkerPool {
	globalPoolOnce.Do(func() {
		globalPool = NewImageWorkerPool(4, 64)
		globalPool.Start(context.Background())
	})
	return globalPool
}

// InitGlobalPool sizes and starts the process-wide pool explicitly. It is a
// no-op if the pool already exists.
func InitGlobalPool(ctx context.Context, numWorkers, queueSize int) *ImageWorkerPool {
	globalPoolOnce.Do(func() {
		globalPool = NewImageWorkerPool(numWorkers, queueSize)
		globalPool.Start(ctx)
	})
	return globalPool
}
