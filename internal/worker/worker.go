package worker

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/olekukonko/tablewriter"
)

const maxReportBody = 1 << 10

type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

// Result is the outcome of one dispatched record request.
type Result struct {
	Method string
	URL    string
	Status int
	Body   string
	Err    error
	DryRun bool
}

type Pool struct {
	client    Doer
	numWorker int
	rate      int
	dryRun    bool
}

func NewPool(client Doer, numWorker, rate int, dryRun bool) *Pool {
	if numWorker < 1 {
		numWorker = 1
	}
	return &Pool{
		client:    client,
		numWorker: numWorker,
		rate:      rate,
		dryRun:    dryRun,
	}
}

// Run sends every request from reqs and returns one Result per request that
// was picked up before ctx was cancelled. Results are in completion order.
func (p *Pool) Run(ctx context.Context, reqs <-chan *http.Request) []Result {
	ctx1, cancel := context.WithCancel(ctx)
	defer cancel()

	var ticker *time.Ticker
	if p.rate > 0 {
		ticker = time.NewTicker(time.Second / time.Duration(p.rate))
		defer ticker.Stop()
	}

	co := make(chan Result, p.numWorker)
	var wg sync.WaitGroup
	for i := 0; i < p.numWorker; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for req := range reqs {
				if ticker != nil {
					select {
					case <-ticker.C:
					case <-ctx1.Done():
					}
				}
				select {
				case <-ctx1.Done():
					slog.Info("worker stopped due to context cancellation")
					return
				default:
				}
				co <- p.send(req.WithContext(ctx1))
			}
		}()
	}
	go func() {
		wg.Wait()
		close(co)
	}()

	var results []Result
	for res := range co {
		results = append(results, res)
	}
	return results
}

func (p *Pool) send(req *http.Request) Result {
	res := Result{Method: req.Method, URL: req.URL.String()}
	if p.dryRun {
		slog.Info("dry run", "method", req.Method, "url", res.URL)
		res.DryRun = true
		return res
	}
	resp, err := p.client.Do(req)
	if err != nil {
		slog.Error("request error", "url", res.URL, "error", err)
		res.Err = err
		return res
	}
	res.Status = resp.StatusCode
	if resp.Body != nil {
		b, err := io.ReadAll(io.LimitReader(resp.Body, maxReportBody))
		if err != nil {
			res.Err = err
		}
		res.Body = string(b)
		_ = resp.Body.Close()
	}
	slog.Debug("request sent", "url", res.URL, "status", res.Status)
	return res
}

// Failed counts results that errored or got a non-2xx status.
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if r.DryRun {
			continue
		}
		if r.Err != nil || r.Status < 200 || r.Status > 299 {
			n++
		}
	}
	return n
}

// Report renders results as a table.
func Report(w io.Writer, results []Result) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Method", "URL", "Status", "Body", "Error"})
	for _, r := range results {
		status := fmt.Sprintf("%d", r.Status)
		if r.DryRun {
			status = "dry-run"
		}
		errText := ""
		if r.Err != nil {
			errText = r.Err.Error()
		}
		if err := table.Append([]string{r.Method, r.URL, status, r.Body, errText}); err != nil {
			return err
		}
	}
	return table.Render()
}
