package proxmox

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// defaultPollInterval is the cadence at which task status is sampled while
// waiting for completion.
const defaultPollInterval = 2 * time.Second

// taskStatusStopped is the status value reported once a task has finished.
const taskStatusStopped = "stopped"

// taskExitOK is the exit status reported for a successfully finished task.
const taskExitOK = "OK"

// TaskRef identifies an asynchronous task: the node it runs on plus its
// UPID, the opaque task identifier every async Proxmox operation returns.
type TaskRef struct {
	Node string
	UPID string
}

// ParseUPID validates and splits a UPID string, returning a TaskRef for it.
// The node name is the second colon-separated field:
//
//	UPID:<node>:<pid>:<pstart>:<starttime>:<type>:<id>:<user>:
func ParseUPID(upid string) (TaskRef, error) {
	parts := strings.Split(upid, ":")
	if len(parts) < 8 || parts[0] != "UPID" || parts[1] == "" {
		return TaskRef{}, NewValidationError(fmt.Sprintf("malformed task identifier: %q", upid))
	}
	return TaskRef{Node: parts[1], UPID: upid}, nil
}

// TaskStatus is the state of an asynchronous task as reported by the API.
type TaskStatus struct {
	UPID       string `json:"upid"`
	Node       string `json:"node"`
	Type       string `json:"type"`
	ID         string `json:"id"`
	User       string `json:"user"`
	Status     string `json:"status"`
	ExitStatus string `json:"exitstatus,omitempty"`
	StartTime  int64  `json:"starttime"`
	PID        int    `json:"pid"`
}

// Finished reports whether the task has stopped running.
func (s *TaskStatus) Finished() bool {
	return s.Status == taskStatusStopped
}

// OK reports whether a finished task completed successfully.
func (s *TaskStatus) OK() bool {
	return s.Finished() && s.ExitStatus == taskExitOK
}

// TaskStatusPath returns the API path reporting the status of ref.
func TaskStatusPath(ref TaskRef) string {
	return fmt.Sprintf("/nodes/%s/tasks/%s/status", ref.Node, ref.UPID)
}

// WaitForTask polls the task's status endpoint until the task finishes or
// maxWait elapses. Each poll is a full pipeline call, so transient failures
// during polling are retried like any other request.
//
// Elapsed time is checked before every poll, so a budget slightly above a
// multiple of the poll interval still gets its final poll in. On timeout the
// error is a Connection failure carrying the task identifier and the elapsed
// time; the task itself keeps running server-side.
func (c *Client) WaitForTask(ctx context.Context, ref TaskRef, maxWait time.Duration) (*TaskStatus, error) {
	log := c.logger.With(
		slog.String("node", ref.Node),
		slog.String("upid", ref.UPID),
	)
	start := c.now()

	for {
		elapsed := c.now().Sub(start)
		if elapsed >= maxWait {
			c.metrics.RecordTaskWait("timeout", elapsed)
			return nil, NewConnectionError(
				fmt.Sprintf("task did not finish within %s", maxWait),
				nil,
			).WithContext("task", ref.UPID).WithContext("elapsed", elapsed.String())
		}

		var status TaskStatus
		if err := c.GetInto(ctx, TaskStatusPath(ref), &status); err != nil {
			return nil, err
		}

		if status.Finished() {
			outcome := "ok"
			if !status.OK() {
				outcome = "failed"
			}
			c.metrics.RecordTaskWait(outcome, c.now().Sub(start))
			log.Debug("task finished",
				slog.String("exitstatus", status.ExitStatus),
				slog.Duration("elapsed", c.now().Sub(start)),
			)
			return &status, nil
		}

		log.Debug("task still running", slog.Duration("elapsed", elapsed))
		timer := time.NewTimer(c.pollInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, NewConnectionError("wait for task cancelled", ctx.Err()).
				WithContext("task", ref.UPID)
		case <-timer.C:
		}
	}
}
