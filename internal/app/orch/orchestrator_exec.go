package orch

import (
	"context"
	"fmt"
	"time"

	"github.com/dkeye/CodeRoom/internal/core"
	"github.com/dkeye/CodeRoom/internal/domain"
	"github.com/dkeye/CodeRoom/internal/metrics"
	"github.com/rs/zerolog/log"
)

const busyMessage = "Code is already running in this room. Please wait."

// RunRequest is a compileCode intent. Empty Language and Stdin fall back to
// the room's current values; empty Version means latest.
type RunRequest struct {
	RoomID   domain.RoomID
	Source   string
	Language string
	Version  string
	Stdin    string
}

// Run gates the request on the room's execution lock and, when it gets the
// lock, starts the external call in the background. It returns
// ErrRoomNotFound or ErrExecutionBusy when the request was rejected; both
// are already reported to the requester.
func (o *Orchestrator) Run(ctx context.Context, sid core.SessionID, req RunRequest) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	room, ok := o.joinedRoomLocked(sid, req.RoomID)
	if !ok {
		metrics.Executions.WithLabelValues(metrics.OutcomeNoRoom).Inc()
		o.send(sid, core.TypeCodeResponse, domain.FailureResult("Error: "+domain.ErrRoomNotFound.Error()))
		return domain.ErrRoomNotFound
	}
	if !room.TryAcquireExecution() {
		metrics.Executions.WithLabelValues(metrics.OutcomeBusy).Inc()
		o.send(sid, core.TypeExecutionBusy, core.BusyPayload{Message: busyMessage})
		return domain.ErrExecutionBusy
	}

	exec := execRequest(room.Snapshot(), req)
	o.broadcast(room, "", core.TypeExecutionStarted, nil)
	log.Info().Str("module", "orch.exec").Str("sid", string(sid)).Str("room", string(room.Room().ID)).Str("language", exec.Language).Str("version", exec.Version).Msg("execution started")

	o.inflight.Add(1)
	go o.execute(ctx, room, exec)
	return nil
}

func execRequest(doc domain.Document, req RunRequest) domain.ExecRequest {
	lang := domain.Language{Name: req.Language, Version: req.Version}
	if lang.Name == "" {
		lang = doc.Language
	}
	if lang.Version == "" {
		lang.Version = domain.AnyVersion
	}
	stdin := req.Stdin
	if stdin == "" {
		stdin = doc.Stdin
	}
	return domain.ExecRequest{
		Language: lang.Name,
		Version:  lang.Version,
		Source:   req.Source,
		Stdin:    stdin,
	}
}

// execute owns the lock taken in Run and releases it on every exit path.
func (o *Orchestrator) execute(ctx context.Context, room core.RoomService, req domain.ExecRequest) {
	defer o.inflight.Done()
	defer o.release(room)

	start := time.Now()
	res, err := o.callExecutor(ctx, req)
	metrics.ExecutionDuration.Observe(time.Since(start).Seconds())

	o.mu.Lock()
	defer o.mu.Unlock()
	roomID := string(room.Room().ID)
	if err != nil {
		metrics.Executions.WithLabelValues(metrics.OutcomeFailed).Inc()
		log.Warn().Err(err).Str("module", "orch.exec").Str("room", roomID).Msg("execution failed")
		res = domain.FailureResult("Error: " + err.Error())
	} else {
		metrics.Executions.WithLabelValues(metrics.OutcomeOK).Inc()
		room.SetOutput(res.Run.Output)
		log.Info().Str("module", "orch.exec").Str("room", roomID).Dur("took", time.Since(start)).Msg("execution finished")
	}
	o.broadcast(room, "", core.TypeCodeResponse, res)
}

func (o *Orchestrator) callExecutor(ctx context.Context, req domain.ExecRequest) (res domain.ExecResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: executor panic: %v", domain.ErrExecutionFailure, r)
		}
	}()
	if o.Executor == nil {
		return res, fmt.Errorf("%w: no execution service configured", domain.ErrExecutionFailure)
	}
	if o.ExecTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.ExecTimeout)
		defer cancel()
	}
	res, err = o.Executor.Execute(ctx, req)
	if err != nil {
		return res, fmt.Errorf("%w: %w", domain.ErrExecutionFailure, err)
	}
	return res, nil
}

func (o *Orchestrator) release(room core.RoomService) {
	o.mu.Lock()
	defer o.mu.Unlock()
	room.ReleaseExecution()
	o.broadcast(room, "", core.TypeExecutionEnded, nil)
	log.Debug().Str("module", "orch.exec").Str("room", string(room.Room().ID)).Msg("execution lock released")
}

// Wait blocks until every started execution has ended.
func (o *Orchestrator) Wait() {
	o.inflight.Wait()
}
