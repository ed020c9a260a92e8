package pipeline

import (
	"fmt"
	"time"

	"github.com/rushteam/rankit/core"
)

// State 是单个请求的处理状态。
//
//	Validated → Retrieving → Scoring → Reranking → Paginating → Completed
//	任一非终态 → Failed
type State string

const (
	StateValidated  State = "validated"
	StateRetrieving State = "retrieving"
	StateScoring    State = "scoring"
	StateReranking  State = "reranking"
	StatePaginating State = "paginating"
	StateCompleted  State = "completed"
	StateFailed     State = "failed"
)

var stateOrder = map[State]int{
	StateValidated:  0,
	StateRetrieving: 1,
	StateScoring:    2,
	StateReranking:  3,
	StatePaginating: 4,
	StateCompleted:  5,
}

// Terminal 是否为终态。
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateFailed
}

// CanTransition 判断 from → to 是否合法：只能前进一步，或从非终态进入 Failed。
func CanTransition(from, to State) bool {
	if from.Terminal() {
		return false
	}
	if to == StateFailed {
		return true
	}
	fi, ok1 := stateOrder[from]
	ti, ok2 := stateOrder[to]
	return ok1 && ok2 && ti == fi+1
}

// StageTiming 记录一个状态的停留时长。
type StageTiming struct {
	State    State
	Duration time.Duration
}

// Tracker 驱动并记录单个请求的状态机。非并发安全，一个请求一个 Tracker。
type Tracker struct {
	state     State
	enteredAt time.Time
	timings   []StageTiming
	err       error
	now       func() time.Time

	// OnLeave 可选：离开某个状态时回调（用于阶段耗时指标）
	OnLeave func(state State, d time.Duration)
}

// NewTracker 创建处于 Validated 状态的 Tracker；请求在此之前已完成校验。
func NewTracker() *Tracker {
	return NewTrackerWithClock(time.Now)
}

func NewTrackerWithClock(now func() time.Time) *Tracker {
	if now == nil {
		now = time.Now
	}
	return &Tracker{
		state:     StateValidated,
		enteredAt: now(),
		now:       now,
	}
}

func (t *Tracker) State() State { return t.state }

// Err 返回进入 Failed 时的错误。
func (t *Tracker) Err() error { return t.err }

// Timings 返回已离开的各状态耗时（按发生顺序）。
func (t *Tracker) Timings() []StageTiming {
	out := make([]StageTiming, len(t.timings))
	copy(out, t.timings)
	return out
}

func (t *Tracker) leave() {
	now := t.now()
	d := now.Sub(t.enteredAt)
	t.timings = append(t.timings, StageTiming{State: t.state, Duration: d})
	if t.OnLeave != nil {
		t.OnLeave(t.state, d)
	}
	t.enteredAt = now
}

// Enter 进入下一个状态；与当前状态相同时为空操作。
func (t *Tracker) Enter(next State) error {
	if next == t.state {
		return nil
	}
	if !CanTransition(t.state, next) {
		return core.NewDomainError(core.ModuleEngine, core.ErrorCodeInternalError,
			fmt.Sprintf("illegal state transition %s -> %s", t.state, next))
	}
	t.leave()
	t.state = next
	return nil
}

// Fail 进入 Failed 并返回 err，已在终态时原样返回 err。
func (t *Tracker) Fail(err error) error {
	if t.state.Terminal() {
		return err
	}
	t.leave()
	t.state = StateFailed
	t.err = err
	return err
}

// Complete 从 Paginating 进入 Completed。
func (t *Tracker) Complete() error {
	if err := t.Enter(StateCompleted); err != nil {
		return t.Fail(err)
	}
	return nil
}
