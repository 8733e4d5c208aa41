package delivery

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/collection-desk/internal/document"
	"github.com/mamadbah2/collection-desk/internal/domain/models"
	"github.com/mamadbah2/collection-desk/internal/fonts"
)

// ErrExportFailed wraps the first failure of a batch. Items delivered before it stay delivered.
var ErrExportFailed = errors.New("delivery note export failed")

// Pacer decides how long to wait between two consecutive exports.
type Pacer interface {
	Wait(ctx context.Context) error
}

// FixedPacer waits a constant delay.
type FixedPacer struct {
	Delay time.Duration
}

func (p FixedPacer) Wait(ctx context.Context) error {
	if p.Delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(p.Delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// NoPacer never waits.
type NoPacer struct{}

func (NoPacer) Wait(ctx context.Context) error { return ctx.Err() }

// NewPacer returns a FixedPacer for positive delays and NoPacer otherwise.
func NewPacer(delay time.Duration) Pacer {
	if delay <= 0 {
		return NoPacer{}
	}
	return FixedPacer{Delay: delay}
}

// Document is one rendered delivery note.
type Document struct {
	FileName string
	Data     []byte
	Omitted  int
}

// Sink receives rendered documents in queue order.
type Sink interface {
	Deliver(ctx context.Context, doc Document) error
}

// Task is one queued export.
type Task struct {
	Group models.DeliveryNoteGroup
	Fees  models.FeeSummary
}

// Queue is a FIFO of export tasks.
type Queue struct {
	tasks []Task
}

// Push appends a task.
func (q *Queue) Push(t Task) {
	q.tasks = append(q.tasks, t)
}

// Pop removes and returns the oldest task.
func (q *Queue) Pop() (Task, bool) {
	if len(q.tasks) == 0 {
		return Task{}, false
	}
	t := q.tasks[0]
	q.tasks = q.tasks[1:]
	return t, true
}

// Len is the number of pending tasks.
func (q *Queue) Len() int {
	return len(q.tasks)
}

// Exporter drains a queue one task at a time: layout, render, deliver, pace.
type Exporter struct {
	engine   *document.Engine
	renderer *document.Renderer
	pacer    Pacer
	logger   *zap.Logger
}

// NewExporter wires an exporter. A nil pacer means no waiting.
func NewExporter(engine *document.Engine, renderer *document.Renderer, pacer Pacer, logger *zap.Logger) *Exporter {
	if pacer == nil {
		pacer = NoPacer{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Exporter{engine: engine, renderer: renderer, pacer: pacer, logger: logger}
}

// RenderTask produces the document for a single task with face.
func (e *Exporter) RenderTask(task Task, face *fonts.Face) (Document, error) {
	page := e.engine.Layout(task.Group, task.Fees, face)
	if page.Omitted > 0 {
		e.logger.Warn("delivery note truncated to table capacity",
			zap.String("file", task.Group.FileName),
			zap.Int("capacity", document.Capacity),
			zap.Int("omitted", page.Omitted))
	}

	data, err := e.renderer.RenderBytes(page, face)
	if err != nil {
		return Document{}, err
	}
	return Document{FileName: task.Group.FileName, Data: data, Omitted: page.Omitted}, nil
}

// Run exports every queued task with the same face. It returns how many documents
// reached the sink; on failure processing stops and the error wraps ErrExportFailed.
func (e *Exporter) Run(ctx context.Context, queue *Queue, face *fonts.Face, sink Sink) (int, error) {
	processed := 0
	for queue.Len() > 0 {
		if processed > 0 {
			if err := e.pacer.Wait(ctx); err != nil {
				return processed, fmt.Errorf("%w: %w", ErrExportFailed, err)
			}
		}

		task, _ := queue.Pop()
		doc, err := e.RenderTask(task, face)
		if err != nil {
			e.logger.Error("render delivery note", zap.String("file", task.Group.FileName), zap.Error(err))
			return processed, fmt.Errorf("%w: %s: %w", ErrExportFailed, task.Group.FileName, err)
		}

		if err := sink.Deliver(ctx, doc); err != nil {
			e.logger.Error("deliver delivery note", zap.String("file", doc.FileName), zap.Error(err))
			return processed, fmt.Errorf("%w: %s: %w", ErrExportFailed, doc.FileName, err)
		}

		processed++
		e.logger.Debug("delivery note exported", zap.String("file", doc.FileName), zap.Int("bytes", len(doc.Data)))
	}
	return processed, nil
}

// SuccessMessage is the user-facing confirmation of a finished batch.
func SuccessMessage(count int) string {
	return fmt.Sprintf("선택한 %d개 그룹의 송품장이 다운로드되었습니다.", count)
}

// FailureMessage is the single user-facing message for any failed export.
const FailureMessage = "송품장 생성 중 오류가 발생했습니다."
