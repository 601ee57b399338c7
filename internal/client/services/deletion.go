package services

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/myshelf/internal/client/models"
)

type deleteState int

const (
	deletePending deleteState = iota
	deleteCommitting
	deleteUndone
)

// PendingDelete is a delete whose local part is done and whose remote part
// waits for the undo window to pass.
type PendingDelete struct {
	o      *Orchestrator
	ctx    context.Context
	owner  string
	book   models.Book
	timer  *time.Timer
	done   chan struct{}
	mu     sync.Mutex
	state  deleteState
	result error
}

// ScheduleDelete removes b from the cache now and commits the delete after
// window unless Undo is called first.
func (o *Orchestrator) ScheduleDelete(ctx context.Context, ownerID string, b models.Book, window time.Duration) (*PendingDelete, error) {
	if err := o.RemoveLocally(ctx, b); err != nil {
		return nil, err
	}
	o.markDeleting(b.ID)

	p := &PendingDelete{
		o:     o,
		ctx:   context.WithoutCancel(ctx),
		owner: ownerID,
		book:  b,
		done:  make(chan struct{}),
	}
	p.mu.Lock()
	p.timer = time.AfterFunc(window, p.fire)
	p.mu.Unlock()

	return p, nil
}

func (p *PendingDelete) Book() models.Book { return p.book }

func (p *PendingDelete) fire() {
	if p.begin() {
		p.commit()
	}
}

func (p *PendingDelete) begin() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != deletePending {
		return false
	}
	p.state = deleteCommitting
	p.timer.Stop()
	return true
}

func (p *PendingDelete) commit() {
	err := p.o.CommitDelete(p.ctx, p.owner, p.book)
	p.o.clearDeleting(p.book.ID)
	p.mu.Lock()
	p.result = err
	p.mu.Unlock()
	close(p.done)
}

// Undo cancels the delete and restores the book. It fails with
// ErrUndoExpired once the commit has started.
func (p *PendingDelete) Undo(ctx context.Context) (models.Book, error) {
	p.mu.Lock()
	if p.state != deletePending {
		p.mu.Unlock()
		return p.book, ErrUndoExpired
	}
	p.state = deleteUndone
	p.timer.Stop()
	p.mu.Unlock()
	defer close(p.done)
	defer p.o.clearDeleting(p.book.ID)

	return p.o.Restore(ctx, p.owner, p.book)
}

// Flush commits the delete now if it is still pending and waits for the
// outcome.
func (p *PendingDelete) Flush(ctx context.Context) error {
	if p.begin() {
		p.commit()
	}
	return p.Wait(ctx)
}

// Wait blocks until the delete was committed or undone. It returns the
// commit error, if any.
func (p *PendingDelete) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-p.done:
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.result
}
