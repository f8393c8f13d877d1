package page

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/dafibh/fortuna/fortuna-admin/internal/domain"
	"github.com/dafibh/fortuna/fortuna-admin/internal/websocket"
)

const deleteFailedMessage = "Could not delete the record."

// crudRepository is the backend surface of a reference-data page
type crudRepository[T any, D any] interface {
	List(ctx context.Context) ([]*T, error)
	Create(ctx context.Context, draft D) (*T, error)
	Update(ctx context.Context, id int64, draft D) (*T, error)
	Delete(ctx context.Context, id int64) error
}

// binding tells CRUDPage how to treat one entity type
type binding[T any, D any] struct {
	entity    websocket.EntityType
	id        func(*T) int64
	name      func(*T) string
	blank     func() D
	draft     func(*T) D
	apply     func(*T, D) *T
	normalize func(D) D
	validate  func(D) error
}

// CRUDState is a snapshot of a CRUDPage
type CRUDState[T any, D any] struct {
	Items       []*T                `json:"items"`
	Mode        Mode                `json:"mode"`
	EditingID   *int64              `json:"editingId,omitempty"`
	Draft       *D                  `json:"draft,omitempty"`
	Loading     bool                `json:"loading"`
	Saving      bool                `json:"saving"`
	Error       string              `json:"error,omitempty"`
	FieldErrors []domain.FieldError `json:"fieldErrors,omitempty"`
}

// DeletePrompt asks the user to type the record's name before deleting it
type DeletePrompt struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

// CRUDPage is a list with one create-or-edit form on top of it.
//
// Successful writes are folded into the loaded list: a created record is
// prepended, an edited one replaces the entry with the same id, a deleted
// one is removed. Entries are never mutated in place, so untouched entries
// keep their identity across writes.
type CRUDPage[T any, D any] struct {
	repo    crudRepository[T, D]
	binding binding[T, D]
	events  notifier

	mu          sync.Mutex
	items       []*T
	mode        Mode
	editingID   int64
	draft       D
	loading     bool
	saving      bool
	errMsg      string
	fieldErrors []domain.FieldError
}

func newCRUDPage[T any, D any](repo crudRepository[T, D], b binding[T, D], opts []Option) *CRUDPage[T, D] {
	o := buildOptions(opts)
	return &CRUDPage[T, D]{
		repo:    repo,
		binding: b,
		events:  o.events,
		items:   []*T{},
		mode:    ModeBrowsing,
	}
}

// Load replaces the list with the backend's. On failure the list is left
// empty and the error is recorded for display.
func (p *CRUDPage[T, D]) Load(ctx context.Context) error {
	p.mu.Lock()
	if p.loading || p.saving {
		p.mu.Unlock()
		return domain.ErrBusy
	}
	p.loading = true
	p.mu.Unlock()

	items, err := p.repo.List(ctx)

	p.mu.Lock()
	p.loading = false
	if err != nil {
		p.items = []*T{}
		p.errMsg = failureMessage(err, loadFailedMessage)
		p.mu.Unlock()
		return err
	}
	p.items = items
	p.errMsg = ""
	p.mu.Unlock()

	p.events.publish(websocket.Loaded(p.binding.entity, len(items)))
	return nil
}

// StartCreate opens the form with blank defaults
func (p *CRUDPage[T, D]) StartCreate() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.saving {
		return domain.ErrBusy
	}
	p.mode = ModeCreating
	p.editingID = 0
	p.draft = p.binding.blank()
	p.errMsg = ""
	p.fieldErrors = nil
	return nil
}

// StartEdit opens the form with a copy of the record's current values.
// The list entry itself is untouched until the save succeeds.
func (p *CRUDPage[T, D]) StartEdit(id int64) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.saving {
		return domain.ErrBusy
	}
	i := p.indexOf(id)
	if i < 0 {
		return domain.ErrNotFound
	}
	p.mode = ModeEditing
	p.editingID = id
	p.draft = p.binding.draft(p.items[i])
	p.errMsg = ""
	p.fieldErrors = nil
	return nil
}

// SetDraft replaces the open form's values
func (p *CRUDPage[T, D]) SetDraft(draft D) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.saving {
		return domain.ErrBusy
	}
	if p.mode == ModeBrowsing {
		return domain.ErrNotEditing
	}
	p.draft = draft
	p.fieldErrors = nil
	return nil
}

// Cancel closes the form without saving
func (p *CRUDPage[T, D]) Cancel() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.saving {
		return domain.ErrBusy
	}
	p.closeForm()
	p.errMsg = ""
	return nil
}

// Save validates the draft and writes it. A validation failure returns a
// *domain.ValidationError without calling the backend. A backend failure
// keeps the form open with its draft.
func (p *CRUDPage[T, D]) Save(ctx context.Context) error {
	p.mu.Lock()
	if p.loading || p.saving {
		p.mu.Unlock()
		return domain.ErrBusy
	}
	if p.mode == ModeBrowsing {
		p.mu.Unlock()
		return domain.ErrNotEditing
	}
	draft := p.binding.normalize(p.draft)
	if err := p.binding.validate(draft); err != nil {
		p.fieldErrors = fieldErrorsOf(err)
		p.mu.Unlock()
		return err
	}
	mode, id := p.mode, p.editingID
	p.saving = true
	p.errMsg = ""
	p.fieldErrors = nil
	p.mu.Unlock()

	if mode == ModeCreating {
		return p.create(ctx, draft)
	}
	return p.update(ctx, id, draft)
}

func (p *CRUDPage[T, D]) create(ctx context.Context, draft D) error {
	created, err := p.repo.Create(ctx, draft)
	if errors.Is(err, domain.ErrNoRecord) {
		return p.reloadAfterWrite(ctx)
	}

	p.mu.Lock()
	if err != nil {
		p.failSave(err)
		p.mu.Unlock()
		return err
	}
	p.items = append([]*T{created}, p.items...)
	p.closeForm()
	p.mu.Unlock()

	p.events.publish(websocket.NewEvent(websocket.EventTypeCreated, p.binding.entity, created))
	return nil
}

func (p *CRUDPage[T, D]) update(ctx context.Context, id int64, draft D) error {
	updated, err := p.repo.Update(ctx, id, draft)

	p.mu.Lock()
	switch {
	case errors.Is(err, domain.ErrNoRecord):
		i := p.indexOf(id)
		if i < 0 {
			p.mu.Unlock()
			return p.reloadAfterWrite(ctx)
		}
		// no echo: what was persisted is the entry with the draft applied
		updated = p.binding.apply(p.items[i], draft)
	case err != nil:
		p.failSave(err)
		p.mu.Unlock()
		return err
	}
	if i := p.indexOf(id); i >= 0 {
		p.items[i] = updated
	} else {
		p.items = append([]*T{updated}, p.items...)
	}
	p.closeForm()
	p.mu.Unlock()

	p.events.publish(websocket.NewEvent(websocket.EventTypeUpdated, p.binding.entity, updated))
	return nil
}

// reloadAfterWrite refetches the list after a write whose response carried
// no record. The form is closed either way since the write went through.
func (p *CRUDPage[T, D]) reloadAfterWrite(ctx context.Context) error {
	items, err := p.repo.List(ctx)

	p.mu.Lock()
	p.closeForm()
	if err != nil {
		p.items = []*T{}
		p.errMsg = failureMessage(err, loadFailedMessage)
		p.mu.Unlock()
		return err
	}
	p.items = items
	p.mu.Unlock()

	p.events.publish(websocket.Loaded(p.binding.entity, len(items)))
	return nil
}

// DeletePrompt returns the confirmation the user must give to delete id
func (p *CRUDPage[T, D]) DeletePrompt(id int64) (DeletePrompt, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	i := p.indexOf(id)
	if i < 0 {
		return DeletePrompt{}, domain.ErrNotFound
	}
	name := p.binding.name(p.items[i])
	return DeletePrompt{
		ID:      id,
		Name:    name,
		Message: fmt.Sprintf("Type %q to delete it. This cannot be undone.", name),
	}, nil
}

// Remove deletes id once confirmation equals the record's name. Nothing is
// removed from the list before the backend confirms the delete.
func (p *CRUDPage[T, D]) Remove(ctx context.Context, id int64, confirmation string) error {
	p.mu.Lock()
	if p.loading || p.saving {
		p.mu.Unlock()
		return domain.ErrBusy
	}
	i := p.indexOf(id)
	if i < 0 {
		p.mu.Unlock()
		return domain.ErrNotFound
	}
	if strings.TrimSpace(confirmation) != p.binding.name(p.items[i]) {
		p.mu.Unlock()
		return domain.ErrConfirmationMismatch
	}
	p.saving = true
	p.errMsg = ""
	p.mu.Unlock()

	err := p.repo.Delete(ctx, id)

	p.mu.Lock()
	p.saving = false
	if err != nil {
		p.errMsg = failureMessage(err, deleteFailedMessage)
		p.mu.Unlock()
		return err
	}
	if i := p.indexOf(id); i >= 0 {
		p.items = slices.Delete(p.items, i, i+1)
	}
	if p.mode == ModeEditing && p.editingID == id {
		p.closeForm()
	}
	p.mu.Unlock()

	p.events.publish(websocket.NewEvent(websocket.EventTypeDeleted, p.binding.entity, map[string]int64{"id": id}))
	return nil
}

// State returns a snapshot safe to serialize while the page keeps changing
func (p *CRUDPage[T, D]) State() CRUDState[T, D] {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := CRUDState[T, D]{
		Items:       append([]*T{}, p.items...),
		Mode:        p.mode,
		Loading:     p.loading,
		Saving:      p.saving,
		Error:       p.errMsg,
		FieldErrors: slices.Clone(p.fieldErrors),
	}
	if p.mode == ModeEditing {
		id := p.editingID
		s.EditingID = &id
	}
	if p.mode != ModeBrowsing {
		draft := p.draft
		s.Draft = &draft
	}
	return s
}

// must hold p.mu
func (p *CRUDPage[T, D]) indexOf(id int64) int {
	return slices.IndexFunc(p.items, func(item *T) bool {
		return p.binding.id(item) == id
	})
}

// must hold p.mu
func (p *CRUDPage[T, D]) closeForm() {
	var zero D
	p.mode = ModeBrowsing
	p.editingID = 0
	p.draft = zero
	p.saving = false
	p.fieldErrors = nil
}

// must hold p.mu
func (p *CRUDPage[T, D]) failSave(err error) {
	p.saving = false
	p.errMsg = failureMessage(err, saveFailedMessage)
}
