package api

import (
	"errors"
	"net/http"

	"github.com/aTrapDeer/portfolio-backend/internal/models"
	"github.com/aTrapDeer/portfolio-backend/internal/revalidate"
	"github.com/aTrapDeer/portfolio-backend/internal/storage"
)

// resource serves list/get/create/update/delete for one collection.
// P is the patch type decoded from request bodies.
type resource[T any, P any, PP interface {
	*P
	models.Patch[T]
}] struct {
	name   string // path segment and revalidation key, "skills"
	noun   string // lower-case singular for messages, "skill"
	title  string // "Skill"
	col    storage.Collection[T]
	notify revalidate.Notifier
}

func newResource[T any, P any, PP interface {
	*P
	models.Patch[T]
}](name, noun, title string, col storage.Collection[T], notify revalidate.Notifier) *resource[T, P, PP] {
	return &resource[T, P, PP]{name: name, noun: noun, title: title, col: col, notify: notify}
}

func (rs *resource[T, P, PP]) notFound() error {
	return errorf(http.StatusNotFound, rs.title+" not found")
}

func (rs *resource[T, P, PP]) list(w http.ResponseWriter, r *http.Request) {
	items, err := rs.col.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (rs *resource[T, P, PP]) get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, rs.noun)
	if err != nil {
		writeError(w, err)
		return
	}
	item, err := rs.col.Get(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, rs.notFound())
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (rs *resource[T, P, PP]) create(w http.ResponseWriter, r *http.Request) {
	patch := PP(new(P))
	if err := decode(w, r, rs.noun, patch); err != nil {
		writeError(w, err)
		return
	}
	if err := patch.Validate(false); err != nil {
		writeError(w, err)
		return
	}
	item := models.New[T](patch)
	if err := rs.col.Create(r.Context(), item); err != nil {
		writeError(w, err)
		return
	}
	rs.notify.Notify(rs.name)
	writeJSON(w, http.StatusOK, item)
}

func (rs *resource[T, P, PP]) update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, rs.noun)
	if err != nil {
		writeError(w, err)
		return
	}
	patch := PP(new(P))
	if err := decode(w, r, rs.noun, patch); err != nil {
		writeError(w, err)
		return
	}
	if err := patch.Validate(true); err != nil {
		writeError(w, err)
		return
	}
	item, err := rs.col.Update(r.Context(), id, func(dst *T) error {
		patch.Apply(dst)
		return nil
	})
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, rs.notFound())
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	rs.notify.Notify(rs.name)
	writeJSON(w, http.StatusOK, item)
}

func (rs *resource[T, P, PP]) remove(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, rs.noun)
	if err != nil {
		writeError(w, err)
		return
	}
	ok, err := rs.col.Delete(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	if !ok {
		writeError(w, rs.notFound())
		return
	}
	rs.notify.Notify(rs.name)
	writeMessage(w, http.StatusOK, rs.title+" deleted successfully")
}
