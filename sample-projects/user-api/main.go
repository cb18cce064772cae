package main

import (
	"log"
	"net/http"
	"sync"

	"github.com/google/uuid"

	"github.com/reoring/jsonmodel"
	"github.com/reoring/jsonmodel/middleware"
	"github.com/reoring/jsonmodel/object"
	"github.com/reoring/jsonmodel/property"
)

func userType() *object.Type {
	return object.NewType("User").
		Add("id", property.String().Optional().MustBuild()).
		Add("name", property.String().MinLength(1).MustBuild()).
		Add("email", property.String().Format("email").MustBuild()).
		Add("age", property.Number().Integer().Minimum(0).Optional().Default(18).MustBuild()).
		Add("active", property.Bool().Optional().Default(true).MustBuild()).
		NoAdditional().
		MustBuild()
}

// store keeps validated instances in memory, listed in creation order.
type store struct {
	mu    sync.RWMutex
	users map[string]*object.Object
	order []string
}

func newStore() *store {
	return &store{users: make(map[string]*object.Object)}
}

func (s *store) create(o *object.Object) (string, error) {
	id := uuid.NewString()
	if err := o.Set("id", id); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[id] = o
	s.order = append(s.order, id)
	return id, nil
}

func (s *store) list() ([]any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]any, 0, len(s.order))
	for _, id := range s.order {
		raw, err := s.users[id].RawJSON(false)
		if err != nil {
			return nil, err
		}
		out = append(out, raw)
	}
	return out, nil
}

func (s *store) raw(id string) (any, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.users[id]
	if !ok {
		return nil, false, nil
	}
	raw, err := o.RawJSON(false)
	return raw, true, err
}

func (s *store) replace(id string, o *object.Object) (any, bool, error) {
	if err := o.Set("id", id); err != nil {
		return nil, true, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return nil, false, nil
	}
	s.users[id] = o
	raw, err := o.RawJSON(false)
	return raw, true, err
}

// patch applies the provided fields to a copy and swaps it in only
// when every one validates, so the stored instance never holds a
// half-applied update.
func (s *store) patch(id string, fields map[string]any) (any, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.users[id]
	if !ok {
		return nil, false, nil
	}
	cp, err := o.JSONCopy(false)
	if err != nil {
		return nil, true, err
	}
	next := cp.(*object.Object)
	for name, v := range fields {
		if name == "id" {
			return nil, true, jsonmodel.Propertyf("property \"id\" is assigned by the server")
		}
		if err := next.Set(name, v); err != nil {
			return nil, true, err
		}
	}
	s.users[id] = next
	raw, err := next.RawJSON(false)
	return raw, true, err
}

func (s *store) remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return false
	}
	delete(s.users, id)
	for i, k := range s.order {
		if k == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

type server struct {
	typ   *object.Type
	store *store
}

func writeJSON(w http.ResponseWriter, status int, raw any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = jsonmodel.WriteJSON(w, raw)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, middleware.ErrorPayload(err))
}

func (s *server) handleCreate(w http.ResponseWriter, r *http.Request) {
	o, err := s.typ.FromReader(r.Body, true)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if _, err := s.store.create(o); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	raw, err := o.RawJSON(false)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusCreated, raw)
}

func (s *server) handleList(w http.ResponseWriter, _ *http.Request) {
	users, err := s.store.list()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": users, "count": len(users)})
}

func (s *server) handleGet(w http.ResponseWriter, r *http.Request) {
	raw, ok, err := s.store.raw(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if !ok {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, raw)
}

func (s *server) handleReplace(w http.ResponseWriter, r *http.Request) {
	o, err := s.typ.FromReader(r.Body, true)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	raw, ok, err := s.store.replace(r.PathValue("id"), o)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if !ok {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, raw)
}

func (s *server) handlePatch(w http.ResponseWriter, r *http.Request) {
	decoded, err := jsonmodel.ReadJSON(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	fields, isMap := decoded.(map[string]any)
	if !isMap {
		writeError(w, http.StatusBadRequest, jsonmodel.Serializationf("patch body must be an object"))
		return
	}
	raw, ok, err := s.store.patch(r.PathValue("id"), fields)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if !ok {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, raw)
}

func (s *server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if !s.store.remove(r.PathValue("id")) {
		http.NotFound(w, r)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func main() {
	srv := &server{typ: userType(), store: newStore()}

	for _, seed := range []map[string]any{
		{"name": "Taro", "email": "taro@example.com", "age": 30},
		{"name": "Hanako", "email": "hanako@example.com", "age": 25},
	} {
		o, err := srv.typ.New(seed)
		if err != nil {
			log.Fatal(err)
		}
		if _, err := srv.store.create(o); err != nil {
			log.Fatal(err)
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /users", srv.handleCreate)
	mux.HandleFunc("GET /users", srv.handleList)
	mux.HandleFunc("GET /users/{id}", srv.handleGet)
	mux.HandleFunc("PUT /users/{id}", srv.handleReplace)
	mux.HandleFunc("PATCH /users/{id}", srv.handlePatch)
	mux.HandleFunc("DELETE /users/{id}", srv.handleDelete)
	mux.HandleFunc("GET /schema", func(w http.ResponseWriter, _ *http.Request) {
		data, err := jsonmodel.EncodeJSON(srv.typ.Schema())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(data)
	})
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
	})

	log.Println("user api listening on :8080")
	if err := http.ListenAndServe(":8080", mux); err != nil {
		log.Fatal(err)
	}
}
