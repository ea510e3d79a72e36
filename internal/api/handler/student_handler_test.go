package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/rosterhq/roster-api/internal/core/domain"
	"github.com/rosterhq/roster-api/internal/core/ports"
)

type stubStudentService struct {
	createFn func(ctx context.Context, input ports.StudentInput) (*domain.Student, error)
	getFn    func(ctx context.Context, id string) (*domain.Student, error)
	listFn   func(ctx context.Context) ([]*domain.Student, error)
	deleteFn func(ctx context.Context, id string) error
}

func (s *stubStudentService) Create(ctx context.Context, input ports.StudentInput) (*domain.Student, error) {
	return s.createFn(ctx, input)
}

func (s *stubStudentService) Get(ctx context.Context, id string) (*domain.Student, error) {
	return s.getFn(ctx, id)
}

func (s *stubStudentService) List(ctx context.Context) ([]*domain.Student, error) {
	return s.listFn(ctx)
}

func (s *stubStudentService) Update(ctx context.Context, id string, input ports.StudentInput) (*domain.Student, error) {
	return nil, domain.ErrStudentNotFound
}

func (s *stubStudentService) Delete(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

const validStudent = `{"name":"Maria Lopez","age":21,"sex":"F","email":"maria@example.com","phone":"555-0101","address":"12 Elm St","major":"Systems Engineering"}`

func newStudentContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestStudentHandler_Create_Success(t *testing.T) {
	stub := &stubStudentService{
		createFn: func(_ context.Context, input ports.StudentInput) (*domain.Student, error) {
			if input.Email != "maria@example.com" || input.Age != 21 {
				t.Fatalf("unexpected input: %+v", input)
			}
			return &domain.Student{ID: "1", Name: input.Name, Email: input.Email}, nil
		},
	}
	h := NewStudentHandler(stub)

	c, rec := newStudentContext(t, http.MethodPost, "/students", validStudent)
	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["id"] != "1" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestStudentHandler_Create_ValidationFailure(t *testing.T) {
	stub := &stubStudentService{
		createFn: func(context.Context, ports.StudentInput) (*domain.Student, error) {
			t.Fatalf("service should not be called")
			return nil, nil
		},
	}
	h := NewStudentHandler(stub)

	for _, body := range []string{
		`{"name":"Maria"}`,
		`{"name":"Maria","age":3,"sex":"F","email":"maria@example.com","phone":"p","address":"a","major":"m"}`,
		`{"name":"Maria","age":21,"sex":"F","email":"not-an-email","phone":"p","address":"a","major":"m"}`,
	} {
		c, _ := newStudentContext(t, http.MethodPost, "/students", body)
		err := h.Create(c)

		var he *echo.HTTPError
		if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
			t.Fatalf("body %q: expected 400 HTTPError, got %v", body, err)
		}
	}
}

func TestStudentHandler_Get_NotFound(t *testing.T) {
	stub := &stubStudentService{
		getFn: func(_ context.Context, id string) (*domain.Student, error) {
			return nil, domain.ErrStudentNotFound
		},
	}
	h := NewStudentHandler(stub)

	c, _ := newStudentContext(t, http.MethodGet, "/students/999", "")
	c.SetParamNames("id")
	c.SetParamValues("999")

	if err := h.Get(c); !errors.Is(err, domain.ErrStudentNotFound) {
		t.Fatalf("expected ErrStudentNotFound, got %v", err)
	}
}

func TestStudentHandler_List_EmptyIsArray(t *testing.T) {
	stub := &stubStudentService{
		listFn: func(context.Context) ([]*domain.Student, error) {
			return nil, nil
		},
	}
	h := NewStudentHandler(stub)

	c, rec := newStudentContext(t, http.MethodGet, "/students", "")
	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "[]" {
		t.Fatalf("expected empty array, got %q", got)
	}
}

func TestStudentHandler_Delete(t *testing.T) {
	stub := &stubStudentService{
		deleteFn: func(_ context.Context, id string) error {
			if id != "1" {
				return domain.ErrStudentNotFound
			}
			return nil
		},
	}
	h := NewStudentHandler(stub)

	c, rec := newStudentContext(t, http.MethodDelete, "/students/1", "")
	c.SetParamNames("id")
	c.SetParamValues("1")
	if err := h.Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
}
