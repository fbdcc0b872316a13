package dispatch

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func newTestHandler() *Handler {
	svc, _ := newTestService()
	return NewHandler(svc)
}

func doSend(t *testing.T, h *Handler, body, key string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/dispatch-requests", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if key != "" {
		req.Header.Set("Idempotency-Key", key)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Send(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestHandlerSend_RetryWithSameKeyReturnsSameRequest(t *testing.T) {
	h := newTestHandler()
	body := `{"ambulance_id":"A1","hospital_id":"H1","patient_id":"P1"}`
	key := uuid.NewString()

	first := doSend(t, h, body, key)
	if first.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", first.Code, first.Body.String())
	}
	second := doSend(t, h, body, key)
	if second.Code != http.StatusCreated {
		t.Fatalf("retry status = %d, body %s", second.Code, second.Body.String())
	}

	var a, b Request
	if err := json.Unmarshal(first.Body.Bytes(), &a); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(second.Body.Bytes(), &b); err != nil {
		t.Fatal(err)
	}
	if a.ID != b.ID {
		t.Errorf("retry returned a different request: %s vs %s", a.ID, b.ID)
	}
}

func TestHandlerSend_ErrorMapping(t *testing.T) {
	h := newTestHandler()

	if rec := doSend(t, h, `{"ambulance_id":"A1","hospital_id":"H1","patient_id":"P1"}`, "not-a-uuid"); rec.Code != http.StatusBadRequest {
		t.Errorf("bad key: status = %d, want 400", rec.Code)
	}
	if rec := doSend(t, h, `{"ambulance_id":"A9","hospital_id":"H1","patient_id":"P1"}`, ""); rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("unknown ambulance: status = %d, want 422", rec.Code)
	}

	body := `{"ambulance_id":"A1","hospital_id":"H1","patient_id":"P1"}`
	if rec := doSend(t, h, body, ""); rec.Code != http.StatusCreated {
		t.Fatalf("first send failed: %d", rec.Code)
	}
	if rec := doSend(t, h, body, ""); rec.Code != http.StatusConflict {
		t.Errorf("duplicate pending: status = %d, want 409", rec.Code)
	}
}

func TestHandlerResolve_ErrorMapping(t *testing.T) {
	svc, _ := newTestService()
	h := NewHandler(svc)
	e := echo.New()

	sent := send(t, svc, "H1", "P1", uuid.New())

	resolve := func(id, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues(id)
		if err := h.Resolve(c); err != nil {
			e.HTTPErrorHandler(err, c)
		}
		return rec
	}

	if rec := resolve(uuid.NewString(), `{"status":"accepted"}`); rec.Code != http.StatusNotFound {
		t.Errorf("unknown id: status = %d, want 404", rec.Code)
	}
	if rec := resolve(sent.ID.String(), `{"status":"accepted"}`); rec.Code != http.StatusOK {
		t.Fatalf("resolve: status = %d", rec.Code)
	}
	if rec := resolve(sent.ID.String(), `{"status":"declined"}`); rec.Code != http.StatusConflict {
		t.Errorf("second resolve: status = %d, want 409", rec.Code)
	}
}
