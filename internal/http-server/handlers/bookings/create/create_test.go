package create_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"hebron-schedule/api"
	"hebron-schedule/internal/http-server/handlers/bookings/create"
	"hebron-schedule/pkg/response"
)

type stubCreator struct {
	resp *api.BookingResponse
	err  error
	got  *api.BookingRequest
}

func (s *stubCreator) CreateBooking(_ context.Context, req *api.BookingRequest) (*api.BookingResponse, error) {
	s.got = req
	return s.resp, s.err
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func doRequest(t *testing.T, handler http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/bookings", bytes.NewReader([]byte(body)))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	return rr
}

func TestCreateHandler(t *testing.T) {
	creator := &stubCreator{resp: &api.BookingResponse{
		ID:     "b1",
		Role:   "Prayer",
		Date:   "2026-03-02",
		Status: "Booked",
	}}
	handler := create.New(discardLogger(), creator)

	rr := doRequest(t, handler, `{"full_name":"John Smith","role":"Prayer","date":"2026-03-02"}`)

	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusCreated)
	}

	var got api.BookingResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if got.ID != "b1" {
		t.Errorf("id = %q, want b1", got.ID)
	}

	if creator.got == nil || creator.got.FullName != "John Smith" {
		t.Errorf("creator received %+v", creator.got)
	}
}

func TestCreateHandlerErrors(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", response.ErrValidation, http.StatusBadRequest, "VALIDATION_FAILED"},
		{"slot taken", response.ErrSlotTaken, http.StatusConflict, "SLOT_TAKEN"},
		{"duplicate", response.ErrDuplicateBooking, http.StatusConflict, "DUPLICATE_BOOKING"},
		{"internal", io.ErrUnexpectedEOF, http.StatusInternalServerError, "REQUEST_FAILED"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler := create.New(discardLogger(), &stubCreator{err: tc.err})

			rr := doRequest(t, handler, `{"full_name":"John Smith","role":"Prayer","date":"2026-03-02"}`)

			if rr.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", rr.Code, tc.wantStatus)
			}

			var got response.Response
			if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
				t.Fatalf("decoding body: %v", err)
			}
			if got.Code != tc.wantCode {
				t.Errorf("error code = %q, want %q", got.Code, tc.wantCode)
			}
		})
	}
}

func TestCreateHandlerBadJSON(t *testing.T) {
	handler := create.New(discardLogger(), &stubCreator{})

	rr := doRequest(t, handler, `{not json`)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
}
