package handlers

import (
	"mime"
	"net/http"
	"testing"

	"usage-report/internal/model"
)

func TestAttachment(t *testing.T) {
	names := []string{
		"grafico.pdf",
		`entrada_7"x_horas.csv`,
		`entrada_a\b; filename=evil.exe_horas.csv`,
		"entrada_bomba_ção_horas.csv",
	}
	for _, name := range names {
		header := attachment(name)
		disposition, params, err := mime.ParseMediaType(header)
		if err != nil {
			t.Fatalf("attachment(%q) = %q: %v", name, header, err)
		}
		if disposition != "attachment" || params["filename"] != name {
			t.Fatalf("attachment(%q) = %q, parsed filename %q", name, header, params["filename"])
		}
	}
}

func TestStatusFor(t *testing.T) {
	tests := map[model.ErrorKind]int{
		model.KindInvalidInput: http.StatusBadRequest,
		model.KindInvalidRange: http.StatusBadRequest,
		model.KindIO:           http.StatusBadRequest,
		model.KindNoData:       http.StatusUnprocessableEntity,
		model.KindNotFound:     http.StatusNotFound,
		model.KindInternal:     http.StatusInternalServerError,
	}
	for kind, want := range tests {
		if got := statusFor(kind); got != want {
			t.Errorf("statusFor(%s) = %d, want %d", kind, got, want)
		}
	}
}
