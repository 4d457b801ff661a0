package ninox

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/bytedance/sonic"

	"github.com/microsievert/dosimetria/internal/domain"
)

func testConfig(baseURL string) Config {
	return Config{
		BaseURL:           baseURL,
		APIToken:          "test-token",
		TeamID:            "team1",
		DatabaseID:        "db1",
		ParticipantsTable: "A",
		ReportTable:       "B",
		PMAsText:          true,
		InsertBatchSize:   2,
		UpdateBatchSize:   2,
	}
}

func TestFetchRecordsPagination(t *testing.T) {
	// Two full pages and a short third one.
	pageSizes := []int{defaultPerPage, defaultPerPage, 3}
	var requests int

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("unexpected auth header %q", got)
		}
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		if offset != requests*defaultPerPage {
			t.Errorf("expected offset %d, got %d", requests*defaultPerPage, offset)
		}

		page := make([]record, pageSizes[requests])
		for i := range page {
			page[i] = record{ID: fmt.Sprintf("r%d", offset+i), Fields: map[string]interface{}{}}
		}
		requests++

		b, _ := sonic.Marshal(page)
		w.Write(b)
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL))
	records, err := c.fetchRecords(context.Background(), "B")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}

	if requests != 3 {
		t.Fatalf("expected 3 page requests, got %d", requests)
	}
	if len(records) != 2*defaultPerPage+3 {
		t.Fatalf("expected %d records, got %d", 2*defaultPerPage+3, len(records))
	}
}

func TestGetJSONRetries(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL))
	var out []record
	if err := c.getJSON(context.Background(), srv.URL, &out); err != nil {
		t.Fatalf("expected retries to recover, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
}

func TestListParticipantsJoinsName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := []record{
			{ID: "1", Fields: map[string]interface{}{
				"NOMBRE":      "ANA",
				"APELLIDO":    "PEREZ",
				"CÉDULA":      "8-123",
				"COMPAÑÍA":    "ACME",
				"DOSIMETRO 1": "WB10",
				"PERIODO 1":   "ENERO 2024",
			}},
		}
		b, _ := sonic.Marshal(page)
		w.Write(b)
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL))
	participants, err := c.ListParticipants(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	if len(participants) != 1 {
		t.Fatalf("expected 1 participant, got %d", len(participants))
	}
	p := participants[0]
	if p.Person.Name != "ANA PEREZ" {
		t.Fatalf("expected joined name, got %q", p.Person.Name)
	}
	if p.Slots[0].DosimeterCode != "WB10" || p.Slots[0].PeriodLabel != "ENERO 2024" {
		t.Fatalf("unexpected slot: %+v", p.Slots[0])
	}
	if p.Slots[1].DosimeterCode != "" {
		t.Fatalf("expected empty slot 2, got %+v", p.Slots[1])
	}
}

func TestInsertDoseRecordsPartialSuccess(t *testing.T) {
	var posts int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			// Table introspection: expose every field except Hp(3).
			w.Write([]byte(`[{"id":"B","fields":[
				{"name":"PERIODO DE LECTURA"},{"name":"COMPAÑÍA"},
				{"name":"CÓDIGO DE DOSÍMETRO"},{"name":"NOMBRE"},
				{"name":"CÉDULA"},{"name":"FECHA DE LECTURA"},
				{"name":"TIPO DE DOSÍMETRO"},{"name":"Hp (10)"},{"name":"Hp (0.07)"}
			]}]`))
			return
		}
		posts++
		if posts == 2 {
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("boom"))
			return
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL))
	records := []domain.DoseRecord{
		{DosimeterCode: "WB1", Hp10: domain.NumericFloat(0.1)},
		{DosimeterCode: "WB2", Hp10: domain.NumericFloat(0.2)},
		{DosimeterCode: "WB3", Hp10: domain.PM()},
	}

	res, err := c.InsertDoseRecords(context.Background(), records)
	if err == nil {
		t.Fatal("expected the second chunk to fail")
	}

	var be *BatchError
	if !errors.As(err, &be) {
		t.Fatalf("expected BatchError, got %v", err)
	}
	if res.Inserted != 2 || res.Total != 3 {
		t.Fatalf("expected 2 of 3 inserted, got %d of %d", res.Inserted, res.Total)
	}
	if len(res.SkippedFields) != 1 || res.SkippedFields[0] != "Hp (3)" {
		t.Fatalf("expected Hp (3) skipped, got %v", res.SkippedFields)
	}
}

func TestUpdateAccumulationsChunks(t *testing.T) {
	var posts int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			w.Write([]byte(`[]`))
			return
		}
		posts++
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL))
	updates := []domain.AccumulationUpdate{
		{RecordID: "1"}, {RecordID: "2"}, {RecordID: "3"},
	}

	res, err := c.UpdateAccumulations(context.Background(), updates)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if res.Updated != 3 || res.Total != 3 {
		t.Fatalf("expected 3 of 3 updated, got %d of %d", res.Updated, res.Total)
	}
	if posts != 2 {
		t.Fatalf("expected 2 chunks with batch size 2, got %d", posts)
	}
}
