package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
)

func TestLogger_WritesStructuredLine(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("api-server", &buf)

	log.Info("order_created", "Order created", "req-1", map[string]interface{}{"items": 2})

	var line map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if line["service"] != "api-server" {
		t.Errorf("service = %v, want api-server", line["service"])
	}
	if line["action"] != "order_created" {
		t.Errorf("action = %v, want order_created", line["action"])
	}
	if line["request_id"] != "req-1" {
		t.Errorf("request_id = %v, want req-1", line["request_id"])
	}
	details, ok := line["details"].(map[string]interface{})
	if !ok || details["items"] != float64(2) {
		t.Errorf("details = %v, want items=2", line["details"])
	}
}

func TestLogger_ErrorIncludesErrorGroup(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("api-server", &buf)

	log.Error("db_query_failed", "Failed", "req-2", errors.New("boom"), nil)

	var line map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	group, ok := line["error"].(map[string]interface{})
	if !ok || group["msg"] != "boom" {
		t.Errorf("error group = %v, want msg=boom", line["error"])
	}
}

func TestGenerateRequestID_Unique(t *testing.T) {
	if GenerateRequestID() == GenerateRequestID() {
		t.Fatal("expected distinct request ids")
	}
}
