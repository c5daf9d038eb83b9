package ai

import (
	"encoding/json"
	"errors"
	"testing"

	apperrors "github.com/johnquangdev/meeting-ai/errors"
)

func TestRepairJSON_FencedBlock(t *testing.T) {
	data, err := RepairJSON("```json\n{\"a\": 1}\n```")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var m map[string]int
	if err := json.Unmarshal(data, &m); err != nil || m["a"] != 1 {
		t.Fatalf("unexpected result %s", data)
	}
}

func TestRepairJSON_BareFencedArray(t *testing.T) {
	data, err := RepairJSON("```\n[1, 2, 3]\n```")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var arr []int
	if err := json.Unmarshal(data, &arr); err != nil || len(arr) != 3 {
		t.Fatalf("unexpected result %s", data)
	}
}

func TestRepairJSON_ProseAroundObject(t *testing.T) {
	data, err := RepairJSON(`Sure! Here is the JSON you asked for: {"ok": true} hope that helps.`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var m map[string]bool
	if err := json.Unmarshal(data, &m); err != nil || !m["ok"] {
		t.Fatalf("unexpected result %s", data)
	}
}

func TestRepairJSON_TruncatedString(t *testing.T) {
	data, err := RepairJSON(`{"a": "b`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil || m["a"] != "b" {
		t.Fatalf("unexpected result %s", data)
	}
}

func TestRepairJSON_TruncatedNested(t *testing.T) {
	data, err := RepairJSON(`{"items": [{"x": 1}, {"y":`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !json.Valid(data) {
		t.Fatalf("repair produced invalid JSON: %s", data)
	}
}

func TestRepairJSON_UnrecoverableIsMalformedOutput(t *testing.T) {
	_, err := RepairJSON("the meeting went well, thanks for asking")
	if err == nil {
		t.Fatal("expected error for non-JSON output")
	}
	var appErr apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %T", err)
	}
	if appErr.Code != apperrors.ErrorCode_MALFORMED_OUTPUT {
		t.Fatalf("unexpected code %v", appErr.Code)
	}
}
