package db

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestPoolStats_JSON(t *testing.T) {
	stats := &PoolStats{
		TotalConns:    10,
		IdleConns:     5,
		AcquiredConns: 5,
		MaxConns:      20,
		WaitDuration:  "1.5s",
	}

	out, err := json.Marshal(stats)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, want := range []string{`"total_conns":10`, `"idle_conns":5`, `"max_conns":20`, `"wait_duration":"1.5s"`} {
		if !strings.Contains(string(out), want) {
			t.Errorf("stats JSON missing %s: %s", want, out)
		}
	}
}
