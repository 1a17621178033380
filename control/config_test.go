package control

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFileYAML(t *testing.T) {
	content := `
pool:
  workers: 6
  cpu_affinity: true
  id: batch
metrics:
  enabled: true
  namespace: test
  listen_addr: 127.0.0.1:0
demo:
  jobs: 3
  job_duration: 10ms
  pause: 5ms
  second_wave: 2
`
	path := filepath.Join(t.TempDir(), "pool.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.WorkerCount() != 6 {
		t.Errorf("expected 6 workers, got %d", cfg.WorkerCount())
	}
	if !cfg.Pool.CPUAffinity || cfg.Pool.ID != "batch" {
		t.Errorf("unexpected pool section: %+v", cfg.Pool)
	}
	if !cfg.Metrics.Enabled || cfg.Metrics.Namespace != "test" {
		t.Errorf("unexpected metrics section: %+v", cfg.Metrics)
	}
	if cfg.Demo.JobDurationValue() != 10*time.Millisecond {
		t.Errorf("expected 10ms job duration, got %v", cfg.Demo.JobDurationValue())
	}
	if cfg.Demo.PauseValue() != 5*time.Millisecond {
		t.Errorf("expected 5ms pause, got %v", cfg.Demo.PauseValue())
	}
	if len(cfg.PoolOptions()) != 2 {
		t.Errorf("expected 2 pool options, got %d", len(cfg.PoolOptions()))
	}
}

func TestLoadFileJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pool.json")
	if err := os.WriteFile(path, []byte(`{"pool": {"workers": 2}}`), 0644); err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Pool.Workers != 2 {
		t.Errorf("expected 2 workers, got %d", cfg.Pool.Workers)
	}
	if cfg.Demo.Jobs != DefaultConfig().Demo.Jobs {
		t.Errorf("expected default demo jobs to survive partial file, got %d", cfg.Demo.Jobs)
	}
}

func TestLoadFileJSONNested(t *testing.T) {
	content := `{
  "pool": {"workers": 3, "cpu_affinity": true, "id": "json-pool"},
  "metrics": {"enabled": true, "namespace": "jsontest"},
  "demo": {"jobs": 4, "job_duration": "20ms", "pause": "1ms", "second_wave": 1}
}`
	path := filepath.Join(t.TempDir(), "pool.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if !cfg.Pool.CPUAffinity || cfg.Pool.ID != "json-pool" {
		t.Errorf("unexpected pool section: %+v", cfg.Pool)
	}
	if !cfg.Metrics.Enabled || cfg.Metrics.Namespace != "jsontest" {
		t.Errorf("unexpected metrics section: %+v", cfg.Metrics)
	}
	if cfg.Metrics.ListenAddr != DefaultConfig().Metrics.ListenAddr {
		t.Errorf("expected default listen address, got %q", cfg.Metrics.ListenAddr)
	}
	if cfg.Demo.JobDurationValue() != 20*time.Millisecond || cfg.Demo.SecondWave != 1 {
		t.Errorf("unexpected demo section: %+v", cfg.Demo)
	}
}

func TestLoadFileJSONMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pool.json")
	if err := os.WriteFile(path, []byte(`{"pool": {"workers": 2`), 0644); err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Error("expected error for malformed JSON")
	}
}

func TestLoadFileErrors(t *testing.T) {
	if _, err := LoadFile("/nonexistent/pool.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
	path := filepath.Join(t.TempDir(), "pool.toml")
	_ = os.WriteFile(path, []byte("x"), 0644)
	if _, err := LoadFile(path); err == nil {
		t.Error("expected error for unsupported extension")
	}
}

func TestParseValidation(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr bool
	}{
		{"defaults", ``, false},
		{"zero workers means auto", "pool:\n  workers: 0\n", false},
		{"negative workers", "pool:\n  workers: -1\n", true},
		{"negative jobs", "demo:\n  jobs: -3\n", true},
		{"bad duration", "demo:\n  job_duration: soon\n", true},
		{"negative pause", "demo:\n  pause: -1s\n", true},
		{"metrics without addr", "metrics:\n  enabled: true\n  listen_addr: \"\"\n", true},
		{"malformed yaml", "pool: [", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if (err != nil) != tt.wantErr {
				t.Errorf("Parse() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestWorkerCountAuto(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Pool.Workers = 0
	if cfg.WorkerCount() < 1 {
		t.Errorf("expected auto worker count >= 1, got %d", cfg.WorkerCount())
	}
}
