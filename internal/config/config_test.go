package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/flavioheleno/ssd1306"
	"periph.io/x/conn/v3/physic"
)

func TestLoadCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if *cfg != *DefaultConfig() {
		t.Errorf("Load() = %+v, want defaults", cfg)
	}

	st, err := os.Stat(path)
	if err != nil {
		t.Fatalf("config file not created: %v", err)
	}
	if st.Mode().Perm() != 0o600 {
		t.Errorf("config perms = %v, want 0600", st.Mode().Perm())
	}
}

func TestLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	want := &Config{
		Bus:            "1",
		Speed:          "1MHz",
		Address:        0x3D,
		Height:         32,
		ChargePump:     "external",
		FlipHorizontal: true,
		DirtyThreshold: 100,
		Refresh:        "*/5 * * * *",
		LogLevel:       "debug",
	}
	if err := want.Save(path); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if *got != *want {
		t.Errorf("Load() = %+v, want %+v", got, want)
	}
}

func TestLoadPartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("height: 32\ncharge_pump: External\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Address != ssd1306.DefaultAddr || cfg.Refresh == "" || cfg.ChargePump != "external" {
		t.Errorf("Load() did not normalize: %+v", cfg)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"bad height", "height: 48\n"},
		{"bad charge pump", "charge_pump: solar\n"},
		{"bad address", "address: 300\n"},
		{"bad speed", "speed: fast\n"},
		{"bad refresh", "refresh: sometimes\n"},
		{"bad log level", "log_level: chatty\n"},
		{"negative threshold", "dirty_threshold: -3\n"},
		{"not yaml", "height: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.yaml), 0o600); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("Load() should fail")
			}
		})
	}
}

func TestLoadEmptyPath(t *testing.T) {
	if _, err := Load(""); err == nil {
		t.Error("Load(\"\") should fail")
	}
	if err := Save("", DefaultConfig()); err == nil {
		t.Error("Save(\"\") should fail")
	}
}

func TestFrequency(t *testing.T) {
	c := DefaultConfig()
	f, err := c.Frequency()
	if err != nil || f != 400*physic.KiloHertz {
		t.Errorf("Frequency() = (%v, %v), want 400kHz", f, err)
	}
	c.Speed = ""
	if f, _ := c.Frequency(); f != 0 {
		t.Errorf("Frequency() with empty speed = %v, want 0", f)
	}
}

func TestOpts(t *testing.T) {
	c := &Config{Height: 32, ChargePump: "external", Address: 0x3D, FlipVertical: true, DirtyThreshold: 50}
	o := c.Opts()
	want := ssd1306.Opts{
		Geometry:       ssd1306.Geometry32,
		ChargePump:     ssd1306.ChargePumpExternal,
		FlipVertical:   true,
		Addr:           0x3D,
		DirtyThreshold: 50,
	}
	if *o != want {
		t.Errorf("Opts() = %+v, want %+v", *o, want)
	}
}
