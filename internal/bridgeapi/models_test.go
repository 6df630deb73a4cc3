package bridgeapi

import (
	"strings"
	"testing"
)

const sampleConfigJSON = `{
	"name": "Philips hue",
	"bridgeid": "ECB5FAFFFE123456",
	"modelid": "BSB002",
	"swversion": "1967054020",
	"apiversion": "1.61.0",
	"mac": "ec:b5:fa:12:34:56",
	"factorynew": false,
	"replacesbridgeid": "",
	"datastoreversion": "172"
}`

func TestParseConfig(t *testing.T) {
	config, err := ParseConfig([]byte(sampleConfigJSON))
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}

	if config.Name != "Philips hue" {
		t.Errorf("Name = %q, want %q", config.Name, "Philips hue")
	}
	if config.BridgeID != "ECB5FAFFFE123456" {
		t.Errorf("BridgeID = %q, want %q", config.BridgeID, "ECB5FAFFFE123456")
	}
	if config.ModelID != "BSB002" {
		t.Errorf("ModelID = %q, want %q", config.ModelID, "BSB002")
	}
	if config.APIVersion != "1.61.0" {
		t.Errorf("APIVersion = %q, want %q", config.APIVersion, "1.61.0")
	}
	if config.FactoryNew {
		t.Error("FactoryNew = true, want false")
	}
}

func TestParseConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", "<html>router admin page</html>"},
		{"truncated", `{"name": "Phil`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.data))
			if err == nil {
				t.Fatal("ParseConfig() error = nil, want parse error")
			}
			bridgeErr, ok := err.(*BridgeError)
			if !ok {
				t.Fatalf("ParseConfig() error type = %T, want *BridgeError", err)
			}
			if bridgeErr.Type != ErrTypeParse {
				t.Errorf("error Type = %v, want %v", bridgeErr.Type, ErrTypeParse)
			}
		})
	}
}

func TestConfig_IsBridge(t *testing.T) {
	tests := []struct {
		name   string
		config *Config
		want   bool
	}{
		{"with bridgeid", &Config{BridgeID: "ECB5FAFFFE123456"}, true},
		{"empty bridgeid", &Config{Name: "something"}, false},
		{"nil config", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.config.IsBridge(); got != tt.want {
				t.Errorf("IsBridge() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConfig_Summary(t *testing.T) {
	config, err := ParseConfig([]byte(sampleConfigJSON))
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}

	summary := config.Summary()
	for _, want := range []string{"Philips hue", "ECB5FAFFFE123456", "BSB002"} {
		if !strings.Contains(summary, want) {
			t.Errorf("Summary() = %q, want it to contain %q", summary, want)
		}
	}
}
