package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestTextFormatter(t *testing.T) {
	formatter := &TextFormatter{}
	data := "test message"

	output, err := formatter.Format(data)
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	expected := "test message\n"
	if string(output) != expected {
		t.Errorf("Format() = %q, want %q", string(output), expected)
	}
}

func TestTextFormatterWriter(t *testing.T) {
	formatter := &TextFormatter{}
	data := "test message"
	buf := &bytes.Buffer{}

	err := formatter.FormatTo(buf, data)
	if err != nil {
		t.Fatalf("FormatTo() error = %v", err)
	}

	expected := "test message\n"
	if buf.String() != expected {
		t.Errorf("FormatTo() = %q, want %q", buf.String(), expected)
	}
}

func TestJSONFormatter(t *testing.T) {
	tests := []struct {
		name   string
		data   interface{}
		indent bool
	}{
		{
			name:   "simple string",
			data:   "test",
			indent: false,
		},
		{
			name: "map with indent",
			data: map[string]string{
				"key": "value",
			},
			indent: true,
		},
		{
			name: "struct",
			data: struct {
				Name  string `json:"name"`
				Value int    `json:"value"`
			}{
				Name:  "test",
				Value: 42,
			},
			indent: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			formatter := &JSONFormatter{Indent: tt.indent}
			output, err := formatter.Format(tt.data)
			if err != nil {
				t.Fatalf("Format() error = %v", err)
			}

			// Verify it's valid JSON by unmarshaling
			var result interface{}
			if err := json.Unmarshal(output, &result); err != nil {
				t.Errorf("Format() produced invalid JSON: %v", err)
			}
		})
	}
}

func TestJSONFormatterWriter(t *testing.T) {
	formatter := &JSONFormatter{Indent: true}
	data := map[string]string{"test": "value"}
	buf := &bytes.Buffer{}

	err := formatter.FormatTo(buf, data)
	if err != nil {
		t.Fatalf("FormatTo() error = %v", err)
	}

	// Verify valid JSON
	var result map[string]string
	if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
		t.Errorf("FormatTo() produced invalid JSON: %v", err)
	}

	if result["test"] != "value" {
		t.Errorf("FormatTo() = %v, want %v", result, data)
	}
}

func TestYAMLFormatter(t *testing.T) {
	data := struct {
		Listen  string        `yaml:"listen_address"`
		Timeout time.Duration `yaml:"shutdown_timeout"`
		Routes  []string      `yaml:"routes"`
	}{
		Listen:  "127.0.0.1:8000",
		Timeout: 30 * time.Second,
		Routes:  []string{"/chat"},
	}

	output, err := (&YAMLFormatter{}).Format(data)
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	for _, line := range []string{"listen_address: 127.0.0.1:8000", "shutdown_timeout: 30s", "  - /chat"} {
		if !strings.Contains(string(output), line+"\n") {
			t.Errorf("Format() output missing %q:\n%s", line, output)
		}
	}
}

func TestNewFormatter(t *testing.T) {
	tests := []struct {
		name   string
		format OutputFormat
		want   string
	}{
		{
			name:   "text formatter",
			format: FormatText,
			want:   "*cli.TextFormatter",
		},
		{
			name:   "json formatter",
			format: FormatJSON,
			want:   "*cli.JSONFormatter",
		},
		{
			name:   "yaml formatter",
			format: FormatYAML,
			want:   "*cli.YAMLFormatter",
		},
		{
			name:   "default to text",
			format: "unknown",
			want:   "*cli.TextFormatter",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			formatter := NewFormatter(tt.format)
			got := fmt.Sprintf("%T", formatter)
			if got != tt.want {
				t.Errorf("NewFormatter(%q) type = %v, want %v", tt.format, got, tt.want)
			}
		})
	}
}

func TestParseOutputFormat(t *testing.T) {
	for _, valid := range []string{"text", "json", "yaml"} {
		if _, err := ParseOutputFormat(valid); err != nil {
			t.Errorf("ParseOutputFormat(%q) error = %v", valid, err)
		}
	}
	if _, err := ParseOutputFormat("csv"); err == nil {
		t.Error("ParseOutputFormat(csv) expected error")
	}
}
