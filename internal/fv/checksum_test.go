package fv

import (
	"strings"
	"testing"
)

func TestChecksum(t *testing.T) {
	tests := []struct {
		name      string
		algorithm string
		content   string
		want      string
	}{
		{
			name:      "sha256 of hello",
			algorithm: "sha256",
			content:   "hello",
			want:      "sha256:2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824",
		},
		{
			name:      "sha256 of empty input",
			algorithm: "sha256",
			content:   "",
			want:      "sha256:e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Checksum(strings.NewReader(tt.content), tt.algorithm)
			if err != nil {
				t.Fatalf("Checksum() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Checksum() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestChecksum_LargeInput(t *testing.T) {
	// Larger than one read buffer, exercising the chunked copy.
	content := strings.Repeat("x", checksumChunkSize*3+17)

	got, err := Checksum(strings.NewReader(content), DefaultChecksumAlgorithm)
	if err != nil {
		t.Fatalf("Checksum() error: %v", err)
	}

	if !strings.HasPrefix(got, "sha256:") {
		t.Errorf("Checksum() = %q, want sha256 prefix", got)
	}
	if len(got) != len("sha256:")+64 {
		t.Errorf("Checksum() digest length = %d, want 64 hex chars", len(got)-len("sha256:"))
	}

	// Same input produces the same digest.
	again, err := Checksum(strings.NewReader(content), DefaultChecksumAlgorithm)
	if err != nil {
		t.Fatalf("Checksum() error: %v", err)
	}
	if got != again {
		t.Errorf("Checksum() not deterministic: %q vs %q", got, again)
	}
}

func TestChecksum_SHA512(t *testing.T) {
	got, err := Checksum(strings.NewReader("hello"), "sha512")
	if err != nil {
		t.Fatalf("Checksum() error: %v", err)
	}

	if !strings.HasPrefix(got, "sha512:") {
		t.Errorf("Checksum() = %q, want sha512 prefix", got)
	}
	if len(got) != len("sha512:")+128 {
		t.Errorf("Checksum() digest length = %d, want 128 hex chars", len(got)-len("sha512:"))
	}
}

func TestChecksum_UnsupportedAlgorithm(t *testing.T) {
	_, err := Checksum(strings.NewReader("data"), "md5")
	if err == nil {
		t.Error("Checksum() expected error for unsupported algorithm, got nil")
	}
}
